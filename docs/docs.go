// Package docs holds the Swagger document served at /swagger/*.
// Regenerate with: swag init -g cmd/server/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
	"schemes": {{ marshal .Schemes }},
	"swagger": "2.0",
	"info": {
		"description": "{{escape .Description}}",
		"title": "{{.Title}}",
		"contact": {},
		"version": "{{.Version}}"
	},
	"host": "{{.Host}}",
	"basePath": "{{.BasePath}}",
	"paths": {
		"/api/user/testAPI": {
			"get": {
				"tags": [
					"auth"
				],
				"summary": "Auth route probe",
				"produces": [
					"text/plain"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "string"
						}
					}
				}
			}
		},
		"/api/user/register": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Register a new user",
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "User registration details",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/ports.RegisterInput"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.registerResponse"
						}
					},
					"400": {
						"description": "",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					},
					"500": {
						"description": "",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/user/login": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Login",
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Login credentials",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/ports.LoginInput"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.loginResponse"
						}
					},
					"400": {
						"description": "",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					},
					"401": {
						"description": "",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					},
					"429": {
						"description": "",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/courses/": {
			"get": {
				"tags": [
					"courses"
				],
				"summary": "List all courses",
				"produces": [
					"application/json"
				],
				"security": [
					{
						"JWTAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/domain.CourseView"
							}
						}
					},
					"401": {
						"description": "",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					},
					"500": {
						"description": "",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					}
				}
			},
			"post": {
				"tags": [
					"courses"
				],
				"summary": "Upload a new course",
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"security": [
					{
						"JWTAuth": []
					}
				],
				"parameters": [
					{
						"description": "Course details",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/ports.CourseInput"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.createCourseResponse"
						}
					},
					"400": {
						"description": "",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					},
					"401": {
						"description": "",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					},
					"500": {
						"description": "",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/courses/instructor/{id}": {
			"get": {
				"tags": [
					"courses"
				],
				"summary": "List the courses of an instructor",
				"produces": [
					"application/json"
				],
				"security": [
					{
						"JWTAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Instructor id",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/domain.CourseView"
							}
						}
					},
					"401": {
						"description": "",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					},
					"500": {
						"description": "",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/courses/student/{id}": {
			"get": {
				"tags": [
					"courses"
				],
				"summary": "List the courses a student is enrolled in",
				"produces": [
					"application/json"
				],
				"security": [
					{
						"JWTAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Student id",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/domain.CourseView"
							}
						}
					},
					"401": {
						"description": "",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					},
					"500": {
						"description": "",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/courses/findByTitle/{title}": {
			"get": {
				"tags": [
					"courses"
				],
				"summary": "Find courses by exact title",
				"produces": [
					"application/json"
				],
				"security": [
					{
						"JWTAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Course title",
						"name": "title",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/domain.CourseView"
							}
						}
					},
					"401": {
						"description": "",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					},
					"500": {
						"description": "",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/courses/enroll/{id}": {
			"post": {
				"tags": [
					"courses"
				],
				"summary": "Enroll the caller in a course",
				"produces": [
					"text/plain"
				],
				"security": [
					{
						"JWTAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Course id",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "string"
						}
					},
					"400": {
						"description": "",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					},
					"401": {
						"description": "",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					},
					"500": {
						"description": "",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/courses/{id}": {
			"get": {
				"tags": [
					"courses"
				],
				"summary": "Get a course by id",
				"produces": [
					"application/json"
				],
				"security": [
					{
						"JWTAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Course id",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/domain.CourseView"
						}
					},
					"401": {
						"description": "",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					},
					"404": {
						"description": "",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					},
					"500": {
						"description": "",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					}
				}
			},
			"patch": {
				"tags": [
					"courses"
				],
				"summary": "Edit a course",
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"security": [
					{
						"JWTAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Course id",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Fields to change",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/ports.CoursePatch"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.updateCourseResponse"
						}
					},
					"400": {
						"description": "",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					},
					"401": {
						"description": "",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					},
					"403": {
						"description": "",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					},
					"500": {
						"description": "",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					}
				}
			},
			"delete": {
				"tags": [
					"courses"
				],
				"summary": "Delete a course",
				"produces": [
					"text/plain"
				],
				"security": [
					{
						"JWTAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Course id",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "string"
						}
					},
					"400": {
						"description": "",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					},
					"401": {
						"description": "",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					},
					"403": {
						"description": "",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					},
					"500": {
						"description": "",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					}
				}
			}
		},
		"/health/ready": {
			"get": {
				"tags": [
					"health"
				],
				"summary": "Readiness probe",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.readinessResponse"
						}
					},
					"503": {
						"description": "Service Unavailable",
						"schema": {
							"$ref": "#/definitions/handler.readinessResponse"
						}
					}
				}
			}
		}
	},
	"definitions": {
		"domain.User": {
			"type": "object",
			"properties": {
				"_id": {
					"type": "string"
				},
				"username": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"role": {
					"type": "string"
				},
				"createdAt": {
					"type": "string"
				},
				"updatedAt": {
					"type": "string"
				}
			}
		},
		"domain.Course": {
			"type": "object",
			"properties": {
				"_id": {
					"type": "string"
				},
				"title": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"price": {
					"type": "number"
				},
				"instructor": {
					"type": "string"
				},
				"students": {
					"type": "array",
					"items": {
						"type": "string"
					}
				}
			}
		},
		"domain.InstructorRef": {
			"type": "object",
			"properties": {
				"_id": {
					"type": "string"
				},
				"username": {
					"type": "string"
				},
				"email": {
					"type": "string"
				}
			}
		},
		"domain.CourseView": {
			"type": "object",
			"properties": {
				"_id": {
					"type": "string"
				},
				"title": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"price": {
					"type": "number"
				},
				"instructor": {
					"$ref": "#/definitions/domain.InstructorRef"
				},
				"students": {
					"type": "array",
					"items": {
						"type": "string"
					}
				}
			}
		},
		"ports.RegisterInput": {
			"type": "object",
			"required": [
				"email",
				"password",
				"role",
				"username"
			],
			"properties": {
				"username": {
					"type": "string",
					"maxLength": 50,
					"minLength": 3
				},
				"email": {
					"type": "string",
					"maxLength": 50,
					"minLength": 6
				},
				"password": {
					"type": "string",
					"maxLength": 255,
					"minLength": 6
				},
				"role": {
					"type": "string",
					"enum": [
						"instructor",
						"student"
					]
				}
			}
		},
		"ports.LoginInput": {
			"type": "object",
			"required": [
				"email",
				"password"
			],
			"properties": {
				"email": {
					"type": "string",
					"maxLength": 50,
					"minLength": 6
				},
				"password": {
					"type": "string",
					"maxLength": 255,
					"minLength": 6
				}
			}
		},
		"ports.CourseInput": {
			"type": "object",
			"required": [
				"description",
				"price",
				"title"
			],
			"properties": {
				"title": {
					"type": "string",
					"maxLength": 50
				},
				"description": {
					"type": "string",
					"maxLength": 1000
				},
				"price": {
					"type": "number",
					"maximum": 9999,
					"minimum": 10
				}
			}
		},
		"ports.CoursePatch": {
			"type": "object",
			"properties": {
				"title": {
					"type": "string",
					"maxLength": 50
				},
				"description": {
					"type": "string",
					"maxLength": 1000
				},
				"price": {
					"type": "number",
					"maximum": 9999,
					"minimum": 10
				}
			}
		},
		"handler.ErrorResponse": {
			"type": "object",
			"properties": {
				"error": {
					"type": "string"
				}
			}
		},
		"handler.registerResponse": {
			"type": "object",
			"properties": {
				"message": {
					"type": "string"
				},
				"savedUser": {
					"$ref": "#/definitions/domain.User"
				}
			}
		},
		"handler.loginResponse": {
			"type": "object",
			"properties": {
				"message": {
					"type": "string"
				},
				"token": {
					"type": "string"
				},
				"user": {
					"$ref": "#/definitions/domain.User"
				}
			}
		},
		"handler.createCourseResponse": {
			"type": "object",
			"properties": {
				"message": {
					"type": "string"
				},
				"savedCourse": {
					"$ref": "#/definitions/domain.Course"
				}
			}
		},
		"handler.updateCourseResponse": {
			"type": "object",
			"properties": {
				"message": {
					"type": "string"
				},
				"updatedCourse": {
					"$ref": "#/definitions/domain.Course"
				}
			}
		},
		"handler.dependencyStatus": {
			"type": "object",
			"properties": {
				"status": {
					"type": "string"
				},
				"error": {
					"type": "string"
				}
			}
		},
		"handler.readinessResponse": {
			"type": "object",
			"properties": {
				"status": {
					"type": "string"
				},
				"dependencies": {
					"type": "object",
					"additionalProperties": {
						"$ref": "#/definitions/handler.dependencyStatus"
					}
				}
			}
		}
	},
	"securityDefinitions": {
		"JWTAuth": {
			"description": "Token returned by /api/user/login, sent as \"JWT <token>\".",
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Course Marketplace API",
	Description:      "Instructors publish courses, students enroll in them.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
