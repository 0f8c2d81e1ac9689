package ports

import (
	"context"

	"github.com/edumarket/course-api/internal/core/domain"
)

// CourseInput is the course schema used on creation and to re-check a course
// after a patch has been applied.
type CourseInput struct {
	Title       string  `json:"title"       validate:"required,max=50"`
	Description string  `json:"description" validate:"required,max=1000"`
	Price       float64 `json:"price"       validate:"required,min=10,max=9999"`
}

// CoursePatch carries the fields of a partial course edit.
type CoursePatch struct {
	Title       *string  `json:"title"       validate:"omitempty,max=50"`
	Description *string  `json:"description" validate:"omitempty,max=1000"`
	Price       *float64 `json:"price"       validate:"omitempty,min=10,max=9999"`
}

// Empty reports whether the patch sets no field.
func (p CoursePatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Price == nil
}

// CourseService defines the course use cases. Every call acts on behalf of an
// authenticated identity.
type CourseService interface {
	List(ctx context.Context) ([]domain.CourseView, error)
	ListByInstructor(ctx context.Context, instructorID string) ([]domain.CourseView, error)
	ListByStudent(ctx context.Context, studentID string) ([]domain.CourseView, error)
	FindByTitle(ctx context.Context, title string) ([]domain.CourseView, error)
	FindByID(ctx context.Context, id string) (*domain.CourseView, error)
	Create(ctx context.Context, actor domain.Identity, input CourseInput) (*domain.Course, error)
	Enroll(ctx context.Context, actor domain.Identity, courseID string) error
	Update(ctx context.Context, actor domain.Identity, courseID string, patch CoursePatch) (*domain.Course, error)
	Delete(ctx context.Context, actor domain.Identity, courseID string) error
}
