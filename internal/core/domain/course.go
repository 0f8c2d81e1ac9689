package domain

// Course is a listing published by an instructor. Instructor holds the
// owning user's id; Students holds enrolled user ids and may contain repeats.
type Course struct {
	ID          string   `json:"_id" bson:"-"`
	Title       string   `json:"title" bson:"title"`
	Description string   `json:"description" bson:"description"`
	Price       float64  `json:"price" bson:"price"`
	Instructor  string   `json:"instructor" bson:"-"`
	Students    []string `json:"students" bson:"students"`
}

// OwnedBy reports whether userID is the course's instructor.
func (c *Course) OwnedBy(userID string) bool {
	return c.Instructor != "" && c.Instructor == userID
}

// InstructorRef is the populated view of a course's instructor.
type InstructorRef struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// CourseView is a Course with its instructor reference resolved. Instructor is
// nil when the referenced user no longer exists.
type CourseView struct {
	ID          string         `json:"_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Price       float64        `json:"price"`
	Instructor  *InstructorRef `json:"instructor"`
	Students    []string       `json:"students"`
}
