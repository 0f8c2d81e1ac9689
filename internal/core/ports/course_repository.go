package ports

import (
	"context"

	"github.com/edumarket/course-api/internal/core/domain"
)

// CourseFilter selects courses by exact match. Zero-value fields are ignored;
// an empty filter matches every course.
type CourseFilter struct {
	InstructorID string
	StudentID    string
	Title        string
}

// CourseFields is a partial update. Nil fields are left unchanged.
type CourseFields struct {
	Title       *string
	Description *string
	Price       *float64
}

// CourseRepository defines persistence operations for courses.
type CourseRepository interface {
	Create(ctx context.Context, c *domain.Course) (*domain.Course, error)
	FindByID(ctx context.Context, id string) (*domain.Course, error)
	Find(ctx context.Context, filter CourseFilter) ([]*domain.Course, error)
	// AppendStudent adds studentID to the course's students without checking
	// for an existing entry.
	AppendStudent(ctx context.Context, courseID, studentID string) error
	// Update applies fields and returns the updated document.
	Update(ctx context.Context, id string, fields CourseFields) (*domain.Course, error)
	Delete(ctx context.Context, id string) error
}
