package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/edumarket/course-api/internal/api/metrics"
	"github.com/edumarket/course-api/internal/core/domain"
	"github.com/edumarket/course-api/internal/core/ports"
	"github.com/edumarket/course-api/internal/pkg/validation"
)

type CourseService struct {
	courses  ports.CourseRepository
	users    ports.UserRepository
	validate *validation.Validator
	logger   zerolog.Logger
}

func NewCourseService(courses ports.CourseRepository, users ports.UserRepository, logger zerolog.Logger) *CourseService {
	return &CourseService{
		courses:  courses,
		users:    users,
		validate: validation.New(),
		logger:   logger,
	}
}

func (s *CourseService) List(ctx context.Context) ([]domain.CourseView, error) {
	return s.find(ctx, ports.CourseFilter{})
}

func (s *CourseService) ListByInstructor(ctx context.Context, instructorID string) ([]domain.CourseView, error) {
	return s.find(ctx, ports.CourseFilter{InstructorID: instructorID})
}

func (s *CourseService) ListByStudent(ctx context.Context, studentID string) ([]domain.CourseView, error) {
	return s.find(ctx, ports.CourseFilter{StudentID: studentID})
}

func (s *CourseService) FindByTitle(ctx context.Context, title string) ([]domain.CourseView, error) {
	return s.find(ctx, ports.CourseFilter{Title: title})
}

func (s *CourseService) FindByID(ctx context.Context, id string) (*domain.CourseView, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.populate(ctx, []*domain.Course{course})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Create stores a new course owned by actor. Students cannot publish courses.
func (s *CourseService) Create(ctx context.Context, actor domain.Identity, input ports.CourseInput) (*domain.Course, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}
	if actor.IsStudent() {
		return nil, domain.ErrInstructorOnly
	}

	course, err := s.courses.Create(ctx, &domain.Course{
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Instructor:  actor.ID,
		Students:    []string{},
	})
	if err != nil {
		s.logger.Error().Err(err).Str("instructor_id", actor.ID).Msg("failed to create course")
		return nil, fmt.Errorf("create course: %w", err)
	}

	metrics.CoursesCreatedTotal.Inc()
	s.logger.Info().Str("course_id", course.ID).Str("instructor_id", actor.ID).Msg("course created")
	return withStudents(course), nil
}

// Enroll adds actor to the course's students. Repeated enrollments are
// recorded again and any role may enroll.
func (s *CourseService) Enroll(ctx context.Context, actor domain.Identity, courseID string) error {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		return err
	}

	if err := s.courses.AppendStudent(ctx, courseID, actor.ID); err != nil {
		if errors.Is(err, domain.ErrCourseNotFound) {
			return err
		}
		return fmt.Errorf("enroll: %w", err)
	}

	metrics.EnrollmentsTotal.Inc()
	s.logger.Info().Str("course_id", courseID).Str("student_id", actor.ID).Msg("student enrolled")
	return nil
}

// Update applies patch to a course owned by actor.
func (s *CourseService) Update(ctx context.Context, actor domain.Identity, courseID string, patch ports.CoursePatch) (*domain.Course, error) {
	if patch.Empty() {
		return nil, &domain.ValidationError{Message: "at least one course field must be provided"}
	}
	if err := s.validate.Struct(patch); err != nil {
		return nil, err
	}

	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !course.OwnedBy(actor.ID) {
		return nil, domain.ErrNotCourseOwner
	}

	merged := ports.CourseInput{Title: course.Title, Description: course.Description, Price: course.Price}
	if patch.Title != nil {
		merged.Title = *patch.Title
	}
	if patch.Description != nil {
		merged.Description = *patch.Description
	}
	if patch.Price != nil {
		merged.Price = *patch.Price
	}
	if err := s.validate.Struct(merged); err != nil {
		return nil, err
	}

	updated, err := s.courses.Update(ctx, courseID, ports.CourseFields{
		Title:       patch.Title,
		Description: patch.Description,
		Price:       patch.Price,
	})
	if err != nil {
		if errors.Is(err, domain.ErrCourseNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update course: %w", err)
	}

	s.logger.Info().Str("course_id", courseID).Str("instructor_id", actor.ID).Msg("course updated")
	return withStudents(updated), nil
}

// Delete removes a course owned by actor.
func (s *CourseService) Delete(ctx context.Context, actor domain.Identity, courseID string) error {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return err
	}
	if !course.OwnedBy(actor.ID) {
		return domain.ErrNotCourseOwner
	}

	if err := s.courses.Delete(ctx, courseID); err != nil {
		if errors.Is(err, domain.ErrCourseNotFound) {
			return err
		}
		return fmt.Errorf("delete course: %w", err)
	}

	s.logger.Info().Str("course_id", courseID).Str("instructor_id", actor.ID).Msg("course deleted")
	return nil
}

func (s *CourseService) find(ctx context.Context, filter ports.CourseFilter) ([]domain.CourseView, error) {
	courses, err := s.courses.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find courses: %w", err)
	}
	return s.populate(ctx, courses)
}

// populate resolves each course's instructor to {username, email} with a
// single lookup. Courses whose instructor no longer exists keep a nil ref.
func (s *CourseService) populate(ctx context.Context, courses []*domain.Course) ([]domain.CourseView, error) {
	views := make([]domain.CourseView, len(courses))
	if len(courses) == 0 {
		return views, nil
	}

	seen := make(map[string]struct{}, len(courses))
	ids := make([]string, 0, len(courses))
	for _, c := range courses {
		if c.Instructor == "" {
			continue
		}
		if _, ok := seen[c.Instructor]; !ok {
			seen[c.Instructor] = struct{}{}
			ids = append(ids, c.Instructor)
		}
	}

	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("populate instructors: %w", err)
	}

	for i, c := range courses {
		views[i] = domain.CourseView{
			ID:          c.ID,
			Title:       c.Title,
			Description: c.Description,
			Price:       c.Price,
			Students:    withStudents(c).Students,
		}
		if u, ok := users[c.Instructor]; ok {
			views[i].Instructor = &domain.InstructorRef{ID: u.ID, Username: u.Username, Email: u.Email}
		}
	}
	return views, nil
}

// withStudents makes Students serialise as [] rather than null.
func withStudents(c *domain.Course) *domain.Course {
	if c.Students == nil {
		c.Students = []string{}
	}
	return c
}
