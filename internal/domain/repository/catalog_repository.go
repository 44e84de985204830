package repository

import (
	"context"
	"errors"

	"github.com/skillforge/skillforge-backend/internal/domain/record"
)

var (
	// ErrNotFound is returned when the requested row does not exist, or when
	// a write references a row that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a write violates a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate")
)

// CourseRepository defines the persistence operations for catalog courses.
// List operations filter at the storage query, never in memory, and return
// rows ordered newest updated_at first.
type CourseRepository interface {
	ListPublished(ctx context.Context) ([]record.Course, error)
	ListByCategory(ctx context.Context, category string) ([]record.Course, error)
	ListTrending(ctx context.Context) ([]record.Course, error)
	// GetByID returns the course row with all detail joins (instructor,
	// modules+lessons, reviews, objectives, requirements).
	GetByID(ctx context.Context, id string) (*record.Course, error)
	// GetSummary returns the course row with only the instructor joined.
	GetSummary(ctx context.Context, id string) (*record.Course, error)
	Insert(ctx context.Context, c *record.NewCourse) (string, error)
	UpdateThumbnail(ctx context.Context, id, url string) error
}

// EnrollmentRepository defines persistence operations for enrollments.
// Uniqueness of (user_id, course_id) is enforced by the storage constraint,
// not in memory; Insert reports a violation as ErrDuplicate.
type EnrollmentRepository interface {
	Insert(ctx context.Context, userID, courseID string) error
	ListByUser(ctx context.Context, userID string) ([]record.Enrollment, error)
}
