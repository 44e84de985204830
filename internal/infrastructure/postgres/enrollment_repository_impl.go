package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skillforge/skillforge-backend/internal/domain/record"
	"github.com/skillforge/skillforge-backend/internal/domain/repository"
)

type EnrollmentRepository struct {
	pool *pgxpool.Pool
}

func NewEnrollmentRepository(pool *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{pool: pool}
}

// Insert creates an enrollment row. The UNIQUE (user_id, course_id)
// constraint is the authority on idempotence; a violation surfaces as
// ErrDuplicate and a missing course as ErrNotFound.
func (r *EnrollmentRepository) Insert(ctx context.Context, userID, courseID string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO enrollments (user_id, course_id)
		VALUES ($1, $2)
	`, userID, courseID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case codeUniqueViolation:
				return repository.ErrDuplicate
			case codeForeignKeyViolation:
				return repository.ErrNotFound
			}
		}
		return err
	}
	return nil
}

// ListByUser returns the user's enrollments with the course and its
// instructor joined. The course side is nil when the referenced row no
// longer resolves; the policy for such rows belongs to the caller.
func (r *EnrollmentRepository) ListByUser(ctx context.Context, userID string) ([]record.Enrollment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT e.user_id, e.course_id, e.progress, e.last_accessed_at, e.enrolled_at,
		       c.id, c.title, c.description, c.thumbnail_url, c.category, c.level,
		       c.price, c.duration, c.instructor_id, c.is_published, c.is_trending, c.updated_at,
		       p.id, p.first_name, p.last_name, p.avatar_url, p.headline
		FROM enrollments e
		LEFT JOIN courses c ON c.id = e.course_id
		LEFT JOIN profiles p ON p.id = c.instructor_id
		WHERE e.user_id = $1
		ORDER BY e.enrolled_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []record.Enrollment
	for rows.Next() {
		var (
			enr       record.Enrollment
			courseID  *string
			course    record.Course
			published *bool
			trending  *bool
			updatedAt *time.Time
			profileID *string
			firstName *string
			lastName  *string
			avatarURL *string
			headline  *string
		)
		if err := rows.Scan(
			&enr.UserID, &enr.CourseID, &enr.Progress, &enr.LastAccessedAt, &enr.EnrolledAt,
			&courseID, &course.Title, &course.Description, &course.ThumbnailURL, &course.Category, &course.Level,
			&course.Price, &course.Duration, &course.InstructorID, &published, &trending, &updatedAt,
			&profileID, &firstName, &lastName, &avatarURL, &headline,
		); err != nil {
			return nil, err
		}
		if courseID != nil {
			course.ID = *courseID
			if published != nil {
				course.IsPublished = *published
			}
			if trending != nil {
				course.IsTrending = *trending
			}
			if updatedAt != nil {
				course.UpdatedAt = *updatedAt
			}
			if profileID != nil {
				course.Instructor = &record.Profile{
					ID:        *profileID,
					FirstName: firstName,
					LastName:  lastName,
					AvatarURL: avatarURL,
					Headline:  headline,
				}
			}
			enr.Course = &course
		}
		out = append(out, enr)
	}
	return out, rows.Err()
}

var _ repository.EnrollmentRepository = (*EnrollmentRepository)(nil)
