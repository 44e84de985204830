package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skillforge/skillforge-backend/internal/domain/record"
	"github.com/skillforge/skillforge-backend/internal/domain/repository"
)

// SQLSTATE codes we translate into repository sentinels.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

const courseColumns = `
	c.id, c.title, c.description, c.thumbnail_url, c.category, c.level,
	c.price, c.duration, c.instructor_id, c.is_published, c.is_trending, c.updated_at,
	p.id, p.first_name, p.last_name, p.avatar_url, p.headline`

const courseFrom = `
	FROM courses c
	LEFT JOIN profiles p ON p.id = c.instructor_id`

type CourseRepository struct {
	pool *pgxpool.Pool
}

func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

func scanCourseRow(row pgx.Row) (*record.Course, error) {
	rec := &record.Course{}
	var (
		profileID *string
		firstName *string
		lastName  *string
		avatarURL *string
		headline  *string
	)
	if err := row.Scan(
		&rec.ID, &rec.Title, &rec.Description, &rec.ThumbnailURL, &rec.Category, &rec.Level,
		&rec.Price, &rec.Duration, &rec.InstructorID, &rec.IsPublished, &rec.IsTrending, &rec.UpdatedAt,
		&profileID, &firstName, &lastName, &avatarURL, &headline,
	); err != nil {
		return nil, err
	}
	if profileID != nil {
		rec.Instructor = &record.Profile{
			ID:        *profileID,
			FirstName: firstName,
			LastName:  lastName,
			AvatarURL: avatarURL,
			Headline:  headline,
		}
	}
	return rec, nil
}

func (r *CourseRepository) listCourses(ctx context.Context, where string, args ...any) ([]record.Course, error) {
	q := `SELECT` + courseColumns + courseFrom + `
		WHERE ` + where + `
		ORDER BY c.updated_at DESC`
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []record.Course
	for rows.Next() {
		rec, err := scanCourseRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func (r *CourseRepository) ListPublished(ctx context.Context) ([]record.Course, error) {
	return r.listCourses(ctx, `c.is_published = true`)
}

func (r *CourseRepository) ListByCategory(ctx context.Context, category string) ([]record.Course, error) {
	return r.listCourses(ctx, `c.is_published = true AND c.category = $1`, category)
}

func (r *CourseRepository) ListTrending(ctx context.Context) ([]record.Course, error) {
	return r.listCourses(ctx, `c.is_published = true AND c.is_trending = true`)
}

// GetSummary loads the course row with only the instructor profile joined.
func (r *CourseRepository) GetSummary(ctx context.Context, id string) (*record.Course, error) {
	q := `SELECT` + courseColumns + courseFrom + `
		WHERE c.id = $1`
	rec, err := scanCourseRow(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

// GetByID loads the course row plus all detail joins: module/lesson tree,
// reviews (most recent first), learning objectives and requirements.
func (r *CourseRepository) GetByID(ctx context.Context, id string) (*record.Course, error) {
	rec, err := r.GetSummary(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Modules, err = r.loadModules(ctx, id); err != nil {
		return nil, err
	}
	if rec.Reviews, err = r.loadReviews(ctx, id); err != nil {
		return nil, err
	}
	if rec.Objectives, err = r.loadStrings(ctx,
		`SELECT objective FROM course_objectives WHERE course_id = $1 ORDER BY position`, id); err != nil {
		return nil, err
	}
	if rec.Requirements, err = r.loadStrings(ctx,
		`SELECT requirement FROM course_requirements WHERE course_id = $1 ORDER BY position`, id); err != nil {
		return nil, err
	}
	return rec, nil
}

// loadModules reads the module/lesson tree in a single ordered query and
// regroups rows by module id. Ordering comes entirely from the position
// columns; nothing is re-sorted in memory.
func (r *CourseRepository) loadModules(ctx context.Context, courseID string) ([]record.Module, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT m.id, m.title, m.duration, l.id, l.title, l.lesson_type, l.duration
		FROM course_modules m
		LEFT JOIN course_lessons l ON l.module_id = m.id
		WHERE m.course_id = $1
		ORDER BY m.position, l.position
	`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var modules []record.Module
	for rows.Next() {
		var (
			moduleID       string
			moduleTitle    *string
			moduleDuration *string
			lessonID       *string
			lesson         record.Lesson
		)
		if err := rows.Scan(&moduleID, &moduleTitle, &moduleDuration,
			&lessonID, &lesson.Title, &lesson.Type, &lesson.Duration); err != nil {
			return nil, err
		}
		if len(modules) == 0 || modules[len(modules)-1].ID != moduleID {
			modules = append(modules, record.Module{ID: moduleID, Title: moduleTitle, Duration: moduleDuration})
		}
		if lessonID != nil {
			last := &modules[len(modules)-1]
			last.Lessons = append(last.Lessons, lesson)
		}
	}
	return modules, rows.Err()
}

func (r *CourseRepository) loadReviews(ctx context.Context, courseID string) ([]record.Review, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT r.rating, r.comment, r.created_at,
		       p.id, p.first_name, p.last_name, p.avatar_url, p.headline
		FROM course_reviews r
		LEFT JOIN profiles p ON p.id = r.reviewer_id
		WHERE r.course_id = $1
		ORDER BY r.created_at DESC
	`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []record.Review
	for rows.Next() {
		var (
			rev       record.Review
			profileID *string
			firstName *string
			lastName  *string
			avatarURL *string
			headline  *string
		)
		if err := rows.Scan(&rev.Rating, &rev.Comment, &rev.CreatedAt,
			&profileID, &firstName, &lastName, &avatarURL, &headline); err != nil {
			return nil, err
		}
		if profileID != nil {
			rev.Reviewer = &record.Profile{
				ID:        *profileID,
				FirstName: firstName,
				LastName:  lastName,
				AvatarURL: avatarURL,
				Headline:  headline,
			}
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}

func (r *CourseRepository) loadStrings(ctx context.Context, q, courseID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, q, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Insert creates an unpublished course row and returns the new id.
func (r *CourseRepository) Insert(ctx context.Context, c *record.NewCourse) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO courses (title, description, thumbnail_url, category, level, price, duration, instructor_id, is_published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, false)
		RETURNING id
	`, c.Title, c.Description, c.ThumbnailURL, c.Category, c.Level, c.Price, c.Duration, c.InstructorID).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == codeForeignKeyViolation {
			return "", repository.ErrNotFound
		}
		return "", err
	}
	return id, nil
}

func (r *CourseRepository) UpdateThumbnail(ctx context.Context, id, url string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE courses SET thumbnail_url = $1, updated_at = now() WHERE id = $2
	`, url, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.CourseRepository = (*CourseRepository)(nil)
