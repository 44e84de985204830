package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/skillforge/skillforge-backend/internal/domain/entity"
	"github.com/skillforge/skillforge-backend/internal/domain/record"
	repo "github.com/skillforge/skillforge-backend/internal/domain/repository"
	"github.com/skillforge/skillforge-backend/pkg/helpers"
	"github.com/skillforge/skillforge-backend/pkg/mailer"
)

var (
	ErrCourseNotFound    = errors.New("course not found")
	ErrInvalidCourseData = errors.New("invalid course data")
)

// CatalogService is the public surface of the course catalog: the read
// operations build view models from raw joined rows, the mutations write
// through the repositories. Redis, Rabbit and GCS are optional; a nil client
// disables that concern without changing operation semantics.
type CatalogService struct {
	Courses     repo.CourseRepository
	Enrollments repo.EnrollmentRepository
	Redis       *redis.Client
	Rabbit      *helpers.RabbitPublisher
	GCS         *storage.Client
	GCSBucket   string
	Logger      *logrus.Logger
	CacheTTL    time.Duration
}

func NewCatalogService(courses repo.CourseRepository, enrollments repo.EnrollmentRepository, rdb *redis.Client, rabbit *helpers.RabbitPublisher, gcs *storage.Client, gcsBucket string, logger *logrus.Logger, cacheTTL time.Duration) *CatalogService {
	return &CatalogService{
		Courses:     courses,
		Enrollments: enrollments,
		Redis:       rdb,
		Rabbit:      rabbit,
		GCS:         gcs,
		GCSBucket:   gcsBucket,
		Logger:      logger,
		CacheTTL:    cacheTTL,
	}
}

func detailCacheKey(courseID string) string {
	return "course:detail:" + courseID
}

// buildSummaries maps raw rows onto summary views. A malformed row is
// excluded from the result and logged; it never fails the whole listing.
func (s *CatalogService) buildSummaries(rows []record.Course) []entity.Course {
	out := make([]entity.Course, 0, len(rows))
	for i := range rows {
		c, err := BuildCourseSummary(&rows[i])
		if err != nil {
			if s.Logger != nil {
				s.Logger.WithError(err).WithField("course_id", rows[i].ID).Warn("skipping malformed course row")
			}
			continue
		}
		out = append(out, c)
	}
	return out
}

// ListPublished returns all published courses, newest updated first.
// A persistence failure propagates as an error; it is never collapsed into
// an empty result.
func (s *CatalogService) ListPublished(ctx context.Context) ([]entity.Course, error) {
	rows, err := s.Courses.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("list published courses: %w", err)
	}
	return s.buildSummaries(rows), nil
}

// ListByCategory filters published courses by category key. An unknown
// category yields an empty slice, not an error.
func (s *CatalogService) ListByCategory(ctx context.Context, category string) ([]entity.Course, error) {
	rows, err := s.Courses.ListByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("list courses by category: %w", err)
	}
	return s.buildSummaries(rows), nil
}

// ListTrending returns published courses flagged as trending.
func (s *CatalogService) ListTrending(ctx context.Context) ([]entity.Course, error) {
	rows, err := s.Courses.ListTrending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list trending courses: %w", err)
	}
	return s.buildSummaries(rows), nil
}

// GetByID returns the detail view for one course. A missing row and a row
// that fails the required-scalar check both come back as ErrCourseNotFound;
// the latter is additionally logged since it indicates bad storage data.
func (s *CatalogService) GetByID(ctx context.Context, id string) (*entity.CourseDetail, error) {
	if s.Redis != nil {
		var cached entity.CourseDetail
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, detailCacheKey(id), &cached); err == nil && ok {
			return &cached, nil
		}
	}

	rec, err := s.Courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("get course %s: %w", id, err)
	}

	detail, err := BuildCourseDetail(rec)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("course_id", id).Error("course row failed required-scalar check")
		}
		return nil, ErrCourseNotFound
	}

	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, detailCacheKey(id), detail, s.CacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("course_id", id).Warn("course detail cache write failed")
		}
	}
	return &detail, nil
}

// CreateCourseInput carries the writable course fields. Only required-scalar
// presence is validated here; deeper business rules do not exist in this
// layer.
type CreateCourseInput struct {
	Title        string
	Description  string
	ThumbnailURL string
	Category     string
	Level        string
	Price        float64
	Duration     string
}

// Create inserts a new unpublished course for the instructor and returns its
// id. Publishing is a separate operation outside this service.
func (s *CatalogService) Create(ctx context.Context, in CreateCourseInput, instructorID string) (string, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(instructorID) == "" {
		return "", ErrInvalidCourseData
	}
	id, err := s.Courses.Insert(ctx, &record.NewCourse{
		Title:        in.Title,
		Description:  in.Description,
		ThumbnailURL: in.ThumbnailURL,
		Category:     in.Category,
		Level:        in.Level,
		Price:        in.Price,
		Duration:     in.Duration,
		InstructorID: instructorID,
	})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrInvalidCourseData
		}
		return "", fmt.Errorf("create course: %w", err)
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"course_id": id, "instructor_id": instructorID}).Info("course created")
	}
	return id, nil
}

// Enroll records the user's enrollment in a course. The operation is
// idempotent: a repeat call for the same pair succeeds exactly like the
// first, with the storage uniqueness constraint as the arbiter under
// concurrency. userEmail feeds the confirmation email and may be empty.
func (s *CatalogService) Enroll(ctx context.Context, userID, courseID, userEmail string) error {
	course, err := s.Courses.GetSummary(ctx, courseID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("enroll: load course %s: %w", courseID, err)
	}

	fresh := true
	if err := s.Enrollments.Insert(ctx, userID, courseID); err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicate):
			// Already enrolled, including the concurrent-enroll race. Same
			// outcome as a fresh enrollment from the caller's perspective.
			fresh = false
			if s.Logger != nil {
				s.Logger.WithFields(logrus.Fields{"user_id": userID, "course_id": courseID}).Debug("enrollment already exists")
			}
		case errors.Is(err, repo.ErrNotFound):
			return ErrCourseNotFound
		default:
			return fmt.Errorf("enroll user %s in course %s: %w", userID, courseID, err)
		}
	}

	if fresh && s.Rabbit != nil && userEmail != "" {
		job := mailer.EnrollmentJob{
			To:          userEmail,
			UserID:      userID,
			CourseID:    courseID,
			CourseTitle: strOrEmpty(course.Title),
		}
		if err := s.Rabbit.PublishJSON(ctx, job); err != nil && s.Logger != nil {
			// Confirmation email is best-effort; the enrollment stands.
			s.Logger.WithError(err).WithField("course_id", courseID).Warn("enrollment event publish failed")
		}
	}
	return nil
}

// ListForUser returns the user's enrolled courses as summaries annotated
// with progress. Enrollments whose course no longer resolves are dropped
// under an explicit policy: orphaned rows are tolerated, logged, and never
// break the listing.
func (s *CatalogService) ListForUser(ctx context.Context, userID string) ([]entity.EnrolledCourse, error) {
	rows, err := s.Enrollments.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments for user %s: %w", userID, err)
	}
	out := make([]entity.EnrolledCourse, 0, len(rows))
	for i := range rows {
		enr := &rows[i]
		if enr.Course == nil {
			if s.Logger != nil {
				s.Logger.WithFields(logrus.Fields{"user_id": userID, "course_id": enr.CourseID}).Warn("dropping enrollment with unresolvable course")
			}
			continue
		}
		course, err := BuildCourseSummary(enr.Course)
		if err != nil {
			if s.Logger != nil {
				s.Logger.WithError(err).WithField("course_id", enr.CourseID).Warn("skipping malformed enrolled course row")
			}
			continue
		}
		out = append(out, entity.EnrolledCourse{
			Course:         course,
			Progress:       enr.Progress,
			LastAccessedAt: enr.LastAccessedAt,
		})
	}
	return out, nil
}

// UploadThumbnail streams a thumbnail image to GCS and stores its public URL
// on the course row, invalidating the cached detail view.
func (s *CatalogService) UploadThumbnail(ctx context.Context, courseID string, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	if _, err := s.Courses.GetSummary(ctx, courseID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrCourseNotFound
		}
		return "", fmt.Errorf("load course %s: %w", courseID, err)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("thumbnails", courseID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", fmt.Errorf("upload thumbnail: %w", err)
	}

	if err := s.Courses.UpdateThumbnail(ctx, courseID, url); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrCourseNotFound
		}
		return "", fmt.Errorf("store thumbnail url: %w", err)
	}
	if s.Redis != nil {
		if err := helpers.RedisDel(ctx, s.Redis, detailCacheKey(courseID)); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("course_id", courseID).Warn("course detail cache invalidation failed")
		}
	}
	return url, nil
}
