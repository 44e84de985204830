package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillforge/skillforge-backend/internal/domain/record"
	repo "github.com/skillforge/skillforge-backend/internal/domain/repository"
)

// fakeCourseRepo is an in-memory CourseRepository keyed by course id.
type fakeCourseRepo struct {
	courses map[string]*record.Course
	nextID  int
	failAll error
}

var _ repo.CourseRepository = (*fakeCourseRepo)(nil)

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: map[string]*record.Course{}}
}

func (f *fakeCourseRepo) add(c *record.Course) { f.courses[c.ID] = c }

func (f *fakeCourseRepo) list(match func(*record.Course) bool) ([]record.Course, error) {
	if f.failAll != nil {
		return nil, f.failAll
	}
	var out []record.Course
	for _, c := range f.courses {
		if match(c) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCourseRepo) ListPublished(context.Context) ([]record.Course, error) {
	return f.list(func(c *record.Course) bool { return c.IsPublished })
}

func (f *fakeCourseRepo) ListByCategory(_ context.Context, category string) ([]record.Course, error) {
	return f.list(func(c *record.Course) bool {
		return c.IsPublished && c.Category != nil && *c.Category == category
	})
}

func (f *fakeCourseRepo) ListTrending(context.Context) ([]record.Course, error) {
	return f.list(func(c *record.Course) bool { return c.IsPublished && c.IsTrending })
}

func (f *fakeCourseRepo) GetByID(_ context.Context, id string) (*record.Course, error) {
	if f.failAll != nil {
		return nil, f.failAll
	}
	c, ok := f.courses[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCourseRepo) GetSummary(ctx context.Context, id string) (*record.Course, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeCourseRepo) Insert(_ context.Context, c *record.NewCourse) (string, error) {
	if f.failAll != nil {
		return "", f.failAll
	}
	f.nextID++
	id := fmt.Sprintf("c-%d", f.nextID)
	f.courses[id] = &record.Course{
		ID:           id,
		Title:        strp(c.Title),
		Description:  strp(c.Description),
		ThumbnailURL: strp(c.ThumbnailURL),
		Category:     strp(c.Category),
		Level:        strp(c.Level),
		Price:        floatp(c.Price),
		Duration:     strp(c.Duration),
		InstructorID: strp(c.InstructorID),
	}
	return id, nil
}

func (f *fakeCourseRepo) UpdateThumbnail(_ context.Context, id, url string) error {
	c, ok := f.courses[id]
	if !ok {
		return repo.ErrNotFound
	}
	c.ThumbnailURL = &url
	return nil
}

// fakeEnrollmentRepo enforces (user, course) uniqueness in memory the way the
// database constraint does.
type fakeEnrollmentRepo struct {
	rows    []record.Enrollment
	courses *fakeCourseRepo
	inserts int
}

var _ repo.EnrollmentRepository = (*fakeEnrollmentRepo)(nil)

func (f *fakeEnrollmentRepo) Insert(_ context.Context, userID, courseID string) error {
	if _, ok := f.courses.courses[courseID]; !ok {
		return repo.ErrNotFound
	}
	for _, r := range f.rows {
		if r.UserID == userID && r.CourseID == courseID {
			return repo.ErrDuplicate
		}
	}
	f.inserts++
	f.rows = append(f.rows, record.Enrollment{UserID: userID, CourseID: courseID})
	return nil
}

func (f *fakeEnrollmentRepo) ListByUser(_ context.Context, userID string) ([]record.Enrollment, error) {
	var out []record.Enrollment
	for _, r := range f.rows {
		if r.UserID == userID {
			if c, ok := f.courses.courses[r.CourseID]; ok {
				cp := *c
				r.Course = &cp
			}
			out = append(out, r)
		}
	}
	return out, nil
}

func newTestService(courses *fakeCourseRepo, enrollments *fakeEnrollmentRepo) *CatalogService {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return &CatalogService{
		Courses:     courses,
		Enrollments: enrollments,
		Logger:      logger,
	}
}

func publishedCourse(id, title, category string) *record.Course {
	t := title
	cat := category
	return &record.Course{ID: id, Title: &t, Category: &cat, IsPublished: true}
}

func TestListByCategory_UnknownCategoryIsEmptyNotError(t *testing.T) {
	courses := newFakeCourseRepo()
	courses.add(publishedCourse("c-1", "Go Basics", "programming"))
	svc := newTestService(courses, &fakeEnrollmentRepo{courses: courses})

	got, err := svc.ListByCategory(context.Background(), "underwater-basket-weaving")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListPublished_SkipsMalformedRows(t *testing.T) {
	courses := newFakeCourseRepo()
	courses.add(publishedCourse("c-1", "Go Basics", "programming"))
	courses.add(&record.Course{ID: "c-2", IsPublished: true}) // nil title
	svc := newTestService(courses, &fakeEnrollmentRepo{courses: courses})

	got, err := svc.ListPublished(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c-1", got[0].ID)
}

func TestListPublished_PropagatesStorageFailure(t *testing.T) {
	courses := newFakeCourseRepo()
	courses.failAll = errors.New("connection refused")
	svc := newTestService(courses, &fakeEnrollmentRepo{courses: courses})

	got, err := svc.ListPublished(context.Background())
	require.Error(t, err)
	assert.Nil(t, got)
	// A failed listing must never look like an empty catalog.
	assert.ErrorContains(t, err, "connection refused")
}

func TestGetByID_NotFound(t *testing.T) {
	courses := newFakeCourseRepo()
	svc := newTestService(courses, &fakeEnrollmentRepo{courses: courses})

	_, err := svc.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestGetByID_MalformedRowFailsClosed(t *testing.T) {
	courses := newFakeCourseRepo()
	courses.add(&record.Course{ID: "c-1", IsPublished: true}) // nil title
	svc := newTestService(courses, &fakeEnrollmentRepo{courses: courses})

	_, err := svc.GetByID(context.Background(), "c-1")
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestCreate_ThenGet(t *testing.T) {
	courses := newFakeCourseRepo()
	svc := newTestService(courses, &fakeEnrollmentRepo{courses: courses})

	in := CreateCourseInput{
		Title:        "New Course",
		Description:  "From zero to production",
		ThumbnailURL: "https://cdn.example.com/new.png",
		Category:     "programming",
		Level:        "beginner",
		Price:        19.5,
		Duration:     "4h",
	}
	id, err := svc.Create(context.Background(), in, "p-1")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	detail, err := svc.GetByID(context.Background(), id)
	require.NoError(t, err)

	// Every scalar supplied at create comes back unchanged.
	assert.Equal(t, in.Title, detail.Title)
	assert.Equal(t, in.Description, detail.Description)
	assert.Equal(t, in.ThumbnailURL, detail.ThumbnailURL)
	assert.Equal(t, in.Category, detail.Category)
	assert.Equal(t, in.Level, detail.Level)
	assert.Equal(t, in.Price, detail.Price)
	assert.Equal(t, in.Duration, detail.Duration)
	assert.Equal(t, "p-1", detail.Instructor.ID)

	// A fresh course has no reviews or content yet.
	assert.Zero(t, detail.Rating)
	assert.Zero(t, detail.ReviewsCount)
	assert.Zero(t, detail.TotalLessons)
	assert.Empty(t, detail.Modules)
	assert.Empty(t, detail.StudentReviews)
}

func TestCreate_RejectsMissingRequiredFields(t *testing.T) {
	courses := newFakeCourseRepo()
	svc := newTestService(courses, &fakeEnrollmentRepo{courses: courses})

	_, err := svc.Create(context.Background(), CreateCourseInput{Title: "  "}, "p-1")
	assert.ErrorIs(t, err, ErrInvalidCourseData)

	_, err = svc.Create(context.Background(), CreateCourseInput{Title: "ok"}, "")
	assert.ErrorIs(t, err, ErrInvalidCourseData)
}

func TestEnroll_IsIdempotent(t *testing.T) {
	courses := newFakeCourseRepo()
	courses.add(publishedCourse("c-1", "Go Basics", "programming"))
	enrollments := &fakeEnrollmentRepo{courses: courses}
	svc := newTestService(courses, enrollments)

	require.NoError(t, svc.Enroll(context.Background(), "u-1", "c-1", ""))
	// Second call for the same pair succeeds without a second row.
	require.NoError(t, svc.Enroll(context.Background(), "u-1", "c-1", ""))
	assert.Equal(t, 1, enrollments.inserts)
	assert.Len(t, enrollments.rows, 1)
}

func TestEnroll_UnknownCourse(t *testing.T) {
	courses := newFakeCourseRepo()
	svc := newTestService(courses, &fakeEnrollmentRepo{courses: courses})

	err := svc.Enroll(context.Background(), "u-1", "missing", "")
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestListForUser_DropsOrphanedEnrollments(t *testing.T) {
	courses := newFakeCourseRepo()
	courses.add(publishedCourse("c-1", "Go Basics", "programming"))
	enrollments := &fakeEnrollmentRepo{courses: courses}
	svc := newTestService(courses, enrollments)

	require.NoError(t, svc.Enroll(context.Background(), "u-1", "c-1", ""))
	// An enrollment whose course row was deleted afterwards.
	enrollments.rows = append(enrollments.rows, record.Enrollment{UserID: "u-1", CourseID: "gone"})

	got, err := svc.ListForUser(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c-1", got[0].ID)
}

func TestListForUser_EmptyForUnknownUser(t *testing.T) {
	courses := newFakeCourseRepo()
	svc := newTestService(courses, &fakeEnrollmentRepo{courses: courses})

	got, err := svc.ListForUser(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUploadThumbnail_RequiresConfiguredStorage(t *testing.T) {
	courses := newFakeCourseRepo()
	courses.add(publishedCourse("c-1", "Go Basics", "programming"))
	svc := newTestService(courses, &fakeEnrollmentRepo{courses: courses})

	_, err := svc.UploadThumbnail(context.Background(), "c-1", nil, "x.png", "image/png")
	assert.Error(t, err)
}
