package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillforge/skillforge-backend/internal/domain/entity"
	"github.com/skillforge/skillforge-backend/internal/domain/record"
)

func strp(s string) *string { return &s }

func floatp(f float64) *float64 { return &f }

func validCourseRow() *record.Course {
	return &record.Course{
		ID:          "c-1",
		Title:       strp("Practical PostgreSQL"),
		Description: strp("Deep dive into Postgres"),
		Category:    strp("databases"),
		Level:       strp("intermediate"),
		Price:       floatp(49.99),
		Duration:    strp("12h"),
		IsTrending:  true,
		UpdatedAt:   time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestBuildCourseSummary_RequiredScalars(t *testing.T) {
	cases := []struct {
		name string
		rec  *record.Course
	}{
		{"nil record", nil},
		{"missing id", &record.Course{Title: strp("x")}},
		{"nil title", &record.Course{ID: "c-1"}},
		{"blank title", &record.Course{ID: "c-1", Title: strp("   ")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildCourseSummary(tc.rec)
			assert.ErrorIs(t, err, ErrMalformedRecord)
		})
	}
}

func TestBuildCourseSummary_MapsScalarsAndDefaults(t *testing.T) {
	rec := validCourseRow()
	rec.ThumbnailURL = nil // optional column absent

	c, err := BuildCourseSummary(rec)
	require.NoError(t, err)

	assert.Equal(t, "c-1", c.ID)
	assert.Equal(t, "Practical PostgreSQL", c.Title)
	assert.Equal(t, "", c.ThumbnailURL)
	assert.Equal(t, 49.99, c.Price)
	assert.True(t, c.IsTrending)

	// Summary builds never carry a review aggregate.
	assert.Zero(t, c.Rating)
	assert.Zero(t, c.ReviewsCount)
}

func TestResolveInstructor(t *testing.T) {
	t.Run("joined profile wins", func(t *testing.T) {
		rec := validCourseRow()
		rec.InstructorID = strp("p-raw")
		rec.Instructor = &record.Profile{
			ID:        "p-1",
			FirstName: strp("Maya"),
			LastName:  strp("Castillo"),
			AvatarURL: strp("https://cdn.example.com/maya.png"),
			Headline:  strp("Database Engineer"),
		}
		c, err := BuildCourseSummary(rec)
		require.NoError(t, err)
		assert.Equal(t, "p-1", c.Instructor.ID)
		assert.Equal(t, "Maya Castillo", c.Instructor.Name)
		assert.Equal(t, "Database Engineer", c.Instructor.Title)
	})

	t.Run("first name only", func(t *testing.T) {
		rec := validCourseRow()
		rec.Instructor = &record.Profile{ID: "p-1", FirstName: strp("Maya")}
		c, err := BuildCourseSummary(rec)
		require.NoError(t, err)
		assert.Equal(t, "Maya", c.Instructor.Name)
	})

	t.Run("no usable name falls back", func(t *testing.T) {
		rec := validCourseRow()
		rec.Instructor = &record.Profile{ID: "p-1", FirstName: strp("  "), LastName: strp("")}
		c, err := BuildCourseSummary(rec)
		require.NoError(t, err)
		assert.Equal(t, "Instructor", c.Instructor.Name)
	})

	t.Run("no profile keeps raw id and fallback name", func(t *testing.T) {
		rec := validCourseRow()
		rec.InstructorID = strp("p-raw")
		c, err := BuildCourseSummary(rec)
		require.NoError(t, err)
		assert.Equal(t, "p-raw", c.Instructor.ID)
		assert.Equal(t, "Instructor", c.Instructor.Name)
	})

	t.Run("counts stay zero", func(t *testing.T) {
		rec := validCourseRow()
		rec.Instructor = &record.Profile{ID: "p-1", FirstName: strp("Maya")}
		c, err := BuildCourseSummary(rec)
		require.NoError(t, err)
		assert.Zero(t, c.Instructor.CoursesCount)
		assert.Zero(t, c.Instructor.StudentsCount)
		assert.Zero(t, c.Instructor.ReviewsCount)
	})
}

func TestReviewAggregate(t *testing.T) {
	t.Run("empty yields zero not NaN", func(t *testing.T) {
		avg, count := reviewAggregate(nil)
		assert.Equal(t, 0.0, avg)
		assert.Equal(t, 0, count)
	})

	t.Run("mean over all ratings", func(t *testing.T) {
		avg, count := reviewAggregate([]record.Review{
			{Rating: 5}, {Rating: 4}, {Rating: 3},
		})
		assert.Equal(t, 3, count)
		assert.InDelta(t, 4.0, avg, 1e-9)
	})

	t.Run("single review", func(t *testing.T) {
		avg, count := reviewAggregate([]record.Review{{Rating: 4.5}})
		assert.Equal(t, 1, count)
		assert.Equal(t, 4.5, avg)
	})
}

func TestBuildCourseDetail_ModulesAndLessons(t *testing.T) {
	rec := validCourseRow()
	rec.Modules = []record.Module{
		{
			ID:    "m-1",
			Title: strp("Getting Started"),
			Lessons: []record.Lesson{
				{Title: strp("Intro"), Type: strp("video"), Duration: strp("5m")},
				{Title: strp("Setup quiz"), Type: strp("quiz")},
			},
		},
		{
			ID:    "m-2",
			Title: strp("Indexes"),
			Lessons: []record.Lesson{
				{Title: strp("B-trees"), Type: strp("screencast")},
			},
		},
		{ID: "m-3", Title: strp("Wrap-up")},
	}

	detail, err := BuildCourseDetail(rec)
	require.NoError(t, err)

	require.Len(t, detail.Modules, 3)
	assert.Equal(t, "Getting Started", detail.Modules[0].Title)
	assert.Equal(t, "Indexes", detail.Modules[1].Title)
	assert.Equal(t, 3, detail.TotalLessons)

	// Lesson order within a module is preserved as stored.
	assert.Equal(t, "Intro", detail.Modules[0].Lessons[0].Title)
	assert.Equal(t, "Setup quiz", detail.Modules[0].Lessons[1].Title)

	// Unknown lesson types collapse into "other"; known ones pass through.
	assert.Equal(t, entity.LessonTypeVideo, detail.Modules[0].Lessons[0].Type)
	assert.Equal(t, entity.LessonTypeQuiz, detail.Modules[0].Lessons[1].Type)
	assert.Equal(t, entity.LessonTypeOther, detail.Modules[1].Lessons[0].Type)

	// A module with no lessons still appears, with an empty slice.
	assert.NotNil(t, detail.Modules[2].Lessons)
	assert.Empty(t, detail.Modules[2].Lessons)
}

func TestBuildCourseDetail_ReviewsAndAggregate(t *testing.T) {
	rec := validCourseRow()
	rec.Reviews = []record.Review{
		{
			Rating:    5,
			Comment:   strp("excellent"),
			CreatedAt: time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC),
			Reviewer:  &record.Profile{ID: "p-2", FirstName: strp("Jon"), LastName: strp("Ives")},
		},
		{
			Rating:    2,
			CreatedAt: time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		},
	}

	detail, err := BuildCourseDetail(rec)
	require.NoError(t, err)

	assert.Equal(t, 2, detail.ReviewsCount)
	assert.InDelta(t, 3.5, detail.Rating, 1e-9)

	require.Len(t, detail.StudentReviews, 2)
	assert.Equal(t, "Jon Ives", detail.StudentReviews[0].ReviewerName)
	assert.Equal(t, "excellent", detail.StudentReviews[0].Comment)
	// Missing reviewer profile falls back to the anonymous display name.
	assert.Equal(t, "Student", detail.StudentReviews[1].ReviewerName)
	assert.Equal(t, "", detail.StudentReviews[1].Comment)
}

func TestBuildCourseDetail_EmptyCollections(t *testing.T) {
	detail, err := BuildCourseDetail(validCourseRow())
	require.NoError(t, err)

	assert.Zero(t, detail.Rating)
	assert.Zero(t, detail.ReviewsCount)
	assert.Zero(t, detail.TotalLessons)
	assert.NotNil(t, detail.Modules)
	assert.NotNil(t, detail.StudentReviews)
	assert.NotNil(t, detail.LearningObjectives)
	assert.NotNil(t, detail.Requirements)
}

func TestBuildCourseDetail_ObjectivesAndRequirementsCopied(t *testing.T) {
	rec := validCourseRow()
	rec.Objectives = []string{"understand indexes", "tune queries"}
	rec.Requirements = []string{"basic SQL"}

	detail, err := BuildCourseDetail(rec)
	require.NoError(t, err)

	assert.Equal(t, []string{"understand indexes", "tune queries"}, detail.LearningObjectives)
	assert.Equal(t, []string{"basic SQL"}, detail.Requirements)

	// The view owns its slices; mutating the source row must not leak through.
	rec.Objectives[0] = "changed"
	assert.Equal(t, "understand indexes", detail.LearningObjectives[0])
}
