package application

import (
	"errors"
	"strings"

	"github.com/skillforge/skillforge-backend/internal/domain/entity"
	"github.com/skillforge/skillforge-backend/internal/domain/record"
)

// ErrMalformedRecord marks a course row whose required scalars (id, title)
// are absent. Builds fail closed on it: no partially-valid Course is ever
// returned.
var ErrMalformedRecord = errors.New("malformed course record")

// Fallback display names when a joined profile carries no usable name.
const (
	fallbackInstructorName = "Instructor"
	fallbackReviewerName   = "Student"
)

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func floatOrZero(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// checkRequired is the required-scalar gate. Missing nested joins are never
// an error; a course row without an id or title is.
func checkRequired(rec *record.Course) error {
	if rec == nil || rec.ID == "" {
		return ErrMalformedRecord
	}
	if rec.Title == nil || strings.TrimSpace(*rec.Title) == "" {
		return ErrMalformedRecord
	}
	return nil
}

// displayName joins first and last name with a single space and trims the
// result, falling back when nothing usable remains.
func displayName(p *record.Profile, fallback string) string {
	if p == nil {
		return fallback
	}
	name := strings.TrimSpace(strOrEmpty(p.FirstName) + " " + strOrEmpty(p.LastName))
	if name == "" {
		return fallback
	}
	return name
}

// resolveInstructor builds the instructor block for a course. The id prefers
// the joined profile, then the course's raw instructor reference, then empty.
// The three count fields stay 0: no aggregation exists for them yet.
func resolveInstructor(p *record.Profile, courseInstructorID *string) entity.Instructor {
	ins := entity.Instructor{
		Name: displayName(p, fallbackInstructorName),
	}
	if p != nil {
		ins.ID = p.ID
		ins.AvatarURL = strOrEmpty(p.AvatarURL)
		ins.Title = strOrEmpty(p.Headline)
	} else {
		ins.ID = strOrEmpty(courseInstructorID)
	}
	return ins
}

// reviewAggregate computes the review count and the exact mean rating.
// An empty collection yields exactly 0, never NaN. Ratings are trusted as
// stored; range enforcement is the storage layer's check constraint, not
// re-validated here.
func reviewAggregate(reviews []record.Review) (avg float64, count int) {
	count = len(reviews)
	if count == 0 {
		return 0, 0
	}
	var sum float64
	for _, r := range reviews {
		sum += r.Rating
	}
	return sum / float64(count), count
}

// assembleModules maps module rows onto the view tree, preserving storage
// order for both modules and lessons, and totals the lesson count.
func assembleModules(mods []record.Module) ([]entity.Module, int) {
	out := make([]entity.Module, 0, len(mods))
	total := 0
	for _, m := range mods {
		lessons := make([]entity.Lesson, 0, len(m.Lessons))
		for _, l := range m.Lessons {
			lessons = append(lessons, entity.Lesson{
				Title:    strOrEmpty(l.Title),
				Type:     entity.ParseLessonType(strOrEmpty(l.Type)),
				Duration: strOrEmpty(l.Duration),
			})
		}
		total += len(lessons)
		out = append(out, entity.Module{
			ID:       m.ID,
			Title:    strOrEmpty(m.Title),
			Duration: strOrEmpty(m.Duration),
			Lessons:  lessons,
		})
	}
	return out, total
}

func buildReviews(reviews []record.Review) []entity.Review {
	out := make([]entity.Review, 0, len(reviews))
	for _, r := range reviews {
		rev := entity.Review{
			ReviewerName: displayName(r.Reviewer, fallbackReviewerName),
			Rating:       r.Rating,
			Comment:      strOrEmpty(r.Comment),
			Date:         r.CreatedAt,
		}
		if r.Reviewer != nil {
			rev.ReviewerAvatarURL = strOrEmpty(r.Reviewer.AvatarURL)
		}
		out = append(out, rev)
	}
	return out
}

// buildScalars is the scalar-field mapping shared by the summary and detail
// builds.
func buildScalars(rec *record.Course) entity.Course {
	return entity.Course{
		ID:           rec.ID,
		Title:        strOrEmpty(rec.Title),
		Description:  strOrEmpty(rec.Description),
		ThumbnailURL: strOrEmpty(rec.ThumbnailURL),
		Category:     strOrEmpty(rec.Category),
		Level:        strOrEmpty(rec.Level),
		Price:        floatOrZero(rec.Price),
		Duration:     strOrEmpty(rec.Duration),
		Instructor:   resolveInstructor(rec.Instructor, rec.InstructorID),
		UpdatedAt:    rec.UpdatedAt,
		IsTrending:   rec.IsTrending,
	}
}

// BuildCourseSummary assembles the list-level view. Rating and ReviewsCount
// stay 0 here: list queries do not join review rows, and the list-level
// aggregate is deferred until one does.
func BuildCourseSummary(rec *record.Course) (entity.Course, error) {
	if err := checkRequired(rec); err != nil {
		return entity.Course{}, err
	}
	return buildScalars(rec), nil
}

// BuildCourseDetail assembles the fully joined detail view.
func BuildCourseDetail(rec *record.Course) (entity.CourseDetail, error) {
	if err := checkRequired(rec); err != nil {
		return entity.CourseDetail{}, err
	}
	detail := entity.CourseDetail{Course: buildScalars(rec)}
	detail.Rating, detail.ReviewsCount = reviewAggregate(rec.Reviews)
	detail.Modules, detail.TotalLessons = assembleModules(rec.Modules)
	detail.StudentReviews = buildReviews(rec.Reviews)
	detail.LearningObjectives = append([]string{}, rec.Objectives...)
	detail.Requirements = append([]string{}, rec.Requirements...)
	return detail, nil
}
