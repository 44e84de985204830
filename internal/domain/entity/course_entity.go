package entity

import (
	"time"
)

// Course is the summary view of a catalog course as served to list endpoints.
// Every value is a fresh snapshot owned by the caller; nothing here is shared
// or mutated after construction.
//
// Rating and ReviewsCount are 0 on summary views because list queries do not
// join review rows; the detail view carries the real aggregate.
type Course struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	ThumbnailURL string     `json:"thumbnail_url"`
	Category     string     `json:"category"`
	Level        string     `json:"level"`
	Price        float64    `json:"price"`
	Duration     string     `json:"duration"`
	Instructor   Instructor `json:"instructor"`
	Rating       float64    `json:"rating"`
	ReviewsCount int        `json:"reviews_count"`
	UpdatedAt    time.Time  `json:"updated_at"`
	IsTrending   bool       `json:"is_trending"`
}

// CourseDetail is the fully joined view served by the single-course endpoint.
type CourseDetail struct {
	Course
	LearningObjectives []string `json:"learning_objectives"`
	Requirements       []string `json:"requirements"`
	Modules            []Module `json:"modules"`
	TotalLessons       int      `json:"total_lessons"`
	StudentReviews     []Review `json:"student_reviews"`
}

// Instructor is the denormalized instructor block embedded in every Course.
// Name is never empty; it falls back to "Instructor" when the profile carries
// no usable name.
//
// CoursesCount, StudentsCount and ReviewsCount are not aggregated anywhere
// yet and always read 0. They are kept in the shape so the API does not break
// once a real aggregation lands.
type Instructor struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	AvatarURL     string `json:"avatar_url"`
	Title         string `json:"title"`
	CoursesCount  int    `json:"courses_count"`
	StudentsCount int    `json:"students_count"`
	ReviewsCount  int    `json:"reviews_count"`
}

// Module groups lessons in storage order.
type Module struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Duration string   `json:"duration"`
	Lessons  []Lesson `json:"lessons"`
}

// Lesson is a single unit of course content.
type Lesson struct {
	Title    string     `json:"title"`
	Type     LessonType `json:"type"`
	Duration string     `json:"duration"`
}

// Review is one student review on the detail view, most recent first as
// returned by storage.
type Review struct {
	ReviewerName      string    `json:"reviewer_name"`
	ReviewerAvatarURL string    `json:"reviewer_avatar_url"`
	Rating            float64   `json:"rating"`
	Comment           string    `json:"comment"`
	Date              time.Time `json:"date"`
}

// EnrolledCourse annotates a course summary with the caller's enrollment state.
type EnrolledCourse struct {
	Course
	Progress       int        `json:"progress"`
	LastAccessedAt *time.Time `json:"last_accessed_at,omitempty"`
}
