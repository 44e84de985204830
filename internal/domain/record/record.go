// Package record holds the raw joined rows handed back by the persistence
// layer, before any view-model assembly. Optional columns and joins are
// pointers or slices so absent data is representable without sentinels.
package record

import "time"

// Profile is a user profile row (instructors and reviewers share one table).
type Profile struct {
	ID        string
	FirstName *string
	LastName  *string
	AvatarURL *string
	Headline  *string
}

// Lesson is one lesson row, already ordered by its position column.
type Lesson struct {
	Title    *string
	Type     *string
	Duration *string
}

// Module is one module row with its lesson rows nested in storage order.
type Module struct {
	ID       string
	Title    *string
	Duration *string
	Lessons  []Lesson
}

// Review is one review row with the reviewer profile joined, possibly absent.
type Review struct {
	Rating    float64
	Comment   *string
	CreatedAt time.Time
	Reviewer  *Profile
}

// Course is a course row together with whatever related rows the query
// joined. List queries fill only Instructor; the detail query fills
// everything. Any of the nested fields may be nil.
type Course struct {
	ID           string
	Title        *string
	Description  *string
	ThumbnailURL *string
	Category     *string
	Level        *string
	Price        *float64
	Duration     *string
	InstructorID *string
	IsPublished  bool
	IsTrending   bool
	UpdatedAt    time.Time

	Instructor   *Profile
	Modules      []Module
	Reviews      []Review
	Objectives   []string
	Requirements []string
}

// Enrollment is one enrollment row with the course (and its instructor)
// joined. Course is nil when the referenced course row no longer resolves.
type Enrollment struct {
	UserID         string
	CourseID       string
	Progress       int
	LastAccessedAt *time.Time
	EnrolledAt     time.Time
	Course         *Course
}

// NewCourse carries the writable fields for course creation. The repository
// assigns the id and timestamps; the course is created unpublished.
type NewCourse struct {
	Title        string
	Description  string
	ThumbnailURL string
	Category     string
	Level        string
	Price        float64
	Duration     string
	InstructorID string
}
