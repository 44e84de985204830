package entity

// LessonType is the fixed content-type vocabulary for lessons.
type LessonType string

const (
	LessonTypeVideo      LessonType = "video"
	LessonTypeReading    LessonType = "reading"
	LessonTypeQuiz       LessonType = "quiz"
	LessonTypeAssignment LessonType = "assignment"
	LessonTypeOther      LessonType = "other"
)

// ParseLessonType maps a stored type string onto the vocabulary. Unknown or
// empty values become LessonTypeOther rather than an error.
func ParseLessonType(s string) LessonType {
	switch LessonType(s) {
	case LessonTypeVideo, LessonTypeReading, LessonTypeQuiz, LessonTypeAssignment:
		return LessonType(s)
	default:
		return LessonTypeOther
	}
}
