package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Lecture types. Type is immutable once the lecture is created.
const (
	LectureTypeReading = "READING"
	LectureTypeQuiz    = "QUIZ"
)

// DefaultPassPercent is applied when a quiz is created without one.
const DefaultPassPercent = 70

// QuizQuestion is a single multiple-choice question. CorrectIndex must
// reference an existing entry in Options.
type QuizQuestion struct {
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
}

// Lecture is one ordered unit of course content, either a READING or a QUIZ.
// OrderIndex is not required to be unique within a course; ordering ties are
// broken by id so the sequence stays deterministic.
type Lecture struct {
	gorm.Model
	CourseID   uint   `json:"course_id" gorm:"index;not null"`
	OrderIndex int    `json:"order_index" gorm:"not null"`
	Type       string `json:"type" gorm:"not null"` // READING, QUIZ
	Title      string `json:"title" gorm:"not null"`

	// READING payload
	ContentText string `json:"content_text" gorm:"type:text"`
	ContentURL  string `json:"content_url"`

	// QUIZ payload. PassPercent may legitimately be 0, so the default is
	// applied at creation time rather than by a column default.
	PassPercent int                               `json:"pass_percent"`
	Questions   datatypes.JSONSlice[QuizQuestion] `json:"questions"`
}
