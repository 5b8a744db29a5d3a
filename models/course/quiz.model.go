package course

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Quiz belongs to a course, optionally scoped to one chapter
type Quiz struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	ChapterID   *uint  `json:"chapter_id"` // nil for a full-course quiz
	Title       string `json:"title"`
	Description string `json:"description"`

	// TotalPoints is the sum of question points, recomputed on create/update
	TotalPoints  int  `json:"total_points" gorm:"default:0"`
	PassingScore int  `json:"passing_score" gorm:"default:70"` // percentage
	TimeLimit    int  `json:"time_limit" gorm:"default:0"`     // in minutes, 0 for untimed
	IsTimed      bool `json:"is_timed" gorm:"default:false"`
	IsDeleted    bool `gorm:"default:false"`

	Questions []Question    `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
	Attempts  []QuizAttempt `json:"-" gorm:"foreignKey:QuizID"`
}

// Question holds one quiz question. CorrectAnswer is never serialized so
// pre-submission reads cannot leak it.
type Question struct {
	gorm.Model
	QuizID        uint           `json:"quiz_id" gorm:"index;not null"`
	QuestionText  string         `json:"question_text" gorm:"type:text"`
	QuestionType  string         `json:"question_type" gorm:"default:'multiple-choice'"` // multiple-choice, true-false, short-answer
	Options       datatypes.JSON `json:"options"`                                        // string array, for multiple choice
	CorrectAnswer string         `json:"-" gorm:"type:text"`
	Points        int            `json:"points" gorm:"default:1"`
	IsDeleted     bool           `gorm:"default:false"`
}

// QuizAttempt is one graded submission. Attempts are append-only history,
// multiple attempts permitted with no cap.
type QuizAttempt struct {
	gorm.Model
	QuizID    uint           `json:"quiz_id" gorm:"index;not null"`
	UserID    uint           `json:"user_id" gorm:"index;not null"`
	Score     int            `json:"score"` // percentage
	Answers   datatypes.JSON `json:"answers"`
	TimeTaken int            `json:"time_taken"` // in seconds, client-reported
	IsDeleted bool           `gorm:"default:false"`
}

// QuizScore reflects the latest attempt per quiz on an enrollment,
// upserted by quiz ID
type QuizScore struct {
	gorm.Model
	EnrollmentID   uint      `json:"enrollment_id" gorm:"index;not null;uniqueIndex:idx_enrollment_quiz"`
	QuizID         uint      `json:"quiz_id" gorm:"not null;uniqueIndex:idx_enrollment_quiz"`
	Score          int       `json:"score"` // percentage
	TotalQuestions int       `json:"total_questions"`
	AttemptedAt    time.Time `json:"attempted_at"`
}
