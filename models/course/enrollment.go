package course

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment binds one student to one course. At most one enrollment exists
// per (user, course) pair. Enrollments are a historical record and are never
// deleted.
type Enrollment struct {
	gorm.Model
	UserID    uint `json:"user_id" gorm:"not null;uniqueIndex:idx_user_course"`
	CourseID  uint `json:"course_id" gorm:"not null;uniqueIndex:idx_user_course"`
	PaymentID uint `json:"payment_id" gorm:"index"`

	// CompletionPercentage is derived from progress entries against the
	// course's live lecture count, never authoritative on its own
	CompletionPercentage int        `json:"completion_percentage" gorm:"default:0"`
	IsCompleted          bool       `json:"is_completed" gorm:"default:false"` // monotonic, never reset
	CompletedAt          *time.Time `json:"completed_at"`

	CertificateIssued bool  `json:"certificate_issued" gorm:"default:false"`
	CertificateID     *uint `json:"certificate_id"`

	Progress   []LectureProgress `json:"progress,omitempty" gorm:"foreignKey:EnrollmentID"`
	QuizScores []QuizScore       `json:"quiz_scores,omitempty" gorm:"foreignKey:EnrollmentID"`

	Course      *Course      `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	Certificate *Certificate `json:"certificate,omitempty" gorm:"foreignKey:CertificateID"`
}

// LectureProgress is a single (chapter, lecture) completion fact. At most
// one entry exists per key; writes upsert.
type LectureProgress struct {
	gorm.Model
	EnrollmentID uint `json:"enrollment_id" gorm:"not null;uniqueIndex:idx_enrollment_lecture"`
	ChapterID    uint `json:"chapter_id" gorm:"not null;uniqueIndex:idx_enrollment_lecture"`
	LectureID    uint `json:"lecture_id" gorm:"not null;uniqueIndex:idx_enrollment_lecture"`
	Completed    bool `json:"completed" gorm:"default:false"`

	// Stamped on the false->true transition only; clearing the flag keeps
	// the first completion time
	CompletedAt *time.Time `json:"completed_at"`
}
