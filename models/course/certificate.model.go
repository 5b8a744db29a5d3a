package course

import (
	"time"

	"gorm.io/gorm"
)

// Certificate is an issued proof of course completion. Immutable once
// issued except for the Verified flag. Names are denormalized at issuance
// so the certificate reads correctly after later edits to user or course.
type Certificate struct {
	gorm.Model
	UserID       uint `json:"user_id" gorm:"index;not null"`
	CourseID     uint `json:"course_id" gorm:"index;not null"`
	EnrollmentID uint `json:"enrollment_id" gorm:"index;not null"`

	// Public human-readable identifier, e.g. CERT-1735689600000-9F2A41BC
	CertificateNumber string `json:"certificate_number" gorm:"unique;not null"`

	StudentName    string `json:"student_name" gorm:"not null"`
	CourseName     string `json:"course_name" gorm:"not null"`
	InstructorName string `json:"instructor_name"`

	IssueDate      time.Time  `json:"issue_date"`
	CompletionDate *time.Time `json:"completion_date"`
	Verified       bool       `json:"verified" gorm:"default:true"`
	IsDeleted      bool       `gorm:"default:false"`
}
