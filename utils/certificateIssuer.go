package utils

import (
	"errors"
	"fmt"
	"lms/models"
	courseModels "lms/models/course"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotCompleted is returned when issuance is attempted for an enrollment
// that has not reached completion.
var ErrNotCompleted = errors.New("enrollment is not completed")

// NewCertificateNumber builds the public certificate identifier: a time
// prefix plus a random suffix. Collisions are negligible but not guaranteed
// impossible; the unique column is the backstop.
func NewCertificateNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("CERT-%d-%s", time.Now().UnixMilli(), suffix)
}

// IssueCertificate mints the certificate for a completed enrollment and
// records it on the enrollment. Idempotent per enrollment: an existing
// certificate is returned instead of minting a second one.
func IssueCertificate(db *gorm.DB, enrollmentID uint) (*courseModels.Certificate, error) {
	var enrollment courseModels.Enrollment
	if err := db.First(&enrollment, enrollmentID).Error; err != nil {
		return nil, err
	}

	// Checked again here so direct misuse cannot mint an early certificate
	if !enrollment.IsCompleted {
		return nil, ErrNotCompleted
	}

	var existing courseModels.Certificate
	if err := db.Where("enrollment_id = ? AND is_deleted = ?", enrollmentID, false).First(&existing).Error; err == nil {
		if !enrollment.CertificateIssued || enrollment.CertificateID == nil {
			enrollment.CertificateIssued = true
			enrollment.CertificateID = &existing.ID
			if err := db.Save(&enrollment).Error; err != nil {
				return nil, err
			}
		}
		return &existing, nil
	}

	var user models.User
	if err := db.First(&user, enrollment.UserID).Error; err != nil {
		return nil, err
	}
	var course courseModels.Course
	if err := db.First(&course, enrollment.CourseID).Error; err != nil {
		return nil, err
	}

	certificate := courseModels.Certificate{
		UserID:            enrollment.UserID,
		CourseID:          enrollment.CourseID,
		EnrollmentID:      enrollment.ID,
		CertificateNumber: NewCertificateNumber(),
		StudentName:       user.Name,
		CourseName:        course.Title,
		InstructorName:    course.InstructorName,
		IssueDate:         time.Now(),
		CompletionDate:    enrollment.CompletedAt,
		Verified:          true,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&certificate).Error; err != nil {
			return err
		}
		enrollment.CertificateIssued = true
		enrollment.CertificateID = &certificate.ID
		return tx.Save(&enrollment).Error
	})
	if err != nil {
		return nil, err
	}

	SendCertificateEmail(user.Email, user.Name, course.Title, certificate.CertificateNumber)

	return &certificate, nil
}
