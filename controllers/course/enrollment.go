package controllers

import (
	"errors"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"
	"log"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	errEnrollmentNotFound = errors.New("enrollment not found")
	errCourseNotFound     = errors.New("course not found")
)

// CreateEnrollment enrolls the calling user into a course after a completed
// payment. The enrollment insert and the course counter increment run in one
// transaction.
func CreateEnrollment(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedEnrollment").(*struct {
		CourseID  uint `json:"course_id"`
		PaymentID uint `json:"payment_id"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ? AND is_published = ?", reqData.CourseID, false, true).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// At most one enrollment per (user, course)
	var existing courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Already enrolled in this course!", nil)
	}

	// A completed payment for this user and course gates enrollment
	var payment models.Payment
	if err := db.Where("id = ? AND is_deleted = ?", reqData.PaymentID, false).First(&payment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Payment not found!", nil)
	}
	if payment.UserID != user.ID || payment.CourseID != course.ID || payment.Status != models.PaymentStatusCompleted {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Payment does not confirm this purchase!", nil)
	}

	enrollment := courseModels.Enrollment{
		UserID:    user.ID,
		CourseID:  course.ID,
		PaymentID: payment.ID,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&enrollment).Error; err != nil {
			return err
		}
		return tx.Model(&courseModels.Course{}).Where("id = ?", course.ID).
			UpdateColumn("total_enrollments", gorm.Expr("total_enrollments + ?", 1)).Error
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}

	utils.SendEnrollmentEmail(user.Email, user.Name, course.Title)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled in course successfully!", enrollment)
}

// GetEnrollment returns one enrollment with its course and certificate
func GetEnrollment(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollmentID := c.Locals("enrollmentID").(int)

	var enrollment courseModels.Enrollment
	err := database.Database.Db.
		Preload("Course").
		Preload("Certificate").
		Preload("Progress").
		Preload("QuizScores").
		First(&enrollment, enrollmentID).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	if enrollment.UserID != user.ID && user.Role != "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not authorized to view this enrollment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment fetched successfully!", enrollment)
}

// UpdateProgress upserts one (chapter, lecture) progress entry, recomputes
// the completion percentage against the course's live lecture count, and on
// reaching 100 flips the completion ratchet. The whole read-modify-write
// runs under a row lock on the enrollment so concurrent writers serialize.
func UpdateProgress(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollmentID := c.Locals("enrollmentID").(int)

	reqData, ok := c.Locals("validatedProgress").(*struct {
		ChapterID uint  `json:"chapter_id"`
		LectureID uint  `json:"lecture_id"`
		Completed *bool `json:"completed"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	completed := *reqData.Completed

	db := database.Database.Db

	var enrollment courseModels.Enrollment
	completedNow := false

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&enrollment, enrollmentID).Error; err != nil {
			return errEnrollmentNotFound
		}

		if enrollment.UserID != user.ID && user.Role != "ADMIN" {
			return gorm.ErrInvalidData
		}

		var course courseModels.Course
		if err := tx.Where("id = ? AND is_deleted = ?", enrollment.CourseID, false).First(&course).Error; err != nil {
			return errCourseNotFound
		}

		now := time.Now()

		// Upsert the progress entry for this (chapter, lecture) key
		var entry courseModels.LectureProgress
		err := tx.Where("enrollment_id = ? AND chapter_id = ? AND lecture_id = ?",
			enrollment.ID, reqData.ChapterID, reqData.LectureID).First(&entry).Error
		if err == nil {
			wasCompleted := entry.Completed
			entry.Completed = completed
			// CompletedAt is stamped on false->true only; reverting keeps
			// the first completion time
			if completed && !wasCompleted {
				entry.CompletedAt = &now
			}
			if err := tx.Save(&entry).Error; err != nil {
				return err
			}
		} else {
			entry = courseModels.LectureProgress{
				EnrollmentID: enrollment.ID,
				ChapterID:    reqData.ChapterID,
				LectureID:    reqData.LectureID,
				Completed:    completed,
			}
			if completed {
				entry.CompletedAt = &now
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}

		// Percentage is derived from the live lecture count, not a
		// snapshot: editing a course shifts existing students' percentages
		var totalLectures int64
		tx.Model(&courseModels.Lecture{}).Where("course_id = ? AND is_deleted = ?", course.ID, false).Count(&totalLectures)

		var completedCount int64
		tx.Model(&courseModels.LectureProgress{}).Where("enrollment_id = ? AND completed = ?", enrollment.ID, true).Count(&completedCount)

		percentage := 0
		if totalLectures > 0 {
			percentage = int(math.Round(float64(completedCount) / float64(totalLectures) * 100))
		}
		enrollment.CompletionPercentage = percentage

		// Completion is a ratchet: flips once, never reverts
		if percentage == 100 && !enrollment.IsCompleted {
			enrollment.IsCompleted = true
			enrollment.CompletedAt = &now
			completedNow = true
		}

		return tx.Save(&enrollment).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, errEnrollmentNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
		case errors.Is(err, errCourseNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		case errors.Is(err, gorm.ErrInvalidData):
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not authorized to update this enrollment!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
		}
	}

	// Issuance is decoupled from the percentage update: a failure here
	// leaves the enrollment completed and the scheduler retries it
	if completedNow {
		if _, err := utils.IssueCertificate(db, enrollment.ID); err != nil {
			log.Printf("Certificate issuance failed for enrollment %d: %v", enrollment.ID, err)
		} else {
			db.First(&enrollment, enrollment.ID)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress updated successfully!", enrollment)
}

// GetCourseProgress returns the calling user's enrollment in a course with
// all progress entries and quiz scores
func GetCourseProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var enrollment courseModels.Enrollment
	err := database.Database.Db.
		Preload("Course").
		Preload("Progress").
		Preload("QuizScores").
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Not enrolled in this course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"progress": enrollment,
	})
}
