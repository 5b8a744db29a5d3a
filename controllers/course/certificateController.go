package controllers

import (
	"errors"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// GenerateCertificate mints a certificate for a completed enrollment. The
// completion precondition is re-checked at the issuance boundary so direct
// calls cannot mint early certificates.
func GenerateCertificate(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(struct {
		EnrollmentID uint `json:"enrollment_id"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.EnrollmentID == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Enrollment ID is required!", nil)
	}

	db := database.Database.Db

	var enrollment courseModels.Enrollment
	if err := db.First(&enrollment, reqData.EnrollmentID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}
	if enrollment.UserID != user.ID && user.Role != "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not authorized for this enrollment!", nil)
	}

	certificate, err := utils.IssueCertificate(db, enrollment.ID)
	if err != nil {
		if errors.Is(err, utils.ErrNotCompleted) {
			return middleware.JsonResponse(c, fiber.StatusPreconditionFailed, false, "Course not completed yet!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to issue certificate!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate issued successfully!", certificate)
}

// GetCertificate returns one certificate record by internal ID
func GetCertificate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	certID, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
	if err != nil || certID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Certificate ID!", nil)
	}

	var certificate courseModels.Certificate
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", certID, false).First(&certificate).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
	}

	user := c.Locals("user").(models.User)
	if certificate.UserID != userID && user.Role != "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not authorized to view this certificate!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate fetched successfully!", certificate)
}

// VerifyCertificate is the public, unauthenticated verification endpoint.
// It exposes only the denormalized display fields, never internal IDs.
func VerifyCertificate(c *fiber.Ctx) error {
	certificateNumber := strings.TrimSpace(c.Params("certificateId"))
	if certificateNumber == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Certificate ID is required!", nil)
	}

	var certificate courseModels.Certificate
	err := database.Database.Db.
		Where("certificate_number = ? AND is_deleted = ?", certificateNumber, false).
		First(&certificate).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found or invalid!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate verified!", fiber.Map{
		"verified": certificate.Verified,
		"certificate": fiber.Map{
			"student_name":   certificate.StudentName,
			"course_name":    certificate.CourseName,
			"issue_date":     certificate.IssueDate,
			"certificate_id": certificate.CertificateNumber,
		},
	})
}

// DownloadCertificate streams the certificate as a PDF attachment
func DownloadCertificate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	certID, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
	if err != nil || certID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Certificate ID!", nil)
	}

	var certificate courseModels.Certificate
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", certID, false).First(&certificate).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
	}

	user := c.Locals("user").(models.User)
	if certificate.UserID != userID && user.Role != "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not authorized to download this certificate!", nil)
	}

	pdfBytes, err := utils.RenderCertificatePDF(&certificate)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to render certificate!", nil)
	}

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", "attachment; filename=certificate-"+certificate.CertificateNumber+".pdf")
	return c.Send(pdfBytes)
}

// GetUserCertificates lists all certificates issued to the calling user
func GetUserCertificates(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var certificates []courseModels.Certificate
	err := database.Database.Db.
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("issue_date desc").
		Find(&certificates).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates": certificates,
		"total":        len(certificates),
	})
}
