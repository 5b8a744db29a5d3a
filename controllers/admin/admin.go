package controllers

import (
	"strconv"
	"strings"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

func pagination(c *fiber.Ctx) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.Query("page", "1"))
	limit, _ = strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit, (page - 1) * limit
}

// GetAllUsers lists every registered user
func GetAllUsers(c *fiber.Ctx) error {
	page, limit, offset := pagination(c)

	var total int64
	database.Database.Db.Model(&models.User{}).Where("is_deleted = ?", false).Count(&total)

	var users []models.User
	err := database.Database.Db.
		Where("is_deleted = ?", false).
		Order("created_at desc").
		Limit(limit).Offset(offset).
		Find(&users).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully!", fiber.Map{
		"users": users,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetAllEnrollments lists every enrollment with user and course context
func GetAllEnrollments(c *fiber.Ctx) error {
	page, limit, offset := pagination(c)

	// Enrollments are permanent records and carry no soft-delete flag.
	var total int64
	database.Database.Db.Model(&courseModels.Enrollment{}).Count(&total)

	var enrollments []courseModels.Enrollment
	err := database.Database.Db.
		Preload("Course").
		Order("created_at desc").
		Limit(limit).Offset(offset).
		Find(&enrollments).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": enrollments,
		"total":       total,
		"page":        page,
		"limit":       limit,
	})
}

// GetAllPayments lists every payment, optionally filtered by status
func GetAllPayments(c *fiber.Ctx) error {
	page, limit, offset := pagination(c)

	query := database.Database.Db.Model(&models.Payment{}).Where("is_deleted = ?", false)
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		query = query.Where("status = ?", strings.ToUpper(status))
	}

	var total int64
	query.Count(&total)

	var payments []models.Payment
	err := query.
		Order("created_at desc").
		Limit(limit).Offset(offset).
		Find(&payments).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch payments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payments fetched successfully!", fiber.Map{
		"payments": payments,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// GetStatistics returns platform-wide totals for the admin dashboard
func GetStatistics(c *fiber.Ctx) error {
	db := database.Database.Db

	var totalUsers, totalCourses, totalEnrollments, totalCertificates int64
	db.Model(&models.User{}).Where("is_deleted = ?", false).Count(&totalUsers)
	db.Model(&courseModels.Course{}).Where("is_deleted = ?", false).Count(&totalCourses)
	db.Model(&courseModels.Enrollment{}).Count(&totalEnrollments)
	db.Model(&courseModels.Certificate{}).Where("is_deleted = ?", false).Count(&totalCertificates)

	var totalRevenue float64
	db.Model(&models.Payment{}).
		Where("status = ? AND is_deleted = ?", models.PaymentStatusCompleted, false).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totalRevenue)

	var completedEnrollments int64
	db.Model(&courseModels.Enrollment{}).
		Where("is_completed = ?", true).
		Count(&completedEnrollments)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Statistics fetched successfully!", fiber.Map{
		"total_users":           totalUsers,
		"total_courses":         totalCourses,
		"total_enrollments":     totalEnrollments,
		"completed_enrollments": completedEnrollments,
		"total_certificates":    totalCertificates,
		"total_revenue":         totalRevenue,
	})
}

// DeleteUser soft deletes a user account
func DeleteUser(c *fiber.Ctx) error {
	targetID, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
	if err != nil || targetID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid User ID!", nil)
	}

	admin := c.Locals("user").(models.User)
	if admin.ID == uint(targetID) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Cannot delete your own account!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", targetID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if err := database.Database.Db.Model(&user).Update("is_deleted", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User deleted successfully!", nil)
}

// UpdateUserRole promotes or demotes a user between STUDENT, EDUCATOR and ADMIN
func UpdateUserRole(c *fiber.Ctx) error {
	targetID, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
	if err != nil || targetID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid User ID!", nil)
	}

	reqData := new(struct {
		Role string `json:"role"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	role := strings.ToUpper(strings.TrimSpace(reqData.Role))
	if role != "STUDENT" && role != "EDUCATOR" && role != "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Role must be STUDENT, EDUCATOR or ADMIN!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", targetID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if err := database.Database.Db.Model(&user).Update("role", role).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update role!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Role updated successfully!", user)
}
