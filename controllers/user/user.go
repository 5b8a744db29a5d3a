package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// GetUserData returns the calling user's profile
func GetUserData(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User fetched successfully!", user)
}

// GetEnrolledCourses lists the caller's enrollments with their course and
// progress state, newest first.
func GetEnrolledCourses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var enrollments []courseModels.Enrollment
	err := database.Database.Db.
		Where("user_id = ?", userID).
		Preload("Course").
		Preload("Progress").
		Order("created_at desc").
		Find(&enrollments).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled courses fetched successfully!", fiber.Map{
		"enrollments": enrollments,
		"total":       len(enrollments),
	})
}

// UpdateProfile edits the caller's display name and profile image. Email and
// role come from the identity provider and admin surface respectively and are
// not editable here.
func UpdateProfile(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedProfile").(*struct {
		Name         *string `json:"name" validate:"omitempty,min=2,max=100"`
		ProfileImage *string `json:"profile_image" validate:"omitempty,max=500"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	updates := make(map[string]interface{})
	if reqData.Name != nil {
		updates["name"] = *reqData.Name
	}
	if reqData.ProfileImage != nil {
		updates["profile_image"] = *reqData.ProfileImage
	}
	if len(updates) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Nothing to update!", nil)
	}

	if err := database.Database.Db.Model(&user).Updates(updates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully!", user)
}
