package controllers

import (
	"strings"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// withContent preloads the course's chapter/lecture tree sorted by the
// editor-assigned order keys. Order keys may be sparse or duplicated, so
// consumers always sort by them, never index.
func withContent(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Chapters", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_deleted = ?", false).Order("chapter_order asc")
		}).
		Preload("Chapters.Lectures", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_deleted = ?", false).Order("lecture_order asc")
		})
}

// GetAllCourses lists published courses, optionally paginated
func GetAllCourses(c *fiber.Ctx) error {
	db := database.Database.Db.Model(&courseModels.Course{}).
		Where("is_published = ? AND is_deleted = ?", true, false)

	reqData, ok := c.Locals("validatedList").(*struct {
		Page  *int `query:"page"`
		Limit *int `query:"limit"`
	})
	if !ok {
		var courses []courseModels.Course
		if err := db.Order("created_at desc").Find(&courses).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
			"courses": courses,
		})
	}

	page := *reqData.Page
	limit := *reqData.Limit
	offset := (page - 1) * limit

	var total int64
	db.Count(&total)

	var courses []courseModels.Course
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// SearchCourses filters published courses by free text, category and level
func SearchCourses(c *fiber.Ctx) error {
	query := c.Query("query")
	category := c.Query("category")
	level := c.Query("level")

	db := database.Database.Db.Where("is_published = ? AND is_deleted = ?", true, false)

	if query != "" {
		// LOWER on both sides keeps the match case-insensitive on postgres
		// and sqlite alike
		like := "%" + strings.ToLower(query) + "%"
		db = db.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if category != "" {
		db = db.Where("category = ?", category)
	}
	if level != "" {
		db = db.Where("level = ?", level)
	}

	var courses []courseModels.Course
	if err := db.Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to search courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
	})
}

// GetCourseDetails returns one course with its full content tree, ratings
// and quizzes. Quiz questions never include correct answers here.
func GetCourseDetails(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	err := withContent(database.Database.Db).
		Preload("Ratings", "is_deleted = ?", false).
		Preload("Quizzes", "is_deleted = ?", false).
		Where("id = ? AND is_deleted = ?", courseID, false).
		First(&course).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", fiber.Map{
		"course": course,
	})
}

// CreateCourse creates a new course owned by the calling educator
func CreateCourse(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCourse").(*struct {
		Title         string  `json:"title" validate:"required"`
		Description   string  `json:"description" validate:"required"`
		Category      string  `json:"category" validate:"required"`
		Level         string  `json:"level" validate:"omitempty,oneof=Beginner Intermediate Advanced"`
		Price         float64 `json:"price" validate:"gte=0"`
		Thumbnail     string  `json:"thumbnail"`
		InstructorBio string  `json:"instructor_bio"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	level := reqData.Level
	if level == "" {
		level = "Beginner"
	}

	course := courseModels.Course{
		Title:           reqData.Title,
		Description:     reqData.Description,
		Category:        reqData.Category,
		Level:           level,
		Price:           reqData.Price,
		Thumbnail:       reqData.Thumbnail,
		InstructorID:    user.ID,
		InstructorName:  user.Name,
		InstructorBio:   reqData.InstructorBio,
		InstructorImage: user.ProfileImage,
	}

	if err := database.Database.Db.Create(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course created successfully!", course)
}

// findOwnedCourse loads a course and checks the caller owns it. On failure
// the rejection response is already written and the course is nil, so
// callers must gate on the pointer rather than the returned error.
func findOwnedCourse(c *fiber.Ctx, courseID int) (*courseModels.Course, error) {
	user := c.Locals("user").(models.User)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if course.InstructorID != user.ID && user.Role != "ADMIN" {
		return nil, middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not authorized to modify this course!", nil)
	}
	return &course, nil
}

// UpdateCourse applies a partial update to an owned course
func UpdateCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	course, err := findOwnedCourse(c, courseID)
	if course == nil {
		return err
	}

	reqData, ok := c.Locals("validatedCourseUpdate").(*struct {
		Title       *string  `json:"title"`
		Description *string  `json:"description"`
		Category    *string  `json:"category"`
		Level       *string  `json:"level" validate:"omitempty,oneof=Beginner Intermediate Advanced"`
		Price       *float64 `json:"price" validate:"omitempty,gte=0"`
		Thumbnail   *string  `json:"thumbnail"`
		IsPublished *bool    `json:"is_published"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != nil {
		course.Title = *reqData.Title
	}
	if reqData.Description != nil {
		course.Description = *reqData.Description
	}
	if reqData.Category != nil {
		course.Category = *reqData.Category
	}
	if reqData.Level != nil {
		course.Level = *reqData.Level
	}
	if reqData.Price != nil {
		course.Price = *reqData.Price
	}
	if reqData.Thumbnail != nil {
		course.Thumbnail = *reqData.Thumbnail
	}
	if reqData.IsPublished != nil {
		course.IsPublished = *reqData.IsPublished
	}

	if err := database.Database.Db.Save(course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// DeleteCourse soft-deletes an owned course
func DeleteCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	course, err := findOwnedCourse(c, courseID)
	if course == nil {
		return err
	}

	course.IsDeleted = true
	course.IsPublished = false
	if err := database.Database.Db.Save(course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

// AddChapter appends a chapter to an owned course
func AddChapter(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	course, err := findOwnedCourse(c, courseID)
	if course == nil {
		return err
	}

	reqData, ok := c.Locals("validatedChapter").(*struct {
		Title        string `json:"title"`
		Description  string `json:"description"`
		ChapterOrder int    `json:"chapter_order"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	chapter := courseModels.Chapter{
		CourseID:     course.ID,
		Title:        reqData.Title,
		Description:  reqData.Description,
		ChapterOrder: reqData.ChapterOrder,
	}

	if err := database.Database.Db.Create(&chapter).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add chapter!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chapter added successfully!", chapter)
}

// AddLecture appends a lecture to a chapter of an owned course
func AddLecture(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)
	chapterID := c.Locals("chapterID").(int)

	course, err := findOwnedCourse(c, courseID)
	if course == nil {
		return err
	}

	var chapter courseModels.Chapter
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", chapterID, course.ID, false).First(&chapter).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Chapter not found!", nil)
	}

	reqData, ok := c.Locals("validatedLecture").(*struct {
		Title        string `json:"title"`
		LectureType  string `json:"lecture_type"`
		Content      string `json:"content"`
		Duration     int    `json:"duration"`
		LectureOrder int    `json:"lecture_order"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	lecture := courseModels.Lecture{
		ChapterID:    chapter.ID,
		CourseID:     course.ID,
		Title:        reqData.Title,
		LectureType:  reqData.LectureType,
		Content:      reqData.Content,
		Duration:     reqData.Duration,
		LectureOrder: reqData.LectureOrder,
	}

	if err := database.Database.Db.Create(&lecture).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add lecture!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lecture added successfully!", lecture)
}

// AddCourseRating upserts the calling user's rating of a course
func AddCourseRating(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData, ok := c.Locals("validatedRating").(*struct {
		Rating int    `json:"rating"`
		Review string `json:"review"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// One rating per user, latest submission wins
	var rating courseModels.Rating
	err := database.Database.Db.Where("course_id = ? AND user_id = ? AND is_deleted = ?", course.ID, userID, false).First(&rating).Error
	if err == nil {
		rating.Rating = reqData.Rating
		rating.Review = reqData.Review
		if err := database.Database.Db.Save(&rating).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update rating!", nil)
		}
	} else {
		rating = courseModels.Rating{
			CourseID: course.ID,
			UserID:   userID,
			Rating:   reqData.Rating,
			Review:   reqData.Review,
		}
		if err := database.Database.Db.Create(&rating).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save rating!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Rating saved successfully!", rating)
}

// GetInstructorCourses lists courses created by the calling educator
func GetInstructorCourses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var courses []courseModels.Course
	if err := database.Database.Db.Where("instructor_id = ? AND is_deleted = ?", userID, false).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
	})
}

// UploadThumbnail stores a thumbnail file for an owned course
func UploadThumbnail(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	course, err := findOwnedCourse(c, courseID)
	if course == nil {
		return err
	}

	file, err := c.FormFile("thumbnail")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Thumbnail file is required!", nil)
	}

	filePath, err := utils.SaveUploadedFile(file, config.AppConfig.UploadDir)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store thumbnail!", nil)
	}

	course.Thumbnail = utils.GetFileURL(filePath)
	if err := database.Database.Db.Save(course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Thumbnail uploaded successfully!", fiber.Map{
		"thumbnail": course.Thumbnail,
	})
}
