package controllers

import (
	"encoding/json"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	quizValidator "lms/validators/quiz"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func buildQuestions(quizID uint, reqs []quizValidator.QuestionRequest) ([]courseModels.Question, int) {
	questions := make([]courseModels.Question, 0, len(reqs))
	totalPoints := 0
	for _, q := range reqs {
		points := q.Points
		if points == 0 {
			points = 1
		}
		questionType := q.QuestionType
		if questionType == "" {
			questionType = "multiple-choice"
		}
		optionsJSON, _ := json.Marshal(q.Options)
		questions = append(questions, courseModels.Question{
			QuizID:        quizID,
			QuestionText:  q.QuestionText,
			QuestionType:  questionType,
			Options:       datatypes.JSON(optionsJSON),
			CorrectAnswer: q.CorrectAnswer,
			Points:        points,
		})
		totalPoints += points
	}
	return questions, totalPoints
}

// CreateQuiz creates a quiz on a course owned by the calling educator.
// TotalPoints is computed as the sum of question points.
func CreateQuiz(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedQuiz").(*quizValidator.CreateQuizRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", reqData.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	if course.InstructorID != user.ID && user.Role != "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not authorized to modify this course!", nil)
	}

	passingScore := reqData.PassingScore
	if passingScore == 0 {
		passingScore = 70
	}

	quiz := courseModels.Quiz{
		CourseID:     course.ID,
		ChapterID:    reqData.ChapterID,
		Title:        reqData.Title,
		Description:  reqData.Description,
		PassingScore: passingScore,
		TimeLimit:    reqData.TimeLimit,
		IsTimed:      reqData.IsTimed,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&quiz).Error; err != nil {
			return err
		}
		questions, totalPoints := buildQuestions(quiz.ID, reqData.Questions)
		if err := tx.Create(&questions).Error; err != nil {
			return err
		}
		quiz.TotalPoints = totalPoints
		return tx.Save(&quiz).Error
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz created successfully!", quiz)
}

// GetQuiz returns one quiz with its questions. Correct answers are never
// serialized on this path.
func GetQuiz(c *fiber.Ctx) error {
	quizID := c.Locals("quizID").(int)

	var quiz courseModels.Quiz
	err := database.Database.Db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_deleted = ?", false).Order("id asc")
		}).
		Where("id = ? AND is_deleted = ?", quizID, false).
		First(&quiz).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully!", quiz)
}

// GetCourseQuizzes lists all quizzes of a course, without correct answers
func GetCourseQuizzes(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var quizzes []courseModels.Quiz
	err := database.Database.Db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_deleted = ?", false).Order("id asc")
		}).
		Where("course_id = ? AND is_deleted = ?", courseID, false).
		Find(&quizzes).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quizzes!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quizzes fetched successfully!", fiber.Map{
		"quizzes": quizzes,
	})
}

// findOwnedQuiz loads a quiz and checks the caller owns its course. As with
// findOwnedCourse, a nil quiz means the rejection response is already written.
func findOwnedQuiz(c *fiber.Ctx, quizID int) (*courseModels.Quiz, error) {
	user := c.Locals("user").(models.User)
	db := database.Database.Db

	var quiz courseModels.Quiz
	if err := db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	var course courseModels.Course
	if err := db.First(&course, quiz.CourseID).Error; err != nil {
		return nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	if course.InstructorID != user.ID && user.Role != "ADMIN" {
		return nil, middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not authorized to modify this quiz!", nil)
	}
	return &quiz, nil
}

// UpdateQuiz updates quiz metadata and optionally replaces its questions,
// recomputing TotalPoints when they change
func UpdateQuiz(c *fiber.Ctx) error {
	quizID := c.Locals("quizID").(int)

	quiz, err := findOwnedQuiz(c, quizID)
	if quiz == nil {
		return err
	}

	reqData, ok := c.Locals("validatedQuizUpdate").(*quizValidator.UpdateQuizRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != nil {
		quiz.Title = *reqData.Title
	}
	if reqData.Description != nil {
		quiz.Description = *reqData.Description
	}
	if reqData.PassingScore != nil {
		quiz.PassingScore = *reqData.PassingScore
	}
	if reqData.TimeLimit != nil {
		quiz.TimeLimit = *reqData.TimeLimit
	}
	if reqData.IsTimed != nil {
		quiz.IsTimed = *reqData.IsTimed
	}

	db := database.Database.Db
	txErr := db.Transaction(func(tx *gorm.DB) error {
		if len(reqData.Questions) > 0 {
			if err := tx.Where("quiz_id = ?", quiz.ID).Delete(&courseModels.Question{}).Error; err != nil {
				return err
			}
			questions, totalPoints := buildQuestions(quiz.ID, reqData.Questions)
			if err := tx.Create(&questions).Error; err != nil {
				return err
			}
			quiz.TotalPoints = totalPoints
		}
		return tx.Save(quiz).Error
	})
	if txErr != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz updated successfully!", quiz)
}

// DeleteQuiz soft-deletes a quiz on an owned course
func DeleteQuiz(c *fiber.Ctx) error {
	quizID := c.Locals("quizID").(int)

	quiz, err := findOwnedQuiz(c, quizID)
	if quiz == nil {
		return err
	}

	quiz.IsDeleted = true
	if err := database.Database.Db.Save(quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz deleted successfully!", nil)
}

// SubmitQuiz grades a submission. Answers are matched against stored
// correct answers by question position with exact string equality, no
// normalization and no partial credit. The attempt is appended to the
// immutable history; the enrollment's quiz score is upserted to reflect the
// latest submission.
func SubmitQuiz(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	quizID := c.Locals("quizID").(int)

	reqData, ok := c.Locals("validatedSubmission").(*quizValidator.SubmitQuizRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var quiz courseModels.Quiz
	err := db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_deleted = ?", false).Order("id asc")
		}).
		Where("id = ? AND is_deleted = ?", quizID, false).
		First(&quiz).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	earnedPoints := 0
	for i, question := range quiz.Questions {
		if i < len(reqData.Answers) && reqData.Answers[i] == question.CorrectAnswer {
			earnedPoints += question.Points
		}
	}

	scorePercentage := 0
	if quiz.TotalPoints > 0 {
		scorePercentage = int(math.Round(float64(earnedPoints) / float64(quiz.TotalPoints) * 100))
	}
	passed := scorePercentage >= quiz.PassingScore

	answersJSON, _ := json.Marshal(reqData.Answers)
	attempt := courseModels.QuizAttempt{
		QuizID:    quiz.ID,
		UserID:    user.ID,
		Score:     scorePercentage,
		Answers:   datatypes.JSON(answersJSON),
		TimeTaken: reqData.TimeTaken,
	}
	if err := db.Create(&attempt).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit quiz!", nil)
	}

	// Reflect the latest score on the enrollment when one exists; a
	// submission without an enrollment is graded but not recorded
	var enrollment courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ?", user.ID, quiz.CourseID).First(&enrollment).Error; err == nil {
		now := time.Now()
		var quizScore courseModels.QuizScore
		var upsertErr error
		if err := db.Where("enrollment_id = ? AND quiz_id = ?", enrollment.ID, quiz.ID).First(&quizScore).Error; err == nil {
			quizScore.Score = scorePercentage
			quizScore.TotalQuestions = len(quiz.Questions)
			quizScore.AttemptedAt = now
			upsertErr = db.Save(&quizScore).Error
		} else {
			quizScore = courseModels.QuizScore{
				EnrollmentID:   enrollment.ID,
				QuizID:         quiz.ID,
				Score:          scorePercentage,
				TotalQuestions: len(quiz.Questions),
				AttemptedAt:    now,
			}
			upsertErr = db.Create(&quizScore).Error
		}
		if upsertErr != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record quiz score!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submitted successfully!", fiber.Map{
		"score":         scorePercentage,
		"passed":        passed,
		"total_points":  quiz.TotalPoints,
		"earned_points": earnedPoints,
	})
}

// GetQuizAttempts lists the calling user's attempt history for a quiz
func GetQuizAttempts(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	quizID := c.Locals("quizID").(int)

	var attempts []courseModels.QuizAttempt
	err := database.Database.Db.
		Where("quiz_id = ? AND user_id = ? AND is_deleted = ?", quizID, userID, false).
		Order("created_at desc").
		Find(&attempts).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch attempts!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempts fetched successfully!", fiber.Map{
		"attempts": attempts,
	})
}
