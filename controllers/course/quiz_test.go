package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"lms/models"
	courseModels "lms/models/course"
	validators "lms/validators/quiz"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newQuizTestApp(user models.User) *fiber.App {
	app := fiber.New()
	group := app.Group("/quiz", asUser(user))
	group.Post("/create", validators.CreateQuiz(), CreateQuiz)
	group.Get("/:id", validators.QuizIDParam(), GetQuiz)
	group.Patch("/:id", validators.QuizIDParam(), validators.UpdateQuiz(), UpdateQuiz)
	group.Delete("/:id", validators.QuizIDParam(), DeleteQuiz)
	group.Post("/:id/submit", validators.QuizIDParam(), validators.SubmitQuiz(), SubmitQuiz)
	group.Get("/:id/attempts", validators.QuizIDParam(), GetQuizAttempts)
	return app
}

// createTestQuiz seeds a three-question quiz worth 2+1+1 points
func createTestQuiz(t *testing.T, db *gorm.DB, course courseModels.Course) courseModels.Quiz {
	t.Helper()

	quiz := courseModels.Quiz{
		CourseID:     course.ID,
		Title:        "Soil Basics",
		PassingScore: 70,
		TotalPoints:  4,
	}
	require.NoError(t, db.Create(&quiz).Error)

	questions := []courseModels.Question{
		{QuizID: quiz.ID, QuestionText: "Best season to plant?", CorrectAnswer: "Spring", Points: 2},
		{QuizID: quiz.ID, QuestionText: "Do roots need oxygen?", QuestionType: "true-false", CorrectAnswer: "true", Points: 1},
		{QuizID: quiz.ID, QuestionText: "Ideal pH for most crops?", CorrectAnswer: "6.5", Points: 1},
	}
	require.NoError(t, db.Create(&questions).Error)
	return quiz
}

func TestCreateQuizComputesTotalPoints(t *testing.T) {
	db := setupTestDB(t)
	educator := createTestUser(t, db, "EDUCATOR")
	course := createTestCourse(t, db, educator)

	app := newQuizTestApp(educator)
	resp, body := doRequest(t, app, http.MethodPost, "/quiz/create", fiber.Map{
		"course_id": course.ID,
		"title":     "Watering 101",
		"questions": []fiber.Map{
			{"question_text": "How often in summer?", "correct_answer": "Daily", "points": 3},
			{"question_text": "Morning or evening?", "correct_answer": "Morning"},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, body.Message)

	var quiz courseModels.Quiz
	require.NoError(t, json.Unmarshal(body.Data, &quiz))
	assert.Equal(t, 4, quiz.TotalPoints) // 3 + default 1
	assert.Equal(t, 70, quiz.PassingScore)
}

func TestCreateQuizRequiresCourseOwnership(t *testing.T) {
	db := setupTestDB(t)
	educator := createTestUser(t, db, "EDUCATOR")
	course := createTestCourse(t, db, educator)

	other := models.User{ExternalID: "ext-other-educator", Email: "other@example.com", Name: "Other", Role: "EDUCATOR"}
	require.NoError(t, db.Create(&other).Error)

	app := newQuizTestApp(other)
	resp, _ := doRequest(t, app, http.MethodPost, "/quiz/create", fiber.Map{
		"course_id": course.ID,
		"title":     "Not Yours",
		"questions": []fiber.Map{
			{"question_text": "Q", "correct_answer": "A"},
		},
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestUpdateQuizOwnershipEnforced(t *testing.T) {
	db := setupTestDB(t)
	educator := createTestUser(t, db, "EDUCATOR")
	course := createTestCourse(t, db, educator)
	quiz := createTestQuiz(t, db, course)

	other := models.User{ExternalID: "ext-other-educator", Email: "other@example.com", Name: "Other", Role: "EDUCATOR"}
	require.NoError(t, db.Create(&other).Error)

	app := newQuizTestApp(other)
	resp, _ := doRequest(t, app, http.MethodPatch, fmt.Sprintf("/quiz/%d", quiz.ID),
		fiber.Map{"title": "Hijacked"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doRequest(t, app, http.MethodDelete, fmt.Sprintf("/quiz/%d", quiz.ID), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Unknown quiz is a 404, not a crash
	resp, _ = doRequest(t, app, http.MethodPatch, "/quiz/99999", fiber.Map{"title": "Ghost"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var saved courseModels.Quiz
	require.NoError(t, db.First(&saved, quiz.ID).Error)
	assert.NotEqual(t, "Hijacked", saved.Title)
	assert.False(t, saved.IsDeleted)
}

func TestGetQuizHidesAnswers(t *testing.T) {
	db := setupTestDB(t)
	educator := createTestUser(t, db, "EDUCATOR")
	student := createTestUser(t, db, "STUDENT")
	course := createTestCourse(t, db, educator)
	quiz := createTestQuiz(t, db, course)

	app := newQuizTestApp(student)
	resp, body := doRequest(t, app, http.MethodGet, fmt.Sprintf("/quiz/%d", quiz.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.NotContains(t, string(body.Data), "Spring")
	assert.NotContains(t, string(body.Data), "correct_answer")
	assert.Contains(t, string(body.Data), "Best season to plant?")
}

func TestSubmitQuizGrading(t *testing.T) {
	db := setupTestDB(t)
	educator := createTestUser(t, db, "EDUCATOR")
	student := createTestUser(t, db, "STUDENT")
	course := createTestCourse(t, db, educator)
	quiz := createTestQuiz(t, db, course)
	enrollStudent(t, db, student, course)

	app := newQuizTestApp(student)

	// First and third correct: 3 of 4 points, 75 >= 70 passes
	resp, body := doRequest(t, app, http.MethodPost, fmt.Sprintf("/quiz/%d/submit", quiz.ID),
		fiber.Map{"answers": []string{"Spring", "false", "6.5"}, "time_taken": 90})
	require.Equal(t, http.StatusOK, resp.StatusCode, body.Message)

	var result struct {
		Score        int  `json:"score"`
		Passed       bool `json:"passed"`
		TotalPoints  int  `json:"total_points"`
		EarnedPoints int  `json:"earned_points"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &result))
	assert.Equal(t, 75, result.Score)
	assert.True(t, result.Passed)
	assert.Equal(t, 4, result.TotalPoints)
	assert.Equal(t, 3, result.EarnedPoints)
}

func TestSubmitQuizExactMatchOnly(t *testing.T) {
	db := setupTestDB(t)
	educator := createTestUser(t, db, "EDUCATOR")
	student := createTestUser(t, db, "STUDENT")
	course := createTestCourse(t, db, educator)
	quiz := createTestQuiz(t, db, course)

	app := newQuizTestApp(student)

	// Case differences and padding do not match
	_, body := doRequest(t, app, http.MethodPost, fmt.Sprintf("/quiz/%d/submit", quiz.ID),
		fiber.Map{"answers": []string{"spring", " true", "6.5"}})

	var result struct {
		Score  int  `json:"score"`
		Passed bool `json:"passed"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &result))
	assert.Equal(t, 25, result.Score)
	assert.False(t, result.Passed)
}

func TestSubmitQuizUpsertsEnrollmentScore(t *testing.T) {
	db := setupTestDB(t)
	educator := createTestUser(t, db, "EDUCATOR")
	student := createTestUser(t, db, "STUDENT")
	course := createTestCourse(t, db, educator)
	quiz := createTestQuiz(t, db, course)
	enrollment := enrollStudent(t, db, student, course)

	app := newQuizTestApp(student)

	doRequest(t, app, http.MethodPost, fmt.Sprintf("/quiz/%d/submit", quiz.ID),
		fiber.Map{"answers": []string{"Spring", "true", "6.5"}})
	doRequest(t, app, http.MethodPost, fmt.Sprintf("/quiz/%d/submit", quiz.ID),
		fiber.Map{"answers": []string{"Winter", "false", "0"}})

	// Attempt history is append-only, the enrollment score reflects the
	// latest attempt
	var attempts int64
	db.Model(&courseModels.QuizAttempt{}).Where("quiz_id = ? AND user_id = ?", quiz.ID, student.ID).Count(&attempts)
	assert.EqualValues(t, 2, attempts)

	var scores []courseModels.QuizScore
	require.NoError(t, db.Where("enrollment_id = ? AND quiz_id = ?", enrollment.ID, quiz.ID).Find(&scores).Error)
	require.Len(t, scores, 1)
	assert.Equal(t, 0, scores[0].Score)
	assert.Equal(t, 3, scores[0].TotalQuestions)
}

func TestSubmitQuizScoreWriteFailureSurfaces(t *testing.T) {
	db := setupTestDB(t)
	educator := createTestUser(t, db, "EDUCATOR")
	student := createTestUser(t, db, "STUDENT")
	course := createTestCourse(t, db, educator)
	quiz := createTestQuiz(t, db, course)
	enrollStudent(t, db, student, course)

	// Knock out the score table so the upsert fails after grading
	require.NoError(t, db.Migrator().DropTable(&courseModels.QuizScore{}))

	app := newQuizTestApp(student)
	resp, _ := doRequest(t, app, http.MethodPost, fmt.Sprintf("/quiz/%d/submit", quiz.ID),
		fiber.Map{"answers": []string{"Spring", "true", "6.5"}})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestGetQuizAttemptsScopedToCaller(t *testing.T) {
	db := setupTestDB(t)
	educator := createTestUser(t, db, "EDUCATOR")
	student := createTestUser(t, db, "STUDENT")
	course := createTestCourse(t, db, educator)
	quiz := createTestQuiz(t, db, course)

	other := models.User{ExternalID: "ext-other-student", Email: "other-student@example.com", Name: "Other", Role: "STUDENT"}
	require.NoError(t, db.Create(&other).Error)

	studentApp := newQuizTestApp(student)
	doRequest(t, studentApp, http.MethodPost, fmt.Sprintf("/quiz/%d/submit", quiz.ID),
		fiber.Map{"answers": []string{"Spring", "true", "6.5"}})

	otherApp := newQuizTestApp(other)
	_, body := doRequest(t, otherApp, http.MethodGet, fmt.Sprintf("/quiz/%d/attempts", quiz.ID), nil)

	var data struct {
		Attempts []courseModels.QuizAttempt `json:"attempts"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.Empty(t, data.Attempts)
}
