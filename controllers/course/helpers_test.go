package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"lms/config"
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// apiResponse mirrors the JSON envelope every handler writes
type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	if config.AppConfig == nil {
		config.LoadConfig()
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	database.Database.Db = db
	return db
}

// asUser stands in for the auth middleware so tests pick their caller
func asUser(user models.User) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userId", user.ID)
		c.Locals("user", user)
		return c.Next()
	}
}

func createTestUser(t *testing.T, db *gorm.DB, role string) models.User {
	t.Helper()

	user := models.User{
		ExternalID: fmt.Sprintf("ext-%s-%s", role, t.Name()),
		Email:      fmt.Sprintf("%s-%s@example.com", role, t.Name()),
		Name:       "Test " + role,
		Role:       role,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// createTestCourse seeds a published course with two chapters of two
// lectures each
func createTestCourse(t *testing.T, db *gorm.DB, instructor models.User) courseModels.Course {
	t.Helper()

	course := courseModels.Course{
		Title:          "Intro to Gardening",
		Description:    "Soil, seeds and seasons",
		Category:       "Lifestyle",
		Price:          49.99,
		InstructorID:   instructor.ID,
		InstructorName: instructor.Name,
		IsPublished:    true,
	}
	require.NoError(t, db.Create(&course).Error)

	for ch := 1; ch <= 2; ch++ {
		chapter := courseModels.Chapter{
			CourseID:     course.ID,
			Title:        fmt.Sprintf("Chapter %d", ch),
			ChapterOrder: ch,
		}
		require.NoError(t, db.Create(&chapter).Error)

		for lec := 1; lec <= 2; lec++ {
			lecture := courseModels.Lecture{
				ChapterID:    chapter.ID,
				CourseID:     course.ID,
				Title:        fmt.Sprintf("Lecture %d.%d", ch, lec),
				LectureOrder: lec,
			}
			require.NoError(t, db.Create(&lecture).Error)
		}
	}
	return course
}

func createCompletedPayment(t *testing.T, db *gorm.DB, user models.User, course courseModels.Course) models.Payment {
	t.Helper()

	payment := models.Payment{
		UserID:        user.ID,
		CourseID:      course.ID,
		Amount:        course.Price,
		Method:        models.PaymentMethodSandbox,
		Status:        models.PaymentStatusCompleted,
		TransactionID: fmt.Sprintf("TXN_%s_%d", t.Name(), user.ID),
	}
	require.NoError(t, db.Create(&payment).Error)
	return payment
}

func doRequest(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, apiResponse) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed apiResponse
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &parsed))
	}
	return resp, parsed
}
