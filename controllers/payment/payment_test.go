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
	validators "lms/validators/payment"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

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

func asUser(user models.User) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userId", user.ID)
		c.Locals("user", user)
		return c.Next()
	}
}

func newPaymentTestApp(user models.User) *fiber.App {
	app := fiber.New()
	group := app.Group("/payment", asUser(user))
	group.Post("/sandbox", validators.CreateSandboxPayment(), CreateSandboxPayment)
	group.Get("/list", GetUserPayments)
	group.Get("/receipt/:transactionId", GetReceipt)
	return app
}

func seedStudentAndCourse(t *testing.T, db *gorm.DB) (models.User, courseModels.Course) {
	t.Helper()

	student := models.User{ExternalID: "ext-student-" + t.Name(), Email: t.Name() + "@example.com", Name: "Student", Role: "STUDENT"}
	require.NoError(t, db.Create(&student).Error)

	course := courseModels.Course{
		Title:        "Bread Baking",
		Description:  "Flour, water, salt, patience",
		Price:        29.99,
		InstructorID: student.ID + 1000,
		IsPublished:  true,
	}
	require.NoError(t, db.Create(&course).Error)
	return student, course
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
	require.NoError(t, json.Unmarshal(raw, &parsed))
	return resp, parsed
}

func TestCreateSandboxPayment(t *testing.T) {
	db := setupTestDB(t)
	student, course := seedStudentAndCourse(t, db)

	app := newPaymentTestApp(student)
	resp, body := doRequest(t, app, http.MethodPost, "/payment/sandbox",
		fiber.Map{"course_id": course.ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body.Message)

	var payment models.Payment
	require.NoError(t, json.Unmarshal(body.Data, &payment))
	assert.Equal(t, models.PaymentStatusCompleted, payment.Status)
	assert.Equal(t, models.PaymentMethodSandbox, payment.Method)
	assert.Equal(t, course.Price, payment.Amount)
	assert.Contains(t, payment.TransactionID, "TXN_")
	assert.False(t, payment.PaymentDate.IsZero())
}

func TestCreateSandboxPaymentDuplicatePurchase(t *testing.T) {
	db := setupTestDB(t)
	student, course := seedStudentAndCourse(t, db)

	app := newPaymentTestApp(student)
	resp, _ := doRequest(t, app, http.MethodPost, "/payment/sandbox", fiber.Map{"course_id": course.ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = doRequest(t, app, http.MethodPost, "/payment/sandbox", fiber.Map{"course_id": course.ID})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var count int64
	db.Model(&models.Payment{}).Where("user_id = ?", student.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestCreateSandboxPaymentUnpublishedCourse(t *testing.T) {
	db := setupTestDB(t)
	student, course := seedStudentAndCourse(t, db)
	require.NoError(t, db.Model(&course).Update("is_published", false).Error)

	app := newPaymentTestApp(student)
	resp, _ := doRequest(t, app, http.MethodPost, "/payment/sandbox", fiber.Map{"course_id": course.ID})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetReceipt(t *testing.T) {
	db := setupTestDB(t)
	student, course := seedStudentAndCourse(t, db)

	app := newPaymentTestApp(student)
	_, body := doRequest(t, app, http.MethodPost, "/payment/sandbox", fiber.Map{"course_id": course.ID})

	var payment models.Payment
	require.NoError(t, json.Unmarshal(body.Data, &payment))

	resp, body := doRequest(t, app, http.MethodGet, "/payment/receipt/"+payment.TransactionID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var receipt struct {
		TransactionID string  `json:"transaction_id"`
		CourseName    string  `json:"course_name"`
		Amount        float64 `json:"amount"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &receipt))
	assert.Equal(t, payment.TransactionID, receipt.TransactionID)
	assert.Equal(t, course.Title, receipt.CourseName)
	assert.Equal(t, course.Price, receipt.Amount)
}

func TestGetReceiptOwnershipEnforced(t *testing.T) {
	db := setupTestDB(t)
	student, course := seedStudentAndCourse(t, db)

	app := newPaymentTestApp(student)
	_, body := doRequest(t, app, http.MethodPost, "/payment/sandbox", fiber.Map{"course_id": course.ID})

	var payment models.Payment
	require.NoError(t, json.Unmarshal(body.Data, &payment))

	intruder := models.User{ExternalID: "ext-pay-intruder", Email: "pay-intruder@example.com", Name: "Intruder", Role: "STUDENT"}
	require.NoError(t, db.Create(&intruder).Error)

	intruderApp := newPaymentTestApp(intruder)
	resp, _ := doRequest(t, intruderApp, http.MethodGet, "/payment/receipt/"+payment.TransactionID, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
