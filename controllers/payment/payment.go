package controllers

import (
	"strconv"
	"strings"
	"time"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func newTransactionID() string {
	return "TXN_" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}

func findPurchasableCourse(courseID uint) (*courseModels.Course, error) {
	var course courseModels.Course
	err := database.Database.Db.
		Where("id = ? AND is_published = ? AND is_deleted = ?", courseID, true, false).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// CreateSandboxPayment captures a purchase through the built-in sandbox
// gateway. The payment completes immediately, no external call is made.
func CreateSandboxPayment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedSandboxPayment").(*struct {
		CourseID uint `json:"course_id" validate:"required"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course, err := findPurchasableCourse(reqData.CourseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var existing models.Payment
	err = database.Database.Db.
		Where("user_id = ? AND course_id = ? AND status = ? AND is_deleted = ?",
			userID, course.ID, models.PaymentStatusCompleted, false).
		First(&existing).Error
	if err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Course already purchased!", existing)
	}

	payment := models.Payment{
		UserID:        userID,
		CourseID:      course.ID,
		Amount:        course.Price,
		Currency:      config.AppConfig.Currency,
		Method:        models.PaymentMethodSandbox,
		Status:        models.PaymentStatusCompleted,
		TransactionID: newTransactionID(),
		PaymentDate:   time.Now(),
	}
	if err := database.Database.Db.Create(&payment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record payment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Payment successful!", payment)
}

// CreateCardPayment opens a hosted checkout session at the card gateway and
// records a PENDING payment keyed by the session id.
func CreateCardPayment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCardPayment").(*struct {
		CourseID uint `json:"course_id" validate:"required"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course, err := findPurchasableCourse(reqData.CourseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var existing models.Payment
	err = database.Database.Db.
		Where("user_id = ? AND course_id = ? AND status = ? AND is_deleted = ?",
			userID, course.ID, models.PaymentStatusCompleted, false).
		First(&existing).Error
	if err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Course already purchased!", existing)
	}

	session, err := utils.CreateCheckoutSession(
		course.Title,
		course.Description,
		course.Price,
		config.AppConfig.Currency,
		map[string]string{"course_id": strconv.FormatUint(uint64(course.ID), 10)},
	)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to create checkout session!", nil)
	}

	payment := models.Payment{
		UserID:           userID,
		CourseID:         course.ID,
		Amount:           course.Price,
		Currency:         config.AppConfig.Currency,
		Method:           models.PaymentMethodCard,
		Status:           models.PaymentStatusPending,
		GatewaySessionID: session.SessionID,
		TransactionID:    newTransactionID(),
	}
	if err := database.Database.Db.Create(&payment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record payment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Checkout session created!", fiber.Map{
		"checkout_url":   session.CheckoutURL,
		"session_id":     session.SessionID,
		"transaction_id": payment.TransactionID,
	})
}

// VerifyCardPayment confirms a card payment after the customer returns from
// the hosted checkout page. Repeated verification of a paid session is a
// no-op and returns the completed payment.
func VerifyCardPayment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedVerifyPayment").(*struct {
		SessionID string `json:"session_id" validate:"required"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var payment models.Payment
	err := database.Database.Db.
		Where("gateway_session_id = ? AND user_id = ? AND is_deleted = ?", reqData.SessionID, userID, false).
		First(&payment).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Payment not found for this session!", nil)
	}

	if payment.Status == models.PaymentStatusCompleted {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment already verified!", payment)
	}

	session, err := utils.RetrieveCheckoutSession(reqData.SessionID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to reach card gateway!", nil)
	}

	if session.PaymentStatus != "paid" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Payment not completed yet!", fiber.Map{
			"payment_status": session.PaymentStatus,
		})
	}

	err = database.Database.Db.Model(&payment).Updates(map[string]interface{}{
		"status":             models.PaymentStatusCompleted,
		"gateway_payment_id": session.PaymentIntent,
		"payment_date":       time.Now(),
	}).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update payment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment verified successfully!", payment)
}

// GetReceipt returns the receipt for one of the caller's transactions
func GetReceipt(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	transactionID := strings.TrimSpace(c.Params("transactionId"))
	if transactionID == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Transaction ID is required!", nil)
	}

	var payment models.Payment
	err := database.Database.Db.
		Where("transaction_id = ? AND is_deleted = ?", transactionID, false).
		First(&payment).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Transaction not found!", nil)
	}

	user := c.Locals("user").(models.User)
	if payment.UserID != userID && user.Role != "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not authorized to view this receipt!", nil)
	}

	var course courseModels.Course
	courseName := ""
	if err := database.Database.Db.Select("title").First(&course, payment.CourseID).Error; err == nil {
		courseName = course.Title
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Receipt fetched successfully!", fiber.Map{
		"transaction_id": payment.TransactionID,
		"course_name":    courseName,
		"amount":         payment.Amount,
		"currency":       payment.Currency,
		"method":         payment.Method,
		"status":         payment.Status,
		"payment_date":   payment.PaymentDate,
	})
}

// GetUserPayments lists the caller's payment history, newest first
func GetUserPayments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var payments []models.Payment
	err := database.Database.Db.
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("created_at desc").
		Find(&payments).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch payments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payments fetched successfully!", fiber.Map{
		"payments": payments,
		"total":    len(payments),
	})
}
