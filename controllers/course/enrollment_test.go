package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"lms/models"
	courseModels "lms/models/course"
	validators "lms/validators/enrollment"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newEnrollmentTestApp(user models.User) *fiber.App {
	app := fiber.New()
	group := app.Group("/enrollment", asUser(user))
	group.Post("/create", validators.CreateEnrollment(), CreateEnrollment)
	group.Get("/:id", validators.EnrollmentIDParam(), GetEnrollment)
	group.Put("/:id/progress", validators.EnrollmentIDParam(), validators.UpdateProgress(), UpdateProgress)
	group.Get("/course/:courseId/progress", validators.CourseIDParam(), GetCourseProgress)
	return app
}

func enrollStudent(t *testing.T, db *gorm.DB, student models.User, course courseModels.Course) courseModels.Enrollment {
	t.Helper()

	payment := createCompletedPayment(t, db, student, course)
	enrollment := courseModels.Enrollment{
		UserID:    student.ID,
		CourseID:  course.ID,
		PaymentID: payment.ID,
	}
	require.NoError(t, db.Create(&enrollment).Error)
	return enrollment
}

func markLecture(t *testing.T, app *fiber.App, enrollmentID, chapterID, lectureID uint, completed bool) apiResponse {
	t.Helper()

	resp, body := doRequest(t, app, http.MethodPut,
		fmt.Sprintf("/enrollment/%d/progress", enrollmentID),
		fiber.Map{"chapter_id": chapterID, "lecture_id": lectureID, "completed": completed})
	require.Equal(t, http.StatusOK, resp.StatusCode, body.Message)
	return body
}

func TestCreateEnrollment(t *testing.T) {
	db := setupTestDB(t)
	educator := createTestUser(t, db, "EDUCATOR")
	student := createTestUser(t, db, "STUDENT")
	course := createTestCourse(t, db, educator)
	payment := createCompletedPayment(t, db, student, course)

	app := newEnrollmentTestApp(student)

	resp, body := doRequest(t, app, http.MethodPost, "/enrollment/create",
		fiber.Map{"course_id": course.ID, "payment_id": payment.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode, body.Message)
	assert.True(t, body.Status)

	var refreshed courseModels.Course
	require.NoError(t, db.First(&refreshed, course.ID).Error)
	assert.Equal(t, 1, refreshed.TotalEnrollments)

	// Enrolling twice in the same course conflicts
	resp, _ = doRequest(t, app, http.MethodPost, "/enrollment/create",
		fiber.Map{"course_id": course.ID, "payment_id": payment.ID})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	require.NoError(t, db.First(&refreshed, course.ID).Error)
	assert.Equal(t, 1, refreshed.TotalEnrollments)
}

func TestCreateEnrollmentRejectsPendingPayment(t *testing.T) {
	db := setupTestDB(t)
	educator := createTestUser(t, db, "EDUCATOR")
	student := createTestUser(t, db, "STUDENT")
	course := createTestCourse(t, db, educator)

	payment := models.Payment{
		UserID:        student.ID,
		CourseID:      course.ID,
		Amount:        course.Price,
		Method:        models.PaymentMethodCard,
		Status:        models.PaymentStatusPending,
		TransactionID: "TXN_PENDING",
	}
	require.NoError(t, db.Create(&payment).Error)

	app := newEnrollmentTestApp(student)
	resp, _ := doRequest(t, app, http.MethodPost, "/enrollment/create",
		fiber.Map{"course_id": course.ID, "payment_id": payment.ID})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var count int64
	db.Model(&courseModels.Enrollment{}).Count(&count)
	assert.Zero(t, count)
}

func TestProgressToCompletionIssuesCertificate(t *testing.T) {
	db := setupTestDB(t)
	educator := createTestUser(t, db, "EDUCATOR")
	student := createTestUser(t, db, "STUDENT")
	course := createTestCourse(t, db, educator)
	enrollment := enrollStudent(t, db, student, course)

	var lectures []courseModels.Lecture
	require.NoError(t, db.Where("course_id = ?", course.ID).Order("id asc").Find(&lectures).Error)
	require.Len(t, lectures, 4)

	app := newEnrollmentTestApp(student)

	// Two of four lectures puts the percentage at 50
	markLecture(t, app, enrollment.ID, lectures[0].ChapterID, lectures[0].ID, true)
	body := markLecture(t, app, enrollment.ID, lectures[1].ChapterID, lectures[1].ID, true)

	var state courseModels.Enrollment
	require.NoError(t, json.Unmarshal(body.Data, &state))
	assert.Equal(t, 50, state.CompletionPercentage)
	assert.False(t, state.IsCompleted)
	assert.False(t, state.CertificateIssued)

	markLecture(t, app, enrollment.ID, lectures[2].ChapterID, lectures[2].ID, true)
	body = markLecture(t, app, enrollment.ID, lectures[3].ChapterID, lectures[3].ID, true)

	require.NoError(t, json.Unmarshal(body.Data, &state))
	assert.Equal(t, 100, state.CompletionPercentage)
	assert.True(t, state.IsCompleted)
	assert.NotNil(t, state.CompletedAt)

	// Completion triggers issuance inline
	assert.True(t, state.CertificateIssued)
	require.NotNil(t, state.CertificateID)

	var cert courseModels.Certificate
	require.NoError(t, db.First(&cert, *state.CertificateID).Error)
	assert.NotEmpty(t, cert.CertificateNumber)
	assert.Equal(t, student.Name, cert.StudentName)
	assert.Equal(t, course.Title, cert.CourseName)
	assert.Equal(t, educator.Name, cert.InstructorName)
}

func TestCompletionIsRatcheted(t *testing.T) {
	db := setupTestDB(t)
	educator := createTestUser(t, db, "EDUCATOR")
	student := createTestUser(t, db, "STUDENT")
	course := createTestCourse(t, db, educator)
	enrollment := enrollStudent(t, db, student, course)

	var lectures []courseModels.Lecture
	require.NoError(t, db.Where("course_id = ?", course.ID).Order("id asc").Find(&lectures).Error)

	app := newEnrollmentTestApp(student)
	for _, lec := range lectures {
		markLecture(t, app, enrollment.ID, lec.ChapterID, lec.ID, true)
	}

	// Un-completing a lecture lowers the percentage but completion and the
	// certificate stand
	body := markLecture(t, app, enrollment.ID, lectures[0].ChapterID, lectures[0].ID, false)

	var state courseModels.Enrollment
	require.NoError(t, json.Unmarshal(body.Data, &state))
	assert.Equal(t, 75, state.CompletionPercentage)
	assert.True(t, state.IsCompleted)
	assert.True(t, state.CertificateIssued)

	var certCount int64
	db.Model(&courseModels.Certificate{}).Where("enrollment_id = ?", enrollment.ID).Count(&certCount)
	assert.EqualValues(t, 1, certCount)

	// Re-completing does not mint a second certificate
	markLecture(t, app, enrollment.ID, lectures[0].ChapterID, lectures[0].ID, true)
	db.Model(&courseModels.Certificate{}).Where("enrollment_id = ?", enrollment.ID).Count(&certCount)
	assert.EqualValues(t, 1, certCount)
}

func TestUpdateProgressOwnershipEnforced(t *testing.T) {
	db := setupTestDB(t)
	educator := createTestUser(t, db, "EDUCATOR")
	student := createTestUser(t, db, "STUDENT")
	course := createTestCourse(t, db, educator)
	enrollment := enrollStudent(t, db, student, course)

	intruder := models.User{ExternalID: "ext-intruder", Email: "intruder@example.com", Name: "Intruder", Role: "STUDENT"}
	require.NoError(t, db.Create(&intruder).Error)

	var lecture courseModels.Lecture
	require.NoError(t, db.Where("course_id = ?", course.ID).First(&lecture).Error)

	app := newEnrollmentTestApp(intruder)
	resp, _ := doRequest(t, app, http.MethodPut,
		fmt.Sprintf("/enrollment/%d/progress", enrollment.ID),
		fiber.Map{"chapter_id": lecture.ChapterID, "lecture_id": lecture.ID, "completed": true})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestGetCourseProgress(t *testing.T) {
	db := setupTestDB(t)
	educator := createTestUser(t, db, "EDUCATOR")
	student := createTestUser(t, db, "STUDENT")
	course := createTestCourse(t, db, educator)
	enrollment := enrollStudent(t, db, student, course)

	var lecture courseModels.Lecture
	require.NoError(t, db.Where("course_id = ?", course.ID).First(&lecture).Error)

	app := newEnrollmentTestApp(student)
	markLecture(t, app, enrollment.ID, lecture.ChapterID, lecture.ID, true)

	resp, body := doRequest(t, app, http.MethodGet,
		fmt.Sprintf("/enrollment/course/%d/progress", course.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data struct {
		Progress courseModels.Enrollment `json:"progress"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.Equal(t, 25, data.Progress.CompletionPercentage)
	assert.Len(t, data.Progress.Progress, 1)
}
