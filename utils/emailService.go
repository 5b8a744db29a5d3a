package utils

import (
	"fmt"
	"lms/config"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEmail delivers one transactional email via SendGrid. Failures are
// logged and returned, never retried.
func SendEmail(toName, toEmail, subject, htmlBody string) error {
	if config.AppConfig.SendGridApiKey == "" {
		log.Printf("SendGrid not configured, skipping email to %s", toEmail)
		return nil
	}

	from := mail.NewEmail("LMS Platform", config.AppConfig.EmailSender)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", getEmailTemplate(subject, htmlBody))

	client := sendgrid.NewSendClient(config.AppConfig.SendGridApiKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("Error sending email to %s: %v", toEmail, err)
		return err
	}
	if resp.StatusCode >= 400 {
		log.Printf("SendGrid rejected email to %s: %d %s", toEmail, resp.StatusCode, resp.Body)
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}

// HTML wrapper shared by all transactional emails
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1A2B4C; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1A2B4C; line-height: 1.6; }
			.content h2 { color: #1A2B4C; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #5B8DEF; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>LMS PLATFORM</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 LMS Platform. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// SendEnrollmentEmail confirms a new enrollment. Fire-and-forget, a send
// failure never fails the enrolling request.
func SendEnrollmentEmail(email, name, courseName string) {
	subject := "Enrollment Confirmation: " + courseName
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You have successfully enrolled in <strong>%s</strong>.</p>
		<p>Start learning now from your dashboard!</p>
	`, name, courseName)

	go SendEmail(name, email, subject, body)
}

// SendCertificateEmail notifies the student that their certificate is ready
func SendCertificateEmail(email, name, courseName, certificateNumber string) {
	subject := "Congratulations! Your Certificate is Ready"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You have successfully completed <strong>%s</strong>.</p>
		<div class="info-box">
			Your certificate ID: <strong>%s</strong>
		</div>
		<p>Download it from your certificates page, or share the ID for public verification.</p>
	`, name, courseName, certificateNumber)

	go SendEmail(name, email, subject, body)
}
