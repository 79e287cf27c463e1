package utils

import (
	"fmt"
	"net/smtp"
	"strings"

	"lms/config"
)

// SendEmail sends an HTML email through the configured SMTP account
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: LMS <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		fmt.Println("Error sending email:", err)
		return err
	}
	return nil
}

// getEmailTemplate wraps body content in the standard layout
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #00004D; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #00004D; line-height: 1.6; }
			.content h2 { color: #00004D; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #d7b56d; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>%s</h1>
			</div>
			<div class="content">
				%s
			</div>
			<div class="footer">
				This is an automated message. Please do not reply.
			</div>
		</div>
	</body>
	</html>`, title, bodyContent)
}

// SendEnrollmentEmail sends a confirmation when a user enrolls in a course
func SendEnrollmentEmail(email, userName, courseName string) error {
	body := fmt.Sprintf(`
		<h2>Enrollment Successful!</h2>
		<p>Dear %s,</p>
		<p>Congratulations! You have successfully enrolled in:</p>
		<div class="info-box"><strong>%s</strong></div>
		<p>You can now access all the course content and start learning. Track your progress and complete all modules to earn your certificate.</p>
	`, userName, courseName)

	return SendEmail([]string{email}, "Course Enrollment Confirmation", getEmailTemplate("Enrollment Confirmed", body))
}

// SendCertificateEmail notifies a user that their completion certificate is ready
func SendCertificateEmail(email, userName, courseName, certificateNumber string) error {
	body := fmt.Sprintf(`
		<h2>Certificate of Completion</h2>
		<p>Dear %s,</p>
		<p>Congratulations on completing the course:</p>
		<div class="info-box"><strong>%s</strong></div>
		<p>Your certificate number:</p>
		<div class="info-box"><strong>%s</strong></div>
		<p>You can use this certificate number for verification purposes.</p>
	`, userName, courseName, certificateNumber)

	return SendEmail([]string{email}, "Course Completion Certificate", getEmailTemplate("Certificate Issued", body))
}

// SendQuizReminderEmail nudges a student about an upcoming quiz deadline
func SendQuizReminderEmail(email, userName, quizTitle, dueDate string) error {
	body := fmt.Sprintf(`
		<h2>Quiz Deadline Approaching</h2>
		<p>Dear %s,</p>
		<p>You have not yet attempted the following quiz:</p>
		<div class="info-box"><strong>%s</strong></div>
		<p>It is due on <strong>%s</strong>. Make sure to submit your attempt before the deadline.</p>
	`, userName, quizTitle, dueDate)

	return SendEmail([]string{email}, "Quiz Deadline Reminder", getEmailTemplate("Quiz Reminder", body))
}
