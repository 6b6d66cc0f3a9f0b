package utils

import (
	"encoding/base64"
	"fmt"
	"net/smtp"
	"os"
	"otms/config"
	"path/filepath"
	"strings"
	"time"
)

// Generic Send Email
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := config.AppConfig.SMTPHost
	smtpPort := config.AppConfig.SMTPPort

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: OTMS <%s>\r\n", from)
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

// SendEmailWithAttachment sends an HTML email carrying one file attachment,
// used for certificate PDFs
func SendEmailWithAttachment(to []string, subject, htmlBody, attachmentPath string) error {
	smtpHost := config.AppConfig.SMTPHost
	smtpPort := config.AppConfig.SMTPPort

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	fileData, err := os.ReadFile(attachmentPath)
	if err != nil {
		return err
	}
	encoded := base64.StdEncoding.EncodeToString(fileData)
	filename := filepath.Base(attachmentPath)

	boundary := fmt.Sprintf("otms-%d", time.Now().UnixNano())

	var b strings.Builder
	b.WriteString(fmt.Sprintf("From: OTMS <%s>\r\n", from))
	b.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(to, ",")))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=%q\r\n\r\n", boundary))

	b.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(htmlBody)
	b.WriteString("\r\n")

	b.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	b.WriteString("Content-Type: application/pdf\r\n")
	b.WriteString("Content-Transfer-Encoding: base64\r\n")
	b.WriteString(fmt.Sprintf("Content-Disposition: attachment; filename=%q\r\n\r\n", filename))

	// base64 body in 76-char lines
	for i := 0; i < len(encoded); i += 76 {
		end := i + 76
		if end > len(encoded) {
			end = len(encoded)
		}
		b.WriteString(encoded[i:end])
		b.WriteString("\r\n")
	}
	b.WriteString(fmt.Sprintf("--%s--\r\n", boundary))

	auth := smtp.PlainAuth("", from, password, smtpHost)
	if err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(b.String())); err != nil {
		fmt.Println("Error sending email with attachment:", err)
		return err
	}
	return nil
}

// HTML wrapper shared by all outgoing mail
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1D3557; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1D3557; line-height: 1.6; }
			.content h2 { color: #1D3557; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #457B9D; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #457B9D; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>TRAINING MANAGEMENT</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				This is an automated message from the Organization Training Management System.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// VerificationLink is the absolute URL embedded in the verification
// email. It must resolve to the mounted verifyemail route.
func VerificationLink(token string) string {
	return fmt.Sprintf("%s/api/auth/verifyemail/%s", config.AppConfig.BaseURL, token)
}

// 1. Welcome / email verification
func SendVerificationEmail(email, name, token string) {
	link := VerificationLink(token)
	subject := "Verify your email address"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Welcome aboard! Your account has been created.</p>
		<p>Please confirm your email address to activate your account.</p>
		<a href="%s" class="btn">Verify Email</a>
		<p>The link expires in 24 hours.</p>
	`, name, link)

	go SendEmail([]string{email}, subject, getEmailTemplate("Welcome!", body))
}

// 2. Two-factor code
func Send2FACodeEmail(email, name, code string) {
	subject := "Your login verification code"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your verification code is:</p>
		<div class="info-box" style="font-size: 22px; letter-spacing: 4px; text-align: center;"><strong>%s</strong></div>
		<p>It is valid for 10 minutes. If you did not try to log in, please reset your password.</p>
	`, name, code)

	go SendEmail([]string{email}, subject, getEmailTemplate("Login Verification", body))
}

// 3. Password reset
func SendPasswordResetEmail(email, name, token string) {
	link := fmt.Sprintf("%s/resetpassword/%s", config.AppConfig.BaseURL, token)
	subject := "Password reset request"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>We received a request to reset your password.</p>
		<a href="%s" class="btn">Reset Password</a>
		<p>The link expires in 1 hour. If you did not request this, you can ignore this email.</p>
	`, name, link)

	go SendEmail([]string{email}, subject, getEmailTemplate("Reset Your Password", body))
}

// 4. Enrollment confirmation
func SendEnrollmentConfirmationEmail(email, name, courseTitle string, startDate time.Time) {
	subject := "Enrollment confirmed: " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You are enrolled in <strong>%s</strong>.</p>
		<div class="info-box">
			<strong>Starts:</strong> %s
		</div>
		<p>Session details and materials will be available on your dashboard.</p>
	`, name, courseTitle, startDate.Format("January 2, 2006"))

	go SendEmail([]string{email}, subject, getEmailTemplate("Enrollment Confirmed", body))
}

// 5. Enrollment status change
func SendEnrollmentStatusEmail(email, name, courseTitle, status string) {
	subject := fmt.Sprintf("Enrollment update: %s", courseTitle)
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your enrollment in <strong>%s</strong> has been updated.</p>
		<div class="info-box">New status: <strong>%s</strong></div>
		<p>Log in to your dashboard for details.</p>
	`, name, courseTitle, strings.ToUpper(status))

	go SendEmail([]string{email}, subject, getEmailTemplate("Enrollment Updated", body))
}

// 6. Certificate delivery (attachment is the deliverable, so this one is
// called synchronously by the caller that wants the error)
func SendCertificateEmail(email, name, courseTitle, certNumber, pdfPath string) error {
	subject := "Your certificate for " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations on completing <strong>%s</strong>!</p>
		<p>Your certificate is attached. Certificate number: <strong>%s</strong></p>
	`, name, courseTitle, certNumber)

	return SendEmailWithAttachment([]string{email}, subject, getEmailTemplate("Congratulations!", body), pdfPath)
}

// 7. Training request approved
func SendRequestApprovedEmail(email, name, courseTitle, notes string) {
	subject := "Training request approved: " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your request to join <strong>%s</strong> has been approved and you are now enrolled.</p>
		<div class="info-box">%s</div>
	`, name, courseTitle, notes)

	go SendEmail([]string{email}, subject, getEmailTemplate("Request Approved", body))
}

// 8. Training request rejected
func SendRequestRejectedEmail(email, name, courseTitle, reason string) {
	subject := "Training request update: " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Unfortunately, your request to join <strong>%s</strong> was not approved.</p>
		<div style="color: #dc3545; font-weight: bold;">Reason: %s</div>
		<p>You may contact your manager for alternatives.</p>
	`, name, courseTitle, reason)

	go SendEmail([]string{email}, subject, getEmailTemplate("Request Rejected", body))
}
