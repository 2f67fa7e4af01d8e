package services

import (
	"context"
	"fmt"
	"net/smtp"
	"os"
	"strings"
	"time"

	"github.com/XdebronneX/backend-TeamPOOR/models"
)

// EmailSender delivers transactional mail. The SMTP implementation is
// the only one in production; tests substitute a recording fake.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

type SMTPSender struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func NewSMTPSender() (*SMTPSender, error) {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	username := os.Getenv("SMTP_USER")
	password := os.Getenv("SMTP_PASS")

	if host == "" {
		return nil, fmt.Errorf("SMTP_HOST not set")
	}
	if port == "" {
		return nil, fmt.Errorf("SMTP_PORT not set")
	}
	if username == "" {
		return nil, fmt.Errorf("SMTP_USER not set")
	}
	if password == "" {
		return nil, fmt.Errorf("SMTP_PASS not set")
	}

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = username
	}

	return &SMTPSender{host: host, port: port, username: username, password: password, from: from}, nil
}

func (s *SMTPSender) SendEmail(ctx context.Context, to, subject, body string) error {
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	auth := smtp.PlainAuth("", s.username, s.password, s.host)

	msg := []byte(
		"From: " + s.from + "\r\n" +
			"To: " + to + "\r\n" +
			"Subject: " + subject + "\r\n" +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=UTF-8\r\n" +
			"\r\n" +
			body,
	)

	if err := smtp.SendMail(addr, auth, s.from, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}

// Mailer renders the TeamPOOR transactional templates on top of an
// EmailSender.
type Mailer struct {
	sender      EmailSender
	frontendURL string
}

func NewMailer(sender EmailSender, frontendURL string) *Mailer {
	return &Mailer{sender: sender, frontendURL: strings.TrimRight(frontendURL, "/")}
}

func (m *Mailer) SendVerificationEmail(ctx context.Context, user *models.User, token string) error {
	link := fmt.Sprintf("%s/verify/account/%s/%s", m.frontendURL, user.ID.Hex(), token)
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto;">
			<h2>Welcome to TeamPOOR, %s!</h2>
			<p>Thank you for registering. Please verify your email address to activate your account.</p>
			<p><a href="%s" style="background-color: #e02424; color: #fff; padding: 10px 20px; text-decoration: none; border-radius: 4px;">Verify my account</a></p>
			<p>This link expires in 2 minutes. If it has expired, log in to request a new one.</p>
			<p>If you did not create this account, you can safely ignore this email.</p>
		</div>`, user.Firstname, link)
	return m.sender.SendEmail(ctx, user.Email, "TeamPOOR - Verify your account", body)
}

func (m *Mailer) SendPasswordResetEmail(ctx context.Context, user *models.User, resetURL string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto;">
			<h2>Password Reset Request</h2>
			<p>Hi %s,</p>
			<p>We received a request to reset the password for your TeamPOOR account. Click the button below to choose a new password.</p>
			<p><a href="%s" style="background-color: #e02424; color: #fff; padding: 10px 20px; text-decoration: none; border-radius: 4px;">Reset password</a></p>
			<p>If you did not request this, please ignore this email and your password will remain unchanged.</p>
		</div>`, user.Firstname, resetURL)
	return m.sender.SendEmail(ctx, user.Email, "TeamPOOR - Password Recovery", body)
}

// OrderEmailLine is one rendered row of the order confirmation email.
type OrderEmailLine struct {
	Name     string
	Quantity int
	Subtotal float64
}

func (m *Mailer) SendOrderConfirmationEmail(ctx context.Context, user *models.User, order *models.Order, lines []OrderEmailLine) error {
	var rows strings.Builder
	for _, line := range lines {
		rows.WriteString(fmt.Sprintf(
			`<tr><td style="padding: 8px; border-bottom: 1px solid #eee;">%s</td>
			<td style="padding: 8px; border-bottom: 1px solid #eee; text-align: center;">%d</td>
			<td style="padding: 8px; border-bottom: 1px solid #eee; text-align: right;">&#8369;%.2f</td></tr>`,
			line.Name, line.Quantity, line.Subtotal))
	}
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto;">
			<h2>Thank you for your order, %s!</h2>
			<p>We have received your order and it is now being processed.</p>
			<table style="width: 100%%; border-collapse: collapse;">
				<tr><th style="padding: 8px; text-align: left;">Product</th>
				<th style="padding: 8px;">Qty</th>
				<th style="padding: 8px; text-align: right;">Subtotal</th></tr>
				%s
			</table>
			<p style="text-align: right; font-size: 16px;"><strong>Total: &#8369;%.2f</strong></p>
			<p>Payment method: %s</p>
		</div>`, user.Firstname, rows.String(), order.TotalPrice, order.PaymentMethod)
	return m.sender.SendEmail(ctx, user.Email, "TeamPOOR - Order Confirmation", body)
}

// SendPMSAlertEmail tells the owner their motorcycle hit a preventive
// maintenance interval.
func (m *Mailer) SendPMSAlertEmail(ctx context.Context, user *models.User, motorcycle *models.Motorcycle, odometer int, date time.Time) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto;">
			<h2>Odometer Alert</h2>
			<p>Hi %s,</p>
			<p>The odometer of your motorcycle <strong>%s - %s</strong> has reached %d km on %s.</p>
			<p>Please check and perform the necessary maintenance.</p>
			<p>Best regards,<br>TeamPOOR</p>
		</div>`, user.Firstname, motorcycle.Brand, motorcycle.PlateNumber, odometer, date.Format("January 2, 2006"))
	return m.sender.SendEmail(ctx, user.Email, "PMS Alert", body)
}
