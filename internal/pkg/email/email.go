package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/dolluzcorp/dtime-backend-go/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

// EmailService sends the notification mails of the leave workflow and password reset.
type EmailService interface {
	SendLeaveRequestSubmitted(to string, data LeaveMail) error
	SendApprovalNotConfigured(data LeaveMail) error
	SendLeaveEscalation(to string, data LeaveMail) error
	SendLeaveAutoApproved(to string, data LeaveMail) error
	SendLeaveStatusUpdated(to string, data LeaveMail) error
	SendPasswordOTP(to, otp string, expiresIn time.Duration) error
}

// LeaveMail carries the fields rendered by the leave templates. Empty fields are omitted.
type LeaveMail struct {
	RequestID      int64
	EmployeeName   string
	RecipientName  string
	DepartmentName string
	LeaveType      string
	StartDate      string
	EndDate        string
	Description    string
	Status         string
	Reason         string
	Stage          string
	PortalURL      string
}

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
	send      func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	return &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
		send:      smtp.SendMail,
	}, nil
}

func (s *emailServiceImpl) SendLeaveRequestSubmitted(to string, data LeaveMail) error {
	return s.render(to, "New Leave Request Submitted", "leave_request_submitted.html", data)
}

// SendApprovalNotConfigured goes to the admin mailbox when a department has no approver.
func (s *emailServiceImpl) SendApprovalNotConfigured(data LeaveMail) error {
	return s.render(s.cfg.AdminMailbox, "Leave Approval Not Configured", "leave_approval_not_configured.html", data)
}

func (s *emailServiceImpl) SendLeaveEscalation(to string, data LeaveMail) error {
	return s.render(to, fmt.Sprintf("Leave Escalation - %s", data.Stage), "leave_escalation.html", data)
}

func (s *emailServiceImpl) SendLeaveAutoApproved(to string, data LeaveMail) error {
	return s.render(to, "Leave Request Auto-Approved", "leave_auto_approved.html", data)
}

func (s *emailServiceImpl) SendLeaveStatusUpdated(to string, data LeaveMail) error {
	return s.render(to, fmt.Sprintf("Leave Request %s", data.Status), "leave_status_updated.html", data)
}

type passwordOTPData struct {
	OTP     string
	Minutes int
}

func (s *emailServiceImpl) SendPasswordOTP(to, otp string, expiresIn time.Duration) error {
	data := passwordOTPData{OTP: otp, Minutes: int(expiresIn / time.Minute)}
	return s.render(to, "dTime Password Reset - Your OTP Code", "password_otp.html", data)
}

func (s *emailServiceImpl) render(to, subject, name string, data any) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, name, data); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return s.sendHTML(to, subject, body.String())
}

func (s *emailServiceImpl) sendHTML(to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}
	if to == "" {
		return fmt.Errorf("email %q has no recipient", subject)
	}

	from := s.cfg.From

	headers := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		err := s.send(addr, auth, from, []string{to}, message)
		if err == nil {
			slog.Info("Email sent", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_attempts", s.cfg.MaxAttempts,
			"error", err,
		)

		if attempt < s.cfg.MaxAttempts {
			time.Sleep(time.Duration(1<<(attempt-1)) * time.Second)
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", s.cfg.MaxAttempts, lastErr)
}
