package email

import (
	"errors"
	"fmt"
	"net/smtp"
	"regexp"
	"strings"

	"omnidoc/internal/config"
)

// ErrNotConfigured is returned when SMTP credentials are missing. Delivery is
// an optional collaborator; the service runs without it.
var ErrNotConfigured = errors.New("email service not configured")

type Client struct {
	cfg config.SMTPConfig
}

func NewClient(cfg config.SMTPConfig) *Client {
	return &Client{cfg: cfg}
}

var htmlTags = regexp.MustCompile(`<[^>]*>`)

// Send delivers a transactional email. text is optional; when empty, a
// plain-text part is derived by stripping tags from the HTML body.
func (c *Client) Send(to, subject, html, text string) error {
	if !c.cfg.Configured() {
		return ErrNotConfigured
	}
	if text == "" {
		text = htmlTags.ReplaceAllString(html, "")
	}

	boundary := "omnidoc-alt-boundary"
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: \"OmniDoc\" <%s>\r\n", c.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", boundary)

	fmt.Fprintf(&msg, "--%s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n", boundary, text)
	fmt.Fprintf(&msg, "--%s\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n", boundary, html)
	fmt.Fprintf(&msg, "--%s--\r\n", boundary)

	addr := fmt.Sprintf("%s:%d", c.cfg.Host, c.cfg.Port)
	auth := smtp.PlainAuth("", c.cfg.User, c.cfg.Pass, c.cfg.Host)

	if err := smtp.SendMail(addr, auth, c.cfg.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendReportNotification mails a clinician a link to a finished report.
func (c *Client) SendReportNotification(to, patientName, reportURL string) error {
	subject := fmt.Sprintf("OmniDoc: screening report ready for %s", patientName)
	html := fmt.Sprintf(
		"<p>The medical screening for <strong>%s</strong> is complete.</p><p><a href=%q>View the report</a></p>",
		patientName, reportURL)
	return c.Send(to, subject, html, "")
}
