package email

import (
	"errors"
	"testing"

	"omnidoc/internal/config"
)

func TestSendNotConfigured(t *testing.T) {
	c := NewClient(config.SMTPConfig{Host: "smtp.example.com", Port: 587})

	err := c.Send("clinician@example.com", "subject", "<p>body</p>", "")
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

func TestHTMLTagStripping(t *testing.T) {
	tests := []struct {
		html string
		want string
	}{
		{"<p>Hello <strong>world</strong></p>", "Hello world"},
		{"plain text", "plain text"},
		{`<a href="https://example.com">link</a>`, "link"},
	}

	for _, tt := range tests {
		if got := htmlTags.ReplaceAllString(tt.html, ""); got != tt.want {
			t.Errorf("stripped %q = %q, want %q", tt.html, got, tt.want)
		}
	}
}
