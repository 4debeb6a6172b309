package mailer

import (
	"strings"
	"testing"
)

func TestResetPasswordBodyEscapesURL(t *testing.T) {
	body, err := ResetPasswordBody(`https://app.example/reset-password?token=abc"><script>`, 15)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(body, "<script>") {
		t.Fatalf("url was not escaped: %s", body)
	}
	if !strings.Contains(body, "15 minutes") {
		t.Fatalf("expiry missing: %s", body)
	}
}
