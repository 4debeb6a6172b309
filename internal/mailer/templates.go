package mailer

import (
	"bytes"
	"html/template"
)

const ResetPasswordSubject = "Reset Your Password"

var resetPasswordTmpl = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Reset Your Password</h2>
  <p>You requested a password reset. Click the link below to choose a new password:</p>
  <p><a href="{{.URL}}" style="background:#4f46e5;color:#fff;padding:10px 16px;border-radius:4px;text-decoration:none;">Reset Password</a></p>
  <p>This link expires in {{.Minutes}} minutes. If you did not request a reset, you can ignore this email.</p>
</body>
</html>`))

// ResetPasswordBody renders the password reset email.
func ResetPasswordBody(resetURL string, minutes int) (string, error) {
	var buf bytes.Buffer
	err := resetPasswordTmpl.Execute(&buf, struct {
		URL     string
		Minutes int
	}{resetURL, minutes})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
