package connectest

import "context"

// SMTPConfigChecker validates that the SMTP relay configuration is complete.
// No network call is made; delivery problems only surface on real sends.
type SMTPConfigChecker struct{}

func (SMTPConfigChecker) Check(_ context.Context, creds map[string]string) (Result, error) {
	if creds["smtp_host"] == "" || creds["smtp_port"] == "" || creds["smtp_user"] == "" {
		return Result{Message: "Missing SMTP configuration"}, nil
	}
	return Result{Success: true, Message: "SMTP configuration present"}, nil
}
