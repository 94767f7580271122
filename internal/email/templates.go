package email

import "fmt"

func renderVerification(token string) string {
	return fmt.Sprintf(
		"Welcome!\n\nVerify your account by opening the link below:\n\n/verify-email?token=%s\n\nIf you did not sign up, ignore this message.",
		token,
	)
}

func renderPasswordReset(token string) string {
	return fmt.Sprintf(
		"A password reset was requested for your account.\n\nReset it here:\n\n/reset-password?token=%s\n\nThe link expires in one hour. If you did not request a reset, ignore this message.",
		token,
	)
}
