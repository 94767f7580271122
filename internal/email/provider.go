package email

// Provider defines the interface for sending email. Delivery itself is an
// external concern; the application only hands messages off.
type Provider interface {
	// Send sends a plain email message
	Send(email *Email) error

	// SendVerification sends the account verification mail
	SendVerification(to string, token string) error

	// SendPasswordReset sends the password reset mail
	SendPasswordReset(to string, token string) error

	// Close releases provider resources
	Close() error
}
