package app

import (
	"sync"

	"jobportal_backend/internal/email"
	"jobportal_backend/internal/logger"
)

// MockEmailProvider logs messages instead of delivering them. Used when
// SMTP is not configured and in tests.
type MockEmailProvider struct {
	mu   sync.Mutex
	Sent []*email.Email
}

func NewMockEmailProvider() *MockEmailProvider {
	return &MockEmailProvider{}
}

func (p *MockEmailProvider) Send(e *email.Email) error {
	p.mu.Lock()
	p.Sent = append(p.Sent, e)
	p.mu.Unlock()
	logger.Info("mock email", "to", e.To, "subject", e.Subject)
	return nil
}

func (p *MockEmailProvider) SendVerification(to string, token string) error {
	return p.Send(&email.Email{To: []string{to}, Subject: "Verify your account"})
}

func (p *MockEmailProvider) SendPasswordReset(to string, token string) error {
	return p.Send(&email.Email{To: []string{to}, Subject: "Reset your password"})
}

func (p *MockEmailProvider) Close() error { return nil }
