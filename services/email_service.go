// File: /services/email_service.go
package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"gopkg.in/gomail.v2"

	"crosspaths-api/config"
)

type EmailService struct {
	config *config.Config
	dialer *gomail.Dialer

	// In-memory storage for verification and reset codes
	verificationCodes map[string]VerificationCode
	resetCodes        map[string]VerificationCode
	mutex             sync.RWMutex
}

type VerificationCode struct {
	Code      string    `json:"code"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
}

func NewEmailService(cfg *config.Config) *EmailService {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)

	service := &EmailService{
		config:            cfg,
		dialer:            dialer,
		verificationCodes: make(map[string]VerificationCode),
		resetCodes:        make(map[string]VerificationCode),
	}

	// Start cleanup goroutine
	go service.cleanupExpiredCodes()

	return service
}

// Generate a random 6-digit code
func (es *EmailService) generateCode() string {
	const digits = "0123456789"
	code := make([]byte, 6)

	for i := range code {
		num, _ := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		code[i] = digits[num.Int64()]
	}

	return string(code)
}

func (es *EmailService) issueCode(store map[string]VerificationCode, email string) string {
	es.mutex.RLock()
	existing, exists := store[email]
	es.mutex.RUnlock()

	if exists && !existing.Used && time.Now().Before(existing.ExpiresAt) {
		return existing.Code
	}

	code := es.generateCode()
	es.mutex.Lock()
	store[email] = VerificationCode{
		Code:      code,
		Email:     email,
		ExpiresAt: time.Now().Add(10 * time.Minute),
		Used:      false,
	}
	es.mutex.Unlock()
	return code
}

func (es *EmailService) consumeCode(store map[string]VerificationCode, email, code string) bool {
	es.mutex.Lock()
	defer es.mutex.Unlock()

	stored, exists := store[email]
	if !exists || stored.Used || time.Now().After(stored.ExpiresAt) || stored.Code != code {
		return false
	}

	stored.Used = true
	store[email] = stored
	return true
}

// SendVerificationEmail issues (or reuses) a verification code and emails it
func (es *EmailService) SendVerificationEmail(email, name string) (string, error) {
	code := es.issueCode(es.verificationCodes, email)

	body := fmt.Sprintf(`
<html>
<body style="font-family: monospace; color: #333;">
	<h2>crosspaths</h2>
	<p>hello %s,</p>
	<p>your email verification code:</p>
	<p style="font-size: 28px; letter-spacing: 6px;"><b>%s</b></p>
	<p>the code expires in 10 minutes.</p>
</body>
</html>`, name, code)

	if err := es.send(email, "CrossPaths - Email Verification", body); err != nil {
		return "", err
	}
	return code, nil
}

// VerifyCode checks and consumes a verification code
func (es *EmailService) VerifyCode(email, code string) bool {
	return es.consumeCode(es.verificationCodes, email, code)
}

// SendPasswordResetEmail issues (or reuses) a reset code and emails it
func (es *EmailService) SendPasswordResetEmail(email, name string) (string, error) {
	code := es.issueCode(es.resetCodes, email)

	body := fmt.Sprintf(`
<html>
<body style="font-family: monospace; color: #333;">
	<h2>crosspaths</h2>
	<p>hello %s,</p>
	<p>your password reset code:</p>
	<p style="font-size: 28px; letter-spacing: 6px;"><b>%s</b></p>
	<p>the code expires in 10 minutes. if you did not request a reset, ignore this email.</p>
</body>
</html>`, name, code)

	if err := es.send(email, "CrossPaths - Password Reset", body); err != nil {
		return "", err
	}
	return code, nil
}

// VerifyResetCode checks and consumes a password reset code
func (es *EmailService) VerifyResetCode(email, code string) bool {
	return es.consumeCode(es.resetCodes, email, code)
}

// SendWelcomeEmail sends the post-verification welcome message
func (es *EmailService) SendWelcomeEmail(email, name string) error {
	body := fmt.Sprintf(`
<html>
<body style="font-family: monospace; color: #333;">
	<h2>crosspaths</h2>
	<p>welcome %s!</p>
	<p>your account is verified. check in to your first event and start building your network.</p>
</body>
</html>`, name)

	return es.send(email, "Welcome to CrossPaths", body)
}

func (es *EmailService) send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", es.config.FromName, es.config.FromEmail))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := es.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

// cleanupExpiredCodes periodically drops expired or used codes
func (es *EmailService) cleanupExpiredCodes() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		es.mutex.Lock()
		for _, store := range []map[string]VerificationCode{es.verificationCodes, es.resetCodes} {
			for email, code := range store {
				if code.Used || now.After(code.ExpiresAt) {
					delete(store, email)
				}
			}
		}
		es.mutex.Unlock()
	}
}
