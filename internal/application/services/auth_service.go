package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Laisfaustt/ProjetoCamali/internal/domain/user"
	"github.com/Laisfaustt/ProjetoCamali/internal/infrastructure/email"
	"github.com/Laisfaustt/ProjetoCamali/internal/infrastructure/observability/logging"
	"github.com/Laisfaustt/ProjetoCamali/internal/infrastructure/persistence/docstore"
	"github.com/Laisfaustt/ProjetoCamali/internal/infrastructure/security"
	"github.com/Laisfaustt/ProjetoCamali/pkg/config"
)

const (
	userCollection  = "users"
	resetCollection = "passwordResets"
)

// AuthService handles signup, login and password recovery workflows.
type AuthService struct {
	store  docstore.Store
	emails email.Service
	logger *logging.ChanneledLogger
}

// NewAuthService creates a new authentication service. emails may be nil when
// no email provider is configured; password recovery then fails gracefully.
func NewAuthService(store docstore.Store, emails email.Service, logger *logging.ChanneledLogger) *AuthService {
	return &AuthService{
		store:  store,
		emails: emails,
		logger: logger,
	}
}

// AuthResult holds authentication result data
type AuthResult struct {
	Token   string        `json:"token,omitempty"`
	Profile *user.Profile `json:"profile,omitempty"`
	Success bool          `json:"success"`
	Error   string        `json:"error,omitempty"`
}

// Signup registers a new account. The role is derived from the email domain:
// addresses on the advisor domain become orientadora accounts, everything
// else is a student.
func (a *AuthService) Signup(ctx context.Context, name, emailAddr, password, course string) (*AuthResult, error) {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	if emailAddr == "" || !strings.Contains(emailAddr, "@") {
		return &AuthResult{Success: false, Error: "Email inválido"}, nil
	}
	if len(password) < 6 {
		return &AuthResult{Success: false, Error: "A senha precisa de pelo menos 6 caracteres"}, nil
	}

	existing, err := a.FindByEmail(ctx, emailAddr)
	if err != nil {
		a.logger.Auth().Error("Lookup failed during signup", "error", err, "email", emailAddr)
		return nil, fmt.Errorf("signup lookup: %w", err)
	}
	if existing != nil {
		return &AuthResult{Success: false, Error: "Email já cadastrado"}, nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), config.BcryptCost)
	if err != nil {
		a.logger.Auth().Error("Password hashing failed", "error", err)
		return nil, fmt.Errorf("password hashing failed")
	}

	role := user.RoleStudent
	if strings.HasSuffix(emailAddr, config.AdvisorDomain) {
		role = user.RoleAdvisor
	}

	profile := user.Profile{
		Name:         strings.TrimSpace(name),
		Email:        emailAddr,
		Role:         role,
		Course:       strings.TrimSpace(course),
		AnxietyLevel: user.AnxietyLow,
		PasswordHash: string(hashed),
	}

	id, err := a.store.Create(ctx, userCollection, profile.Fields())
	if err != nil {
		a.logger.Auth().Error("Failed to store new account", "error", err, "email", emailAddr)
		return nil, fmt.Errorf("create account: %w", err)
	}
	profile.ID = id

	token, err := security.GenerateSessionToken(&profile, config.JWTSecret, config.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("token generation failed")
	}

	a.logger.Auth().Info("Account created", "userId", id, "role", role)
	return &AuthResult{Success: true, Token: token, Profile: &profile}, nil
}

// Login validates credentials and issues a session token. Advisor accounts
// whose email no longer sits on the advisor domain are treated as revoked.
func (a *AuthService) Login(ctx context.Context, emailAddr, password string) (*AuthResult, error) {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))

	profile, err := a.FindByEmail(ctx, emailAddr)
	if err != nil {
		a.logger.Auth().Error("Lookup failed during login", "error", err, "email", emailAddr)
		return nil, fmt.Errorf("login lookup: %w", err)
	}
	if profile == nil {
		return &AuthResult{Success: false, Error: "Credenciais inválidas"}, nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return &AuthResult{Success: false, Error: "Credenciais inválidas"}, nil
	}

	if profile.Role == user.RoleAdvisor && !strings.HasSuffix(profile.Email, config.AdvisorDomain) {
		a.logger.Auth().Warn("Advisor access revoked", "userId", profile.ID, "email", profile.Email)
		return &AuthResult{Success: false, Error: "Acesso de orientadora revogado"}, nil
	}

	token, err := security.GenerateSessionToken(profile, config.JWTSecret, config.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("token generation failed")
	}

	a.logger.Auth().Info("Login succeeded", "userId", profile.ID, "role", profile.Role)
	return &AuthResult{Success: true, Token: token, Profile: profile}, nil
}

// RequestPasswordReset issues a recovery token and emails it to the account.
// The response never reveals whether the address is registered.
func (a *AuthService) RequestPasswordReset(ctx context.Context, emailAddr, resetBaseURL string) error {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))

	profile, err := a.FindByEmail(ctx, emailAddr)
	if err != nil {
		return fmt.Errorf("reset lookup: %w", err)
	}
	if profile == nil {
		a.logger.Auth().Debug("Reset requested for unknown email", "email", emailAddr)
		return nil
	}
	if a.emails == nil {
		a.logger.Auth().Warn("Password reset requested but no email provider configured", "userId", profile.ID)
		return nil
	}

	token, err := generateSecureToken(32)
	if err != nil {
		return err
	}

	_, err = a.store.Create(ctx, resetCollection, map[string]any{
		"userId":    profile.ID,
		"token":     token,
		"expiresAt": time.Now().UTC().Add(config.ResetTokenTTL),
	})
	if err != nil {
		a.logger.Auth().Error("Failed to store reset token", "error", err, "userId", profile.ID)
		return fmt.Errorf("store reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s?token=%s", resetBaseURL, token)
	if err := a.emails.SendPasswordResetEmail(profile.Email, profile.DisplayName(), resetURL); err != nil {
		a.logger.Auth().Error("Failed to send reset email", "error", err, "userId", profile.ID)
		return err
	}

	a.logger.Auth().Info("Password reset email sent", "userId", profile.ID)
	return nil
}

// ConfirmPasswordReset exchanges a valid recovery token for a new password.
func (a *AuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) (*AuthResult, error) {
	if len(newPassword) < 6 {
		return &AuthResult{Success: false, Error: "A senha precisa de pelo menos 6 caracteres"}, nil
	}

	docs, err := a.store.Query(ctx, docstore.Query{
		Collection: resetCollection,
		Equals:     []docstore.Filter{{Field: "token", Value: token}},
	})
	if err != nil {
		return nil, fmt.Errorf("reset token lookup: %w", err)
	}
	if len(docs) == 0 {
		return &AuthResult{Success: false, Error: "Link de redefinição inválido"}, nil
	}

	doc := docs[0]
	if expired(doc.Fields["expiresAt"]) {
		_ = a.store.Delete(ctx, resetCollection, doc.ID)
		return &AuthResult{Success: false, Error: "Link de redefinição expirado"}, nil
	}

	userID, _ := doc.Fields["userId"].(string)
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("password hashing failed")
	}

	if err := a.store.Update(ctx, userCollection, userID, map[string]any{"passwordHash": string(hashed)}); err != nil {
		a.logger.Auth().Error("Failed to update password", "error", err, "userId", userID)
		return nil, fmt.Errorf("update password: %w", err)
	}

	_ = a.store.Delete(ctx, resetCollection, doc.ID)
	a.logger.Auth().Info("Password reset completed", "userId", userID)
	return &AuthResult{Success: true}, nil
}

// FindByEmail returns the profile registered under an email, nil when absent.
func (a *AuthService) FindByEmail(ctx context.Context, emailAddr string) (*user.Profile, error) {
	docs, err := a.store.Query(ctx, docstore.Query{
		Collection: userCollection,
		Equals:     []docstore.Filter{{Field: "email", Value: emailAddr}},
	})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	profile := user.FromFields(docs[0].ID, docs[0].Fields)
	return &profile, nil
}

func generateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure token: %w", err)
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}

func expired(v any) bool {
	switch t := v.(type) {
	case time.Time:
		return time.Now().UTC().After(t)
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			parsed, err = time.Parse(time.RFC3339, t)
		}
		if err != nil {
			return true
		}
		return time.Now().UTC().After(parsed)
	default:
		return true
	}
}
