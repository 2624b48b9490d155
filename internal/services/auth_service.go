package services

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"dailyreport/internal/apperrors"
	"dailyreport/internal/models"
	"dailyreport/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// ResetCodeSender delivers a password-reset code to the user. The broker
// client implements this in production; a nil sender falls back to a log
// line.
type ResetCodeSender interface {
	SendResetCode(email, code string) error
}

// AuthService handles registration, login, session tokens and the
// password-reset-by-code flow.
type AuthService struct {
	userRepo   repositories.UserRepository
	codeSender ResetCodeSender
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
	resetTTL   time.Duration // Validity window of a reset code
}

// NewAuthService creates a new AuthService. codeSender may be nil.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, codeSender ResetCodeSender) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		codeSender: codeSender,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour, // Token valid for one day
		resetTTL:   15 * time.Minute,
	}
}

// Register creates a new user with a bcrypt-hashed password and returns a
// session token for the fresh account.
func (s *AuthService) Register(name, email, password string) (string, error) {
	if name == "" || email == "" || password == "" {
		return "", fmt.Errorf("name, email and password are required: %w", apperrors.ErrInvalidInput)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: string(hashedPassword),
	}
	// The unique index on email is the source of truth for duplicates; the
	// repository surfaces violations as apperrors.ErrConflict.
	if err := s.userRepo.Create(user); err != nil {
		return "", err
	}

	return s.issueToken(user)
}

// Login authenticates a user and returns a session token and the display
// name. Unknown emails and wrong passwords come back as distinct errors;
// the transport maps both to the same client response.
func (s *AuthService) Login(email, password string) (string, string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return "", "", err
	}

	// bcrypt's own comparison; never a direct string compare.
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", fmt.Errorf("wrong password for %s: %w", email, apperrors.ErrInvalidCredentials)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", "", err
	}
	return token, user.Name, nil
}

// issueToken signs a token bound to the user's email as the stable subject.
func (s *AuthService) issueToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": user.Email,
		"name":  user.Name,
		"exp":   time.Now().Add(s.tokenDurat).Unix(),
		"iat":   time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a session token, returning the email
// subject it is bound to. Any signature or expiry failure maps to
// apperrors.ErrForbidden.
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid token: %v: %w", err, apperrors.ErrForbidden)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token: %w", apperrors.ErrForbidden)
	}
	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return "", fmt.Errorf("token has no subject: %w", apperrors.ErrForbidden)
	}
	return email, nil
}

// RequestReset issues a 6-digit one-time code valid for 15 minutes and
// hands it to the delivery collaborator. Delivery failures do not fail the
// request once the code is persisted.
func (s *AuthService) RequestReset(email string) error {
	if email == "" {
		return fmt.Errorf("email is required: %w", apperrors.ErrInvalidInput)
	}
	if _, err := s.userRepo.GetByEmail(email); err != nil {
		return err
	}

	code := fmt.Sprintf("%06d", 100000+rand.Intn(900000))
	expiry := time.Now().Add(s.resetTTL)
	if err := s.userRepo.SetResetCode(email, code, expiry); err != nil {
		return err
	}

	if s.codeSender != nil {
		if err := s.codeSender.SendResetCode(email, code); err != nil {
			log.Printf("Warning: failed to deliver reset code for %s: %v", email, err)
		}
	} else {
		log.Printf("Reset code for %s: %s", email, code)
	}
	return nil
}

// ResetPassword consumes a pending reset code: the code must match exactly
// and be presented before its expiry instant. On success the password hash
// is replaced and the code cleared, so a second presentation fails.
func (s *AuthService) ResetPassword(email, code, newPassword string) error {
	if email == "" || code == "" || newPassword == "" {
		return fmt.Errorf("email, code and new password are required: %w", apperrors.ErrInvalidInput)
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return err
	}

	if user.ResetCode == "" || user.ResetCode != code {
		return fmt.Errorf("reset code mismatch for %s: %w", email, apperrors.ErrInvalidCode)
	}
	if time.Now().After(user.ResetExpiry) {
		return fmt.Errorf("reset code for %s expired at %s: %w", email, user.ResetExpiry.Format(time.RFC3339), apperrors.ErrCodeExpired)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.userRepo.UpdatePassword(email, string(hashedPassword))
}
