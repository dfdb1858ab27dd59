package services

import (
	"fmt"
	"strings"
	"time"

	"elever/internal/apperrors"
	"elever/internal/models"
	"elever/internal/repositories"

	"github.com/dgrijalva/jwt-go"
)

// GoogleProfile is the subset of the Google userinfo response the store
// needs to identify a user.
type GoogleProfile struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// AuthService handles sign-in, session tokens and role assignment.
type AuthService struct {
	userRepo    repositories.UserRepository
	jwtSecret   []byte
	tokenDurat  time.Duration
	adminEmails []string
}

// NewAuthService creates a new AuthService. adminEmails is the configured
// allowlist of addresses granted the admin role on sign-in.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, adminEmails []string) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		jwtSecret:   []byte(jwtSecret),
		tokenDurat:  30 * 24 * time.Hour,
		adminEmails: adminEmails,
	}
}

// isAdminEmail checks the allowlist. Membership is evaluated on every
// sign-in from configuration; nothing is cached between requests.
func (s *AuthService) isAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, admin := range s.adminEmails {
		if strings.ToLower(strings.TrimSpace(admin)) == email {
			return true
		}
	}
	return false
}

// SignInWithGoogle creates or refreshes the user matching the Google
// profile and returns it. The role is upgraded to admin when the email is
// on the allowlist; an existing admin is never downgraded.
func (s *AuthService) SignInWithGoogle(profile GoogleProfile) (*models.User, error) {
	if profile.ID == "" || profile.Email == "" {
		return nil, apperrors.Validation("google profile is missing id or email")
	}
	isAdmin := s.isAdminEmail(profile.Email)

	user, err := s.userRepo.GetByGoogleID(profile.ID)
	if err == nil {
		user.Name = profile.Name
		user.Avatar = profile.Picture
		if isAdmin {
			user.Role = models.RoleAdmin
		}
		if err := s.userRepo.Update(user); err != nil {
			return nil, fmt.Errorf("failed to refresh user: %w", err)
		}
		return user, nil
	}
	if !apperrors.IsNotFound(err) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	role := models.RoleUser
	if isAdmin {
		role = models.RoleAdmin
	}
	user = &models.User{
		GoogleID: profile.ID,
		Name:     profile.Name,
		Email:    profile.Email,
		Avatar:   profile.Picture,
		Role:     role,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GenerateToken issues a signed session token for the user.
func (s *AuthService) GenerateToken(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(s.tokenDurat).Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and verifies a session token and returns the user id
// it carries.
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", apperrors.Unauthorized("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", apperrors.Unauthorized("invalid token")
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", apperrors.Unauthorized("invalid token claims")
	}
	return userID, nil
}

// UserFromToken resolves a session token to the stored user.
func (s *AuthService) UserFromToken(tokenString string) (*models.User, error) {
	userID, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Unauthorized("user no longer exists")
		}
		return nil, err
	}
	return user, nil
}
