package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/aci-platform/requisition-api/internal/models"
	"github.com/aci-platform/requisition-api/pkg/config"
	appErrors "github.com/aci-platform/requisition-api/pkg/errors"
)

type profileUpserter interface {
	Upsert(ctx context.Context, p *models.Profile) error
}

// AuthService authenticates against the fixed credential table and issues
// access tokens. The portal has no self-service registration.
type AuthService struct {
	credentials map[string]config.Credential
	profiles    profileUpserter
	validator   *validator.Validate
	logger      *zap.Logger
	secret      string
	expiration  time.Duration
	issuer      string
	now         func() time.Time
}

// NewAuthService constructs an AuthService. profiles may be nil; the directory
// is then not refreshed at login.
func NewAuthService(cfg config.AuthConfig, profiles profileUpserter, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	credentials := make(map[string]config.Credential, len(cfg.Credentials))
	for _, cred := range cfg.Credentials {
		credentials[cred.Username] = cred
	}
	return &AuthService{
		credentials: credentials,
		profiles:    profiles,
		validator:   validate,
		logger:      logger,
		secret:      cfg.JWTSecret,
		expiration:  cfg.Expiration,
		issuer:      cfg.Issuer,
		now:         time.Now,
	}
}

// Login verifies the credentials and returns a signed token plus the resolved
// profile. Unknown usernames and wrong secrets yield the same error.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	cred, ok := s.credentials[req.Username]
	if !ok || !secretMatches(cred.Secret, req.Password) {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid username or password")
	}

	profile := profileFromCredential(cred, s.now().UTC())
	if s.profiles != nil {
		if err := s.profiles.Upsert(ctx, &profile); err != nil {
			s.logger.Warn("profile refresh at login failed", zap.String("user", profile.ID), zap.Error(err))
		}
	}

	token, expiresAt, err := s.issueToken(profile)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(time.Until(expiresAt).Seconds()),
		IssuedAt:    s.now().UTC(),
		User:        profile,
	}, nil
}

// ValidateToken parses and validates an access token, returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}
	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

func (s *AuthService) issueToken(profile models.Profile) (string, time.Time, error) {
	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.expiration)
	claims := &models.JWTClaims{
		UserID:     profile.ID,
		StaffID:    profile.StaffID,
		Name:       profile.Name,
		Department: profile.Department,
		Role:       profile.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   profile.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// secretMatches accepts either a bcrypt hash or, for development credentials,
// a plaintext secret.
func secretMatches(stored, provided string) bool {
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(provided)) == nil
	}
	return stored == provided
}

func profileFromCredential(cred config.Credential, now time.Time) models.Profile {
	profile := models.Profile{
		ID:         cred.StaffID,
		Name:       cred.Name,
		Department: cred.Department,
		AvatarURL:  cred.AvatarURL,
		Role:       models.Role(cred.Role),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if cred.StaffID != "" {
		staffID := cred.StaffID
		profile.StaffID = &staffID
	}
	if profile.Role == "" {
		profile.Role = models.RoleEmployee
	}
	return profile
}
