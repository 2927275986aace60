package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleAdmin = "admin"
	RoleAgent = "agent"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// AuthService registers back-office users and issues HS256 bearer tokens.
type AuthService struct {
	Users     UserStore
	Secret    []byte
	TTL       time.Duration
	RequestID string
	Now       func() time.Time
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      models.User `json:"user"`
}

// Register creates a user. The first account of an empty directory is an
// admin; later ones are agents.
func (s AuthService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	u := models.User{
		Name:  utils.NormalizeSpace(in.Name),
		Email: strings.ToLower(utils.TrimOrEmpty(in.Email)),
	}
	if u.Name == "" {
		return models.User{}, domain.ValidationError{Field: "name", Msg: "name is required"}
	}
	if !utils.LooksLikeEmail(u.Email) {
		return models.User{}, domain.ValidationError{Field: "email", Msg: "email must contain @"}
	}
	if len(in.Password) < 8 {
		return models.User{}, domain.ValidationError{Field: "password", Msg: "password must be at least 8 characters"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)

	n, err := s.Users.Count(ctx)
	if err != nil {
		return models.User{}, err
	}
	u.Role = RoleAgent
	if n == 0 {
		u.Role = RoleAdmin
	}
	if err := s.Users.Create(ctx, &u); err != nil {
		return models.User{}, err
	}
	utils.LogEvent(s.RequestID, "auth", "register", fmt.Sprintf("user %d registered as %s", u.ID, u.Role))
	return u, nil
}

func (s AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsNotFound(err) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		utils.LogWarn(s.RequestID, "auth", "login", fmt.Sprintf("bad password for user %d", u.ID))
		return LoginResult{}, ErrInvalidCredentials
	}

	ttl := s.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	exp := clock(s.Now).Add(ttl)
	token, err := s.IssueToken(u, exp)
	if err != nil {
		return LoginResult{}, err
	}
	utils.LogEvent(s.RequestID, "auth", "login", fmt.Sprintf("user %d logged in", u.ID))
	return LoginResult{Token: token, ExpiresAt: exp, User: u}, nil
}

func (s AuthService) IssueToken(u models.User, exp time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": u.ID,
		"role":    u.Role,
		"exp":     exp.Unix(),
	})
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a bearer token and returns who it belongs to.
func (s AuthService) ParseToken(raw string) (domain.RequestContext, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.Now != nil {
		opts = append(opts, jwt.WithTimeFunc(s.Now))
	}
	token, err := jwt.Parse(raw, func(*jwt.Token) (any, error) {
		return s.Secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return domain.RequestContext{}, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.RequestContext{}, ErrInvalidToken
	}
	id, ok := claims["user_id"].(float64)
	if !ok || id <= 0 {
		return domain.RequestContext{}, ErrInvalidToken
	}
	role, _ := claims["role"].(string)
	return domain.RequestContext{UserID: int64(id), Role: role}, nil
}
