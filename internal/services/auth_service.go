package services

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain"
	"storefront/internal/validate"
)

var (
	ErrBadPassword  = errors.New("invalid password")
	ErrInvalidToken = errors.New("invalid token")
)

const DefaultBcryptCost = 10

type AuthService struct {
	Customers CustomerStore
	Secret    []byte
	TTL       time.Duration
	Cost      int
	Now       Clock
}

func NewAuthService(customers CustomerStore, secret string, ttl time.Duration, cost int) *AuthService {
	return &AuthService{Customers: customers, Secret: []byte(secret), TTL: ttl, Cost: cost}
}

// Claims is the token payload. "id" carries the customer identifier.
type Claims struct {
	CustomerID string `json:"id"`
	jwt.RegisteredClaims
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.Customer, error) {
	if in.Password == "" {
		return nil, domain.Required("password")
	}
	name, err := checkName(in.Name)
	if err != nil {
		return nil, err
	}
	email, err := checkEmail(in.Email)
	if err != nil {
		return nil, err
	}
	hash, err := hashPassword(in.Password, s.Cost)
	if err != nil {
		return nil, err
	}
	c := &domain.Customer{
		ID:           domain.NewID(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		OrderHistory: []domain.OrderHistoryEntry{},
		CreatedAt:    s.Now.now(),
	}
	if err := s.Customers.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Login checks credentials and issues a token. Unknown emails yield
// domain.ErrCustomerNotFound, wrong passwords ErrBadPassword.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Customer, error) {
	if email == "" {
		return "", nil, domain.Required("email")
	}
	if password == "" {
		return "", nil, domain.Required("password")
	}
	c, err := s.Customers.ByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrBadPassword
	}
	tok, err := s.IssueToken(c.ID)
	if err != nil {
		return "", nil, err
	}
	return tok, c, nil
}

func (s *AuthService) IssueToken(customerID string) (string, error) {
	now := s.Now.now()
	claims := Claims{
		CustomerID: customerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   customerID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	return tok, errors.Wrap(err, "sign token")
}

// ParseToken verifies signature and expiry and returns the customer id.
func (s *AuthService) ParseToken(raw string) (string, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (any, error) { return s.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.Now.now),
	)
	if err != nil || claims.CustomerID == "" {
		return "", ErrInvalidToken
	}
	return claims.CustomerID, nil
}

// Authenticate resolves a token to its customer record.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (*domain.Customer, error) {
	id, err := s.ParseToken(raw)
	if err != nil {
		return nil, err
	}
	c, err := s.Customers.ByID(ctx, id)
	if errors.Is(err, domain.ErrCustomerNotFound) {
		return nil, ErrInvalidToken
	}
	return c, err
}

func checkName(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", domain.Required("name")
	}
	name, ok := validate.Name(s)
	if !ok {
		return "", domain.Invalid("name", "must be at most 100 characters")
	}
	return name, nil
}

// checkEmail returns the normalized address.
func checkEmail(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", domain.Required("email")
	}
	email, ok := validate.Email(s)
	if !ok {
		return "", domain.Invalid("email", "is not a valid address")
	}
	return domain.NormalizeEmail(email), nil
}

func hashPassword(pw string, cost int) (string, error) {
	if !validate.Password(pw) {
		return "", domain.Invalid("password", "must be 1 to 72 bytes")
	}
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(h), nil
}
