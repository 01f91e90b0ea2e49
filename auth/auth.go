package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"shelfsensei/models"
)

var (
	ErrUserNotFound = errors.New("User not found")
	ErrNoShops      = errors.New("Access denied. You do not have any shops assigned to your account.")
	ErrInvalidToken = errors.New("Invalid token")
)

// Claims binds a token to one user id.
type Claims struct {
	UserID uint `json:"userId"`
	jwt.RegisteredClaims
}

// Service issues and verifies login tokens. There is no server-side
// session: a token is valid until it expires.
type Service struct {
	DB     *gorm.DB
	Secret []byte
	TTL    time.Duration

	now func() time.Time
}

func NewService(db *gorm.DB, secret string, ttl time.Duration) *Service {
	return &Service{DB: db, Secret: []byte(secret), TTL: ttl, now: time.Now}
}

// Login issues a token for userID. Users who own no shop are refused.
func (s *Service) Login(ctx context.Context, userID uint) (*models.User, string, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if len(user.Shops) == 0 {
		return nil, "", ErrNoShops
	}

	token, err := s.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Verify checks token and reloads the bound user, so shop changes apply
// without logging in again.
func (s *Service) Verify(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.Parse(token)
	if err != nil {
		return nil, err
	}
	return s.loadUser(ctx, userID)
}

// Issue signs an HS256 token for userID expiring after s.TTL.
func (s *Service) Issue(userID uint) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse validates signature and expiry and returns the bound user id.
func (s *Service) Parse(token string) (uint, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid || claims.UserID == 0 {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}

func (s *Service) loadUser(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Preload("Shops").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
