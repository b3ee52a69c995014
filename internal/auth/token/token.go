package token

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/golang-jwt/jwt/v5"
	"github.com/smallbiznis/fluxcrm/internal/clock"
	"github.com/smallbiznis/fluxcrm/internal/config"
	"go.uber.org/zap"
)

const TokenType = "bearer"

var ErrInvalidToken = errors.New("invalid token")

// Claims carries the user id in the subject and the role at issue time.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 access tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	issuer string
	clock  clock.Clock
}

func NewIssuer(secret []byte, ttl time.Duration, issuer string, clk clock.Clock) *Issuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &Issuer{secret: secret, ttl: ttl, issuer: issuer, clock: clk}
}

// New builds the issuer from configuration. Outside production a missing
// secret is replaced by a random one, which invalidates tokens on restart.
func New(cfg config.Config, clk clock.Clock, log *zap.Logger) (*Issuer, error) {
	secret := strings.TrimSpace(cfg.AuthJWTSecret)
	if secret == "" {
		if cfg.IsProduction() {
			return nil, errors.New("AUTH_JWT_SECRET is required in production")
		}
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, err
		}
		secret = hex.EncodeToString(buf)
		log.Warn("AUTH_JWT_SECRET not set, using an ephemeral signing key")
	}
	return NewIssuer([]byte(secret), cfg.AuthTokenTTL, cfg.AppName, clk), nil
}

func (i *Issuer) Issue(userID snowflake.ID, role string) (string, time.Time, error) {
	now := i.clock.Now()
	expiresAt := now.Add(i.ttl)
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse validates the signature and expiry and returns the subject user id.
func (i *Issuer) Parse(raw string) (snowflake.ID, *Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil, ErrInvalidToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return 0, nil, ErrInvalidToken
	}

	userID, err := snowflake.ParseString(claims.Subject)
	if err != nil || userID == 0 {
		return 0, nil, ErrInvalidToken
	}
	return userID, claims, nil
}
