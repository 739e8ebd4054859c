package jwt

import (
	"errors"
	"time"

	"contactmanager/user"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrInvalidClaims = errors.New("invalid token claims")
)

const accessTokenType = "access"

type JWTProvider struct {
	Secret    string
	AccessTTL time.Duration

	now func() time.Time
}

func NewJWTProvider(secret string, accessTTL time.Duration) *JWTProvider {
	return &JWTProvider{
		Secret:    secret,
		AccessTTL: accessTTL,
		now:       time.Now,
	}
}

func (p *JWTProvider) GenerateAccessToken(u user.User) (string, error) {
	now := p.now()
	claims := jwt.MapClaims{
		"user_id": u.ID,
		"email":   u.Email,
		"type":    accessTokenType,
		"iat":     now.Unix(),
		"exp":     now.Add(p.AccessTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(p.Secret))
}

// ParseAccessToken verifies signature, expiry and type of an access token
// and returns the user id it carries.
func (p *JWTProvider) ParseAccessToken(accessToken string) (string, error) {
	token, err := jwt.Parse(accessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte(p.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidClaims
	}

	if claimType, ok := claims["type"].(string); !ok || claimType != accessTokenType {
		return "", ErrInvalidClaims
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", ErrInvalidClaims
	}

	return userID, nil
}
