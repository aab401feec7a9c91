package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the cookie the token is stored in after login.
const CookieName = "warbler_token"

var ErrInvalidToken = errors.New("invalid or expired token")

var (
	mu       sync.RWMutex
	secret   []byte
	tokenTTL = 24 * time.Hour
)

// Configure sets the signing secret and token lifetime.
func Configure(jwtSecret string, ttl time.Duration) error {
	if jwtSecret == "" {
		return fmt.Errorf("auth secret is not set")
	}
	mu.Lock()
	defer mu.Unlock()
	secret = []byte(jwtSecret)
	if ttl > 0 {
		tokenTTL = ttl
	}
	return nil
}

func TTL() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return tokenTTL
}

func CreateToken(userID uint) (string, error) {
	mu.RLock()
	key, ttl := secret, tokenTTL
	mu.RUnlock()

	if len(key) == 0 {
		return "", fmt.Errorf("auth secret is not set")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

// ParseToken validates the token and returns its user_id claim.
func ParseToken(tokenString string) (uint, error) {
	mu.RLock()
	key := secret
	mu.RUnlock()

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}

	id, ok := claims["user_id"].(float64)
	if !ok || id <= 0 {
		return 0, ErrInvalidToken
	}

	return uint(id), nil
}

// ExtractToken reads a bearer token from the Authorization header, falling
// back to the session cookie.
func ExtractToken(r *http.Request) string {
	bearer := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(bearer, "Bearer "); ok {
		return strings.TrimSpace(token)
	}

	if cookie, err := r.Cookie(CookieName); err == nil {
		return cookie.Value
	}

	return ""
}

func ExtractTokenID(r *http.Request) (uint, error) {
	tokenString := ExtractToken(r)
	if tokenString == "" {
		return 0, ErrInvalidToken
	}
	return ParseToken(tokenString)
}
