package mockserver

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 24 * time.Hour

// tokenManager mints and verifies HMAC-signed bearer tokens. The client
// treats them as opaque strings; JWT is just a convenient stateless format
// for a test server.
type tokenManager struct {
	mu  sync.RWMutex
	key []byte
}

func newTokenManager(key []byte) *tokenManager {
	if key == nil {
		key = make([]byte, 32)
		if _, err := io.ReadFull(rand.Reader, key); err != nil {
			panic(fmt.Sprintf("failed to generate signing key: %v", err))
		}
	}
	return &tokenManager{key: key}
}

// mint issues a token bound to the user ID.
func (t *tokenManager) mint(userID int64) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	now := nowFunc()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		Issuer:    "tripkit-mockserver",
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.key)
}

// verify checks the signature and expiry and returns the bound user ID.
func (t *tokenManager) verify(token string) (int64, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, err
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return 0, fmt.Errorf("token has no subject")
	}
	return strconv.ParseInt(claims.Subject, 10, 64)
}

// rotate replaces the signing key, invalidating every outstanding token.
func (t *tokenManager) rotate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		panic(fmt.Sprintf("failed to rotate signing key: %v", err))
	}
	t.key = key
}

type ctxKey struct{}

func withUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func userIDFrom(ctx context.Context) int64 {
	id, _ := ctx.Value(ctxKey{}).(int64)
	return id
}
