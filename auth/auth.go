// Package auth issues and verifies bearer tokens and carries the
// authenticated user id on the request context.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type ctxKey string

const userIDCtxKey = ctxKey("userID")

// Token types
const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Claims are the JWT claims issued by this service. Subject is the user id.
type Claims struct {
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenPair is returned on login.
type TokenPair struct {
	Access    string    `json:"access"`
	Refresh   string    `json:"refresh"`
	ExpiresAt time.Time `json:"access_expires_at"`
}

// Tokens signs and parses HS256 tokens.
type Tokens struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokens creates a token service. secret must not be empty.
func NewTokens(secret, issuer string, accessTTL, refreshTTL time.Duration) (*Tokens, error) {
	if secret == "" {
		return nil, errors.New("auth: empty signing secret")
	}
	return &Tokens{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

// Issue creates an access and a refresh token for userID.
func (t *Tokens) Issue(userID uint) (TokenPair, error) {
	access, exp, err := t.sign(userID, TokenAccess, t.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, _, err := t.sign(userID, TokenRefresh, t.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh, ExpiresAt: exp}, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (t *Tokens) Refresh(refresh string) (string, uint, error) {
	uid, err := t.Parse(refresh, TokenRefresh)
	if err != nil {
		return "", 0, err
	}
	access, _, err := t.sign(uid, TokenAccess, t.accessTTL)
	return access, uid, err
}

func (t *Tokens) sign(userID uint, typ string, ttl time.Duration) (string, time.Time, error) {
	now := t.now()
	exp := now.Add(ttl)
	claims := Claims{
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, exp, nil
}

// Parse validates raw and returns the user id it was issued for.
func (t *Tokens) Parse(raw, wantType string) (uint, error) {
	var claims Claims
	keyFunc := func(*jwt.Token) (any, error) { return t.secret, nil }
	_, err := jwt.ParseWithClaims(raw, &claims, keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrExpiredToken
		}
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.TokenType != wantType {
		return 0, fmt.Errorf("%w: expected %s token", ErrInvalidToken, wantType)
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return uint(id), nil
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrMissingToken
	}
	return strings.TrimSpace(token), nil
}

// WithUserID stores user id in context.
func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userIDCtxKey, userID)
}

// UserIDFromContext extracts user id.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(userIDCtxKey).(uint)
	return id, ok && id != 0
}

// UserVerifier validates that a token's user still exists and is allowed in.
type UserVerifier func(ctx context.Context, uid uint) bool

// Authenticator wires token parsing into HTTP middleware.
type Authenticator struct {
	Tokens *Tokens
	// Verify is optional; when set, RequireAuth rejects users it refuses.
	Verify UserVerifier
	// OnUnauthorized writes the 401 response. Defaults to a bare JSON body.
	OnUnauthorized func(w http.ResponseWriter, r *http.Request, err error)
}

// Middleware attaches the user id to the request context when a valid access
// token is present. It never rejects; RequireAuth does.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if raw, err := BearerToken(r); err == nil {
			if uid, err := a.Tokens.Parse(raw, TokenAccess); err == nil {
				r = r.WithContext(WithUserID(r.Context(), uid))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth returns 401 unless the request carries a verified user.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := UserIDFromContext(r.Context())
		if !ok {
			a.unauthorized(w, r, a.reason(r))
			return
		}
		if a.Verify != nil && !a.Verify(r.Context(), uid) {
			a.unauthorized(w, r, ErrInvalidToken)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// reason re-parses the header to tell a missing token from a bad one.
func (a *Authenticator) reason(r *http.Request) error {
	raw, err := BearerToken(r)
	if err != nil {
		return err
	}
	if _, err := a.Tokens.Parse(raw, TokenAccess); err != nil {
		return err
	}
	return ErrInvalidToken
}

func (a *Authenticator) unauthorized(w http.ResponseWriter, r *http.Request, err error) {
	if a.OnUnauthorized != nil {
		a.OnUnauthorized(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	fmt.Fprint(w, `{"error":"unauthorized"}`)
}
