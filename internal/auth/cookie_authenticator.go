package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/golang-jwt/jwt/v5"
	"github.com/solosphere/marketplace/internal/config"
	"go.uber.org/zap"
)

type emailClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// CookieAuthenticator issues and verifies HS256 tokens carried in an httpOnly cookie.
type CookieAuthenticator struct {
	secret     []byte
	cookieName string
	ttl        time.Duration
	production bool
}

func NewCookieAuthenticator(authConfig config.Auth, production bool) (*CookieAuthenticator, error) {
	if authConfig.SecretKey == "" {
		return nil, errors.New("signing secret is empty")
	}

	cookieName := authConfig.CookieName
	if cookieName == "" {
		cookieName = "token"
	}

	zap.S().Named("auth").Infof("cookie authentication: cookie %q, token ttl %s", cookieName, authConfig.TokenTTL)

	return &CookieAuthenticator{
		secret:     []byte(authConfig.SecretKey),
		cookieName: cookieName,
		ttl:        authConfig.TokenTTL,
		production: production,
	}, nil
}

func (ca *CookieAuthenticator) CookieName() string {
	return ca.cookieName
}

func (ca *CookieAuthenticator) IssueToken(email string) (string, error) {
	if email == "" {
		return "", errors.New("email is required to issue a token")
	}

	now := time.Now()
	claims := emailClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ca.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ca.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (ca *CookieAuthenticator) Authenticate(token string) (User, error) {
	if token == "" {
		return User{}, NewErrUnauthorized("no token provided")
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}), jwt.WithIssuedAt(), jwt.WithExpirationRequired())
	t, err := parser.ParseWithClaims(token, &emailClaims{}, func(t *jwt.Token) (any, error) {
		return ca.secret, nil
	})
	if err != nil {
		zap.S().Named("auth").Debugw("failed to parse or the token is invalid", "error", err)
		return User{}, NewErrUnauthorized("failed to authenticate token: %w", err)
	}

	claims, ok := t.Claims.(*emailClaims)
	if !ok || !t.Valid {
		return User{}, NewErrUnauthorized("failed to parse or validate token")
	}

	if claims.Email == "" {
		return User{}, NewErrUnauthorized("token has no email claim")
	}

	return User{Email: claims.Email, Token: t}, nil
}

func (ca *CookieAuthenticator) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var token string
		if c, err := r.Cookie(ca.cookieName); err == nil {
			token = c.Value
		}

		user, err := ca.Authenticate(token)
		if err != nil {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, map[string]string{"message": "unauthorized access"})
			return
		}

		ctx := NewTokenContext(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (ca *CookieAuthenticator) SetCookie(w http.ResponseWriter, token string) {
	c := ca.cookie()
	c.Value = token
	http.SetCookie(w, c)
}

func (ca *CookieAuthenticator) ClearCookie(w http.ResponseWriter) {
	c := ca.cookie()
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	http.SetCookie(w, c)
}

// cookie attributes follow the deployment mode: cross-site in production, strict otherwise.
func (ca *CookieAuthenticator) cookie() *http.Cookie {
	c := &http.Cookie{
		Name:     ca.cookieName,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
	if ca.production {
		c.Secure = true
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}
