package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"github.com/shinyyama/social-inbox/internal/handler"
	"github.com/shinyyama/social-inbox/internal/reqctx"
)

// UserIDHeader carries the caller's id when firebase auth is disabled.
const UserIDHeader = "X-User-ID"

type tokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type AuthMiddleware struct {
	verifier tokenVerifier
	client   *auth.Client
}

func NewAuthMiddleware(ctx context.Context, projectID string) (*AuthMiddleware, error) {
	if projectID == "" {
		return nil, errors.New("FIREBASE_PROJECT_ID is not set")
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID})
	if err != nil {
		return nil, err
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, err
	}
	return &AuthMiddleware{verifier: client, client: client}, nil
}

func newAuthMiddleware(v tokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: v}
}

// Users is the firebase auth client backing the middleware, nil in tests.
func (m *AuthMiddleware) Users() *auth.Client {
	return m.client
}

func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authz := c.Request().Header.Get("Authorization")
		if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
			return c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized", "missing bearer token"))
		}
		tokenStr := strings.TrimPrefix(authz, "Bearer ")
		token, err := m.verifier.VerifyIDToken(c.Request().Context(), tokenStr)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid_token", "token verification failed"))
		}
		setUser(c, token.UID)
		return next(c)
	}
}

// DevUser trusts the X-User-ID header. Only wired outside production.
func DevUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid := strings.TrimSpace(c.Request().Header.Get(UserIDHeader))
		if uid == "" {
			return c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized", "missing "+UserIDHeader+" header"))
		}
		setUser(c, uid)
		return next(c)
	}
}

func setUser(c echo.Context, uid string) {
	c.Set("uid", uid)
	req := c.Request()
	c.SetRequest(req.WithContext(reqctx.WithUID(req.Context(), uid)))
}
