package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/tenk-lab/backend/internal/model"
	"github.com/tenk-lab/backend/pkg/errorx"
	"github.com/tenk-lab/backend/pkg/router"
	"github.com/tenk-lab/backend/pkg/xcontext"
)

// AuthVerifier resolves the requesting user from the access token and puts
// the user id into the context. Endpoints behind it can rely on
// xcontext.RequestUserID being set.
type AuthVerifier struct {
	useAccessToken bool
	optional       bool
}

func NewAuthVerifier() *AuthVerifier {
	return &AuthVerifier{}
}

func (a *AuthVerifier) WithAccessToken() *AuthVerifier {
	a.useAccessToken = true
	return a
}

// WithOptional lets unauthenticated requests through without a user id.
func (a *AuthVerifier) WithOptional() *AuthVerifier {
	a.optional = true
	return a
}

func (a *AuthVerifier) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if !a.useAccessToken {
			return nil, nil
		}

		token := extractAccessToken(xcontext.HTTPRequest(ctx))
		if token == "" {
			if a.optional {
				return nil, nil
			}

			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		var accessToken model.AccessToken
		if err := xcontext.TokenEngine(ctx).Verify(token, &accessToken); err != nil {
			if a.optional {
				return nil, nil
			}

			xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
			return nil, errorx.New(errorx.Unauthenticated, "Invalid access token")
		}

		return xcontext.WithRequestUserID(ctx, accessToken.ID), nil
	}
}

func extractAccessToken(req *http.Request) string {
	authorization := req.Header.Get("Authorization")
	if !strings.HasPrefix(authorization, "Bearer ") {
		return ""
	}

	return strings.TrimSpace(strings.TrimPrefix(authorization, "Bearer "))
}
