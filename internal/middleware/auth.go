package middleware

import (
	"context"
	"strings"

	"github.com/questx-lab/tileset/pkg/errorx"
	"github.com/questx-lab/tileset/pkg/router"
	"github.com/questx-lab/tileset/pkg/token"
	"github.com/questx-lab/tileset/pkg/xcontext"
)

type AdminVerifier struct {
	engine token.Engine
}

func NewAdminVerifier(engine token.Engine) *AdminVerifier {
	return &AdminVerifier{engine: engine}
}

// Middleware sets the request admin when the request carries a valid admin token,
// either as a bearer authorization header or as the access_token query parameter.
// Requests without a token go through anonymously.
func (v *AdminVerifier) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		req := xcontext.HTTPRequest(ctx)

		tkn := req.URL.Query().Get("access_token")
		if auth := req.Header.Get("Authorization"); auth != "" {
			tkn = strings.TrimPrefix(auth, "Bearer ")
		}

		if tkn == "" {
			return ctx, nil
		}

		var claims token.AdminClaims
		if err := v.engine.Verify(tkn, &claims); err != nil {
			xcontext.Logger(ctx).Debugf("Cannot verify admin token: %v", err)
			return nil, errorx.New(errorx.Unauthenticated, "Invalid access token")
		}

		if claims.Name == "" {
			return nil, errorx.New(errorx.Unauthenticated, "Invalid access token")
		}

		return xcontext.WithRequestAdmin(ctx, claims.Name), nil
	}
}
