package http

import (
	"net/http"

	"github.com/aussiebroadwan/tokenauth/internal/auth/service"
	"github.com/aussiebroadwan/tokenauth/pkg/httpx"
	"github.com/aussiebroadwan/tokenauth/pkg/slogx"
)

// RequireSession runs the authorization pipeline in front of next. The
// verified claims are placed on the request context, and a re-derived
// refresh cookie is set on the response before next writes anything.
func RequireSession(sessions *service.SessionService, cookies CookieConfig) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := sessions.Authorize(r.Context(), service.AuthorizeRequest{
				AccessToken:  httpx.BearerToken(r),
				RefreshToken: refreshToken(r),
				Requester:    requester(r),
			})
			if err != nil {
				writeServiceError(w, err, cookies)
				return
			}
			if res.Refresh != nil {
				cookies.set(w, *res.Refresh)
			}

			ctx := httpx.ContextWithClaims(r.Context(), res.Claims)
			ctx = slogx.WithUser(ctx, res.Claims.AuthenticatedUser.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
