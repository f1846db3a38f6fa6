// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/jobboard/internal/logging"
)

type contextKey string

const identityContextKey contextKey = "auth_identity"

// ContextWithIdentity stores id in ctx.
func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

// IdentityFromContext returns the caller identity, or nil for anonymous requests.
func IdentityFromContext(ctx context.Context) *Identity {
	id, ok := ctx.Value(identityContextKey).(*Identity)
	if !ok {
		return nil
	}
	return id
}

// Middleware attaches the caller identity to the request context when the
// request carries valid credentials. It never rejects: anonymous requests
// continue without an identity and downstream services decide whether that
// is allowed.
func Middleware(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := a.Authenticate(r.Context(), r)
			if err != nil {
				if !errors.Is(err, ErrNoCredentials) {
					logging.Ctx(r.Context()).Debug().Err(err).Msg("Ignoring request credentials")
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := ContextWithIdentity(r.Context(), id)
			ctx = logging.ContextWithUserID(ctx, id.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
