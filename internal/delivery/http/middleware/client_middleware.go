package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// ClientCookieName identifies a device across requests.
const ClientCookieName = "chmh_client"

const clientCookieMaxAge = 365 * 24 * 60 * 60

type ClientMiddleware struct {
	secure bool
}

func NewClientMiddleware(secure bool) *ClientMiddleware {
	return &ClientMiddleware{secure: secure}
}

// Identify issues a client id cookie on first contact and puts the id in the context.
func (m *ClientMiddleware) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID, issued := "", false
		if cookie, err := r.Cookie(ClientCookieName); err == nil {
			if _, err := uuid.Parse(cookie.Value); err == nil {
				clientID = cookie.Value
			}
		}

		if clientID == "" {
			clientID, issued = uuid.NewString(), true
			http.SetCookie(w, &http.Cookie{
				Name:     ClientCookieName,
				Value:    clientID,
				Path:     "/",
				MaxAge:   clientCookieMaxAge,
				HttpOnly: true,
				Secure:   m.secure,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), ClientIDKey, clientID)
		ctx = context.WithValue(ctx, ClientIssuedKey, issued)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetClientIDFromContext extracts the device id from context
func GetClientIDFromContext(ctx context.Context) (string, bool) {
	clientID, ok := ctx.Value(ClientIDKey).(string)
	return clientID, ok
}

// IsClientIDIssued reports whether the id was minted for this request because
// the client sent no valid cookie.
func IsClientIDIssued(ctx context.Context) bool {
	issued, _ := ctx.Value(ClientIssuedKey).(bool)
	return issued
}
