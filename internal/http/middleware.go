package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/prashant0268/shamyraweb/internal/identity"
)

// DeviceIDMiddleware resolves the device identity that keys the guest
// cart. Clients send a stable X-Device-ID; one is minted for clients
// that do not.
func DeviceIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deviceID := r.Header.Get("X-Device-ID")
		if deviceID == "" {
			deviceID = uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), "device_id", deviceID)
		w.Header().Set("X-Device-ID", deviceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// MockAuthMiddleware simulates token authentication (replace with real
// validation against the identity provider). The bearer token is taken
// as the user ID; no token means a guest session.
func MockAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var userID string
		if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			userID = strings.TrimPrefix(auth, "Bearer ")
		}

		ctx := context.WithValue(r.Context(), "user_id", userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getDeviceID(ctx context.Context) string {
	if deviceID, ok := ctx.Value("device_id").(string); ok {
		return deviceID
	}
	return ""
}

func getSession(ctx context.Context) identity.Session {
	if userID, ok := ctx.Value("user_id").(string); ok && userID != "" {
		return identity.Session{UserID: userID}
	}
	return identity.Guest
}
