package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgauth "github.com/campusprint/campusprint-backend/pkg/auth"
	"github.com/campusprint/campusprint-backend/pkg/config"
	"github.com/campusprint/campusprint-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSessionChecker struct {
	active bool
}

func (s *stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return s.active, nil
}

func authTestJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "middleware-secret",
		Issuer:            "campusprint-test",
		ExpirationMinutes: 5,
	}
}

func mintTestToken(t *testing.T, profileID uuid.UUID, role enums.ProfileRole) string {
	t.Helper()

	token, err := pkgauth.MintAccessToken(authTestJWTConfig(), time.Now().UTC(), pkgauth.AccessTokenPayload{
		ProfileID: profileID,
		Role:      role,
		JTI:       "session-1",
	})
	require.NoError(t, err)
	return token
}

func TestAuthSeedsContext(t *testing.T) {
	profileID := uuid.New()
	token := mintTestToken(t, profileID, enums.ProfileRoleMerchant)

	var gotProfileID, gotRole, gotAccessID string
	handler := Auth(authTestJWTConfig(), &stubSessionChecker{active: true}, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotProfileID = ProfileIDFromContext(r.Context())
			gotRole = RoleFromContext(r.Context())
			gotAccessID = AccessIDFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

	req := httptest.NewRequest(http.MethodGet, "/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, profileID.String(), gotProfileID)
	assert.Equal(t, "merchant", gotRole)
	assert.Equal(t, "session-1", gotAccessID)

	actor := ActorFromContext(WithRole(WithProfileID(context.Background(), gotProfileID), gotRole))
	assert.Equal(t, profileID, actor.ProfileID)
	assert.Equal(t, enums.ProfileRoleMerchant, actor.Role)
}

func TestAuthRejections(t *testing.T) {
	token := mintTestToken(t, uuid.New(), enums.ProfileRoleUser)

	cases := []struct {
		name    string
		header  string
		checker *stubSessionChecker
	}{
		{"missing header", "", &stubSessionChecker{active: true}},
		{"garbage token", "Bearer not-a-jwt", &stubSessionChecker{active: true}},
		{"revoked session", "Bearer " + token, &stubSessionChecker{active: false}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := Auth(authTestJWTConfig(), tc.checker, nil)(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					t.Fatal("handler must not run")
				}))

			req := httptest.NewRequest(http.MethodGet, "/v1/orders", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRequireMerchant(t *testing.T) {
	handler := RequireMerchant(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/merchants", nil)
	req = req.WithContext(WithRole(req.Context(), "merchant"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/v1/merchants", nil)
	req = req.WithContext(WithRole(req.Context(), "user"))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
