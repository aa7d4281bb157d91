package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-for-middleware"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func validToken(t *testing.T, userID int64) string {
	return signToken(t, testSecret, jwt.MapClaims{
		"user_id": float64(userID),
		"exp":     time.Now().Add(time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	})
}

// echoUserID records what the middleware put into the context.
func echoUserID(got *int64, found *bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := GetUserIDFromContext(r.Context())
		*got = id
		*found = ok
		w.WriteHeader(http.StatusOK)
	}
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name       string
		setRequest func(r *http.Request)
		wantStatus int
		wantUserID int64
	}{
		{
			name:       "missing token",
			setRequest: func(r *http.Request) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "valid bearer token",
			setRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+validToken(t, 42))
			},
			wantStatus: http.StatusOK,
			wantUserID: 42,
		},
		{
			name: "valid cookie token",
			setRequest: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "access_token", Value: validToken(t, 7)})
			},
			wantStatus: http.StatusOK,
			wantUserID: 7,
		},
		{
			name: "wrong secret",
			setRequest: func(r *http.Request) {
				tok := signToken(t, "other-secret", jwt.MapClaims{
					"user_id": float64(42),
					"exp":     time.Now().Add(time.Hour).Unix(),
				})
				r.Header.Set("Authorization", "Bearer "+tok)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "expired token",
			setRequest: func(r *http.Request) {
				tok := signToken(t, testSecret, jwt.MapClaims{
					"user_id": float64(42),
					"exp":     time.Now().Add(-time.Minute).Unix(),
				})
				r.Header.Set("Authorization", "Bearer "+tok)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "garbage bearer value",
			setRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer not-a-jwt")
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// ARRANGE
			var gotID int64
			var found bool
			h := RequireAuth(testSecret)(echoUserID(&gotID, &found))

			req := httptest.NewRequest("GET", "/protected", nil)
			tt.setRequest(req)
			rec := httptest.NewRecorder()

			// ACT
			h.ServeHTTP(rec, req)

			// ASSERT
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK {
				if !found {
					t.Fatal("expected user ID in context")
				}
				if gotID != tt.wantUserID {
					t.Errorf("user ID = %d, want %d", gotID, tt.wantUserID)
				}
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	t.Run("anonymous request passes through", func(t *testing.T) {
		// ARRANGE
		var gotID int64
		var found bool
		h := OptionalAuth(testSecret)(echoUserID(&gotID, &found))

		req := httptest.NewRequest("GET", "/public", nil)
		rec := httptest.NewRecorder()

		// ACT
		h.ServeHTTP(rec, req)

		// ASSERT
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
		if found {
			t.Error("expected no user ID for anonymous request")
		}
	})

	t.Run("invalid token is treated as anonymous", func(t *testing.T) {
		// ARRANGE
		var gotID int64
		var found bool
		h := OptionalAuth(testSecret)(echoUserID(&gotID, &found))

		req := httptest.NewRequest("GET", "/public", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()

		// ACT
		h.ServeHTTP(rec, req)

		// ASSERT
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
		if found {
			t.Error("expected no user ID for invalid token")
		}
	})

	t.Run("valid token is attached", func(t *testing.T) {
		// ARRANGE
		var gotID int64
		var found bool
		h := OptionalAuth(testSecret)(echoUserID(&gotID, &found))

		req := httptest.NewRequest("GET", "/public", nil)
		req.Header.Set("Authorization", "Bearer "+validToken(t, 9))
		rec := httptest.NewRecorder()

		// ACT
		h.ServeHTTP(rec, req)

		// ASSERT
		if !found || gotID != 9 {
			t.Errorf("user ID = (%d, %v), want (9, true)", gotID, found)
		}
	})
}

func TestUserIDPtr(t *testing.T) {
	// ARRANGE
	var ptr *int64
	h := OptionalAuth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ptr = UserIDPtr(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+validToken(t, 3))
	rec := httptest.NewRecorder()

	// ACT
	h.ServeHTTP(rec, req)

	// ASSERT
	if ptr == nil || *ptr != 3 {
		t.Fatalf("UserIDPtr = %v, want pointer to 3", ptr)
	}

	// Anonymous request yields nil.
	ptr = nil
	req = httptest.NewRequest("GET", "/", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if ptr != nil {
		t.Errorf("UserIDPtr for anonymous = %v, want nil", ptr)
	}
}
