package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/rapidphoto/uploader-go/internal/api_context"
)

func cloneClaims(c jwt.MapClaims) jwt.MapClaims {
	out := jwt.MapClaims{}
	for k, v := range c {
		out[k] = v
	}
	return out
}

func TestWithAuth(t *testing.T) {
	privKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	pubDER, err := x509.MarshalPKIXPublicKey(&privKey.PublicKey)
	if err != nil {
		t.Fatalf("marshal public key: %v", err)
	}
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	mw := WithAuth(string(pubPEM))

	const subject = "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"
	baseClaims := jwt.MapClaims{
		"iss":   "core",
		"aud":   "uploader",
		"exp":   time.Now().Add(time.Minute).Unix(),
		"iat":   time.Now().Unix(),
		"sub":   subject,
		"roles": []any{"member"},
	}

	signWith := func(key *rsa.PrivateKey) func(jwt.MapClaims) (string, error) {
		return func(claims jwt.MapClaims) (string, error) {
			return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
		}
	}

	tests := []struct {
		name           string
		modifyClaims   func(jwt.MapClaims) jwt.MapClaims
		tokenFactory   func(jwt.MapClaims) (string, error)
		authHeader     string
		wantStatus     int
		expectNextCall bool
	}{
		{
			name:       "missing header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong prefix",
			authHeader: "Token abc",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:         "bad signature",
			modifyClaims: cloneClaims,
			tokenFactory: func(claims jwt.MapClaims) (string, error) {
				otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
				if err != nil {
					return "", err
				}
				return signWith(otherKey)(claims)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:         "wrong method",
			modifyClaims: cloneClaims,
			tokenFactory: func(claims jwt.MapClaims) (string, error) {
				return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "bad issuer",
			modifyClaims: func(c jwt.MapClaims) jwt.MapClaims {
				c = cloneClaims(c)
				c["iss"] = "other"
				return c
			},
			tokenFactory: signWith(privKey),
			wantStatus:   http.StatusUnauthorized,
		},
		{
			name: "bad audience",
			modifyClaims: func(c jwt.MapClaims) jwt.MapClaims {
				c = cloneClaims(c)
				c["aud"] = "other"
				return c
			},
			tokenFactory: signWith(privKey),
			wantStatus:   http.StatusUnauthorized,
		},
		{
			name: "expired",
			modifyClaims: func(c jwt.MapClaims) jwt.MapClaims {
				c = cloneClaims(c)
				c["exp"] = time.Now().Add(-time.Minute).Unix()
				return c
			},
			tokenFactory: signWith(privKey),
			wantStatus:   http.StatusUnauthorized,
		},
		{
			name: "sub not a UUID",
			modifyClaims: func(c jwt.MapClaims) jwt.MapClaims {
				c = cloneClaims(c)
				c["sub"] = "user-123"
				return c
			},
			tokenFactory: signWith(privKey),
			wantStatus:   http.StatusUnauthorized,
		},
		{
			name:           "happy path",
			modifyClaims:   cloneClaims,
			tokenFactory:   signWith(privKey),
			wantStatus:     http.StatusNoContent,
			expectNextCall: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				if id, ok := api_context.AuthUserIDFromContext(r.Context()); !ok || id.String() != subject {
					t.Errorf("auth user in context = %v (ok=%v); want %s", id, ok, subject)
				}
				if roles, ok := api_context.AuthRolesFromContext(r.Context()); !ok || len(roles) != 1 || roles[0] != "member" {
					t.Errorf("roles in context = %v (ok=%v)", roles, ok)
				}
				w.WriteHeader(http.StatusNoContent)
			})

			req := httptest.NewRequest("GET", "/photos", nil)
			switch {
			case tc.tokenFactory != nil:
				token, err := tc.tokenFactory(tc.modifyClaims(baseClaims))
				if err != nil {
					t.Fatalf("sign token: %v", err)
				}
				req.Header.Set("Authorization", "Bearer "+token)
			case tc.authHeader != "":
				req.Header.Set("Authorization", tc.authHeader)
			}

			rec := httptest.NewRecorder()
			mw(next).ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d; want %d (body %q)", rec.Code, tc.wantStatus, rec.Body.String())
			}
			if nextCalled != tc.expectNextCall {
				t.Errorf("nextCalled = %v; want %v", nextCalled, tc.expectNextCall)
			}
		})
	}
}

func TestWithAuth_PassthroughWithoutKey(t *testing.T) {
	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		if _, ok := api_context.AuthUserIDFromContext(r.Context()); ok {
			t.Error("no identity should be set in passthrough mode")
		}
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest("GET", "/photos", nil)
	rec := httptest.NewRecorder()
	WithAuth("")(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d; want %d", rec.Code, http.StatusNoContent)
	}
	if !nextCalled {
		t.Error("requests must pass through untouched when no key is configured")
	}
}
