package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
)

type whoamiOutput struct {
	Body struct {
		UID string `json:"uid"`
	}
}

func setupTestAPI(verifier Verifier, requireAuth bool) *chi.Mux {
	router := chi.NewRouter()
	api := humachi.New(router, huma.DefaultConfig("Test", "1.0.0"))
	api.UseMiddleware(NewAuthMiddleware(api, verifier))

	var security []map[string][]string
	if requireAuth {
		security = []map[string][]string{{"bearerAuth": {}}}
	}
	huma.Register(api, huma.Operation{
		OperationID: "whoami",
		Method:      http.MethodGet,
		Path:        "/whoami",
		Security:    security,
	}, func(ctx context.Context, _ *struct{}) (*whoamiOutput, error) {
		out := &whoamiOutput{}
		if user := UserFromContext(ctx); user != nil {
			out.Body.UID = user.UID
		}
		return out, nil
	})
	return router
}

func serve(router http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestMiddlewareSkipsUnsecuredOperations(t *testing.T) {
	router := setupTestAPI(&StaticVerifier{Err: ErrInvalidToken}, false)
	if rec := serve(router, ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestMiddlewareRejectsMissingHeader(t *testing.T) {
	router := setupTestAPI(NewStaticVerifier("t", nil), true)
	rec := serve(router, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if got := rec.Header().Get("WWW-Authenticate"); got != "Bearer" {
		t.Errorf("expected WWW-Authenticate Bearer, got %q", got)
	}
}

func TestMiddlewareRejectsBadToken(t *testing.T) {
	router := setupTestAPI(NewStaticVerifier("t", nil), true)
	if rec := serve(router, "Bearer nope"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestMiddlewareCertificateFetchIsUnavailable(t *testing.T) {
	router := setupTestAPI(&StaticVerifier{Err: ErrCertificateFetch}, true)
	rec := serve(router, "Bearer t")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "30" {
		t.Errorf("expected Retry-After 30, got %q", got)
	}
}

func TestMiddlewareStoresUser(t *testing.T) {
	router := setupTestAPI(NewStaticVerifier("t", &User{UID: "ann"}), true)
	rec := serve(router, "Bearer t")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		UID string `json:"uid"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.UID != "ann" {
		t.Errorf("expected uid ann, got %q", body.UID)
	}
}

func TestCategorizeAuthError(t *testing.T) {
	tests := map[error]string{
		ErrNoToken:          "no_token",
		ErrTokenExpired:     "token_expired",
		ErrTokenRevoked:     "token_revoked",
		ErrUserDisabled:     "user_disabled",
		ErrCertificateFetch: "certificate_fetch_failed",
		ErrInvalidToken:     "invalid_token",
		context.Canceled:    "unknown",
	}
	for err, want := range tests {
		if got := categorizeAuthError(err); got != want {
			t.Errorf("categorizeAuthError(%v) = %s, want %s", err, got, want)
		}
	}
}

func TestUserFromContext(t *testing.T) {
	if UserFromContext(context.Background()) != nil {
		t.Error("expected nil user")
	}
	ctx := WithUser(context.Background(), &User{UID: "ann"})
	if u := UserFromContext(ctx); u == nil || u.UID != "ann" {
		t.Errorf("expected ann, got %+v", u)
	}
}
