package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fxamacker/cbor/v2"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.Client(), append([]Option{WithBaseURL(srv.URL + "/v1/")}, opts...)...)
}

func TestFetchCurrentUserJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/v1/profile" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("expected bearer token, got %q", got)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("expected JSON accept, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"u1","firstName":"Ann","lastName":"Lee","fullName":"Ann Lee",` +
			`"age":30,"email":"a@b.com","skills":["Angular"],"createdAt":"2024-01-15T10:30:00.000Z"}`))
	}, WithToken("tok"))

	p, err := client.FetchCurrentUser(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.FirstName != "Ann" || p.LastName != "Lee" || p.FullName != "Ann Lee" || p.Age != 30 || p.Email != "a@b.com" {
		t.Errorf("unexpected profile %+v", p)
	}
	if len(p.Skills) != 1 || p.Skills[0] != "Angular" {
		t.Errorf("unexpected skills %v", p.Skills)
	}
}

func TestFetchCurrentUserNullSkills(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"firstName":"Ann","lastName":"Lee","age":30,"email":"a@b.com","skills":null}`))
	})

	p, err := client.FetchCurrentUser(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Skills == nil {
		t.Error("expected non-nil skills")
	}
}

func TestPersistUserCBOR(t *testing.T) {
	var received apiProfile
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT, got %s", r.Method)
		}
		if got := r.Header.Get("Content-Type"); got != "application/cbor" {
			t.Errorf("expected CBOR content type, got %q", got)
		}
		data, _ := io.ReadAll(r.Body)
		if err := cbor.Unmarshal(data, &received); err != nil {
			t.Errorf("invalid CBOR body: %v", err)
		}
		out, _ := cbor.Marshal(received)
		w.Header().Set("Content-Type", "application/cbor")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write(out)
	}, WithCBOR())

	err := client.PersistUser(context.Background(), UserProfile{
		FirstName: "Ann",
		LastName:  "Lee",
		FullName:  "Ann Lee",
		Age:       30,
		Email:     "a@b.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if received.FullName != "Ann Lee" || received.Age != 30 {
		t.Errorf("unexpected body %+v", received)
	}
	if received.Skills == nil {
		t.Error("expected skills to be sent as an empty array")
	}
}

func TestPersistUserFallsBackToJSONResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		data, _ := io.ReadAll(r.Body)
		_ = cbor.Unmarshal(data, &body)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"firstName": body["firstName"]})
	}, WithCBOR())

	if err := client.PersistUser(context.Background(), UserProfile{FirstName: "Ann"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClientErrorKinds(t *testing.T) {
	tests := []struct {
		status   int
		kind     UpstreamErrorKind
		sentinel error
	}{
		{http.StatusNotFound, UpstreamErrorKindNotFound, ErrNotFound},
		{http.StatusUnauthorized, UpstreamErrorKindUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, UpstreamErrorKindUnauthorized, ErrUnauthorized},
		{http.StatusUnprocessableEntity, UpstreamErrorKindInvalid, ErrInvalid},
		{http.StatusBadRequest, UpstreamErrorKindInvalid, ErrInvalid},
		{http.StatusServiceUnavailable, UpstreamErrorKindUpstream, ErrUpstream},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/problem+json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"title":"` + http.StatusText(tt.status) + `","status":` +
					`0,"detail":"profile problem"}`))
			})

			_, err := client.FetchCurrentUser(context.Background())
			var upstream *UpstreamError
			if !errors.As(err, &upstream) {
				t.Fatalf("expected UpstreamError, got %T: %v", err, err)
			}
			if upstream.Kind != tt.kind || upstream.Status != tt.status {
				t.Errorf("unexpected kind/status %s/%d", upstream.Kind, upstream.Status)
			}
			if upstream.Detail != "profile problem" {
				t.Errorf("expected detail, got %q", upstream.Detail)
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("expected errors.Is %v", tt.sentinel)
			}
		})
	}
}

func TestClientProblemTitleFallback(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/problem+cbor")
		w.WriteHeader(http.StatusBadGateway)
		out, _ := cbor.Marshal(apiProblem{Title: "Bad Gateway", Status: http.StatusBadGateway})
		_, _ = w.Write(out)
	})

	err := client.PersistUser(context.Background(), UserProfile{})
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.Detail != "Bad Gateway" {
		t.Errorf("expected title as detail, got %q", upstream.Detail)
	}
}

func TestClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := NewClient(nil, WithBaseURL(srv.URL))

	_, err := client.FetchCurrentUser(context.Background())
	if err == nil {
		t.Fatal("expected transport error")
	}
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		t.Error("transport errors should not be UpstreamError")
	}
}

func TestIsCBOR(t *testing.T) {
	tests := map[string]bool{
		"application/cbor":            true,
		"Application/CBOR; charset=x": true,
		"application/problem+cbor":    true,
		"application/json":            false,
		"application/problem+json":    false,
		"":                            false,
	}
	for ct, want := range tests {
		if got := isCBOR(ct); got != want {
			t.Errorf("isCBOR(%q) = %v, want %v", ct, got, want)
		}
	}
}

func TestUpstreamErrorNil(t *testing.T) {
	var e *UpstreamError
	if e.Error() == "" {
		t.Error("expected message for nil error")
	}
	if e.Unwrap() != nil {
		t.Error("expected nil unwrap")
	}
}
