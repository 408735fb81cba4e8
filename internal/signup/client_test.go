package signup

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/beatreach/beatreach/internal/types"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestRegister_Success(t *testing.T) {
	var gotVersion, gotPath string
	var gotReq types.RegisterRequest

	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotVersion = r.Header.Get("Beatreach-Version")
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotReq)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(types.ExternalAccount{
			ID: "ext-42", Email: "ana@example.com", Name: "Ana",
		})
	})

	c := NewClient(srv.URL, "1.0.0").WithHTTPClient(srv.Client())
	account, err := c.Register(context.Background(), types.RegisterRequest{
		Email: "ana@example.com", Name: "Ana", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if account.ID != "ext-42" || account.Email != "ana@example.com" {
		t.Errorf("account = %+v", account)
	}
	if gotPath != "/users" {
		t.Errorf("path = %q, want /users", gotPath)
	}
	if gotVersion != "1.0.0" {
		t.Errorf("Beatreach-Version = %q", gotVersion)
	}
	if gotReq.Email != "ana@example.com" || gotReq.Password != "secret123" {
		t.Errorf("request body = %+v", gotReq)
	}
}

func TestRegister_Rejected(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error": "email already registered"}`))
	})

	c := NewClient(srv.URL, "1.0.0").WithHTTPClient(srv.Client())
	_, err := c.Register(context.Background(), types.RegisterRequest{Email: "dup@example.com"})
	if !errors.Is(err, ErrRejected) {
		t.Errorf("error = %v, want ErrRejected", err)
	}
}

func TestRegister_ServerError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	c := NewClient(srv.URL, "1.0.0").WithHTTPClient(srv.Client())
	_, err := c.Register(context.Background(), types.RegisterRequest{Email: "x@y.z"})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}
}

func TestRegister_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // guaranteed refused

	c := NewClient(srv.URL, "1.0.0")
	_, err := c.Register(context.Background(), types.RegisterRequest{Email: "x@y.z"})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}
}

func TestRegister_InvalidResponseBody(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("not json"))
	})

	c := NewClient(srv.URL, "1.0.0").WithHTTPClient(srv.Client())
	_, err := c.Register(context.Background(), types.RegisterRequest{Email: "x@y.z"})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}
}
