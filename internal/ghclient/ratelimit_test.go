package ghclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

func TestRateLimitTransport(t *testing.T) {
	reset := time.Now().Add(time.Hour).Unix()
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("X-RateLimit-Limit", "5000")
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset, 10))
		if r.URL.Path == "/exhausted" {
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Header().Set("X-RateLimit-Remaining", "4999")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	state := NewRateLimitState()
	client := &http.Client{Transport: &rateLimitTransport{base: http.DefaultTransport, state: state}}

	resp, err := client.Get(srv.URL + "/ok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = resp.Body.Close()

	remaining, limit, _, limited := state.Status()
	if remaining != 4999 || limit != 5000 || limited {
		t.Errorf("unexpected state: remaining=%d limit=%d limited=%v", remaining, limit, limited)
	}

	_, err = client.Get(srv.URL + "/exhausted")
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if !state.IsLimited() {
		t.Error("expected state to be limited")
	}

	// Further requests fail fast without reaching the server.
	before := requests
	_, err = client.Get(srv.URL + "/ok")
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if requests != before {
		t.Errorf("expected no request while limited, server saw %d more", requests-before)
	}
}

func TestRateLimitStateExpires(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	state := NewRateLimitState()
	state.now = func() time.Time { return now }

	state.SetLimited(now.Add(time.Minute))
	if !state.IsLimited() {
		t.Fatal("expected limited before reset")
	}

	now = now.Add(2 * time.Minute)
	if state.IsLimited() {
		t.Error("expected limit to expire after reset")
	}
}

func TestParseRateLimitHeaders(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	remaining, limit, resetAt := parseRateLimitHeaders(resp)
	if remaining != -1 || limit != -1 || !resetAt.IsZero() {
		t.Errorf("expected defaults for missing headers, got %d %d %v", remaining, limit, resetAt)
	}

	resp.Header.Set("X-RateLimit-Remaining", "12")
	resp.Header.Set("X-RateLimit-Limit", "60")
	resp.Header.Set("X-RateLimit-Reset", "1700000000")
	remaining, limit, resetAt = parseRateLimitHeaders(resp)
	if remaining != 12 || limit != 60 || resetAt.Unix() != 1700000000 {
		t.Errorf("unexpected values: %d %d %v", remaining, limit, resetAt)
	}
}

func TestClientRateLimitPerResource(t *testing.T) {
	reset := time.Now().Add(time.Hour).Unix()
	var restCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Limit", "5000")
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset, 10))
		if r.URL.Path == "/graphql" {
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.WriteHeader(http.StatusForbidden)
			return
		}
		restCalls++
		w.Header().Set("X-RateLimit-Remaining", "4321")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"login":"octocat"}`))
	}))
	defer srv.Close()

	client, err := NewClient(context.Background(), Options{
		Token:      "test-token",
		APIURL:     srv.URL + "/",
		GraphQLURL: srv.URL + "/graphql",
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if _, err := client.Issues("myorg", "tracking", 10).FetchPage(context.Background(), ""); err == nil {
		t.Fatal("expected GraphQL fetch to fail once the quota is exhausted")
	}
	if !client.RateLimitState(ResourceGraphQL).IsLimited() {
		t.Fatal("expected GraphQL state to be limited")
	}

	login, err := client.AuthenticatedUser(context.Background())
	if err != nil {
		t.Fatalf("REST call blocked by GraphQL limit: %v", err)
	}
	if login != "octocat" || restCalls != 1 {
		t.Errorf("expected one REST call returning octocat, got %q after %d calls", login, restCalls)
	}

	remaining, _, _, limited := client.RateLimitState(ResourceCore).Status()
	if limited || remaining != 4321 {
		t.Errorf("core state should be independent: remaining=%d limited=%v", remaining, limited)
	}
	if client.RateLimitState("search") != nil {
		t.Error("expected nil state for an untracked resource")
	}
}
