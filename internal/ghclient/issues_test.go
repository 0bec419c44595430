package ghclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spiffcs/collabsweep/internal/model"
)

type graphqlBody struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// newGraphQLServer serves pages keyed by the incoming cursor ("" for the first page).
func newGraphQLServer(t *testing.T, pages map[string]string) (*httptest.Server, *[]graphqlBody) {
	t.Helper()
	var seen []graphqlBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("expected bearer token header, got %q", got)
		}
		var body graphqlBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("failed to decode request: %v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		seen = append(seen, body)

		cursor, _ := body.Variables["cursor"].(string)
		resp, ok := pages[cursor]
		if !ok {
			http.Error(w, "unexpected cursor "+cursor, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, resp)
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := NewClient(context.Background(), Options{
		Token:      "test-token",
		APIURL:     srv.URL,
		GraphQLURL: srv.URL + "/graphql",
	})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return c
}

const firstPage = `{"data":{"repository":{"issues":{
  "pageInfo":{"endCursor":"Y3Vyc29yOjE=","hasNextPage":true},
  "nodes":[
    {"number":42,"state":"OPEN","createdAt":"2024-01-01T10:00:00Z","assignees":{"nodes":[{"login":"alice"},{"login":"dave"}]}},
    {"number":43,"state":"CLOSED","createdAt":"2024-01-02T10:00:00Z","assignees":{"nodes":[]}}
  ]}}}}`

const lastPage = `{"data":{"repository":{"issues":{
  "pageInfo":{"endCursor":"Y3Vyc29yOjI=","hasNextPage":false},
  "nodes":[
    {"number":44,"state":"OPEN","createdAt":"2024-01-03T10:00:00Z","assignees":{"nodes":[{"login":"bob"}]}}
  ]}}}}`

func TestIssueSourceFetchPage(t *testing.T) {
	srv, seen := newGraphQLServer(t, map[string]string{
		"":             firstPage,
		"Y3Vyc29yOjE=": lastPage,
	})
	src := newTestClient(t, srv).Issues("myorg", "myrepo", 100)

	page, err := src.FetchPage(context.Background(), "")
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}
	if !page.HasNextPage || page.EndCursor != "Y3Vyc29yOjE=" {
		t.Errorf("unexpected page info: hasNext=%v cursor=%q", page.HasNextPage, page.EndCursor)
	}
	if len(page.Issues) != 2 {
		t.Fatalf("expected 2 issues, got %d", len(page.Issues))
	}

	first := page.Issues[0]
	if first.Number != 42 || first.State != model.StateOpen {
		t.Errorf("unexpected first issue: %+v", first)
	}
	if !first.CreatedAt.Equal(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected createdAt: %v", first.CreatedAt)
	}
	if len(first.Assignees) != 2 || first.Assignees[0] != "alice" || first.Assignees[1] != "dave" {
		t.Errorf("assignees should keep API order, got %v", first.Assignees)
	}
	if page.Issues[1].State != model.StateClosed || len(page.Issues[1].Assignees) != 0 {
		t.Errorf("unexpected second issue: %+v", page.Issues[1])
	}

	page, err = src.FetchPage(context.Background(), page.EndCursor)
	if err != nil {
		t.Fatalf("FetchPage (second) failed: %v", err)
	}
	if page.HasNextPage || len(page.Issues) != 1 || page.Issues[0].Number != 44 {
		t.Errorf("unexpected last page: %+v", page)
	}

	if len(*seen) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(*seen))
	}
	req := (*seen)[0]
	for _, field := range []string{"repository(", "issues(", "pageInfo", "endCursor", "hasNextPage", "createdAt", "assignees("} {
		if !strings.Contains(req.Query, field) {
			t.Errorf("query should contain %q: %s", field, req.Query)
		}
	}
	if req.Variables["owner"] != "myorg" || req.Variables["name"] != "myrepo" {
		t.Errorf("unexpected variables: %v", req.Variables)
	}
	if req.Variables["first"] != float64(100) {
		t.Errorf("expected first=100, got %v", req.Variables["first"])
	}
	if req.Variables["cursor"] != nil {
		t.Errorf("first page should send a null cursor, got %v", req.Variables["cursor"])
	}
}

func TestIssueSourceFetchPageError(t *testing.T) {
	srv, _ := newGraphQLServer(t, map[string]string{
		"": `{"data":null,"errors":[{"message":"Could not resolve to a Repository"}]}`,
	})
	src := newTestClient(t, srv).Issues("myorg", "missing", 100)

	_, err := src.FetchPage(context.Background(), "")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %T: %v", err, err)
	}
	if fetchErr.Repo != "missing" {
		t.Errorf("expected repo 'missing', got %q", fetchErr.Repo)
	}
}

func TestNewIssueSourceClampsPageSize(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, 100},
		{-5, 100},
		{50, 50},
		{100, 100},
		{500, 100},
	}
	for _, tt := range tests {
		src := NewIssueSource(nil, "o", "r", tt.in)
		if src.pageSize != tt.want {
			t.Errorf("NewIssueSource(pageSize=%d).pageSize = %d, want %d", tt.in, src.pageSize, tt.want)
		}
	}
}

func TestNewClientRequiresToken(t *testing.T) {
	_, err := NewClient(context.Background(), Options{})
	if err == nil {
		t.Error("expected error when creating client without token")
	}
}
