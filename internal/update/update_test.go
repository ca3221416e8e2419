package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestValidateRepo(t *testing.T) {
	valid := []string{
		"appengine-ltd/deadwood",
		"org.repo/name-1",
	}
	for _, repo := range valid {
		if err := validateRepo(repo); err != nil {
			t.Fatalf("expected valid repo %q, got error: %v", repo, err)
		}
	}

	invalid := []string{
		"",
		"owner",
		"owner/repo/extra",
		"owner /repo",
		"owner/repo?x=1",
		"../owner/repo",
	}
	for _, repo := range invalid {
		if err := validateRepo(repo); err == nil {
			t.Fatalf("expected invalid repo %q to fail", repo)
		}
	}
}

func TestValidateHTTPSURL(t *testing.T) {
	allowed := map[string]struct{}{
		"github.com": {},
	}

	if err := validateHTTPSURL("https://github.com/appengine-ltd/deadwood", allowed); err != nil {
		t.Fatalf("expected allowed URL to pass: %v", err)
	}
	if err := validateHTTPSURL("http://github.com/appengine-ltd/deadwood", allowed); err == nil {
		t.Fatalf("expected non-https URL to fail")
	}
	if err := validateHTTPSURL("https://example.com/appengine-ltd/deadwood", allowed); err == nil {
		t.Fatalf("expected non-allowlisted host URL to fail")
	}
}

func releaseServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/appengine-ltd/deadwood/releases/latest" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheck(t *testing.T) {
	srv := releaseServer(t, http.StatusOK, `{"tag_name":"v1.2.0","html_url":"https://github.com/appengine-ltd/deadwood/releases/tag/v1.2.0"}`)
	checker := Checker{BaseURL: srv.URL, Client: srv.Client()}

	tests := []struct {
		current string
		want    string
	}{
		{current: "1.2.0", want: "Up to date (v1.2.0)."},
		{current: "v1.2.0", want: "Up to date (v1.2.0)."},
		{current: "dev", want: "Latest release is v1.2.0."},
		{current: "1.1.0", want: "Update available: v1.1.0 -> v1.2.0. https://github.com/appengine-ltd/deadwood/releases/tag/v1.2.0"},
	}
	for _, tc := range tests {
		got, err := checker.Check(context.Background(), tc.current)
		if err != nil {
			t.Fatalf("check %q: %v", tc.current, err)
		}
		if got != tc.want {
			t.Fatalf("check %q: got %q want %q", tc.current, got, tc.want)
		}
	}
}

func TestCheckErrors(t *testing.T) {
	failing := releaseServer(t, http.StatusForbidden, "rate limited")
	if _, err := (Checker{BaseURL: failing.URL, Client: failing.Client()}).Check(context.Background(), "1.0.0"); err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("expected status error, got %v", err)
	}

	untagged := releaseServer(t, http.StatusOK, `{}`)
	if _, err := (Checker{BaseURL: untagged.URL, Client: untagged.Client()}).Check(context.Background(), "1.0.0"); err == nil {
		t.Fatalf("expected missing tag to fail")
	}

	if _, err := (Checker{BaseURL: "http://api.github.com"}).Check(context.Background(), "1.0.0"); err == nil {
		t.Fatalf("expected plain http base to be refused")
	}

	if _, err := (Checker{Repo: "not a repo"}).Check(context.Background(), "1.0.0"); err == nil {
		t.Fatalf("expected bad repo to be refused")
	}
}
