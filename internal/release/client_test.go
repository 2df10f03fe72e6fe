package release

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLatestVersion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/DataDog/datadog-agent/releases/latest" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"tag_name": "7.55.2", "name": "7.55.2"}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	got, err := c.LatestVersion(context.Background())
	if err != nil {
		t.Fatalf("LatestVersion failed: %v", err)
	}
	if got != "7.55.2" {
		t.Errorf("LatestVersion = %q, want 7.55.2", got)
	}
}

func TestLatestVersionMissingTag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name": "oops"}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	if _, err := c.LatestVersion(context.Background()); err == nil {
		t.Fatal("expected error for response without tag_name")
	}
}

func TestLatestVersionNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.LatestVersion(context.Background())

	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestLatestVersionRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Limit", "60")
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.LatestVersion(context.Background())

	var rateLimited *RateLimitError
	if !errors.As(err, &rateLimited) {
		t.Fatalf("expected RateLimitError, got %v", err)
	}
	if rateLimited.Limit != 60 {
		t.Errorf("Limit = %d, want 60", rateLimited.Limit)
	}
}

func TestTarballURL(t *testing.T) {
	c := NewClient()
	want := "https://github.com/DataDog/datadog-agent/archive/refs/tags/7.55.2.tar.gz"
	if got := c.TarballURL("7.55.2"); got != want {
		t.Errorf("TarballURL = %q, want %q", got, want)
	}
}
