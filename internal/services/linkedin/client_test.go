package linkedin

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCreatePost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/ugcPosts" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer token" {
			t.Errorf("missing bearer token")
		}
		body, _ := io.ReadAll(r.Body)
		var payload ugcPostRequest
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Errorf("invalid payload: %v", err)
		}
		if payload.Author != "urn:li:person:abc" {
			t.Errorf("unexpected author: %q", payload.Author)
		}
		w.Header().Set("X-RestLi-Id", "urn:li:share:123")
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewClient(
		Config{AccessToken: "token", PersonURN: "urn:li:person:abc"},
		WithBaseURL(server.URL),
	)
	id, err := client.CreatePost(context.Background(), "Hello network")
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if id != "urn:li:share:123" {
		t.Fatalf("unexpected id: %q", id)
	}
}

func TestCreatePostPrefersOrganization(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var payload ugcPostRequest
		_ = json.Unmarshal(body, &payload)
		if payload.Author != "urn:li:organization:5" {
			t.Errorf("expected organization author, got %q", payload.Author)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"urn:li:share:9"}`))
	}))
	defer server.Close()

	client := NewClient(
		Config{AccessToken: "token", PersonURN: "urn:li:person:abc", OrganizationURN: "urn:li:organization:5"},
		WithBaseURL(server.URL),
	)
	id, err := client.CreatePost(context.Background(), "Company update")
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if id != "urn:li:share:9" {
		t.Fatalf("unexpected id: %q", id)
	}
}

func TestCreatePostSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"expired token"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(Config{AccessToken: "bad", PersonURN: "urn:li:person:abc"}, WithBaseURL(server.URL))
	_, err := client.CreatePost(context.Background(), "text")
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Fatalf("expected http error, got %v", err)
	}
}

func TestCreatePostRequiresAuthor(t *testing.T) {
	client := NewClient(Config{AccessToken: "token"})
	if _, err := client.CreatePost(context.Background(), "text"); err == nil {
		t.Fatal("expected error without author urn")
	}
}
