package wordpress

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
		if r.URL.Path != "/wp-json/wp/v2/posts" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "publisher" || pass != "secret" {
			t.Errorf("unexpected basic auth: %s %s %v", user, pass, ok)
		}
		body, _ := io.ReadAll(r.Body)
		var payload map[string]string
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Errorf("invalid payload: %v", err)
		}
		if payload["status"] != "publish" {
			t.Errorf("expected publish status, got %q", payload["status"])
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":91,"link":"https://blog.example.com/?p=91"}`))
	}))
	defer server.Close()

	client := NewClient(Config{SiteURL: server.URL, Username: "publisher", AppPassword: "secret"})
	post, err := client.CreatePost(context.Background(), PostRequest{
		Title:   "Go 1.25",
		Content: "Release notes digest.",
		Status:  StatusPublish,
	})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if post.ID != 91 || post.Link != "https://blog.example.com/?p=91" {
		t.Fatalf("unexpected post: %+v", post)
	}
}

func TestCreatePostDefaultsToDraft(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var payload map[string]string
		_ = json.Unmarshal(body, &payload)
		if payload["status"] != "draft" {
			t.Errorf("expected draft status, got %q", payload["status"])
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":7,"link":"https://blog.example.com/?p=7"}`))
	}))
	defer server.Close()

	client := NewClient(Config{SiteURL: server.URL, Username: "u", AppPassword: "p"})
	if _, err := client.CreatePost(context.Background(), PostRequest{Title: "Draft"}); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
}

func TestCreatePostSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":"rest_cannot_create"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(Config{SiteURL: server.URL, Username: "u", AppPassword: "bad"})
	_, err := client.CreatePost(context.Background(), PostRequest{Title: "x"})
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Fatalf("expected http error, got %v", err)
	}
}

func TestCreatePostRequiresCredentials(t *testing.T) {
	client := NewClient(Config{})
	if _, err := client.CreatePost(context.Background(), PostRequest{Title: "x"}); err == nil {
		t.Fatal("expected error without credentials")
	}
}
