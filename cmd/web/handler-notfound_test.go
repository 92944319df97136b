package main

import (
	"net/http"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/myrjola/trainplan/internal/e2etest"
	"github.com/myrjola/trainplan/internal/testhelpers"
)

func Test_application_notFound(t *testing.T) {
	ctx := t.Context()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	client := server.Client()

	tests := []struct {
		name string
		path string
	}{
		{name: "Nonexistent path", path: "/this-does-not-exist"},
		{name: "Unknown plan", path: "/plans/00000000-0000-0000-0000-000000000000"},
		{name: "Directory traversal", path: "/../go.mod"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := client.Get(ctx, tt.path)
			if err != nil {
				t.Fatalf("Failed to get %s: %v", tt.path, err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusNotFound {
				t.Errorf("Expected status code %d, got %d", http.StatusNotFound, resp.StatusCode)
			}
			doc, err := goquery.NewDocumentFromReader(resp.Body)
			if err != nil {
				t.Fatalf("Failed to parse 404 document: %v", err)
			}
			if title := doc.Find("h1").First().Text(); !strings.Contains(title, "Page not found") {
				t.Errorf("Expected 404 title, got %q", title)
			}
			if doc.Find("main a[href='/']").Length() == 0 {
				t.Error("Expected 404 page to link to the home page")
			}
		})
	}

	t.Run("Static file", func(t *testing.T) {
		resp, err := client.Get(ctx, "/main.css")
		if err != nil {
			t.Fatalf("Failed to get stylesheet: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("Expected status code %d, got %d", http.StatusOK, resp.StatusCode)
		}
		if got := resp.Header.Get("Cache-Control"); !strings.Contains(got, "immutable") {
			t.Errorf("Expected immutable cache control, got %q", got)
		}
	})
}
