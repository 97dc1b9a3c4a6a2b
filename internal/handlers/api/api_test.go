package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"

	"storefront/internal/models"
)

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  string          `json:"error"`
}

// asUser returns a handler that signs in user for the rest of the chain.
func asUser(user *models.User) fiber.Handler {
	return func(c fiber.Ctx) error {
		if user != nil {
			c.Locals("user", user)
		}
		return c.Next()
	}
}

func doRequest(t *testing.T, app *fiber.App, method, path, body string) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, _ := http.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("%s %s returned non-JSON body %q", method, path, raw)
		}
	}
	return resp.StatusCode, env
}

func TestPageParams(t *testing.T) {
	tests := []struct {
		query     string
		wantPage  int
		wantLimit int
		wantOK    bool
	}{
		{"", 1, defaultQueryPageSize, true},
		{"?page=3", 3, defaultQueryPageSize, true},
		{"?page=2&limit=20", 2, 20, true},
		{"?limit=5000", 1, maxQueryPageSize, true},
		{"?page=0", 0, 0, false},
		{"?limit=-1", 0, 0, false},
		{"?page=abc", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			app := fiber.New()
			var page, limit int
			var ok bool
			app.Get("/", func(c fiber.Ctx) error {
				page, limit, ok = pageParams(c)
				return nil
			})

			req, _ := http.NewRequest("GET", "/"+tt.query, nil)
			if _, err := app.Test(req); err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if page != tt.wantPage || limit != tt.wantLimit || ok != tt.wantOK {
				t.Errorf("pageParams(%q) = (%d, %d, %v), want (%d, %d, %v)",
					tt.query, page, limit, ok, tt.wantPage, tt.wantLimit, tt.wantOK)
			}
		})
	}
}

func TestResponseRequestToModel(t *testing.T) {
	tests := []struct {
		name         string
		req          responseRequest
		wantErr      bool
		wantKeywords []string
	}{
		{
			name:         "normalizes keywords",
			req:          responseRequest{Keywords: []string{" Price ", "COST", "price", ""}, ResponseText: "See the product page."},
			wantKeywords: []string{"price", "cost"},
		},
		{
			name:    "blank text",
			req:     responseRequest{ResponseText: "   "},
			wantErr: true,
		},
		{
			name:    "keyword too long",
			req:     responseRequest{Keywords: []string{strings.Repeat("k", 101)}, ResponseText: "ok"},
			wantErr: true,
		},
		{
			name:         "no keywords",
			req:          responseRequest{ResponseText: "Default reply.", IsDefault: true},
			wantKeywords: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, msg := tt.req.toModel()
			if tt.wantErr {
				if got != nil || msg == "" {
					t.Errorf("toModel() = %v, %q, want error message", got, msg)
				}
				return
			}
			if got == nil {
				t.Fatalf("toModel() error = %q", msg)
			}
			if len(got.Keywords) != len(tt.wantKeywords) {
				t.Fatalf("toModel() keywords = %v, want %v", got.Keywords, tt.wantKeywords)
			}
			for i := range got.Keywords {
				if got.Keywords[i] != tt.wantKeywords[i] {
					t.Errorf("toModel() keywords = %v, want %v", got.Keywords, tt.wantKeywords)
					break
				}
			}
			if got.IsDefault != tt.req.IsDefault {
				t.Errorf("toModel() isDefault = %v, want %v", got.IsDefault, tt.req.IsDefault)
			}
		})
	}
}
