package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

const testAPIKey = "test-api-key-12345678"

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		cfg        AuthConfig
		path       string
		header     string
		wantStatus int
	}{
		{"disabled", AuthConfig{}, pathCheck, "", http.StatusOK},
		{"valid key", AuthConfig{Enabled: true, APIKey: testAPIKey}, pathCheck, testAPIKey, http.StatusOK},
		{"missing key", AuthConfig{Enabled: true, APIKey: testAPIKey}, pathCheck, "", http.StatusUnauthorized},
		{"invalid key", AuthConfig{Enabled: true, APIKey: testAPIKey}, pathCheck, "wrong-key-000000000", http.StatusUnauthorized},
		{"health is public", AuthConfig{Enabled: true, APIKey: testAPIKey}, pathHealth, "", http.StatusOK},
		{"websocket query key", AuthConfig{Enabled: true, APIKey: testAPIKey}, pathWebSocket + "?api_key=" + testAPIKey, "", http.StatusOK},
		{"query key only for websocket", AuthConfig{Enabled: true, APIKey: testAPIKey}, pathCheck + "?api_key=" + testAPIKey, "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("X-API-Key", tt.header)
			}
			w := httptest.NewRecorder()

			AuthMiddleware(tt.cfg, next).ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if called != (tt.wantStatus == http.StatusOK) {
				t.Errorf("handler called = %v", called)
			}
		})
	}
}

func TestValidateAuthConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     AuthConfig
		wantErr bool
	}{
		{"disabled", AuthConfig{}, false},
		{"enabled with key", AuthConfig{Enabled: true, APIKey: testAPIKey}, false},
		{"enabled without key", AuthConfig{Enabled: true}, true},
		{"key too short", AuthConfig{Enabled: true, APIKey: "short"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateAuthConfig(tt.cfg); (err != nil) != tt.wantErr {
				t.Errorf("ValidateAuthConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestServerRequiresKey(t *testing.T) {
	s := newTestServer(t, func(c *Config) { c.Auth = AuthConfig{Enabled: true, APIKey: testAPIKey} })
	w, env := postCheck(t, s.Handler(), `{"text":"Hann kom."}`)
	if w.Code != http.StatusUnauthorized || env.Error == nil || env.Error.Code != "UNAUTHORIZED" {
		t.Errorf("status = %d, error = %+v", w.Code, env.Error)
	}
}
