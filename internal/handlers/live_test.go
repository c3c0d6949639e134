package handlers

import (
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestLiveOriginPolicy(t *testing.T) {
	h := NewLiveHandler(zap.NewNop(), []string{"https://app.example.com"})

	cases := []struct {
		name   string
		origin string
		host   string
		want   bool
	}{
		{"no origin header", "", "compass.local:5080", true},
		{"same origin", "http://compass.local:5080", "compass.local:5080", true},
		{"same origin case folded", "http://COMPASS.LOCAL:5080", "compass.local:5080", true},
		{"allowlisted origin", "https://app.example.com", "compass.local:5080", true},
		{"allowlisted with trailing slash", "https://app.example.com/", "compass.local:5080", true},
		{"foreign origin", "https://evil.example.net", "compass.local:5080", false},
		{"unparseable origin", "://bad", "compass.local:5080", false},
	}

	for _, tc := range cases {
		req := httptest.NewRequest("GET", "http://"+tc.host+"/api/live", nil)
		req.Host = tc.host
		if tc.origin != "" {
			req.Header.Set("Origin", tc.origin)
		}
		if got := h.originAllowed(req); got != tc.want {
			t.Errorf("%s: originAllowed = %v, want %v", tc.name, got, tc.want)
		}
	}
}
