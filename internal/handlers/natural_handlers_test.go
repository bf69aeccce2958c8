package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestNaturalProxyRelaysUpstreamResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var payload map[string]string
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Errorf("Upstream received invalid JSON: %v", err)
		}
		if payload["query"] != "how many widgets are low on stock" {
			t.Errorf("Upstream received unexpected query: %q", payload["query"])
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"answer":"3 products"}`))
	}))
	defer upstream.Close()

	engine := gin.New()
	engine.POST("/natural", NewNaturalHandler(upstream.URL, 5*time.Second).Process)

	req := httptest.NewRequest(http.MethodPost, "/natural", strings.NewReader(`{"query":"how many widgets are low on stock"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "3 products") {
		t.Errorf("Expected upstream body to be relayed, got %s", w.Body.String())
	}
}

func TestNaturalProxyRejectsEmptyQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.POST("/natural", NewNaturalHandler("http://unused.invalid", time.Second).Process)

	req := httptest.NewRequest(http.MethodPost, "/natural", strings.NewReader(`{"query":"   "}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a blank query, got %d", w.Code)
	}
}

func TestNaturalProxyUnreachableUpstream(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.POST("/natural", NewNaturalHandler("http://127.0.0.1:1", time.Second).Process)

	req := httptest.NewRequest(http.MethodPost, "/natural", strings.NewReader(`{"query":"anything"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Errorf("Expected 502 when the upstream is unreachable, got %d", w.Code)
	}
}
