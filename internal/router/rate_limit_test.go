package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestKeyByIPAndJSONField(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{"username":" Siti "}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.RemoteAddr = "1.2.3.4:5678"

	key := KeyByIPAndJSONField("username")(c)
	if key != "siti|1.2.3.4" {
		t.Fatalf("key want siti|1.2.3.4 got %s", key)
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		t.Fatalf("read body after key extraction failed: %v", err)
	}
	if !strings.Contains(string(body), " Siti ") {
		t.Fatalf("request body should be restored after reading field")
	}
}

func TestKeyBySessionOrIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/submit", nil)
	c.Request.RemoteAddr = "5.6.7.8:1000"
	if got := KeyBySessionOrIP(c); got != "5.6.7.8" {
		t.Fatalf("want ip key, got %s", got)
	}
	c.Request.Header.Set("X-Box-Session", "abc")
	if got := KeyBySessionOrIP(c); got != "s|abc" {
		t.Fatalf("want session key, got %s", got)
	}
}

func TestRateLimitMiddlewareFallsBackToLocalLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimitMiddleware(nil, RateLimitRule{Prefix: "test", WindowSeconds: 60, MaxRequests: 2}, KeyByIP))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status_code": 0})
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if got := decodeStatusCode(t, w.Body.Bytes()); got != 0 {
			t.Fatalf("request %d should pass, got %d", i+1, got)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if got := decodeStatusCode(t, w.Body.Bytes()); got != 429 {
		t.Fatalf("third request should be limited, got %d", got)
	}
}

func TestRateLimitMiddlewareDisabledRule(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimitMiddleware(nil, RateLimitRule{}, KeyByIP))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if !strings.Contains(w.Body.String(), `"ok":true`) {
			t.Fatalf("disabled rule should never limit: %s", w.Body.String())
		}
	}
}

func TestLocalRateLimiterIsolatesKeys(t *testing.T) {
	limiter := NewLocalRateLimiter(RateLimitRule{WindowSeconds: 60, MaxRequests: 1})
	if !limiter.Allow("a") {
		t.Fatalf("first hit on a should pass")
	}
	if limiter.Allow("a") {
		t.Fatalf("second hit on a should be limited")
	}
	if !limiter.Allow("b") {
		t.Fatalf("key b should have its own bucket")
	}
}

func TestReadJSONFieldIgnoresNonString(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{"username":42}`))
	if got := readJSONField(c, "username"); got != "" {
		t.Fatalf("want empty for numeric field, got %q", got)
	}
	c.Request = httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`not json`))
	if got := readJSONField(c, "username"); got != "" {
		t.Fatalf("want empty for invalid body, got %q", got)
	}
}
