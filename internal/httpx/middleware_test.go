package httpx

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
	log.SetOutput(io.Discard)
}

func TestRequestID_EchoesInboundID(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "rid-from-frontend")
	r.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "rid-from-frontend" {
		t.Fatalf("X-Request-ID=%q, expected the inbound id echoed back", got)
	}
}

func TestRequestID_MintsWhenAbsent(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		if c.GetString(ctxRequestID) == "" {
			t.Errorf("request id missing from context")
		}
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("no X-Request-ID minted")
	}
}
