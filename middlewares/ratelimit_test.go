package middlewares

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func TestIPRateLimiter(t *testing.T) {
	l := NewIPRateLimiter(rate.Every(time.Hour), 2)
	r := gin.New()
	r.Use(l.Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 2; i++ {
		if w := do(r, "/", ""); w.Code != http.StatusNoContent {
			t.Fatalf("request %d: %d", i, w.Code)
		}
	}
	if w := do(r, "/", ""); w.Code != http.StatusTooManyRequests {
		t.Fatalf("third request: %d", w.Code)
	}

	// A negative idle window expires every bucket.
	l.Sweep(-time.Minute)
	if len(l.limiters) != 0 {
		t.Fatalf("buckets after sweep = %d", len(l.limiters))
	}
	if w := do(r, "/", ""); w.Code != http.StatusNoContent {
		t.Fatalf("after sweep: %d", w.Code)
	}
}
