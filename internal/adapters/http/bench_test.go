package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotes-api/internal/platform/logging"
)

// newBenchAPI returns the full router with n stored quotes and request
// logging silenced.
func newBenchAPI(b *testing.B, n int) *gin.Engine {
	b.Helper()

	logging.SetDefault(discardLogger())

	engine := newTestAPI(b, nil)

	for range n {
		w := do(engine, http.MethodPost, "/api/v1/quotes", `{"quote":"Less is more.","author":"Mies van der Rohe"}`)
		if w.Code != http.StatusCreated {
			b.Fatalf("seeding quote: status %d", w.Code)
		}
	}

	return engine
}

func BenchmarkListQuotes(b *testing.B) {
	engine := newBenchAPI(b, 100)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotes", http.NoBody)

	b.ResetTimer()
	b.ReportAllocs()

	for b.Loop() {
		engine.ServeHTTP(httptest.NewRecorder(), req)
	}
}

func BenchmarkRandomQuote(b *testing.B) {
	engine := newBenchAPI(b, 100)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotes/quote/random", http.NoBody)

	b.ResetTimer()
	b.ReportAllocs()

	for b.Loop() {
		engine.ServeHTTP(httptest.NewRecorder(), req)
	}
}

func BenchmarkCreateQuote(b *testing.B) {
	engine := newBenchAPI(b, 0)
	body := `{"quote":"Form follows function.","author":"Louis Sullivan","year":1896}`

	b.ResetTimer()
	b.ReportAllocs()

	for b.Loop() {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(httptest.NewRecorder(), req)
	}
}

func BenchmarkLiveness(b *testing.B) {
	engine := newBenchAPI(b, 0)
	req := httptest.NewRequest(http.MethodGet, "/-/live", http.NoBody)

	b.ResetTimer()
	b.ReportAllocs()

	for b.Loop() {
		engine.ServeHTTP(httptest.NewRecorder(), req)
	}
}
