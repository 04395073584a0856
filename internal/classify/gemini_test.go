package classify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"budgetin/internal/core"
)

func geminiAnswering(t *testing.T, answer string, calls *atomic.Int64) *Gemini {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}
		fmt.Fprintf(w, `{"candidates":[{"content":{"parts":[{"text":%q}]}}]}`, answer)
	}))
	t.Cleanup(srv.Close)

	g, err := NewGemini(GeminiConfig{APIKey: "test-key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewGemini: %v", err)
	}
	return g
}

func TestGeminiClassify(t *testing.T) {
	g := geminiAnswering(t, "Daily Needs", nil)
	got, err := g.Classify(context.Background(), "beli beras")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != core.CategoryDailyNeeds {
		t.Fatalf("got %q", got)
	}
}

func TestGeminiCachesAnswers(t *testing.T) {
	var calls atomic.Int64
	g := geminiAnswering(t, "Utilities", &calls)

	for range 3 {
		if _, err := g.Classify(context.Background(), "bayar listrik"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("API called %d times, want 1", calls.Load())
	}
}

func TestGeminiAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	g, err := NewGemini(GeminiConfig{APIKey: "test-key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewGemini: %v", err)
	}
	if _, err := g.Classify(context.Background(), "beli beras"); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestGeminiNoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"candidates":[]}`)
	}))
	defer srv.Close()

	g, err := NewGemini(GeminiConfig{APIKey: "test-key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewGemini: %v", err)
	}
	if _, err := g.Classify(context.Background(), "beli beras"); !errors.Is(err, ErrNoCandidates) {
		t.Fatalf("err = %v, want ErrNoCandidates", err)
	}
}

func TestNewGeminiRequiresAPIKey(t *testing.T) {
	if _, err := NewGemini(GeminiConfig{}); err == nil {
		t.Fatal("expected error without API key")
	}
}

func TestExtractCategory(t *testing.T) {
	cases := []struct {
		answer string
		want   core.Category
		ok     bool
	}{
		{"Daily Needs", core.CategoryDailyNeeds, true},
		{"daily needs\n", core.CategoryDailyNeeds, true},
		{"Kategori: Transportation.", core.CategoryTransportation, true},
		{"Jawaban: transportasi", core.CategoryTransportation, true},
		{"itu termasuk kesehatan", core.CategoryHealth, true},
		{"lainnya", core.CategoryOther, true},
		{"tidak tahu", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := extractCategory(tc.answer)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Fatalf("%q: got %q, err %v", tc.answer, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q: expected error", tc.answer)
		}
	}
}
