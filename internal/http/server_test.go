package http

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"budgetin/internal/classify"
	"budgetin/internal/ledger"
	"budgetin/internal/services"
	"budgetin/internal/storage"
)

type fakeReplier struct {
	mu      sync.Mutex
	replies []string
}

func (f *fakeReplier) SendMessage(ctx context.Context, chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, text)
	return nil
}

func (f *fakeReplier) last(t *testing.T) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.replies) == 0 {
		t.Fatal("no reply sent")
	}
	return f.replies[len(f.replies)-1]
}

const testToken = "secret-token"

func newTestServer(t *testing.T) (*httptest.Server, *fakeReplier) {
	t.Helper()
	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "bot.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	rules, err := classify.NewRules(classify.DefaultCategorySet())
	if err != nil {
		t.Fatalf("build rules: %v", err)
	}
	tracker := services.NewTracker(ledger.New(repo), repo, rules, nil).WithBudgets(repo)

	replier := &fakeReplier{}
	s := NewServer(":0", testToken, tracker, replier)
	t.Cleanup(func() { s.Shutdown(context.Background()) })

	ts := httptest.NewServer(s.Handler)
	t.Cleanup(ts.Close)
	return ts, replier
}

func postUpdate(t *testing.T, ts *httptest.Server, token, text string) *http.Response {
	t.Helper()
	body := fmt.Sprintf(`{"update_id":1,"message":{"message_id":1,"from":{"id":77,"first_name":"Budi"},"chat":{"id":77},"text":%q}}`, text)
	resp, err := http.Post(ts.URL+"/webhook/"+token, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post update: %v", err)
	}
	resp.Body.Close()
	return resp
}

func TestWebhookRejectsBadToken(t *testing.T) {
	ts, _ := newTestServer(t)
	resp := postUpdate(t, ts, "wrong-token", "/start")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestWebhookRejectsGet(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/webhook/" + testToken)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", resp.StatusCode)
	}
}

func TestHealthEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("get %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, resp.StatusCode)
		}
	}
}

func TestStartCommand(t *testing.T) {
	ts, replier := newTestServer(t)
	resp := postUpdate(t, ts, testToken, "/start")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(replier.last(t), "Selamat datang") {
		t.Errorf("unexpected reply: %q", replier.last(t))
	}
}

func TestExpenseFlow(t *testing.T) {
	ts, replier := newTestServer(t)

	// Expense before balance setup prompts for /saldo.
	postUpdate(t, ts, testToken, "beli beras 50rb")
	if !strings.Contains(replier.last(t), "belum mengatur saldo") {
		t.Fatalf("unexpected reply: %q", replier.last(t))
	}

	postUpdate(t, ts, testToken, "/saldo 1000000")
	if !strings.Contains(replier.last(t), "Saldo awal berhasil diset") {
		t.Fatalf("unexpected reply: %q", replier.last(t))
	}

	postUpdate(t, ts, testToken, "beli beras 50rb")
	reply := replier.last(t)
	if !strings.Contains(reply, "beli beras") {
		t.Errorf("reply missing description: %q", reply)
	}
	if !strings.Contains(reply, "Daily Needs") {
		t.Errorf("reply missing category: %q", reply)
	}
	if !strings.Contains(reply, "Rp 950.000") {
		t.Errorf("reply missing new balance: %q", reply)
	}

	postUpdate(t, ts, testToken, "/saldo")
	if !strings.Contains(replier.last(t), "Rp 950.000") {
		t.Errorf("balance reply: %q", replier.last(t))
	}
}

func TestExpenseWithoutAmount(t *testing.T) {
	ts, replier := newTestServer(t)
	postUpdate(t, ts, testToken, "/saldo 100000")
	postUpdate(t, ts, testToken, "halo bot")
	if !strings.Contains(replier.last(t), "Tidak dapat mendeteksi jumlah uang") {
		t.Errorf("unexpected reply: %q", replier.last(t))
	}
}

func TestTopupAndSummary(t *testing.T) {
	ts, replier := newTestServer(t)
	postUpdate(t, ts, testToken, "/saldo 100000")
	postUpdate(t, ts, testToken, "/isi 50rb")
	if !strings.Contains(replier.last(t), "Rp 150.000") {
		t.Fatalf("topup reply: %q", replier.last(t))
	}

	postUpdate(t, ts, testToken, "bayar listrik 20rb")
	postUpdate(t, ts, testToken, "/ringkasan")
	reply := replier.last(t)
	if !strings.Contains(reply, "Ringkasan Pengeluaran") {
		t.Errorf("summary reply: %q", reply)
	}
	if !strings.Contains(reply, "Rp 20.000") {
		t.Errorf("summary missing total: %q", reply)
	}
}

func TestUnknownCommand(t *testing.T) {
	ts, replier := newTestServer(t)
	postUpdate(t, ts, testToken, "/foobar")
	if !strings.Contains(replier.last(t), "Perintah tidak dikenal") {
		t.Errorf("unexpected reply: %q", replier.last(t))
	}
}

func TestCommandMatchingNotGreedy(t *testing.T) {
	ts, replier := newTestServer(t)
	// Commands that merely share a prefix with a known one must not be
	// routed to it.
	for _, text := range []string{"/isilah", "/saldoku", "/isian 500rb"} {
		postUpdate(t, ts, testToken, text)
		if !strings.Contains(replier.last(t), "Perintah tidak dikenal") {
			t.Errorf("%q: unexpected reply: %q", text, replier.last(t))
		}
	}
	// The exact command still works.
	postUpdate(t, ts, testToken, "/saldo 100000")
	postUpdate(t, ts, testToken, "/isi 50rb")
	if !strings.Contains(replier.last(t), "Top up berhasil") {
		t.Errorf("topup reply: %q", replier.last(t))
	}
}

func TestBudgetCommand(t *testing.T) {
	ts, replier := newTestServer(t)
	postUpdate(t, ts, testToken, "/saldo 1000000")

	postUpdate(t, ts, testToken, "/budget")
	if !strings.Contains(replier.last(t), "Belum ada budget") {
		t.Fatalf("empty report: %q", replier.last(t))
	}

	postUpdate(t, ts, testToken, "/budget Daily Needs abc")
	if !strings.Contains(replier.last(t), "Pengaturan Budget") {
		t.Fatalf("bad amount reply: %q", replier.last(t))
	}
	postUpdate(t, ts, testToken, "/budget Jajan 100rb")
	if !strings.Contains(replier.last(t), "Kategori tidak dikenal") {
		t.Fatalf("bad category reply: %q", replier.last(t))
	}

	postUpdate(t, ts, testToken, "/budget Daily Needs 100rb")
	if !strings.Contains(replier.last(t), "Budget berhasil diatur") {
		t.Fatalf("set reply: %q", replier.last(t))
	}

	postUpdate(t, ts, testToken, "/budget")
	reply := replier.last(t)
	if !strings.Contains(reply, "Daily Needs") || !strings.Contains(reply, "Rp 100.000") {
		t.Fatalf("report reply: %q", reply)
	}

	// Blowing the limit annotates the expense confirmation.
	postUpdate(t, ts, testToken, "beli beras 120rb")
	if !strings.Contains(replier.last(t), "terlampaui") {
		t.Fatalf("exceeded reply: %q", replier.last(t))
	}

	postUpdate(t, ts, testToken, "/budget hapus Daily Needs")
	if !strings.Contains(replier.last(t), "dihapus") {
		t.Fatalf("remove reply: %q", replier.last(t))
	}
	postUpdate(t, ts, testToken, "/budget hapus Daily Needs")
	if !strings.Contains(replier.last(t), "Tidak ada budget") {
		t.Fatalf("remove twice reply: %q", replier.last(t))
	}

	postUpdate(t, ts, testToken, "/budget saran")
	if !strings.Contains(replier.last(t), "Saran Budget") {
		t.Fatalf("suggestion reply: %q", replier.last(t))
	}
}

func TestInsightsCommand(t *testing.T) {
	ts, replier := newTestServer(t)
	postUpdate(t, ts, testToken, "/saldo 1000000")

	postUpdate(t, ts, testToken, "/insights")
	if !strings.Contains(replier.last(t), "Belum ada pengeluaran") {
		t.Fatalf("empty insights: %q", replier.last(t))
	}

	postUpdate(t, ts, testToken, "beli beras 50rb")
	postUpdate(t, ts, testToken, "nonton bioskop 100rb")
	postUpdate(t, ts, testToken, "/insights")
	reply := replier.last(t)
	if !strings.Contains(reply, "Analisis Pengeluaran") {
		t.Fatalf("insights reply: %q", reply)
	}
	if !strings.Contains(reply, "Rp 150.000") {
		t.Errorf("insights missing total: %q", reply)
	}
	if !strings.Contains(reply, "🥇 Entertainment") {
		t.Errorf("insights missing top category: %q", reply)
	}
	if !strings.Contains(reply, "Proyeksi akhir bulan") {
		t.Errorf("insights missing projection: %q", reply)
	}
}

func TestParseAmountArg(t *testing.T) {
	cases := []struct {
		in    string
		want  int64
		found bool
	}{
		{"1000000", 1_000_000, true},
		{"1juta", 1_000_000, true},
		{"500rb", 500_000, true},
		{"1.000.000", 1_000_000, true},
		{"500", 500, true},
		{"", 0, false},
		{"abc", 0, false},
		{"-5000", 0, false},
	}
	for _, tc := range cases {
		got, found := parseAmountArg(tc.in)
		if found != tc.found || int64(got) != tc.want {
			t.Errorf("parseAmountArg(%q) = (%d, %v), want (%d, %v)", tc.in, got, found, tc.want, tc.found)
		}
	}
}
