// Package http serves the Telegram webhook plus health endpoints.
package http

import (
	"context"
	"crypto/subtle"
	"net"
	"net/http"
	"strings"
	"sync"

	"budgetin/internal/middleware/trace"
	"budgetin/internal/services"
)

// Replier sends bot replies. Satisfied by *telegram.Client.
type Replier interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

type Server struct {
	http.Server
	tracker      *services.Tracker
	replier      Replier
	webhookToken string
	rateLimiter  *rateLimiter
	shutdownOnce sync.Once
}

// NewServer configures routes and returns a ready-to-run server. The
// webhook path embeds webhookToken so only Telegram can reach it.
func NewServer(addr, webhookToken string, tracker *services.Tracker, replier Replier) *Server {
	mux := http.NewServeMux()

	s := &Server{
		tracker:      tracker,
		replier:      replier,
		webhookToken: webhookToken,
		rateLimiter:  newRateLimiter(),
	}
	s.Server = http.Server{
		Addr:    addr,
		Handler: trace.Middleware(mux),
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)
	mux.HandleFunc("/webhook/", s.handleWebhook)

	return s
}

// Shutdown stops the server and the rate limiter cleanup goroutine.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}

// authorized checks that the request path carries the webhook token.
func (s *Server) authorized(r *http.Request) bool {
	got := strings.TrimPrefix(r.URL.Path, "/webhook/")
	return subtle.ConstantTimeCompare([]byte(got), []byte(s.webhookToken)) == 1
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
