package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSendMessage(t *testing.T) {
	var gotPath string
	var gotReq sendMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(apiResponse{OK: true})
	}))
	defer srv.Close()

	c, err := NewClient(ClientConfig{Token: "123:abc", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if err := c.SendMessage(context.Background(), 42, "halo"); err != nil {
		t.Fatalf("send message: %v", err)
	}
	if gotPath != "/bot123:abc/sendMessage" {
		t.Errorf("path = %q", gotPath)
	}
	if gotReq.ChatID != 42 || gotReq.Text != "halo" {
		t.Errorf("request = %+v", gotReq)
	}
}

func TestSendMessageAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(apiResponse{OK: false, Description: "chat not found"})
	}))
	defer srv.Close()

	c, err := NewClient(ClientConfig{Token: "123:abc", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	err = c.SendMessage(context.Background(), 42, "halo")
	if err == nil || !strings.Contains(err.Error(), "chat not found") {
		t.Fatalf("err = %v, want chat not found", err)
	}
}

func TestNewClientRequiresToken(t *testing.T) {
	if _, err := NewClient(ClientConfig{}); err == nil {
		t.Fatal("expected error for missing token")
	}
}

func TestParseUpdate(t *testing.T) {
	body := `{"update_id":7,"message":{"message_id":1,"from":{"id":9,"first_name":"Budi"},"chat":{"id":9},"text":"beli beras 50rb"}}`
	u, err := ParseUpdate(strings.NewReader(body))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if u.Message == nil || u.Message.Text != "beli beras 50rb" {
		t.Fatalf("unexpected update: %+v", u)
	}
	if u.Message.From.DisplayName() != "Budi" {
		t.Errorf("display name = %q", u.Message.From.DisplayName())
	}
}

func TestDisplayNameFallbacks(t *testing.T) {
	cases := []struct {
		user *User
		want string
	}{
		{nil, "Unknown"},
		{&User{Username: "budi88"}, "budi88"},
		{&User{FirstName: "  "}, "Unknown"},
		{&User{FirstName: "Siti", Username: "siti"}, "Siti"},
	}
	for _, tc := range cases {
		if got := tc.user.DisplayName(); got != tc.want {
			t.Errorf("DisplayName(%+v) = %q, want %q", tc.user, got, tc.want)
		}
	}
}
