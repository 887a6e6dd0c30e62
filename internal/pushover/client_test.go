package pushover

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSend(t *testing.T) {
	var gotPath string
	var gotForm map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm: %v", err)
		}
		gotForm = map[string]string{
			"token":   r.PostFormValue("token"),
			"user":    r.PostFormValue("user"),
			"title":   r.PostFormValue("title"),
			"message": r.PostFormValue("message"),
		}
		_, _ = w.Write([]byte(`{"status":1}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "app-token", "user-key", 5*time.Second)
	if err := c.Send(context.Background(), "🎾 Kalshi Tennis Alert", "Opened: 70%\nNow: 48%"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if gotPath != "/1/messages.json" {
		t.Errorf("path = %q, want %q", gotPath, "/1/messages.json")
	}
	want := map[string]string{
		"token":   "app-token",
		"user":    "user-key",
		"title":   "🎾 Kalshi Tennis Alert",
		"message": "Opened: 70%\nNow: 48%",
	}
	for k, v := range want {
		if gotForm[k] != v {
			t.Errorf("form[%q] = %q, want %q", k, gotForm[k], v)
		}
	}
}

func TestSend_ServerError(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t", "u", 5*time.Second)
	if err := c.Send(context.Background(), "title", "message"); err == nil {
		t.Error("expected error for 502 response")
	}
	if attempts != 1 {
		t.Errorf("got %d attempts, want 1 (delivery is single-attempt)", attempts)
	}
}
