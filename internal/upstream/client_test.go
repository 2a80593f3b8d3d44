package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	return NewClient(server.URL, "test-key", 5*time.Second), server
}

func TestGetChildProgressDecodesRecord(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/children/c1/progress" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("expected bearer auth, got %q", got)
		}
		w.Write([]byte(`{"child":{"name":"Lina","age":6},"sessions":[{"totalAttempts":4}]}`))
	})
	defer server.Close()

	record, err := client.GetChildProgress(context.Background(), "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Child == nil || record.Child.Name != "Lina" || record.Child.Age != 6 {
		t.Errorf("child not decoded: %+v", record.Child)
	}
	if len(record.Sessions) != 1 {
		t.Errorf("expected 1 raw session, got %d", len(record.Sessions))
	}
}

func TestGetChildProgressUnwrapsNestedRecord(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"progress":{"sessions":[{},{}]}}`))
	})
	defer server.Close()

	record, err := client.GetChildProgress(context.Background(), "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(record.Sessions) != 2 {
		t.Errorf("expected 2 sessions from wrapped record, got %d", len(record.Sessions))
	}
}

func TestNotFoundIsTyped(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	defer server.Close()

	_, err := client.GetChildSessions(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestServerErrorIsNotNotFound(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	defer server.Close()

	_, err := client.GetChildSessions(context.Background(), "c1")
	if err == nil {
		t.Fatal("expected an error")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatal("a 500 must not be reported as not found")
	}
}

func TestGetChildSessionsAcceptsBothShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bare array", `[{"totalAttempts":3,"successfulAttempts":2}]`},
		{"wrapped array", `{"sessions":[{"totalAttempts":3,"successfulAttempts":2}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})
			defer server.Close()

			sessions, err := client.GetChildSessions(context.Background(), "c1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(sessions) != 1 || sessions[0].TotalAttempts != 3 {
				t.Errorf("sessions not decoded: %+v", sessions)
			}
		})
	}
}

func TestGetChildAttemptsSendsClampedLimit(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "200" {
			t.Errorf("expected clamped limit 200, got %q", got)
		}
		w.Write([]byte(`{"attempts":[{"target":"cat","success":true}]}`))
	})
	defer server.Close()

	attempts, err := client.GetChildAttempts(context.Background(), "c1", 999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(attempts) != 1 || attempts[0].Target != "cat" {
		t.Errorf("attempts not decoded: %+v", attempts)
	}
}

func TestGetChildProfile(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/children/c1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"name":"Omar","age":7}`))
	})
	defer server.Close()

	profile, err := client.GetChildProfile(context.Background(), "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Name != "Omar" || profile.Age != 7 {
		t.Errorf("profile not decoded: %+v", profile)
	}
}
