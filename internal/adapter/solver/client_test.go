package solver

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/planvine/tempo-backend/internal/config"
	"github.com/planvine/tempo-backend/internal/domain"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(url string) *Client {
	return NewClient(config.SolverConfig{URL: url, Timeout: 5 * time.Second}, newTestLogger())
}

func TestClient_Plan_Success(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type: %s", ct)
		}

		var got planRequestJSON
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if got.OwnerID != ownerID.String() {
			t.Errorf("OwnerID = %q, want %q", got.OwnerID, ownerID)
		}
		if got.StartDate != "2025-09-15" || got.Days != 7 || got.Timezone != "Europe/Berlin" {
			t.Errorf("request fields mismatch: %+v", got)
		}
		if !got.IncludeBusy {
			t.Error("expected include_busy to be set")
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"solver_run_id": "run-99"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	resp, err := c.Plan(context.Background(), ownerID, domain.PlanRequest{
		StartDate:   "2025-09-15",
		Days:        7,
		Timezone:    "Europe/Berlin",
		IncludeBusy: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.SolverRunID != "run-99" {
		t.Errorf("SolverRunID = %q, want %q", resp.SolverRunID, "run-99")
	}
}

func TestClient_Plan_EmptyRunID(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	resp, err := c.Plan(context.Background(), uuid.New(), domain.PlanRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Accepted without run tracking is a valid reply.
	if resp.SolverRunID != "" {
		t.Errorf("SolverRunID = %q, want empty", resp.SolverRunID)
	}
}

func TestClient_Plan_ServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Plan(context.Background(), uuid.New(), domain.PlanRequest{})
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestClient_Plan_ContextCancelled(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server notices the client disconnect and
		// cancels r.Context(); with unread body bytes the cancellation is
		// never delivered and srv.Close() deadlocks.
		io.Copy(io.Discard, r.Body)
		close(started)
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	c := newTestClient(srv.URL)
	_, err := c.Plan(ctx, uuid.New(), domain.PlanRequest{})
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestClient_Plan_MalformedBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not-json`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Plan(context.Background(), uuid.New(), domain.PlanRequest{})
	if err == nil {
		t.Fatal("expected error for malformed body")
	}
}
