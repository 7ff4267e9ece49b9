package ctxutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestWithOwnerID_And_OwnerIDFromCtx(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	ctx := WithOwnerID(context.Background(), id)

	got, ok := OwnerIDFromCtx(ctx)
	if !ok {
		t.Fatal("expected ok=true for valid UUID")
	}
	if got != id {
		t.Fatalf("expected %s, got %s", id, got)
	}
}

func TestOwnerIDFromCtx_EmptyContext(t *testing.T) {
	t.Parallel()

	got, ok := OwnerIDFromCtx(context.Background())
	if ok {
		t.Fatal("expected ok=false for empty context")
	}
	if got != uuid.Nil {
		t.Fatalf("expected uuid.Nil, got %s", got)
	}
}

func TestOwnerIDFromCtx_NilUUID(t *testing.T) {
	t.Parallel()

	ctx := WithOwnerID(context.Background(), uuid.Nil)

	got, ok := OwnerIDFromCtx(ctx)
	if ok {
		t.Fatal("expected ok=false for uuid.Nil")
	}
	if got != uuid.Nil {
		t.Fatalf("expected uuid.Nil, got %s", got)
	}
}

func TestOwnerIDFromCtx_WrongType(t *testing.T) {
	t.Parallel()

	ctx := context.WithValue(context.Background(), ctxKey("owner_id"), "not-a-uuid")

	got, ok := OwnerIDFromCtx(ctx)
	if ok {
		t.Fatal("expected ok=false for wrong type")
	}
	if got != uuid.Nil {
		t.Fatalf("expected uuid.Nil, got %s", got)
	}
}

func TestWithRequestID_And_RequestIDFromCtx(t *testing.T) {
	t.Parallel()

	ctx := WithRequestID(context.Background(), "req-123")

	if got := RequestIDFromCtx(ctx); got != "req-123" {
		t.Fatalf("expected req-123, got %s", got)
	}
}

func TestRequestIDFromCtx_EmptyContext(t *testing.T) {
	t.Parallel()

	if got := RequestIDFromCtx(context.Background()); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}
