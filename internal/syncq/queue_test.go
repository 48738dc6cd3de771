package syncq

import (
	"testing"
)

func TestPushLoadSaveRoundTrip(t *testing.T) {
	t.Setenv("RSM_CONFIG_DIR", t.TempDir())

	queue, err := Load()
	if err != nil {
		t.Fatalf("load empty queue: %v", err)
	}
	if len(queue) != 0 {
		t.Fatalf("expected empty queue, got %d commands", len(queue))
	}

	first := Command{
		Method:         "POST",
		Path:           "/v1/week/advance",
		Body:           map[string]any{},
		IdempotencyKey: "key-1",
	}
	if err := Push(first); err != nil {
		t.Fatalf("push: %v", err)
	}
	second := Command{
		Method:         "POST",
		Path:           "/v1/studio/tracks",
		Body:           map[string]any{"title": "Midnight Run"},
		IdempotencyKey: "key-2",
	}
	if err := Push(second); err != nil {
		t.Fatalf("push: %v", err)
	}

	queue, err = Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(queue) != 2 {
		t.Fatalf("expected 2 queued commands, got %d", len(queue))
	}
	if queue[0].IdempotencyKey != "key-1" || queue[1].IdempotencyKey != "key-2" {
		t.Fatalf("queue order lost: %q then %q", queue[0].IdempotencyKey, queue[1].IdempotencyKey)
	}
	if queue[0].QueuedAt.IsZero() {
		t.Fatalf("expected QueuedAt to be stamped on push")
	}
	if queue[1].Body["title"] != "Midnight Run" {
		t.Fatalf("body lost in round trip: %v", queue[1].Body)
	}

	if err := Save(queue[1:]); err != nil {
		t.Fatalf("save remaining: %v", err)
	}
	queue, err = Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(queue) != 1 || queue[0].IdempotencyKey != "key-2" {
		t.Fatalf("expected only key-2 to remain, got %v", queue)
	}
}
