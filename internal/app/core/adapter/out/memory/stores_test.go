package memory

import (
	"context"
	"testing"
	"time"
)

func TestCooldownStore(t *testing.T) {
	ctx := context.Background()
	c := NewCooldownStore()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// 沒有冷卻時間不記錄
	if err := c.MarkPlay(ctx, alice, start, 0); err != nil {
		t.Fatalf("MarkPlay: %v", err)
	}
	if _, ok, _ := c.LastPlay(ctx, alice); ok {
		t.Fatalf("play without cooldown should not be recorded")
	}

	if err := c.MarkPlay(ctx, alice, start, 10*time.Second); err != nil {
		t.Fatalf("MarkPlay: %v", err)
	}
	at, ok, err := c.LastPlay(ctx, alice)
	if err != nil || !ok || !at.Equal(start) {
		t.Fatalf("LastPlay = %v, %v, %v", at, ok, err)
	}

	// 過了清除間隔後，過期的紀錄會被丟棄
	later := start.Add(sweepInterval)
	if err := c.MarkPlay(ctx, bob, later, 10*time.Second); err != nil {
		t.Fatalf("MarkPlay: %v", err)
	}
	if _, ok, _ := c.LastPlay(ctx, alice); ok {
		t.Fatalf("expired record for alice should be dropped")
	}
	if _, ok, _ := c.LastPlay(ctx, bob); !ok {
		t.Fatalf("bob should still be recorded")
	}
	if len(c.plays) != 1 {
		t.Fatalf("records = %d, want 1", len(c.plays))
	}
}
