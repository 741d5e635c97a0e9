package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryCompletionDeduper(t *testing.T) {
	ctx := context.Background()

	// Empty addr skips Redis entirely.
	deduper, err := NewCompletionDeduper("", "", 0, time.Minute)
	require.NoError(t, err)

	seen, err := deduper.Seen(ctx, "ref-1")
	require.NoError(t, err)
	require.False(t, seen)

	seen, err = deduper.Seen(ctx, "ref-1")
	require.NoError(t, err)
	require.True(t, seen)

	seen, err = deduper.Seen(ctx, "ref-2")
	require.NoError(t, err)
	require.False(t, seen)
}

func TestMemoryCompletionDeduper_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	d := newMemoryCompletionDeduper(10 * time.Millisecond)

	seen, err := d.Seen(ctx, "ref-1")
	require.NoError(t, err)
	require.False(t, seen)

	time.Sleep(20 * time.Millisecond)

	seen, err = d.Seen(ctx, "ref-1")
	require.NoError(t, err)
	require.False(t, seen)
}
