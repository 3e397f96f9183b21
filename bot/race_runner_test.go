package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEditor records every edit; it can be told to fail specific seconds.
type fakeEditor struct {
	mu      sync.Mutex
	edits   []string
	failOn  map[int]bool
	attempt int
}

func (f *fakeEditor) EditMessage(channelID, messageID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempt++
	if f.failOn[f.attempt] {
		return fmt.Errorf("simulated edit failure")
	}
	f.edits = append(f.edits, content)
	return nil
}

func (f *fakeEditor) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.edits))
	copy(out, f.edits)
	return out
}

func newTestRunner(editor *fakeEditor, lanes []raceLane, duration int) *raceRunner {
	return &raceRunner{
		raceID:    1,
		channelID: "chan",
		messageID: "msg",
		lanes:     lanes,
		duration:  duration,
		interval:  time.Millisecond,
		editor:    editor,
	}
}

func TestRaceRunner_FinishesEarlyWithRanking(t *testing.T) {
	editor := &fakeEditor{}
	lanes := []raceLane{
		{Name: "Alice", Glyph: "🐎", Finish: 2},
		{Name: "Bob", Glyph: "🦄", Finish: 3},
	}

	runner := newTestRunner(editor, lanes, 20)
	runner.Run(context.Background())

	edits := editor.recorded()
	// One frame per second up to the last finish, not the full duration.
	require.Len(t, edits, 3)

	last := edits[len(edits)-1]
	assert.Contains(t, last, "최종 순위")
	assert.Contains(t, last, "1위  Alice  2s")
	assert.Contains(t, last, "2위  Bob  3s")

	for _, frame := range edits[:len(edits)-1] {
		assert.NotContains(t, frame, "최종 순위")
	}
}

func TestRaceRunner_SkipsFailedEdits(t *testing.T) {
	editor := &fakeEditor{failOn: map[int]bool{2: true}}
	lanes := []raceLane{
		{Name: "Alice", Glyph: "🐎", Finish: 3},
		{Name: "Bob", Glyph: "🦄", Finish: 4},
	}

	runner := newTestRunner(editor, lanes, 20)
	runner.Run(context.Background())

	edits := editor.recorded()
	// Second 2's edit failed and was skipped; the loop still completed.
	require.Len(t, edits, 3)
	assert.Contains(t, edits[len(edits)-1], "최종 순위")
}

func TestRaceRunner_CancellationStopsAnimation(t *testing.T) {
	editor := &fakeEditor{}
	lanes := []raceLane{
		{Name: "Alice", Glyph: "🐎", Finish: 50},
		{Name: "Bob", Glyph: "🦄", Finish: 60},
	}

	runner := newTestRunner(editor, lanes, 60)
	runner.interval = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		runner.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("runner did not stop after cancellation")
	}

	for _, frame := range editor.recorded() {
		assert.False(t, strings.Contains(frame, "최종 순위"), "cancelled race must not publish a ranking")
	}
}

func TestRunnerRegistry(t *testing.T) {
	registry := newRunnerRegistry()

	cancelled := false
	ok := registry.acquire(1, func() { cancelled = true })
	require.True(t, ok)

	assert.False(t, registry.acquire(1, func() {}), "double acquire must fail")

	assert.True(t, registry.cancel(1))
	assert.True(t, cancelled)
	assert.False(t, registry.cancel(1), "cancel after release reports false")

	// Freed id can be reused.
	assert.True(t, registry.acquire(1, func() {}))
	registry.release(1)
	assert.True(t, registry.acquire(1, func() {}))
}
