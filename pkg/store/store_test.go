package store

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/entrhq/scribe/pkg/summary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *MeetingStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "meetings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAppendAndList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	summ := &summary.Summary{
		Narrative:   "Budget review.",
		Decisions:   []string{"Approved the Q3 budget"},
		ActionItems: []summary.ActionItem{},
	}

	rec, err := s.Append(ctx, "standup.mp3", "We approved the Q3 budget.", `{"summary":"Budget review."}`, summ)
	require.NoError(t, err)
	assert.Positive(t, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())

	records, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)

	got := records[0]
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "standup.mp3", got.Filename)
	assert.Equal(t, "We approved the Q3 budget.", got.Transcript)
	assert.Equal(t, `{"summary":"Budget review."}`, got.SummaryRaw)
	require.NotNil(t, got.Summary)
	assert.Equal(t, *summ, *got.Summary)
	assert.True(t, got.HasSummary())
}

func TestAppendMalformedSummaryKeepsRaw(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	raw := "Sure, here's the summary: budget approved"
	rec, err := s.Append(ctx, "m.wav", "transcript text", raw, nil)
	require.NoError(t, err)
	assert.Nil(t, rec.Summary)

	records, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].Summary)
	assert.Equal(t, raw, records[0].SummaryRaw)
	assert.Equal(t, "transcript text", records[0].Transcript)
}

func TestListOrdering(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	const n = 8
	for i := 0; i < n; i++ {
		_, err := s.Append(ctx, fmt.Sprintf("meeting-%d.mp3", i), fmt.Sprintf("transcript %d", i), "{}", nil)
		require.NoError(t, err)
	}

	records, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, n)

	for i := 1; i < n; i++ {
		prev, cur := records[i-1], records[i]
		assert.False(t, prev.CreatedAt.Before(cur.CreatedAt), "createdAt must be descending")
		if prev.CreatedAt.Equal(cur.CreatedAt) {
			assert.Greater(t, prev.ID, cur.ID, "ids break timestamp ties")
		}
	}
}

func TestListOrdersSameSecondTimestamps(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// A fraction that is a prefix of its sibling's (.120000000 vs
	// .120000001) sorts wrongly under a trimmed-zeros text format; the
	// fixed-width layout must keep the later record first.
	earlier := time.Date(2026, 1, 2, 9, 30, 0, 120000000, time.UTC)
	later := earlier.Add(time.Nanosecond)

	for i, ts := range []time.Time{earlier, later} {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO meetings (filename, transcript, summary_raw, summary_json, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, fmt.Sprintf("m-%d.mp3", i), "transcript", "{}", nil, ts.Format(timeLayout))
		require.NoError(t, err)
	}

	records, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, records[0].CreatedAt.Equal(later), "createdAt must be descending; later record lists first")
	assert.True(t, records[1].CreatedAt.Equal(earlier))
}

func TestSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meetings.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Append(ctx, "persisted.m4a", "long transcript", "{}", nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	records, err := s2.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "persisted.m4a", records[0].Filename)
}

func TestConcurrentAppends(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.Append(ctx, fmt.Sprintf("m-%d.mp3", i), fmt.Sprintf("transcript %d", i), "{}", nil)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "append %d", i)
	}

	records, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, n)

	seen := make(map[int64]bool, n)
	for _, r := range records {
		assert.False(t, seen[r.ID], "ids must be distinct")
		seen[r.ID] = true
		assert.NotEmpty(t, r.Filename)
		assert.NotEmpty(t, r.Transcript)
	}

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, n, count)
}
