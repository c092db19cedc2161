package maintenance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeJanitor struct {
	mu      sync.Mutex
	orphans int64
	counts  int
	purges  int
	err     error
}

func (f *fakeJanitor) CountOrphans(_ context.Context, _ time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts++
	return f.orphans, f.err
}

func (f *fakeJanitor) PurgeOrphans(_ context.Context, _ time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.purges++
	if f.err != nil {
		return 0, f.err
	}
	n := f.orphans
	f.orphans = 0
	return n, nil
}

func TestSweepReportsWithoutPurging(t *testing.T) {
	j := &fakeJanitor{orphans: 3}
	s := NewSweeper(j, 24*time.Hour, false, nil)

	s.Sweep()

	assert.Equal(t, 1, j.counts)
	assert.Equal(t, 0, j.purges)
	assert.Equal(t, int64(3), j.orphans, "report mode must not delete anything")
}

func TestSweepPurgesWhenEnabled(t *testing.T) {
	j := &fakeJanitor{orphans: 3}
	s := NewSweeper(j, 24*time.Hour, true, nil)

	s.Sweep()

	assert.Equal(t, 1, j.purges)
	assert.Equal(t, int64(0), j.orphans)
}

func TestSweepToleratesStoreErrors(t *testing.T) {
	j := &fakeJanitor{err: errors.New("db down")}
	s := NewSweeper(j, 24*time.Hour, true, nil)

	// Must not panic; the next scheduled run will retry.
	s.Sweep()
	assert.Equal(t, 1, j.purges)
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s := NewSweeper(&fakeJanitor{}, 24*time.Hour, false, nil)
	assert.Error(t, s.Start("every now and then"))
}

func TestStartAndStop(t *testing.T) {
	s := NewSweeper(&fakeJanitor{}, 24*time.Hour, false, nil)
	assert.NoError(t, s.Start("@hourly"))
	s.Stop()
}
