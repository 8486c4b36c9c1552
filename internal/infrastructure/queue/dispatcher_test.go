package queue

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/autostock/dealership-api/internal/core/domain"
)

type stubAuditRepo struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
	err     error
	block   chan struct{}
}

func (r *stubAuditRepo) Insert(_ context.Context, e *domain.AuditEntry) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, *e)
	return nil
}

func (r *stubAuditRepo) snapshot() []domain.AuditEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.AuditEntry(nil), r.entries...)
}

func TestDispatcher_WritesEntries(t *testing.T) {
	repo := &stubAuditRepo{}
	d := NewDispatcher(3, repo, zerolog.Nop())
	d.Start()

	for i := 0; i < 20; i++ {
		d.Record(domain.AuditEntry{Action: domain.AuditContractVerified, EntityID: "c-" + strconv.Itoa(i%4)})
	}
	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got := repo.snapshot()
	if len(got) != 20 {
		t.Fatalf("expected 20 entries, got %d", len(got))
	}
	for _, e := range got {
		if e.Timestamp.IsZero() {
			t.Fatal("expected timestamp to be stamped")
		}
	}
}

func TestDispatcher_PreservesOrderPerEntity(t *testing.T) {
	repo := &stubAuditRepo{}
	d := NewDispatcher(4, repo, zerolog.Nop())
	d.Start()

	for i := 0; i < 50; i++ {
		d.Record(domain.AuditEntry{
			Action:   "step",
			EntityID: "c-1",
			Details:  map[string]string{"seq": strconv.Itoa(i)},
		})
	}
	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}

	for i, e := range repo.snapshot() {
		if e.Details["seq"] != strconv.Itoa(i) {
			t.Fatalf("entry %d out of order: seq=%s", i, e.Details["seq"])
		}
	}
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	repo := &stubAuditRepo{block: make(chan struct{})}
	d := NewDispatcher(1, repo, zerolog.Nop())
	d.Start()

	done := make(chan struct{})
	go func() {
		// one entry held by the blocked worker, channelBuffer queued, the rest dropped
		for i := 0; i < channelBuffer+10; i++ {
			d.Record(domain.AuditEntry{EntityID: "c-1"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Record blocked on a full channel")
	}

	close(repo.block)
	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got := len(repo.snapshot()); got >= channelBuffer+10 {
		t.Fatalf("expected some entries to be dropped, %d written", got)
	}
}

func TestDispatcher_RecordAfterClose(t *testing.T) {
	repo := &stubAuditRepo{}
	d := NewDispatcher(2, repo, zerolog.Nop())
	d.Start()
	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}

	d.Record(domain.AuditEntry{EntityID: "late"})
	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if len(repo.snapshot()) != 0 {
		t.Fatal("entries recorded after close must be dropped")
	}
}

func TestDispatcher_WriteErrorsDoNotStopWorker(t *testing.T) {
	repo := &stubAuditRepo{err: errors.New("mongo down")}
	d := NewDispatcher(1, repo, zerolog.Nop())
	d.Start()

	d.Record(domain.AuditEntry{EntityID: "a"})
	d.Record(domain.AuditEntry{EntityID: "b"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := d.Close(ctx); err != nil {
		t.Fatalf("expected worker to drain despite errors: %v", err)
	}
}

func TestDispatcher_CloseHonoursContext(t *testing.T) {
	repo := &stubAuditRepo{block: make(chan struct{})}
	defer close(repo.block)
	d := NewDispatcher(1, repo, zerolog.Nop())
	d.Start()
	d.Record(domain.AuditEntry{EntityID: "stuck"})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := d.Close(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(0, &stubAuditRepo{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
	for _, id := range []string{"", "c-1", "507f1f77bcf86cd799439011"} {
		first := d.shardIndex(id)
		if first < 0 || first >= defaultWorkers {
			t.Fatalf("index %d out of range", first)
		}
		if d.shardIndex(id) != first {
			t.Fatalf("unstable shard for %q", id)
		}
	}
}
