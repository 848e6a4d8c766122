package session

import (
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/hupe1980/panelmesh/core"
)

// Interface compliance (compile-time assertion)
var _ core.SessionStore = (*InMemoryStore)(nil)

// TestMain verifies the store never spawns goroutines: expiry is strictly
// caller-driven through Sweep, never a background timer.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeClock is a manually advanced time source.
type fakeClock struct {
	current time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{current: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.current }
func (c *fakeClock) Advance(d time.Duration) { c.current = c.current.Add(d) }

func TestCreate_DistinctIDs(t *testing.T) {
	store := NewInMemoryStore()
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		sess, err := store.Create([]string{"a", "b"}, false)
		if err != nil {
			t.Fatalf("create %d failed: %v", i, err)
		}
		if seen[sess.ID] {
			t.Fatalf("duplicate session id %q", sess.ID)
		}
		seen[sess.ID] = true
	}
	if store.Len() != 100 {
		t.Fatalf("expected 100 live sessions, got %d", store.Len())
	}
}

func TestCreate_PanelSizeValidation(t *testing.T) {
	store := NewInMemoryStore()
	for _, ids := range [][]string{{}, {"solo"}, {"a", "b", "c", "d", "e"}} {
		if _, err := store.Create(ids, false); !core.IsValidation(err) {
			t.Errorf("size %d: expected ValidationError, got %v", len(ids), err)
		}
	}
	if store.Len() != 0 {
		t.Error("failed creates must not leave sessions behind")
	}
}

func TestCreate_IDCollisionAborts(t *testing.T) {
	store := NewInMemoryStore(WithIDGenerator(func() string { return "panel-constant0000" }))
	if _, err := store.Create([]string{"a", "b"}, false); err != nil {
		t.Fatalf("first create should succeed: %v", err)
	}
	_, err := store.Create([]string{"a", "b"}, false)
	if err == nil {
		t.Fatal("second create with a colliding id source must abort")
	}
	if core.IsValidation(err) || core.IsNotFound(err) {
		t.Fatalf("collision is an internal invariant failure, not %T", err)
	}
	if store.Len() != 1 {
		t.Fatalf("collision must not disturb the existing session, len=%d", store.Len())
	}
}

func TestGet_SnapshotIsolation(t *testing.T) {
	store := NewInMemoryStore()
	created, err := store.Create([]string{"a", "b"}, true)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	snap, err := store.Get(created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	snap.PersonaIDs[0] = "mutated"
	snap.ExchangeCount = 99

	again, err := store.Get(created.ID)
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if again.PersonaIDs[0] != "a" || again.ExchangeCount != 0 {
		t.Error("mutating a returned snapshot must not affect stored state")
	}

	if _, err := store.Get("panel-nope"); !core.IsNotFound(err) {
		t.Errorf("unknown id should yield NotFoundError, got %v", err)
	}
}

func TestTouch_BumpsLastUpdated(t *testing.T) {
	clock := newFakeClock()
	store := NewInMemoryStore(WithClock(clock.Now))
	sess, _ := store.Create([]string{"a", "b"}, false)

	clock.Advance(10 * time.Minute)
	store.Touch(sess.ID)

	got, _ := store.Get(sess.ID)
	if !got.LastUpdated.Equal(clock.Now()) {
		t.Errorf("LastUpdated not bumped: %v vs %v", got.LastUpdated, clock.Now())
	}

	store.Touch("panel-absent") // must not panic
}

func TestDelete_Idempotent(t *testing.T) {
	store := NewInMemoryStore()
	sess, _ := store.Create([]string{"a", "b"}, false)
	store.Delete(sess.ID)
	if _, err := store.Get(sess.ID); !core.IsNotFound(err) {
		t.Errorf("deleted session should be gone, got %v", err)
	}
	store.Delete(sess.ID) // second delete is a no-op
}

func TestSweep_RemovesOnlyStale(t *testing.T) {
	clock := newFakeClock()
	store := NewInMemoryStore(WithClock(clock.Now))

	stale, _ := store.Create([]string{"a", "b"}, false)
	clock.Advance(DefaultTTL + time.Second)
	fresh, _ := store.Create([]string{"a", "b"}, false)

	if removed := store.Sweep(clock.Now(), DefaultTTL); removed != 1 {
		t.Fatalf("expected 1 swept session, got %d", removed)
	}
	if _, err := store.Get(stale.ID); !core.IsNotFound(err) {
		t.Error("stale session should have been swept")
	}
	if _, err := store.Get(fresh.ID); err != nil {
		t.Errorf("fresh session should survive the sweep: %v", err)
	}
}

func TestSweep_ExactTTLIsKept(t *testing.T) {
	clock := newFakeClock()
	store := NewInMemoryStore(WithClock(clock.Now))
	sess, _ := store.Create([]string{"a", "b"}, false)

	clock.Advance(DefaultTTL)
	if removed := store.Sweep(clock.Now(), DefaultTTL); removed != 0 {
		t.Fatalf("idle == ttl must be kept (strictly-greater rule), swept %d", removed)
	}
	if _, err := store.Get(sess.ID); err != nil {
		t.Errorf("session at exact ttl should survive: %v", err)
	}

	clock.Advance(time.Nanosecond)
	if removed := store.Sweep(clock.Now(), DefaultTTL); removed != 1 {
		t.Fatalf("idle just past ttl must be swept, got %d", removed)
	}
}

func TestTouch_DefersSweep(t *testing.T) {
	clock := newFakeClock()
	store := NewInMemoryStore(WithClock(clock.Now))
	sess, _ := store.Create([]string{"a", "b"}, false)

	clock.Advance(DefaultTTL - time.Minute)
	store.Touch(sess.ID)
	clock.Advance(2 * time.Minute)

	if removed := store.Sweep(clock.Now(), DefaultTTL); removed != 0 {
		t.Fatalf("touched session should not be swept, got %d removals", removed)
	}
}

func TestAppendExchange(t *testing.T) {
	clock := newFakeClock()
	store := NewInMemoryStore(WithClock(clock.Now))
	sess, _ := store.Create([]string{"a", "b"}, false)

	clock.Advance(time.Minute)
	updated, err := store.AppendExchange(sess.ID, core.Exchange{
		UserMessage: "hello",
		Responses:   []core.PanelResponse{{PersonaID: "a"}, {PersonaID: "b"}},
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if updated.ExchangeCount != 1 || updated.DiscussionHistory[0].ExchangeNumber != 1 {
		t.Fatalf("exchange bookkeeping wrong: %+v", updated)
	}
	if !updated.LastUpdated.Equal(clock.Now()) {
		t.Error("append should touch the session")
	}

	updated, err = store.AppendExchange(sess.ID, core.Exchange{UserMessage: "again"})
	if err != nil {
		t.Fatalf("second append: %v", err)
	}
	if updated.ExchangeCount != 2 || updated.DiscussionHistory[1].ExchangeNumber != 2 {
		t.Fatalf("second exchange bookkeeping wrong: %+v", updated)
	}

	if _, err := store.AppendExchange("panel-ghost", core.Exchange{}); !core.IsNotFound(err) {
		t.Errorf("append to missing session should yield NotFoundError, got %v", err)
	}
}

func TestListAndLen(t *testing.T) {
	store := NewInMemoryStore()
	a, _ := store.Create([]string{"a", "b"}, false)
	b, _ := store.Create([]string{"c", "d"}, true)

	all := store.List()
	if len(all) != 2 || store.Len() != 2 {
		t.Fatalf("expected 2 sessions, got list=%d len=%d", len(all), store.Len())
	}
	found := map[string]bool{}
	for _, s := range all {
		found[s.ID] = true
	}
	if !found[a.ID] || !found[b.ID] {
		t.Error("List missed a live session")
	}
}
