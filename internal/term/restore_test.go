package term

import (
	"context"
	"testing"
)

type memStore struct {
	recs    map[string]SessionRecord
	order   []string
	deleted []string
}

func newMemStore() *memStore {
	return &memStore{recs: make(map[string]SessionRecord)}
}

func (m *memStore) SaveInstance(ctx context.Context, rec SessionRecord) error {
	if _, ok := m.recs[rec.ID]; !ok {
		m.order = append(m.order, rec.ID)
	}
	m.recs[rec.ID] = rec
	return nil
}

func (m *memStore) DeleteInstance(ctx context.Context, id string) error {
	delete(m.recs, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *memStore) ListInstances(ctx context.Context) ([]SessionRecord, error) {
	out := make([]SessionRecord, 0, len(m.recs))
	for _, id := range m.order {
		if rec, ok := m.recs[id]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func TestSessionsPersistAcrossServices(t *testing.T) {
	store := newMemStore()
	rt := newRunnerTracker()
	svc := NewService(Options{
		Defaults:  ShellLaunchConfig{Executable: "/bin/bash", Type: ShellBash},
		Store:     store,
		NewRunner: rt.factory,
	})

	a, _ := svc.CreateTerminal(context.Background(), nil)
	b, _ := svc.SplitInstance(context.Background(), a.ID)
	_ = svc.SetTitle(a.ID, "server")
	if len(store.recs) != 2 {
		t.Fatalf("persisted records = %d, want 2", len(store.recs))
	}

	// Fresh service restores the same instances and grouping.
	rt2 := newRunnerTracker()
	svc2 := NewService(Options{Store: store, NewRunner: rt2.factory})
	if err := svc2.Restore(context.Background()); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	instances := svc2.Instances()
	if len(instances) != 2 {
		t.Fatalf("restored count = %d, want 2", len(instances))
	}
	ra, err := svc2.Instance(a.ID)
	if err != nil {
		t.Fatalf("restored instance a: %v", err)
	}
	if ra.Title != "server" {
		t.Fatalf("restored title = %q, want server", ra.Title)
	}
	g, err := svc2.GroupForInstance(a.ID)
	if err != nil {
		t.Fatalf("GroupForInstance: %v", err)
	}
	if len(g.Instances) != 2 || g.Instances[0] != a.ID || g.Instances[1] != b.ID {
		t.Fatalf("restored group = %v, want [%s %s]", g.Instances, a.ID, b.ID)
	}
	if svc2.ActiveInstanceID() != a.ID {
		t.Fatalf("restored active = %q, want first instance", svc2.ActiveInstanceID())
	}
}

func TestRestoreSkipsUnlaunchableSessions(t *testing.T) {
	store := newMemStore()
	_ = store.SaveInstance(context.Background(), SessionRecord{
		ID: "dead", Title: "gone", Shell: "/bin/nope", GroupID: "g1",
	})

	rt := newRunnerTracker()
	rt.fail = true
	svc := NewService(Options{Store: store, NewRunner: rt.factory})
	if err := svc.Restore(context.Background()); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if n := len(svc.Instances()); n != 0 {
		t.Fatalf("restored count = %d, want 0", n)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "dead" {
		t.Fatalf("stale record not pruned: %v", store.deleted)
	}
}

func TestDisposeRemovesPersistedRecord(t *testing.T) {
	store := newMemStore()
	rt := newRunnerTracker()
	svc := NewService(Options{
		Defaults:  ShellLaunchConfig{Executable: "/bin/bash"},
		Store:     store,
		NewRunner: rt.factory,
	})
	a, _ := svc.CreateTerminal(context.Background(), nil)
	if err := svc.DisposeInstance(context.Background(), a.ID); err != nil {
		t.Fatalf("DisposeInstance: %v", err)
	}
	if len(store.recs) != 0 {
		t.Fatalf("records after dispose = %d, want 0", len(store.recs))
	}
}
