// internal/bot/bot_test.go
package bot

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/tamzrod/bot-status/internal/cache"
	"github.com/tamzrod/bot-status/internal/status"
	"github.com/tamzrod/bot-status/internal/store"
)

func newBot(t *testing.T) *Bot {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "status.db"), store.Options{})
	if err != nil {
		t.Fatalf("store.Open() err=%v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	b, err := New("bot-1", cache.New(), s)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	return b
}

func TestNewRequiresParts(t *testing.T) {
	if _, err := New("", cache.New(), &store.Store{}); err == nil {
		t.Fatalf("expected error for empty id")
	}
	if _, err := New("bot-1", nil, &store.Store{}); err == nil {
		t.Fatalf("expected error for nil cache")
	}
}

func TestReportBeforeFirstSync(t *testing.T) {
	b := newBot(t)

	snap, err := b.Report()
	if err != nil {
		t.Fatalf("Report() err=%v", err)
	}
	if snap.Busy || snap.CurrentCommand != nil || snap.X != nil || snap.LastSync != nil {
		t.Fatalf("expected empty report, got %+v", snap)
	}
	for i, p := range snap.Pins {
		if !p.IsUnset() {
			t.Fatalf("pin%d: expected unset, got %v", i, p)
		}
	}
}

func TestReportAfterSync(t *testing.T) {
	b := newBot(t)

	u := cache.Update{
		Busy:        true,
		CommandCode: 1,
		Command:     "move_to_origin",
		Position:    [3]float64{10, 20, 0},
	}
	u.Pins[3] = status.Digital(true)
	b.Cache().Apply(u)

	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := b.Store().MarkSynced(at); err != nil {
		t.Fatalf("MarkSynced() err=%v", err)
	}

	snap, err := b.Report()
	if err != nil {
		t.Fatalf("Report() err=%v", err)
	}
	if !snap.Busy || *snap.CurrentCommand != "move_to_origin" {
		t.Fatalf("unexpected core fields: %+v", snap)
	}
	if *snap.X != 10 || *snap.Y != 20 || *snap.Z != 0 {
		t.Fatalf("unexpected position")
	}
	if snap.LastSync == nil || !snap.LastSync.Equal(at) {
		t.Fatalf("unexpected last sync: %v", snap.LastSync)
	}
	if snap.Pins[3] != status.Digital(true) {
		t.Fatalf("pin3: got=%v", snap.Pins[3])
	}
}

func TestReportClosedStorage(t *testing.T) {
	b := newBot(t)
	_ = b.Store().Close()

	_, err := b.Report()
	if !errors.Is(err, status.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestPersistRestore(t *testing.T) {
	b := newBot(t)

	if ok, err := b.Restore(); ok || err != nil {
		t.Fatalf("expected nothing to restore, got ok=%v err=%v", ok, err)
	}

	u := cache.Update{Busy: true, CommandCode: 2, Command: "home_all", Position: [3]float64{1, 2, 3}}
	u.Pins[0] = status.Analog(7)
	b.Cache().Apply(u)
	if err := b.Persist(); err != nil {
		t.Fatalf("Persist() err=%v", err)
	}

	fresh, err := New("bot-1", cache.New(), b.Store())
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	ok, err := fresh.Restore()
	if err != nil || !ok {
		t.Fatalf("Restore() ok=%v err=%v", ok, err)
	}

	got, _ := fresh.Cache().Current()
	if got != u {
		t.Fatalf("restored state differs:\n got=%+v\nwant=%+v", got, u)
	}
}

func TestNilBotIsInvalidInput(t *testing.T) {
	var b *Bot

	_, err := status.Build(b)
	if !errors.Is(err, status.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	_, err = b.Report()
	if !errors.Is(err, status.ErrInvalidInput) {
		t.Fatalf("Report(): expected ErrInvalidInput, got %v", err)
	}
}

func TestReportFromNeverSyncedStore(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "never.db"), store.Options{ReadOnly: true})
	if err != nil {
		t.Fatalf("store.Open() err=%v", err)
	}
	defer s.Close()

	b, err := New("bot-1", cache.New(), s)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	if ok, err := b.Restore(); ok || err != nil {
		t.Fatalf("Restore() ok=%v err=%v", ok, err)
	}

	snap, err := b.Report()
	if err != nil {
		t.Fatalf("Report() err=%v", err)
	}
	if snap.LastSync != nil || snap.CurrentCommand != nil || snap.X != nil {
		t.Fatalf("expected empty report, got %+v", snap)
	}
	if m := snap.Map(); len(m) != status.FieldCount || m[status.KeyLastSync] != nil {
		t.Fatalf("unexpected fields: %v", m)
	}
}
