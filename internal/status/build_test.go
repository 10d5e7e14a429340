// internal/status/build_test.go
package status

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

// ---- fake source ----

type fakeStatus struct {
	busy    bool
	last    string
	hasLast bool
	pos     Position
	pins    map[int]PinValue

	failBusy     bool
	failCommand  bool
	failPosition bool
	failPin      int // -1 disables
	pinErr       error
}

func (f *fakeStatus) Busy() (bool, error) {
	if f.failBusy {
		return false, errors.New("connection dropped")
	}
	return f.busy, nil
}

func (f *fakeStatus) LastCommand() (string, bool, error) {
	if f.failCommand {
		return "", false, errors.New("history unreadable")
	}
	return f.last, f.hasLast, nil
}

func (f *fakeStatus) Position() (Position, error) {
	if f.failPosition {
		return Position{}, errors.New("encoder fault")
	}
	return f.pos, nil
}

func (f *fakeStatus) Pin(n int) (PinValue, error) {
	if n == f.failPin {
		return PinValue{}, f.pinErr
	}
	if v, ok := f.pins[n]; ok {
		return v, nil
	}
	return PinUnset, nil
}

type fakeStore struct {
	data map[string][]byte
	err  error
}

func (f *fakeStore) Fetch(namespace, key string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.data[namespace+"/"+key], nil
}

type fakeLog struct{}

func (fakeLog) Recent(limit int) ([]Command, error) { return nil, nil }

type fakeSource struct {
	status StatusReader
	log    CommandLog
	store  MetadataStore
}

func (f *fakeSource) Status() StatusReader { return f.status }
func (f *fakeSource) Commands() CommandLog { return f.log }
func (f *fakeSource) StatusStorage() MetadataStore { return f.store }

func floatPtr(v float64) *float64 { return &v }

func scenarioSource() (*fakeSource, *fakeStatus) {
	st := &fakeStatus{
		busy:    true,
		last:    "move_to_origin",
		hasLast: true,
		pos:     Position{X: floatPtr(10), Y: floatPtr(20), Z: floatPtr(0)},
		pins:    map[int]PinValue{3: Digital(true)},
		failPin: -1,
	}
	store := &fakeStore{data: map[string][]byte{
		SyncNamespace + "/" + SyncKey: []byte("2024-01-01T00:00:00Z"),
	}}
	return &fakeSource{status: st, log: fakeLog{}, store: store}, st
}

// ---- tests ----

func TestBuild_Scenario(t *testing.T) {
	src, _ := scenarioSource()

	snap, err := Build(src)
	if err != nil {
		t.Fatalf("Build() err=%v", err)
	}

	got, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal err=%v", err)
	}

	want := `{"busy":true,"current_command":"move_to_origin","x":10,"y":20,"z":0,` +
		`"last_sync":"2024-01-01T00:00:00Z",` +
		`"pin0":"unset","pin1":"unset","pin2":"unset","pin3":"high","pin4":"unset",` +
		`"pin5":"unset","pin6":"unset","pin7":"unset","pin8":"unset","pin9":"unset",` +
		`"pin10":"unset","pin11":"unset","pin12":"unset","pin13":"unset"}`

	if string(got) != want {
		t.Fatalf("unexpected report:\n got=%s\nwant=%s", got, want)
	}
}

func TestBuild_AlwaysTwentyFields(t *testing.T) {
	src := &fakeSource{
		status: &fakeStatus{failPin: -1},
		log:    fakeLog{},
		store:  &fakeStore{},
	}

	snap, err := Build(src)
	if err != nil {
		t.Fatalf("Build() err=%v", err)
	}

	fields := snap.Fields()
	if len(fields) != FieldCount || FieldCount != 20 {
		t.Fatalf("expected 20 fields, got %d", len(fields))
	}

	seen := make(map[string]bool)
	for _, f := range fields {
		if seen[f.Key] {
			t.Fatalf("duplicate key %q", f.Key)
		}
		seen[f.Key] = true
	}
	for i := 0; i < PinCount; i++ {
		if !seen[PinKey(i)] {
			t.Fatalf("missing key %q", PinKey(i))
		}
	}
	if len(snap.Map()) != FieldCount {
		t.Fatalf("expected %d map entries, got %d", FieldCount, len(snap.Map()))
	}
}

func TestBuild_NeverSyncedIsNull(t *testing.T) {
	src, _ := scenarioSource()
	src.store = &fakeStore{}

	snap, err := Build(src)
	if err != nil {
		t.Fatalf("Build() err=%v", err)
	}
	if snap.LastSync != nil {
		t.Fatalf("expected nil last sync, got %v", snap.LastSync)
	}

	m := snap.Map()
	v, ok := m[KeyLastSync]
	if !ok {
		t.Fatalf("last_sync omitted")
	}
	if v != nil {
		t.Fatalf("expected null last_sync, got %v", v)
	}
}

func TestBuild_UnknownPositionAndNoCommand(t *testing.T) {
	src := &fakeSource{
		status: &fakeStatus{failPin: -1},
		log:    fakeLog{},
		store:  &fakeStore{},
	}

	snap, err := Build(src)
	if err != nil {
		t.Fatalf("Build() err=%v", err)
	}
	if snap.CurrentCommand != nil || snap.X != nil || snap.Y != nil || snap.Z != nil {
		t.Fatalf("expected nil command and position, got %+v", snap)
	}
}

func TestBuild_UnsetPinPassesThrough(t *testing.T) {
	src, st := scenarioSource()
	st.pins[7] = PinUnset
	st.pins[9] = Analog(512)

	snap, err := Build(src)
	if err != nil {
		t.Fatalf("Build() err=%v", err)
	}
	if snap.Pins[7] != PinUnset {
		t.Fatalf("pin7: got=%v want=unset", snap.Pins[7])
	}
	if snap.Pins[9] != Analog(512) {
		t.Fatalf("pin9: got=%v want=512", snap.Pins[9])
	}
}

func TestBuild_Idempotent(t *testing.T) {
	src, _ := scenarioSource()

	a, err := Build(src)
	if err != nil {
		t.Fatalf("first Build() err=%v", err)
	}
	b, err := Build(src)
	if err != nil {
		t.Fatalf("second Build() err=%v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("snapshots differ:\n%+v\n%+v", a, b)
	}
}

func TestBuild_DetachedFromSource(t *testing.T) {
	src, st := scenarioSource()

	snap, err := Build(src)
	if err != nil {
		t.Fatalf("Build() err=%v", err)
	}

	*st.pos.X = 99
	st.last = "home_all"

	if *snap.X != 10 {
		t.Fatalf("snapshot x changed with source: %v", *snap.X)
	}
	if *snap.CurrentCommand != "move_to_origin" {
		t.Fatalf("snapshot command changed with source: %v", *snap.CurrentCommand)
	}
}

func TestBuild_StatusFailure(t *testing.T) {
	src, st := scenarioSource()
	st.failBusy = true

	snap, err := Build(src)
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
	if !reflect.DeepEqual(snap, Snapshot{}) {
		t.Fatalf("expected zero snapshot on failure, got %+v", snap)
	}
}

func TestBuild_PinFailureKeepsCause(t *testing.T) {
	cause := errors.New("pin bus down")
	src, st := scenarioSource()
	st.failPin = 11
	st.pinErr = cause

	_, err := Build(src)
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected original cause to be kept, got %v", err)
	}

	var se *SourceError
	if !errors.As(err, &se) || se.Field != "pin11" {
		t.Fatalf("expected SourceError for pin11, got %v", err)
	}
}

func TestBuild_SourceErrorNotRewrapped(t *testing.T) {
	orig := &SourceError{Field: "upstream", Err: errors.New("boom")}
	src, st := scenarioSource()
	st.failPin = 0
	st.pinErr = orig

	_, err := Build(src)
	if err != orig {
		t.Fatalf("expected error unchanged, got %v", err)
	}
}

func TestBuild_StoreFailureIsNotAbsence(t *testing.T) {
	src, _ := scenarioSource()
	src.store = &fakeStore{err: errors.New("store closed")}

	_, err := Build(src)
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestBuild_CorruptSyncValue(t *testing.T) {
	src, _ := scenarioSource()
	src.store = &fakeStore{data: map[string][]byte{
		SyncNamespace + "/" + SyncKey: []byte("yesterday"),
	}}

	_, err := Build(src)
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestBuild_InvalidInput(t *testing.T) {
	cases := map[string]Source{
		"nil source": nil,
		"no status":  &fakeSource{log: fakeLog{}, store: &fakeStore{}},
		"no history": &fakeSource{status: &fakeStatus{failPin: -1}, store: &fakeStore{}},
		"no storage": &fakeSource{status: &fakeStatus{failPin: -1}, log: fakeLog{}},
	}

	for name, src := range cases {
		_, err := Build(src)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", name, err)
		}
		if errors.Is(err, ErrSourceUnavailable) {
			t.Fatalf("%s: invalid input reported as source failure", name)
		}
	}
}

func TestBuild_AccessorFailureNamesField(t *testing.T) {
	cases := []struct {
		name  string
		set   func(*fakeStatus)
		field string
	}{
		{"busy", func(f *fakeStatus) { f.failBusy = true }, KeyBusy},
		{"last command", func(f *fakeStatus) { f.failCommand = true }, KeyCurrentCommand},
		{"position", func(f *fakeStatus) { f.failPosition = true }, "position"},
	}

	for _, c := range cases {
		src, st := scenarioSource()
		c.set(st)

		snap, err := Build(src)
		if !errors.Is(err, ErrSourceUnavailable) {
			t.Fatalf("%s: expected ErrSourceUnavailable, got %v", c.name, err)
		}
		var se *SourceError
		if !errors.As(err, &se) || se.Field != c.field {
			t.Fatalf("%s: expected SourceError for %q, got %v", c.name, c.field, err)
		}
		if !reflect.DeepEqual(snap, Snapshot{}) {
			t.Fatalf("%s: expected zero snapshot, got %+v", c.name, snap)
		}
	}
}
