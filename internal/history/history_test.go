package history

import (
	"image"
	"testing"

	"github.com/example/retouch/internal/adjust"
	"github.com/example/retouch/internal/geometry"
	"github.com/example/retouch/internal/raster"
	"github.com/example/retouch/internal/stroke"
)

func testState(t *testing.T) *ImageState {
	t.Helper()
	h, err := raster.New(image.NewRGBA(image.Rect(0, 0, 40, 30)))
	if err != nil {
		t.Fatalf("raster.New: %v", err)
	}
	return NewImageState(h)
}

// chain records n stroke actions on top of a load and returns them.
func chain(t *testing.T, m *Manager, n int) []Action {
	t.Helper()
	cur := testState(t)
	var out []Action
	for i := 0; i < n; i++ {
		next := cur.WithStroke(stroke.NewPen([]geometry.Point{geometry.Pt(float64(i), 0)}, stroke.DefaultStyle()))
		a := NewAction(Stroke, cur, next)
		m.Record(a)
		out = append(out, a)
		cur = next
	}
	return out
}

func TestEmptyManager(t *testing.T) {
	m := NewManager()
	if m.Index() != -1 || m.Len() != 0 {
		t.Fatalf("index=%d len=%d", m.Index(), m.Len())
	}
	if _, ok := m.Current(); ok {
		t.Fatal("empty manager has a current state")
	}
	if m.CanUndo() || m.CanRedo() {
		t.Fatal("empty manager can undo or redo")
	}
	if _, ok := m.Undo(); ok {
		t.Fatal("undo on empty manager succeeded")
	}
	if _, ok := m.Redo(); ok {
		t.Fatal("redo on empty manager succeeded")
	}
}

func TestCurrentTracksLatest(t *testing.T) {
	for n := 1; n <= MaxActions; n++ {
		m := NewManager()
		actions := chain(t, m, n)
		cur, ok := m.Current()
		if !ok || cur != actions[n-1].Next {
			t.Fatalf("n=%d: current is not the latest next state", n)
		}
	}
}

func TestFirstActionIsBaseline(t *testing.T) {
	m := NewManager()
	chain(t, m, 1)
	if m.CanUndo() {
		t.Fatal("single action should not be undoable")
	}
}

func TestRedoBranchInvalidation(t *testing.T) {
	m := NewManager()
	abc := chain(t, m, 3)
	if _, ok := m.Undo(); !ok {
		t.Fatal("first undo failed")
	}
	prev, ok := m.Undo()
	if !ok {
		t.Fatal("second undo failed")
	}
	if prev != abc[0].Next {
		t.Fatal("undo did not land on A's state")
	}
	if !m.CanRedo() {
		t.Fatal("redo should be possible after undo")
	}
	d := NewAction(Stroke, prev, prev.WithoutCrop())
	m.Record(d)
	got := m.Actions()
	if len(got) != 2 || got[0].ID != abc[0].ID || got[1].ID != d.ID {
		t.Fatalf("timeline = %v, want [A D]", ids(got))
	}
	if m.CanRedo() {
		t.Fatal("redo branch survived a new record")
	}
}

func ids(actions []Action) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = a.ID
	}
	return out
}

func TestUndoRedoRoundTrip(t *testing.T) {
	m := NewManager()
	actions := chain(t, m, 4)
	s, _ := m.Undo()
	if s != actions[3].Previous {
		t.Fatal("undo returned the wrong state")
	}
	if cur, _ := m.Current(); cur != actions[2].Next {
		t.Fatal("current after undo is wrong")
	}
	s, ok := m.Redo()
	if !ok || s != actions[3].Next {
		t.Fatal("redo returned the wrong state")
	}
}

func TestCapEvictsOldest(t *testing.T) {
	m := NewManager()
	actions := chain(t, m, MaxActions+5)
	if m.Len() != MaxActions {
		t.Fatalf("len = %d, want %d", m.Len(), MaxActions)
	}
	if m.Index() != MaxActions-1 {
		t.Fatalf("index = %d, want %d", m.Index(), MaxActions-1)
	}
	if got := m.Actions()[0].ID; got != actions[5].ID {
		t.Fatal("oldest retained action is not the sixth recorded")
	}
	steps := 0
	for m.CanUndo() {
		if _, ok := m.Undo(); !ok {
			t.Fatal("undo failed while CanUndo")
		}
		steps++
		if steps > MaxActions {
			t.Fatal("undo did not terminate")
		}
	}
	if steps != MaxActions-1 || m.Index() != 0 {
		t.Fatalf("steps=%d index=%d", steps, m.Index())
	}
}

func TestCapShiftsCursorWhenNotAtTail(t *testing.T) {
	m := NewManager(WithLimit(3))
	chain(t, m, 3)
	m.Undo()
	cur, _ := m.Current()
	m.Record(NewAction(ClearAll, cur, cur.Cleared()))
	if m.Len() != 3 || m.Index() != 2 {
		t.Fatalf("len=%d index=%d", m.Len(), m.Index())
	}
	for i := 0; i < 3; i++ {
		m.Record(NewAction(ClearAll, cur, cur.Cleared()))
	}
	if m.Len() != 3 || m.Index() != 2 {
		t.Fatalf("after overflow len=%d index=%d", m.Len(), m.Index())
	}
}

func TestClear(t *testing.T) {
	m := NewManager()
	chain(t, m, 5)
	m.Clear()
	if m.Len() != 0 || m.Index() != -1 {
		t.Fatalf("len=%d index=%d", m.Len(), m.Index())
	}
}

func TestStateTransitionsDoNotMutate(t *testing.T) {
	s := testState(t)
	withStroke := s.WithStroke(stroke.NewCircle(geometry.Pt(1, 1), 2, stroke.DefaultStyle()))
	if s.StrokeCount() != 0 || withStroke.StrokeCount() != 1 {
		t.Fatal("WithStroke mutated its receiver")
	}
	cropped, ok := withStroke.WithCrop(geometry.R(10, 10, 100, 100))
	if !ok {
		t.Fatal("crop rejected")
	}
	if r, _ := cropped.PendingCrop(); r != geometry.R(10, 10, 40, 30) {
		t.Fatalf("crop not intersected with bounds: %+v", r)
	}
	nested, _ := cropped.WithCrop(geometry.R(0, 0, 20, 20))
	if r := nested.Region(); r != geometry.R(10, 10, 20, 20) {
		t.Fatalf("nested crop = %+v", r)
	}
	if _, ok := cropped.WithCrop(geometry.R(50, 50, 60, 60)); ok {
		t.Fatal("disjoint crop accepted")
	}
	if _, has := withStroke.PendingCrop(); has {
		t.Fatal("WithCrop mutated its receiver")
	}
	if cropped.WithoutCrop().Size() != geometry.Sz(40, 30) {
		t.Fatal("WithoutCrop did not restore the full size")
	}
	adj := cropped.WithAdjustments(adjust.Params{Brightness: 0.1, Contrast: 1, Saturation: 1}, nil)
	if adj.Base() != adj.Source() || !adj.Edited() {
		t.Fatal("unexpected adjustment state")
	}
	cleared := adj.Cleared()
	if cleared.Edited() || cleared.Source() != s.Source() {
		t.Fatal("Cleared kept edits")
	}
	if s.ID() == withStroke.ID() {
		t.Fatal("derived state reused the id")
	}
	if err := validateID(s.ID(), PrefixState); err != nil {
		t.Fatalf("state id: %v", err)
	}
}
