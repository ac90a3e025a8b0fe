package observability

import (
	"context"
	"testing"
	"time"
)

type recordingEditorHooks struct {
	parses int
	drags  int
	saves  int
}

func (r *recordingEditorHooks) OnParse(context.Context, int, int, time.Duration) { r.parses++ }
func (r *recordingEditorHooks) OnDrag(context.Context, string, error)            { r.drags++ }
func (r *recordingEditorHooks) OnSave(context.Context, string, int, error)       { r.saves++ }

type recordingRenderHooks struct {
	starts    int
	completes int
}

func (r *recordingRenderHooks) OnRenderStart(context.Context, string, int) { r.starts++ }
func (r *recordingRenderHooks) OnRenderComplete(context.Context, string, time.Duration, error) {
	r.completes++
}

func TestDefaultHooksAreNoop(t *testing.T) {
	Reset()

	// Must not panic.
	ctx := context.Background()
	Editor().OnParse(ctx, 3, 2, time.Millisecond)
	Editor().OnDrag(ctx, "api", nil)
	Editor().OnSave(ctx, "d1", 120, nil)
	Render().OnRenderStart(ctx, "svg", 3)
	Render().OnRenderComplete(ctx, "svg", time.Millisecond, nil)
}

func TestSetEditorHooks(t *testing.T) {
	defer Reset()

	rec := &recordingEditorHooks{}
	SetEditorHooks(rec)

	ctx := context.Background()
	Editor().OnParse(ctx, 3, 2, time.Millisecond)
	Editor().OnDrag(ctx, "api", nil)
	Editor().OnDrag(ctx, "ghost", context.Canceled)
	Editor().OnSave(ctx, "d1", 120, nil)

	if rec.parses != 1 {
		t.Errorf("parses = %d, want 1", rec.parses)
	}
	if rec.drags != 2 {
		t.Errorf("drags = %d, want 2", rec.drags)
	}
	if rec.saves != 1 {
		t.Errorf("saves = %d, want 1", rec.saves)
	}
}

func TestSetRenderHooks(t *testing.T) {
	defer Reset()

	rec := &recordingRenderHooks{}
	SetRenderHooks(rec)

	ctx := context.Background()
	Render().OnRenderStart(ctx, "png", 5)
	Render().OnRenderComplete(ctx, "png", 2*time.Millisecond, nil)

	if rec.starts != 1 {
		t.Errorf("starts = %d, want 1", rec.starts)
	}
	if rec.completes != 1 {
		t.Errorf("completes = %d, want 1", rec.completes)
	}
}

func TestSetNilHooksIgnored(t *testing.T) {
	defer Reset()

	SetEditorHooks(nil)
	SetRenderHooks(nil)

	if _, ok := Editor().(NoopEditorHooks); !ok {
		t.Error("nil editor hooks should leave the noop default in place")
	}
	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("nil render hooks should leave the noop default in place")
	}
}

func TestReset(t *testing.T) {
	SetEditorHooks(&recordingEditorHooks{})
	SetRenderHooks(&recordingRenderHooks{})
	Reset()

	if _, ok := Editor().(NoopEditorHooks); !ok {
		t.Error("Reset should restore noop editor hooks")
	}
	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("Reset should restore noop render hooks")
	}
}
