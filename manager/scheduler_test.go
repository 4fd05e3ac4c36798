package manager

import (
	"reflect"
	"testing"
)

type recorder struct {
	name  string
	calls *[]string
}

func (r *recorder) FixedUpdate(dt float64) { *r.calls = append(*r.calls, r.name+":fixed") }
func (r *recorder) Update(dt float64)      { *r.calls = append(*r.calls, r.name+":update") }
func (r *recorder) LateUpdate(dt float64)  { *r.calls = append(*r.calls, r.name+":late") }

func TestSchedulerChannelOrder(t *testing.T) {
	var calls []string
	a := &recorder{name: "a", calls: &calls}
	b := &recorder{name: "b", calls: &calls}

	s := NewScheduler()
	s.SetLateUpdating(b, true)
	s.SetUpdating(b, true)
	s.SetUpdating(a, true)
	s.SetFixedUpdating(a, true)
	s.SetFixedUpdating(b, true)

	s.Tick(1.0 / 60)

	want := []string{"a:fixed", "b:fixed", "b:update", "a:update", "b:late"}
	if !reflect.DeepEqual(calls, want) {
		t.Fatalf("expected %v, got %v", want, calls)
	}
}

func TestSchedulerOptInIsIdempotent(t *testing.T) {
	var calls []string
	a := &recorder{name: "a", calls: &calls}

	s := NewScheduler()
	s.SetUpdating(a, true)
	s.SetUpdating(a, true)
	s.UpdateTick(0.1)
	if len(calls) != 1 {
		t.Fatalf("expected 1 call after double opt-in, got %d", len(calls))
	}

	s.SetUpdating(a, false)
	s.SetUpdating(a, false)
	s.SetLateUpdating(a, false)
	if s.IsUpdating(a) {
		t.Fatalf("expected a removed from update channel")
	}
	s.UpdateTick(0.1)
	if len(calls) != 1 {
		t.Fatalf("expected no calls after opt-out, got %d", len(calls))
	}
}

type selfRemover struct {
	s     *Scheduler
	count int
}

func (r *selfRemover) Update(dt float64) {
	r.count++
	r.s.SetUpdating(r, false)
}

func TestSchedulerMutationDuringDispatch(t *testing.T) {
	var calls []string
	s := NewScheduler()
	first := &selfRemover{s: s}
	after := &recorder{name: "after", calls: &calls}
	s.SetUpdating(first, true)
	s.SetUpdating(after, true)

	s.UpdateTick(0.1)
	s.UpdateTick(0.1)

	if first.count != 1 {
		t.Fatalf("expected self remover to run once, ran %d", first.count)
	}
	if len(calls) != 2 {
		t.Fatalf("expected listener after the removed one to run every tick, got %v", calls)
	}
}

type countingManager struct {
	guard Guard
	inits int
}

func (m *countingManager) Init(root *Root) {
	m.guard.Do(func() { m.inits++ })
}

func TestRootRegisterInitializesOnce(t *testing.T) {
	root := NewRoot(nil)
	m := &countingManager{}

	root.Register(m)
	root.Register(m)
	m.Init(root)
	root.Init()

	if m.inits != 1 {
		t.Fatalf("expected a single init, got %d", m.inits)
	}
	if !root.Inited() || root.Scheduler() == nil {
		t.Fatalf("expected root initialized with a scheduler")
	}

	root.Tick(0.1)
	root.Tick(0.1)
	if root.Frame() != 2 {
		t.Fatalf("expected frame 2, got %d", root.Frame())
	}
}

func TestGuard(t *testing.T) {
	var g Guard
	if g.Inited() {
		t.Fatalf("zero guard should not be inited")
	}
	if !g.Do(nil) {
		t.Fatalf("first Do should run")
	}
	if g.Do(func() { t.Fatalf("second Do must not run") }) {
		t.Fatalf("second Do should report false")
	}
}
