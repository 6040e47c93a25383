package lifecycle

import (
	"errors"
	"reflect"
	"testing"

	"statehost/internal/bundle"
	"statehost/internal/presenter"
	"statehost/internal/trace"
)

type counterView struct {
	Count int `json:"count"`
}

type host struct {
	got []counterView
}

func (h *host) OnModelUpdated(v counterView) { h.got = append(h.got, v) }

type factoryCounter struct {
	built     int
	destroyed int
	restored  []string
}

func (f *factoryCounter) factory() func() *presenter.Container[counterView, string] {
	return func() *presenter.Container[counterView, string] {
		f.built++
		return presenter.New("counter", presenter.Hooks[counterView, string]{
			OnStateUpdated: func(_ *presenter.Container[counterView, string], s string) {
				f.restored = append(f.restored, s)
			},
			OnDestroy: func(*presenter.Container[counterView, string]) { f.destroyed++ },
		})
	}
}

func mustNoErr(t *testing.T, op string, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", op, err)
	}
}

func TestBridge_AttachBuildsAndSubscribes(t *testing.T) {
	f := &factoryCounter{}
	h := &host{}
	b := NewBridge[counterView, string](h, f.factory())
	if b.State() != Unattached {
		t.Errorf("expected Unattached, got %s", b.State())
	}
	if b.Container() != nil {
		t.Error("expected no container before Attach")
	}

	mustNoErr(t, "Attach", b.Attach(nil))
	if b.State() != Attached {
		t.Errorf("expected Attached, got %s", b.State())
	}
	if f.built != 1 {
		t.Errorf("expected 1 container built, got %d", f.built)
	}
	if b.Container() == nil {
		t.Fatal("expected a container after Attach")
	}
	if n := b.Container().ObserverCount(); n != 1 {
		t.Errorf("expected host subscribed, got %d observers", n)
	}

	b.Container().UpdateViewState(counterView{Count: 3})
	if !reflect.DeepEqual(h.got, []counterView{{Count: 3}}) {
		t.Errorf("expected host to receive {3}, got %+v", h.got)
	}
}

func TestBridge_InvalidTransitions(t *testing.T) {
	f := &factoryCounter{}
	b := NewBridge[counterView, string](&host{}, f.factory())

	steps := []struct {
		name string
		call func() error
		want error
	}{
		{"detach unattached", b.Detach, ErrInvalidTransition},
		{"save unattached", func() error { return b.Save(bundle.New()) }, ErrNotAttached},
		{"attach", func() error { return b.Attach(nil) }, nil},
		{"attach twice", func() error { return b.Attach(nil) }, ErrInvalidTransition},
		{"detach", b.Detach, nil},
		{"detach twice", b.Detach, ErrInvalidTransition},
		{"destroy", b.Destroy, nil},
		{"attach destroyed", func() error { return b.Attach(nil) }, ErrDestroyed},
		{"detach destroyed", b.Detach, ErrDestroyed},
		{"destroy destroyed", b.Destroy, ErrDestroyed},
		{"save destroyed", func() error { return b.Save(bundle.New()) }, ErrDestroyed},
	}
	for _, step := range steps {
		err := step.call()
		if step.want == nil && err != nil {
			t.Errorf("%s: unexpected error %v", step.name, err)
		}
		if step.want != nil && !errors.Is(err, step.want) {
			t.Errorf("%s: expected %v, got %v", step.name, step.want, err)
		}
	}
	if b.State() != Destroyed {
		t.Errorf("expected Destroyed, got %s", b.State())
	}
}

func TestBridge_RetainKeepsContainerAcrossDetach(t *testing.T) {
	f := &factoryCounter{}
	h := &host{}
	b := NewBridge[counterView, string](h, f.factory(), WithPolicy(Retain))

	mustNoErr(t, "Attach", b.Attach(nil))
	c := b.Container()
	c.UpdateViewState(counterView{Count: 1})

	mustNoErr(t, "Detach", b.Detach())
	if b.Container() != c {
		t.Error("expected Retain to keep the container on the bridge")
	}
	if c.ObserverCount() != 0 {
		t.Errorf("expected host unsubscribed, got %d observers", c.ObserverCount())
	}
	if c.Destroyed() {
		t.Error("retained container must stay alive")
	}

	// updates while detached are not delivered, but the latest is replayed
	c.UpdateViewState(counterView{Count: 2})
	mustNoErr(t, "Attach", b.Attach(nil))
	if b.Container() != c || f.built != 1 {
		t.Errorf("expected the same container on reattach, built=%d", f.built)
	}
	if !reflect.DeepEqual(h.got, []counterView{{Count: 1}, {Count: 2}}) {
		t.Errorf("expected [{1} {2}], got %+v", h.got)
	}
}

func TestBridge_DiscardWithoutRetainerRebuildsFromBundle(t *testing.T) {
	f := &factoryCounter{}
	h := &host{}
	b := NewBridge[counterView, string](h, f.factory(), WithPolicy(Discard))

	mustNoErr(t, "Attach", b.Attach(nil))
	first := b.Container()
	first.UpdateViewState(counterView{Count: 4})
	first.UpdateState("ready")

	saved := bundle.New()
	mustNoErr(t, "Save", b.Save(saved))
	mustNoErr(t, "Detach", b.Detach())
	if b.Container() != nil {
		t.Error("expected Discard to drop the container")
	}
	if !first.Destroyed() || f.destroyed != 1 {
		t.Errorf("expected the unreachable container destroyed on Detach, destroyed=%d", f.destroyed)
	}

	// nothing to save once the reference is gone
	mustNoErr(t, "Save detached", b.Save(bundle.New()))

	mustNoErr(t, "Attach", b.Attach(saved))
	if f.built != 2 {
		t.Errorf("expected a rebuilt container, built=%d", f.built)
	}
	v, ok := b.Container().ViewState()
	if !ok || v.Count != 4 {
		t.Errorf("expected restored view {4}, got %+v (present=%v)", v, ok)
	}
	if !reflect.DeepEqual(f.restored, []string{"ready", "ready"}) {
		t.Errorf("expected presenter state replayed once, got %v", f.restored)
	}
	if last := h.got[len(h.got)-1]; last.Count != 4 {
		t.Errorf("expected host to see {4} last, got %+v", last)
	}

	mustNoErr(t, "Detach", b.Detach())
	mustNoErr(t, "Attach", b.Attach(saved))
	mustNoErr(t, "Destroy", b.Destroy())
	if f.destroyed != f.built {
		t.Errorf("expected every built container destroyed, built=%d destroyed=%d", f.built, f.destroyed)
	}
}

func TestBridge_DiscardDestroyWhileDetachedWithoutRetainer(t *testing.T) {
	f := &factoryCounter{}
	b := NewBridge[counterView, string](&host{}, f.factory(), WithPolicy(Discard))

	mustNoErr(t, "Attach", b.Attach(nil))
	mustNoErr(t, "Detach", b.Detach())
	mustNoErr(t, "Destroy", b.Destroy())
	if f.built != 1 || f.destroyed != 1 {
		t.Errorf("expected built=1 destroyed=1, got built=%d destroyed=%d", f.built, f.destroyed)
	}
}

func TestBridge_DiscardWithRetainerReusesContainer(t *testing.T) {
	f := &factoryCounter{}
	r := NewRetainer()
	first := NewBridge[counterView, string](&host{}, f.factory(), WithPolicy(Discard), WithRetainer(r, "counter:0"))

	mustNoErr(t, "Attach", first.Attach(nil))
	c := first.Container()
	c.UpdateViewState(counterView{Count: 9})
	mustNoErr(t, "Detach", first.Detach())
	if first.Container() != nil {
		t.Error("expected Discard to drop the bridge's reference")
	}
	if c.Destroyed() {
		t.Error("a retained container must survive Detach")
	}
	if !reflect.DeepEqual(r.Keys(), []string{"counter:0"}) {
		t.Errorf("expected retainer key counter:0, got %v", r.Keys())
	}

	// Save still reaches the retained container.
	saved := bundle.New()
	mustNoErr(t, "Save", first.Save(saved))
	if len(saved.Keys()) == 0 {
		t.Error("expected Save to write through the retainer")
	}

	h := &host{}
	second := NewBridge[counterView, string](h, f.factory(), WithPolicy(Discard), WithRetainer(r, "counter:0"))
	mustNoErr(t, "Attach", second.Attach(nil))
	if second.Container() != c || f.built != 1 {
		t.Errorf("expected the retained container, built=%d", f.built)
	}
	if !reflect.DeepEqual(h.got, []counterView{{Count: 9}}) {
		t.Errorf("expected [{9}], got %+v", h.got)
	}
}

func TestBridge_DestroyDestroysContainerAndClearsRetainer(t *testing.T) {
	f := &factoryCounter{}
	r := NewRetainer()
	b := NewBridge[counterView, string](&host{}, f.factory(), WithRetainer(r, "k"))

	mustNoErr(t, "Attach", b.Attach(nil))
	c := b.Container()
	mustNoErr(t, "Destroy", b.Destroy())

	if !c.Destroyed() || f.destroyed != 1 {
		t.Errorf("expected container destroyed once, destroyed=%d", f.destroyed)
	}
	if r.Len() != 0 {
		t.Errorf("expected retainer emptied, got %v", r.Keys())
	}
	if b.Container() != nil {
		t.Error("expected bridge to drop its container")
	}
}

func TestBridge_DestroyWhileDetachedWithDiscard(t *testing.T) {
	f := &factoryCounter{}
	r := NewRetainer()
	b := NewBridge[counterView, string](&host{}, f.factory(), WithPolicy(Discard), WithRetainer(r, "k"))

	mustNoErr(t, "Attach", b.Attach(nil))
	c := b.Container()
	mustNoErr(t, "Detach", b.Detach())
	mustNoErr(t, "Destroy", b.Destroy())

	if !c.Destroyed() {
		t.Error("expected the retained container destroyed")
	}
	if r.Len() != 0 {
		t.Errorf("expected retainer emptied, got %v", r.Keys())
	}
}

func TestBridge_IgnoresStaleRetainerEntries(t *testing.T) {
	f := &factoryCounter{}
	r := NewRetainer()

	dead := f.factory()()
	dead.Destroy()
	r.Put("k", dead)
	b := NewBridge[counterView, string](&host{}, f.factory(), WithRetainer(r, "k"))
	mustNoErr(t, "Attach", b.Attach(nil))
	if b.Container() == dead {
		t.Error("expected a destroyed retained container to be replaced")
	}
	if f.built != 2 {
		t.Errorf("expected a fresh container, built=%d", f.built)
	}
}

func TestBridge_RetainedContainerOfAnotherTypeIsIgnored(t *testing.T) {
	tests := []struct {
		name  string
		entry any
	}{
		{"plain value", "not a container"},
		{"other view type", presenter.New[string, string]("other", presenter.Hooks[string, string]{})},
		{"other presenter type", presenter.New[counterView, int]("counter", presenter.Hooks[counterView, int]{})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &factoryCounter{}
			r := NewRetainer()
			r.Put("shared", tt.entry)

			b := NewBridge[counterView, string](&host{}, f.factory(), WithRetainer(r, "shared"))
			mustNoErr(t, "Attach", b.Attach(nil))
			if f.built != 1 {
				t.Errorf("expected a fresh container, built=%d", f.built)
			}
			got, _ := r.Get("shared")
			if got != any(b.Container()) {
				t.Errorf("expected the retainer entry replaced by the bridge's container, got %T", got)
			}
		})
	}
}

func TestBridge_TraceEvents(t *testing.T) {
	f := &factoryCounter{}
	rec := trace.NewRecorder(0, 0)
	b := NewBridge[counterView, string](&host{}, f.factory(), WithTrace(rec), WithRetainer(NewRetainer(), "counter"))

	mustNoErr(t, "Attach", b.Attach(nil))
	instance := b.Container().InstanceID()
	mustNoErr(t, "Detach", b.Detach())

	tl := rec.Timeline(instance)
	if tl == nil {
		t.Fatalf("expected a timeline for %s", instance)
	}
	var types []trace.EventType
	for _, ev := range tl.Events {
		types = append(types, ev.Type)
	}
	if !reflect.DeepEqual(types, []trace.EventType{trace.EventAttach, trace.EventDetach}) {
		t.Fatalf("expected attach, detach; got %v", types)
	}
	if src := tl.Events[0].Attributes["source"]; src != "factory" {
		t.Errorf("expected source=factory, got %q", src)
	}
	if p := tl.Events[1].Attributes["policy"]; p != "retain" {
		t.Errorf("expected policy=retain, got %q", p)
	}
}

type failingChild struct {
	saveErr   error
	destroyed *[]string
	name      string
}

func (c *failingChild) Save(bundle.Writer) error { return c.saveErr }
func (c *failingChild) Destroy() error {
	*c.destroyed = append(*c.destroyed, c.name)
	return nil
}

func TestOwner_SaveFansOutAndJoinsErrors(t *testing.T) {
	var destroyed []string
	boom := errors.New("boom")
	o := NewOwner()
	o.Observe(&failingChild{name: "a", destroyed: &destroyed})
	o.Observe(&failingChild{name: "b", saveErr: boom, destroyed: &destroyed})
	o.Observe(&failingChild{name: "gone", saveErr: ErrDestroyed, destroyed: &destroyed})

	err := o.Save(bundle.New())
	if !errors.Is(err, boom) {
		t.Errorf("expected joined error to contain boom, got %v", err)
	}
	if errors.Is(err, ErrDestroyed) {
		t.Error("destroyed children must not fail the save")
	}
}

func TestOwner_DestroyIsReverseOrderAndFinal(t *testing.T) {
	var destroyed []string
	o := NewOwner()
	o.Observe(&failingChild{name: "a", destroyed: &destroyed})
	remove := o.Observe(&failingChild{name: "b", destroyed: &destroyed})
	o.Observe(&failingChild{name: "c", destroyed: &destroyed})
	remove()
	if o.Len() != 2 {
		t.Errorf("expected 2 children after remove, got %d", o.Len())
	}

	o.Destroy()
	o.Destroy()
	if !reflect.DeepEqual(destroyed, []string{"c", "a"}) {
		t.Errorf("expected [c a], got %v", destroyed)
	}
	if !o.Destroyed() {
		t.Error("expected owner destroyed")
	}

	o.Observe(&failingChild{name: "late", destroyed: &destroyed})
	if !reflect.DeepEqual(destroyed, []string{"c", "a", "late"}) {
		t.Errorf("expected a late child destroyed at once, got %v", destroyed)
	}
	if o.Len() != 0 {
		t.Errorf("expected no children, got %d", o.Len())
	}
}

func TestBridge_AttachToOwner(t *testing.T) {
	f := &factoryCounter{}
	owner := NewOwner()
	r := NewRetainer()
	b := NewBridge[counterView, string](&host{}, f.factory(), WithPolicy(Discard), WithRetainer(r, "nested"))

	mustNoErr(t, "AttachTo", b.AttachTo(owner, nil))
	if owner.Len() != 1 {
		t.Errorf("expected bridge registered with owner, got %d", owner.Len())
	}
	b.Container().UpdateViewState(counterView{Count: 7})

	saved := bundle.New()
	mustNoErr(t, "owner Save", owner.Save(saved))
	if _, ok := saved.Get(bundle.ViewStateKey("counter")); !ok {
		t.Error("expected owner Save to reach the nested container")
	}

	// reattaching to the same owner does not register twice
	mustNoErr(t, "Detach", b.Detach())
	mustNoErr(t, "AttachTo", b.AttachTo(owner, saved))
	if owner.Len() != 1 {
		t.Errorf("expected one registration, got %d", owner.Len())
	}

	c := b.Container()
	owner.Destroy()
	if b.State() != Destroyed {
		t.Errorf("expected bridge destroyed with its owner, got %s", b.State())
	}
	if !c.Destroyed() {
		t.Error("expected nested container destroyed")
	}
	if f.built != 1 {
		t.Errorf("expected the retained container reused, built=%d", f.built)
	}
}

func TestBridge_DestroyUnregistersFromOwner(t *testing.T) {
	f := &factoryCounter{}
	owner := NewOwner()
	b := NewBridge[counterView, string](&host{}, f.factory())
	mustNoErr(t, "AttachTo", b.AttachTo(owner, nil))
	mustNoErr(t, "Destroy", b.Destroy())
	if owner.Len() != 0 {
		t.Errorf("expected owner to forget the bridge, got %d", owner.Len())
	}
}
