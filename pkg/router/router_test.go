package router

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tableflip.dev/medview/pkg/catalog"
	"tableflip.dev/medview/pkg/logging"
	"tableflip.dev/medview/pkg/nav"
	"tableflip.dev/medview/pkg/record"
	"tableflip.dev/medview/pkg/route"
	"tableflip.dev/medview/pkg/view"
)

type harness struct {
	router   *Router
	registry *view.Registry
	pane     *view.Pane
	seen     []string
	rendered []string
}

func newHarness(t *testing.T, start string) *harness {
	t.Helper()
	h := &harness{registry: view.NewRegistry(), pane: view.NewPane(80)}
	for _, name := range []string{view.Overview, view.ReportViewer, view.BloodWork, view.BPWeightTracker, view.Medication} {
		name := name
		h.registry.Register(name, view.RendererFunc(func(target view.Target, params view.Params) error {
			h.rendered = append(h.rendered, name+":"+params.ID)
			target.Reset(name)
			target.Write(params.ID)
			return nil
		}))
	}
	tree := nav.Build(nav.DefaultSections(), catalog.Group([]record.Report{
		{ID: "R1", Category: "imaging", Subcategory: "ct", Date: "2025-01-01"},
		{ID: "R42", Category: "archive", Date: "2019"},
	}))
	h.router = New(Options{
		Location:   NewLocation(start),
		Tree:       tree,
		Dispatcher: view.NewDispatcher(view.DefaultTable("home"), h.registry, "home", logging.Discard()),
		Target:     h.pane,
		Home:       "home",
		Log:        logging.Discard(),
	})
	h.router.OnResolved(func(res Resolution) {
		h.seen = append(h.seen, res.Path+"="+res.Outcome.String())
	})
	return h
}

func TestStartEmptyGoesHome(t *testing.T) {
	h := newHarness(t, "")
	h.router.Start()

	if diff := cmp.Diff([]string{"#home=rendered"}, h.seen); diff != "" {
		t.Fatalf("unexpected resolutions (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"#home"}, h.router.Location().History()); diff != "" {
		t.Fatalf("unexpected history (-want +got):\n%s", diff)
	}
	if h.pane.Title() != view.Overview {
		t.Fatalf("expected overview, got %q", h.pane.Title())
	}
}

func TestStartResolvesExistingPath(t *testing.T) {
	h := newHarness(t, "#imaging/ct/R1")
	h.router.Start()

	cur := h.router.Current()
	if cur.Route != (route.Route{Section: "imaging", Subsection: "ct", ID: "R1"}) {
		t.Fatalf("unexpected route %v", cur.Route)
	}
	if !cur.Match.Found || cur.Match.Rule != nav.RuleID {
		t.Fatalf("expected id match, got %+v", cur.Match)
	}
	if diff := cmp.Diff([]string{view.ReportViewer + ":R1"}, h.rendered); diff != "" {
		t.Fatalf("unexpected renders (-want +got):\n%s", diff)
	}
}

func TestUnknownSectionRedirectsHome(t *testing.T) {
	h := newHarness(t, "#xyz")
	h.router.Start()

	want := []string{"#xyz=redirected", "#home=rendered"}
	if diff := cmp.Diff(want, h.seen); diff != "" {
		t.Fatalf("unexpected resolutions (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{view.Overview + ":"}, h.rendered); diff != "" {
		t.Fatalf("unexpected renders (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"#home"}, h.router.Location().History()); diff != "" {
		t.Fatalf("redirected path should be replaced (-want +got):\n%s", diff)
	}
}

func TestNavigationDuringDispatchIsQueued(t *testing.T) {
	h := newHarness(t, "")
	h.registry.Register(view.BloodWork, view.RendererFunc(func(target view.Target, _ view.Params) error {
		h.router.Navigate("#bp")
		h.rendered = append(h.rendered, view.BloodWork+":")
		target.Reset(view.BloodWork)
		return nil
	}))
	h.router.Start()
	h.router.Navigate("#bloodwork")

	want := []string{view.Overview + ":", view.BloodWork + ":", view.BPWeightTracker + ":"}
	if diff := cmp.Diff(want, h.rendered); diff != "" {
		t.Fatalf("navigation overlapped a resolution (-want +got):\n%s", diff)
	}
	if h.router.Current().Path != "#bp" {
		t.Fatalf("expected #bp, got %s", h.router.Current().Path)
	}
}

type explodingPane struct{ *view.Pane }

func (p explodingPane) Reset(title string) {
	if title == "Module not available" {
		panic("target broke")
	}
	p.Pane.Reset(title)
}

func TestPanicDoesNotStopTheQueue(t *testing.T) {
	h := newHarness(t, "")
	h.registry.Unregister(view.BloodWork)
	h.router.target = explodingPane{h.pane}
	h.router.Start()

	events := make(chan string, 2)
	events <- "#bloodwork"
	events <- "#bp"
	close(events)
	if err := h.router.Run(context.Background(), events); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"#home=rendered", "#bp=rendered"}
	if diff := cmp.Diff(want, h.seen); diff != "" {
		t.Fatalf("unexpected resolutions (-want +got):\n%s", diff)
	}
}

func TestRunStopsOnContext(t *testing.T) {
	h := newHarness(t, "")
	h.router.Start()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := h.router.Run(ctx, make(chan string)); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestBackAndSync(t *testing.T) {
	h := newHarness(t, "")
	h.router.Start()
	h.router.Navigate("archive/R42")

	id, ok := h.router.State().Active()
	if !ok || h.router.tree.Node(id).Key != "R42" {
		t.Fatalf("expected R42 active")
	}
	if !h.router.Back() {
		t.Fatalf("expected back to succeed")
	}
	if h.router.Current().Path != "#home" {
		t.Fatalf("expected #home, got %s", h.router.Current().Path)
	}
	if _, ok := h.router.State().Active(); ok {
		t.Fatalf("home has no nav node")
	}
	if h.router.Back() {
		t.Fatalf("nothing left to go back to")
	}
}

func TestLocationIgnoresSamePath(t *testing.T) {
	loc := NewLocation("#home")
	calls := 0
	stop := loc.Subscribe(func(string) { calls++ })
	if loc.Set("home") {
		t.Fatalf("same path must not be a change")
	}
	loc.Set("#bp")
	stop()
	loc.Set("#medications")
	if calls != 1 {
		t.Fatalf("expected 1 notification, got %d", calls)
	}
}
