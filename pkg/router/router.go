package router

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"tableflip.dev/medview/pkg/logging"
	"tableflip.dev/medview/pkg/nav"
	"tableflip.dev/medview/pkg/route"
	"tableflip.dev/medview/pkg/view"
)

// Resolution is the result of handling one path.
type Resolution struct {
	Path     string        `json:"path"`
	Route    route.Route   `json:"route"`
	Match    nav.Match     `json:"-"`
	Decision view.Decision `json:"decision"`
	Outcome  view.Outcome  `json:"outcome"`
}

// Options configure a Router.
type Options struct {
	Location   *Location
	Tree       *nav.Tree
	State      *nav.State
	Syncer     *nav.Syncer
	Dispatcher *view.Dispatcher
	Target     view.Target
	Home       string
	Log        logrus.FieldLogger
}

// Router resolves every location change in arrival order: parse, sync the
// nav state, dispatch. Changes that arrive while a path is being resolved,
// including redirects issued by the dispatcher, wait in a queue.
type Router struct {
	location   *Location
	tree       *nav.Tree
	state      *nav.State
	syncer     *nav.Syncer
	dispatcher *view.Dispatcher
	target     view.Target
	home       string
	log        logrus.FieldLogger

	mu       sync.Mutex
	queue    []string
	draining bool
	started  bool
	current  Resolution
	hooks    []func(Resolution)
	stop     func()
}

// New returns a router. The dispatcher's redirects are routed back through
// the router's queue.
func New(opts Options) *Router {
	if opts.Location == nil {
		opts.Location = NewLocation("")
	}
	if opts.State == nil {
		opts.State = nav.NewState()
	}
	if opts.Syncer == nil {
		opts.Syncer = nav.NewSyncer(opts.Log)
	}
	if opts.Target == nil {
		opts.Target = view.NewPane(0)
	}
	if opts.Home == "" {
		opts.Home = route.DefaultSection
	}
	r := &Router{
		location:   opts.Location,
		tree:       opts.Tree,
		state:      opts.State,
		syncer:     opts.Syncer,
		dispatcher: opts.Dispatcher,
		target:     opts.Target,
		home:       opts.Home,
		log:        logging.Or(opts.Log),
	}
	if r.dispatcher != nil {
		r.dispatcher.SetNavigator(view.NavigatorFunc(r.redirect))
	}
	return r
}

// Location returns the location the router listens to.
func (r *Router) Location() *Location { return r.location }

// State returns the nav state the router keeps in sync.
func (r *Router) State() *nav.State { return r.state }

// Start subscribes to the location and resolves the first route. An empty
// location is sent home, which itself triggers the first resolution.
func (r *Router) Start() {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return
	}
	r.started = true
	r.stop = r.location.Subscribe(r.enqueue)
	r.mu.Unlock()

	if path := r.location.Path(); path != "" {
		r.enqueue(path)
		return
	}
	r.location.Set(route.Encode(route.Home(r.home)))
}

// Stop unsubscribes from the location.
func (r *Router) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stop != nil {
		r.stop()
		r.stop = nil
	}
	r.started = false
}

// Navigate changes the location to path.
func (r *Router) Navigate(path string) {
	r.location.Set(path)
}

// Back returns to the previous path.
func (r *Router) Back() bool {
	return r.location.Back()
}

// redirect replaces the current path so Back skips the path that was
// redirected, then queues the new one.
func (r *Router) redirect(path string) {
	path = Normalize(path)
	r.location.Replace(path)
	r.enqueue(path)
}

// Refresh resolves the current path again, e.g. after the target resized.
func (r *Router) Refresh() {
	if path := r.location.Path(); path != "" {
		r.enqueue(path)
	}
}

// Current returns the last resolution.
func (r *Router) Current() Resolution {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// OnResolved registers fn to run after every resolution.
func (r *Router) OnResolved(fn func(Resolution)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, fn)
}

// Run feeds paths from events to the location one at a time until events
// closes or ctx ends.
func (r *Router) Run(ctx context.Context, events <-chan string) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case path, ok := <-events:
			if !ok {
				return nil
			}
			r.Navigate(path)
		}
	}
}

// enqueue appends path and drains the queue unless another call is already
// draining it.
func (r *Router) enqueue(path string) {
	r.mu.Lock()
	r.queue = append(r.queue, path)
	if r.draining {
		r.mu.Unlock()
		return
	}
	r.draining = true
	r.mu.Unlock()

	for {
		r.mu.Lock()
		if len(r.queue) == 0 {
			r.draining = false
			r.mu.Unlock()
			return
		}
		next := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()

		res, ok := r.resolve(next)
		if !ok {
			continue
		}
		r.mu.Lock()
		r.current = res
		hooks := append(([]func(Resolution))(nil), r.hooks...)
		r.mu.Unlock()
		for _, fn := range hooks {
			fn(res)
		}
	}
}

func (r *Router) resolve(path string) (res Resolution, ok bool) {
	log := r.log.WithField("path", path)
	defer func() {
		if p := recover(); p != nil {
			log.WithError(fmt.Errorf("%v", p)).Error("route resolution panicked")
			ok = false
		}
	}()

	rt := route.ParseWithDefault(path, r.home)
	res = Resolution{Path: path, Route: rt}
	if r.tree != nil {
		res.Match = r.syncer.Sync(r.tree, r.state, rt)
	}
	if r.dispatcher == nil {
		view.Unavailable(r.target, "", fmt.Errorf("no dispatcher configured"))
		res.Outcome = view.Missing
		return res, true
	}
	res.Decision = r.dispatcher.Resolve(rt)
	res.Outcome = r.dispatcher.Dispatch(rt, r.target)
	log.WithFields(logrus.Fields{
		"route":   rt.String(),
		"outcome": res.Outcome.String(),
	}).Debug("route resolved")
	return res, true
}
