package view

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"tableflip.dev/medview/pkg/logging"
	"tableflip.dev/medview/pkg/route"
)

// ErrNoRenderer means the rule names a renderer that is not registered.
var ErrNoRenderer = errors.New("view: renderer not registered")

// Navigator requests a location change. Dispatch uses it for redirects so
// the change goes through the normal route resolution.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

// Navigate implements Navigator.
func (f NavigatorFunc) Navigate(path string) { f(path) }

// Outcome is what a dispatch did to the target.
type Outcome int

const (
	// Rendered means the primary renderer painted the target.
	Rendered Outcome = iota
	// FellBack means the fallback renderer painted the target.
	FellBack
	// Missing means the renderer is not registered; a placeholder was shown.
	Missing
	// Failed means the renderer errored or panicked; a placeholder was shown.
	Failed
	// Redirected means nothing was painted and a new location was requested.
	Redirected
)

func (o Outcome) String() string {
	switch o {
	case Rendered:
		return "rendered"
	case FellBack:
		return "fallback"
	case Missing:
		return "missing"
	case Failed:
		return "failed"
	case Redirected:
		return "redirected"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Decision is the pure result of resolving a route against the table.
type Decision struct {
	Renderer string `json:"renderer,omitempty"`
	Params   Params `json:"params"`
	Redirect string `json:"redirect,omitempty"`
	Fallback bool   `json:"fallback,omitempty"`
}

// Dispatcher resolves routes to renderers and invokes them.
type Dispatcher struct {
	table    Table
	registry *Registry
	home     string
	nav      Navigator
	log      logrus.FieldLogger
}

// NewDispatcher returns a dispatcher. The navigator is set later by the
// router with SetNavigator.
func NewDispatcher(table Table, registry *Registry, home string, log logrus.FieldLogger) *Dispatcher {
	if home == "" {
		home = route.DefaultSection
	}
	if registry == nil {
		registry = NewRegistry()
	}
	return &Dispatcher{table: table, registry: registry, home: home, log: logging.Or(log)}
}

// SetNavigator sets where redirects are sent.
func (d *Dispatcher) SetNavigator(nav Navigator) { d.nav = nav }

// Home returns the home section.
func (d *Dispatcher) Home() string { return d.home }

// Registry returns the live registry.
func (d *Dispatcher) Registry() *Registry { return d.registry }

// Resolve decides what to render for r without side effects.
func (d *Dispatcher) Resolve(r route.Route) Decision {
	rule, ok := d.table[r.Section]
	if !ok {
		if r.Section == d.home {
			// No rule for home itself; redirecting would loop.
			return Decision{}
		}
		return Decision{Redirect: route.Encode(route.Home(d.home))}
	}
	if !rule.satisfied(r) {
		return Decision{Renderer: rule.Fallback, Fallback: true}
	}
	return Decision{Renderer: rule.Renderer, Params: rule.params(r)}
}

// Dispatch resolves r and paints target. It never panics and never leaves
// target holding output from an earlier route when a renderer fails.
func (d *Dispatcher) Dispatch(r route.Route, target Target) Outcome {
	dec := d.Resolve(r)
	log := d.log.WithField("route", r.String())

	if dec.Redirect != "" {
		if d.nav == nil {
			log.Error("redirect requested without a navigator")
			Unavailable(target, "", fmt.Errorf("no navigator for redirect to %s", dec.Redirect))
			return Missing
		}
		log.WithField("to", dec.Redirect).Info("unknown section, redirecting")
		d.nav.Navigate(dec.Redirect)
		return Redirected
	}

	renderer, ok := d.registry.Lookup(dec.Renderer)
	if !ok {
		err := fmt.Errorf("%w: %q", ErrNoRenderer, dec.Renderer)
		log.WithError(err).Warn("module not available")
		Unavailable(target, dec.Renderer, err)
		return Missing
	}

	if err := safeRender(renderer, target, dec.Params); err != nil {
		log.WithError(err).WithField("renderer", dec.Renderer).Error("render failed")
		Failure(target, dec.Renderer, err)
		return Failed
	}
	if dec.Fallback {
		return FellBack
	}
	return Rendered
}

func safeRender(renderer Renderer, target Target, params Params) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("renderer panicked: %v", p)
		}
	}()
	return renderer.Render(target, params)
}
