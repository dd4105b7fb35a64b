// Package app wires the loader, catalog, nav tree, renderers and router into
// a ready viewer.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/muesli/termenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"tableflip.dev/medview/pkg/catalog"
	"tableflip.dev/medview/pkg/logging"
	"tableflip.dev/medview/pkg/nav"
	"tableflip.dev/medview/pkg/record"
	"tableflip.dev/medview/pkg/route"
	"tableflip.dev/medview/pkg/router"
	"tableflip.dev/medview/pkg/store"
	"tableflip.dev/medview/pkg/view"
	"tableflip.dev/medview/pkg/view/renderers"
)

// ErrBootstrap wraps every failure that prevents the viewer from starting.
var ErrBootstrap = errors.New("app: bootstrap failed")

// Config is everything Boot needs.
type Config struct {
	Store    store.Config
	Home     string
	Sections []nav.Section
	Disabled []string
	// Style is the glamour style used for report bodies.
	Style string
	// Profile selects colour output for rendered panes.
	Profile termenv.Profile
	// Width is the initial pane width; zero means unbounded.
	Width int
}

// SetDefaults registers every key Boot reads.
func SetDefaults(v *viper.Viper) {
	store.SetDefaults(v)
	v.SetDefault("home", route.DefaultSection)
	v.SetDefault("view.disabled", []string{})
	v.SetDefault("view.style", "notty")
}

// LoadConfig reads configuration through the global viper instance.
func LoadConfig() (*Config, error) {
	SetDefaults(viper.GetViper())
	if _, err := store.LoadConfig(); err != nil {
		return nil, err
	}
	return ConfigFrom(viper.GetViper())
}

// ConfigFrom extracts a Config from v. Sections default to
// nav.DefaultSections and are validated when overridden.
func ConfigFrom(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Store:    *store.ConfigFrom(v),
		Home:     strings.TrimSpace(v.GetString("home")),
		Disabled: v.GetStringSlice("view.disabled"),
		Style:    v.GetString("view.style"),
		Profile:  termenv.Ascii,
		Sections: nav.DefaultSections(),
	}
	if cfg.Home == "" {
		cfg.Home = route.DefaultSection
	}
	if v.IsSet("nav.sections") {
		var sections []nav.Section
		if err := v.UnmarshalKey("nav.sections", &sections); err != nil {
			return nil, fmt.Errorf("app: read nav.sections: %w", err)
		}
		if err := nav.ValidateSections(sections); err != nil {
			return nil, err
		}
		cfg.Sections = sections
	}
	return cfg, nil
}

// Viewer is a booted application. Everything but the router, the nav state
// and the pane is read-only after Boot.
type Viewer struct {
	Config     Config
	Data       *store.AppData
	Index      *catalog.Index
	Lookup     *catalog.Lookup
	Tree       *nav.Tree
	State      *nav.State
	Registry   *view.Registry
	Dispatcher *view.Dispatcher
	Location   *router.Location
	Router     *router.Router
	Pane       *view.Pane
}

// Boot loads every collection from the configured location and assembles the
// viewer. The router is not started.
func Boot(ctx context.Context, cfg *Config, log logrus.FieldLogger) (*Viewer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: no configuration", ErrBootstrap)
	}
	src, err := store.NewSource(&cfg.Store, log)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBootstrap, err)
	}
	return BootFrom(ctx, cfg, src, log)
}

// BootFrom is Boot with an explicit source.
func BootFrom(ctx context.Context, cfg *Config, src store.Source, log logrus.FieldLogger) (*Viewer, error) {
	log = logging.Or(log)
	if cfg == nil {
		return nil, fmt.Errorf("%w: no configuration", ErrBootstrap)
	}
	sources := cfg.Store.Sources
	if len(sources) == 0 {
		sources = store.DefaultSources()
	}
	sections := cfg.Sections
	if len(sections) == 0 {
		sections = nav.DefaultSections()
	}
	home := cfg.Home
	if home == "" {
		home = route.DefaultSection
	}

	data, err := store.NewLoader(src, sources, log).LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBootstrap, err)
	}

	reports, err := data.Reports()
	if err != nil {
		log.WithError(err).Warn("reports could not be decoded, continuing without them")
		reports = nil
	}
	index := catalog.Group(reports)
	lookup := catalog.NewLookup(reports)
	if dups := lookup.Duplicates(); len(dups) > 0 {
		log.WithField("ids", dups).Warn("duplicate report ids, the first of each is used")
	}
	tree := nav.Build(sections, index)

	registry := view.NewRegistry()
	added := renderers.Register(registry, renderers.Data{
		Store:  data,
		Index:  index,
		Lookup: lookup,
		Tree:   tree,
	}, renderers.Options{
		Disabled: cfg.Disabled,
		Style:    cfg.Style,
		Profile:  cfg.Profile,
	})

	dispatcher := view.NewDispatcher(TableFor(home, sections), registry, home, log)
	location := router.NewLocation("")
	pane := view.NewPane(cfg.Width)
	state := nav.NewState()
	r := router.New(router.Options{
		Location:   location,
		Tree:       tree,
		State:      state,
		Syncer:     nav.NewSyncer(log),
		Dispatcher: dispatcher,
		Target:     pane,
		Home:       home,
		Log:        log,
	})

	log.WithFields(logrus.Fields{
		"reports":   lookup.Len(),
		"nodes":     tree.Len(),
		"renderers": added,
	}).Info("viewer ready")

	c := *cfg
	c.Home, c.Sections, c.Store.Sources = home, sections, sources
	return &Viewer{
		Config:     c,
		Data:       data,
		Index:      index,
		Lookup:     lookup,
		Tree:       tree,
		State:      state,
		Registry:   registry,
		Dispatcher: dispatcher,
		Location:   location,
		Router:     r,
		Pane:       pane,
	}, nil
}

// TableFor extends the default dispatch table with rules for configured
// group sections it does not know: flat groups address reports by their
// second segment, the others by their third.
func TableFor(home string, sections []nav.Section) view.Table {
	table := view.DefaultTable(home)
	for _, s := range sections {
		if _, ok := table[s.Key]; ok || s.Kind != nav.KindGroup {
			continue
		}
		if s.Flat() {
			table[s.Key] = view.Rule{Renderer: view.ReportViewer, Param: view.ParamSubsectionAsID, Requires: view.RequireSubsection, Fallback: view.Overview}
		} else {
			table[s.Key] = view.Rule{Renderer: view.ReportViewer, Param: view.ParamID, Requires: view.RequireSubsectionAndID, Fallback: view.Overview}
		}
	}
	return table
}

// Start begins routing at path, or at home when path is empty.
func (v *Viewer) Start(path string) {
	if path = router.Normalize(path); path != "" {
		v.Location.Replace(path)
	}
	v.Router.Start()
}

// Visit navigates to path and returns the settled resolution. Visiting the
// current path renders it again.
func (v *Viewer) Visit(path string) router.Resolution {
	v.Router.Start()
	path = router.Normalize(path)
	if path == "" {
		path = route.Encode(route.Home(v.Config.Home))
	}
	if !v.Location.Set(path) {
		v.Router.Refresh()
	}
	return v.Router.Current()
}

// Reports lists reports, optionally limited to a category and subcategory,
// newest first.
func (v *Viewer) Reports(category, subcategory string) []record.Report {
	var out []record.Report
	for _, cat := range v.Index.Categories() {
		if category != "" && cat != category {
			continue
		}
		if subcategory == "" {
			out = append(out, v.Index.Flatten(cat)...)
			continue
		}
		out = append(out, v.Index.Reports(cat, subcategory)...)
	}
	catalog.SortNewestFirst(out)
	return out
}

// Link returns the location path that shows report id, or "" when no path
// reaches it. Reports missing from the tree are linked only when their
// category, subcategory and id form a route that dispatches to the report
// itself; a report without a subcategory in a grouped category has none.
func (v *Viewer) Link(id string) string {
	if n, ok := v.Tree.FindReport(id); ok {
		return v.Tree.Node(n).Route.String()
	}
	r, ok := v.Lookup.Get(id)
	if !ok {
		return ""
	}
	rt := route.Route{Section: r.Category, Subsection: r.Subcategory, ID: r.ID}
	dec := v.Dispatcher.Resolve(rt)
	if dec.Redirect != "" || dec.Fallback || dec.Params.ID != r.ID {
		return ""
	}
	return route.Encode(rt)
}
