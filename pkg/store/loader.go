package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"tableflip.dev/medview/pkg/logging"
)

// Loader fetches a fixed list of collections in parallel.
type Loader struct {
	source Source
	names  []string
	log    logrus.FieldLogger
}

// NewLoader returns a loader for names (duplicates and blanks dropped, order
// kept).
func NewLoader(source Source, names []string, log logrus.FieldLogger) *Loader {
	seen := make(map[string]bool, len(names))
	ordered := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		ordered = append(ordered, name)
	}
	return &Loader{source: source, names: ordered, log: logging.Or(log)}
}

// Names returns the collections this loader requests.
func (l *Loader) Names() []string {
	return append([]string(nil), l.names...)
}

// LoadAll issues one fetch per collection concurrently and waits for all of
// them to settle. A failing collection is logged and left nil; it never
// aborts or delays the others. LoadAll only fails when the source itself is
// unusable.
func (l *Loader) LoadAll(ctx context.Context) (*AppData, error) {
	if l.source == nil {
		return nil, fmt.Errorf("%w: no source configured", ErrSourceUnavailable)
	}

	// Each goroutine owns slots[i]; nothing else is shared.
	slots := make([]Slot, len(l.names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range l.names {
		g.Go(func() error {
			slots[i] = l.fetch(gctx, name)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("store: load collections: %w", err)
	}

	if len(slots) > 0 && allUnavailable(slots) {
		return nil, fmt.Errorf("store: load collections: %w", slots[0].Err)
	}

	loaded := 0
	for _, s := range slots {
		if s.Status() == StatusOK {
			loaded++
		}
	}
	l.log.WithFields(logrus.Fields{
		"loaded": loaded,
		"failed": len(slots) - loaded,
	}).Info("collections settled")
	return newAppData(slots), nil
}

func (l *Loader) fetch(ctx context.Context, name string) Slot {
	log := l.log.WithField("collection", name)
	data, err := l.source.Fetch(ctx, name)
	if err == nil && !gjson.ValidBytes(data) {
		err = fmt.Errorf("store: %s: %w", name, ErrMalformed)
	}
	if err != nil {
		log.WithError(err).Warn("collection failed to load")
		return Slot{Name: name, Err: err}
	}
	log.WithField("bytes", len(data)).Debug("collection loaded")
	return Slot{Name: name, Payload: data}
}

func allUnavailable(slots []Slot) bool {
	for _, s := range slots {
		if !errors.Is(s.Err, ErrSourceUnavailable) {
			return false
		}
	}
	return true
}
