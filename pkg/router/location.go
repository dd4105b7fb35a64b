// Package router ties the location to the nav syncer and the dispatcher.
package router

import (
	"strings"
	"sync"

	"tableflip.dev/medview/pkg/route"
)

// Listener is called with the new path after every location change.
type Listener func(path string)

// Location is the current path plus the history that led to it. Setting
// the path it already holds is not a change.
type Location struct {
	mu        sync.Mutex
	history   []string
	listeners map[int]Listener
	next      int
}

// NewLocation returns a location at path; an empty path means no route yet.
func NewLocation(path string) *Location {
	l := &Location{listeners: map[int]Listener{}}
	if path = Normalize(path); path != "" {
		l.history = []string{path}
	}
	return l
}

// Normalize adds the leading "#" to a non-empty path.
func Normalize(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || strings.HasPrefix(path, route.Prefix) {
		return path
	}
	return route.Prefix + path
}

// Path returns the current path, or "".
func (l *Location) Path() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.history) == 0 {
		return ""
	}
	return l.history[len(l.history)-1]
}

// History returns every path visited, oldest first.
func (l *Location) History() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.history...)
}

// Set pushes path and notifies listeners. It reports whether the location
// changed.
func (l *Location) Set(path string) bool {
	path = Normalize(path)
	l.mu.Lock()
	if path == "" || (len(l.history) > 0 && l.history[len(l.history)-1] == path) {
		l.mu.Unlock()
		return false
	}
	l.history = append(l.history, path)
	listeners := l.snapshot()
	l.mu.Unlock()

	notify(listeners, path)
	return true
}

// Replace swaps the current path without notifying.
func (l *Location) Replace(path string) {
	path = Normalize(path)
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.history) == 0 {
		l.history = []string{path}
		return
	}
	l.history[len(l.history)-1] = path
}

// Back pops the current path and notifies listeners with the previous one.
// It reports false when there is nothing to go back to.
func (l *Location) Back() bool {
	l.mu.Lock()
	if len(l.history) < 2 {
		l.mu.Unlock()
		return false
	}
	l.history = l.history[:len(l.history)-1]
	path := l.history[len(l.history)-1]
	listeners := l.snapshot()
	l.mu.Unlock()

	notify(listeners, path)
	return true
}

// Subscribe registers fn and returns a function removing it.
func (l *Location) Subscribe(fn Listener) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := l.next
	l.next++
	l.listeners[id] = fn
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.listeners, id)
	}
}

// snapshot returns listeners in subscription order. Callers hold mu.
func (l *Location) snapshot() []Listener {
	out := make([]Listener, 0, len(l.listeners))
	for id := 0; id < l.next; id++ {
		if fn, ok := l.listeners[id]; ok {
			out = append(out, fn)
		}
	}
	return out
}

func notify(listeners []Listener, path string) {
	for _, fn := range listeners {
		fn(path)
	}
}
