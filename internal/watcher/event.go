package watcher

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// EventKind classifies a filesystem event
type EventKind int

const (
	// KindIgnored covers every operation the watcher does not act on
	KindIgnored EventKind = iota
	// KindCreated is an entry created in the watched directory, which is also
	// how editors that save through a rename show up
	KindCreated
	// KindModified is an in-place content write
	KindModified
)

// String returns the kind name used in log entries
func (k EventKind) String() string {
	switch k {
	case KindCreated:
		return "created"
	case KindModified:
		return "modified"
	default:
		return "ignored"
	}
}

// Event is a classified filesystem event. Name is the base name of the
// entry the event is about.
type Event struct {
	Name string
	Kind EventKind
}

// classify converts an fsnotify event, preferring Created when an event
// carries both operations.
func classify(ev fsnotify.Event) Event {
	kind := KindIgnored
	switch {
	case ev.Has(fsnotify.Create):
		kind = KindCreated
	case ev.Has(fsnotify.Write):
		kind = KindModified
	}
	return Event{Name: filepath.Base(ev.Name), Kind: kind}
}
