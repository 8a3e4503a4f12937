package listview

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
)

// FetchFunc retrieves the full list for a resource.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// LoadedMsg carries the result of one fetch back into the update loop. Items is
// never nil; on failure it is empty and Failed is set.
type LoadedMsg[T any] struct {
	loaderID   uint64
	generation uint64

	Items  []T
	Failed bool
	Err    error
}

var loaderIDs atomic.Uint64

// Loader fetches a list resource once per mount (or per explicit Reload) and
// drops results that arrive after the owning view went away.
type Loader[T any] struct {
	name   string
	id     uint64
	fetch  FetchFunc[T]
	keep   func(T) bool
	logger *slog.Logger

	generation uint64
	mounted    bool
	loading    bool
	failed     bool
	err        error
}

// NewLoader creates a loader. keep is an optional client-side row predicate.
func NewLoader[T any](name string, fetch FetchFunc[T], keep func(T) bool, logger *slog.Logger) *Loader[T] {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Loader[T]{
		name:   name,
		id:     loaderIDs.Add(1),
		fetch:  fetch,
		keep:   keep,
		logger: logger,
	}
}

// Mount starts the first fetch for a newly shown view.
func (l *Loader[T]) Mount() tea.Cmd {
	l.mounted = true
	return l.Reload()
}

// Unmount marks the view as gone; any fetch still in flight will be ignored.
func (l *Loader[T]) Unmount() {
	l.mounted = false
	l.generation++
	l.loading = false
}

// SetFilter replaces the row predicate, e.g. when the target mobile number
// changes, and refetches.
func (l *Loader[T]) SetFilter(keep func(T) bool) tea.Cmd {
	l.keep = keep
	if !l.mounted {
		return nil
	}
	return l.Reload()
}

// Reload issues a new fetch. Results of earlier fetches are discarded.
func (l *Loader[T]) Reload() tea.Cmd {
	l.generation++
	l.loading = true

	gen := l.generation
	id := l.id
	fetch := l.fetch
	keep := l.keep
	logger := l.logger
	name := l.name

	logger.Debug("list load started", "list", name)
	return func() tea.Msg {
		items, err := fetch(context.Background())
		if err != nil {
			logger.Warn("list load failed", "list", name, "err", err)
			return LoadedMsg[T]{loaderID: id, generation: gen, Items: []T{}, Failed: true, Err: err}
		}
		out := make([]T, 0, len(items))
		for _, it := range items {
			if keep == nil || keep(it) {
				out = append(out, it)
			}
		}
		logger.Debug("list load finished", "list", name, "rows", len(out))
		return LoadedMsg[T]{loaderID: id, generation: gen, Items: out}
	}
}

// Accept applies msg to the loader state. It returns false when msg belongs to
// another loader, a superseded fetch, or an unmounted view; the caller must then
// ignore it.
func (l *Loader[T]) Accept(msg LoadedMsg[T]) bool {
	if msg.loaderID != l.id || msg.generation != l.generation || !l.mounted {
		return false
	}
	l.loading = false
	l.failed = msg.Failed
	l.err = msg.Err
	return true
}

func (l *Loader[T]) Loading() bool { return l.loading }

func (l *Loader[T]) Failed() bool { return l.failed }

func (l *Loader[T]) Err() error { return l.err }
