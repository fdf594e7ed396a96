package splitter

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/speedyk-005/chunklet-go/pkg/types"
)

// SplitFunc is the single-method contract a sentence splitter fulfills:
// it returns the sentences of text in original document order, each with
// recoverable byte offsets into text. A SplitFunc may fail; the pipeline
// surfaces the failure as a typed callback fault.
type SplitFunc func(text, lang string) ([]types.Sentence, error)

// Entry describes one registered splitter.
type Entry struct {
	Languages []string  // Language codes this splitter serves (e.g. "en", "pt-BR")
	Priority  int       // Higher wins; ties resolved by registration order
	Split     SplitFunc // The splitting capability
}

// Registry validation errors.
var (
	ErrFrozen      = errors.New("registry is frozen")
	ErrNilSplit    = errors.New("split function is required")
	ErrNoLanguages = errors.New("at least one language code is required")
)

// Registry maps language tags to splitters with priority dispatch.
// Lifecycle: NewRegistry -> Register... -> Freeze -> Resolve. A frozen
// registry is immutable and safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries []registered
	frozen  bool
}

type registered struct {
	Entry
	order int // registration order, for deterministic tie-breaks
}

// NewRegistry creates an empty, unfrozen registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a splitter entry. The entry is validated once here, not
// at each call site: a nil split function or empty language list is
// rejected immediately. Registering on a frozen registry is an error.
func (r *Registry) Register(e Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return ErrFrozen
	}
	if e.Split == nil {
		return ErrNilSplit
	}
	if len(e.Languages) == 0 {
		return ErrNoLanguages
	}

	langs := make([]string, len(e.Languages))
	for i, l := range e.Languages {
		l = strings.ToLower(strings.TrimSpace(l))
		if l == "" {
			return ErrNoLanguages
		}
		langs[i] = l
	}

	r.entries = append(r.entries, registered{
		Entry: Entry{Languages: langs, Priority: e.Priority, Split: e.Split},
		order: len(r.entries),
	})
	return nil
}

// Freeze makes the registry read-only for the duration of a run and
// fixes dispatch order. Freeze is idempotent.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return
	}
	sort.SliceStable(r.entries, func(i, j int) bool {
		if r.entries[i].Priority != r.entries[j].Priority {
			return r.entries[i].Priority > r.entries[j].Priority
		}
		return r.entries[i].order < r.entries[j].order
	})
	r.frozen = true
}

// Frozen reports whether the registry has been frozen.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Resolve returns the highest-priority splitter registered for lang,
// falling back to the built-in DefaultSplit when nothing matches. The
// pseudo-language "auto" and the empty tag always resolve to the default.
// Resolve never returns nil.
func (r *Registry) Resolve(lang string) SplitFunc {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" || lang == "auto" {
		return DefaultSplit
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	// Exact tag first, then the primary subtag ("pt-br" -> "pt").
	if fn := r.lookup(lang); fn != nil {
		return fn
	}
	if base, _, ok := strings.Cut(lang, "-"); ok {
		if fn := r.lookup(base); fn != nil {
			return fn
		}
	}
	return DefaultSplit
}

// lookup finds the first entry serving lang. Entries are kept in dispatch
// order once frozen; before freezing this is a linear best-effort scan.
func (r *Registry) lookup(lang string) SplitFunc {
	var best *registered
	for i := range r.entries {
		e := &r.entries[i]
		for _, l := range e.Languages {
			if l != lang {
				continue
			}
			if best == nil || e.Priority > best.Priority {
				best = e
			}
		}
	}
	if best == nil {
		return nil
	}
	return best.Split
}
