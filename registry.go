package coerce

import (
	"log/slog"
	"sync"

	"github.com/reoring/coerce/schema"
	"github.com/reoring/coerce/strategy"
)

// Registry maps declared enum and object names to their strategies.
//
// Populate it once, then share it read-only between Deserializers; lookups
// are safe for concurrent use. Registering a name twice logs a warning and
// the last registration wins.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]strategy.Strategy
	log     *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger used for registration warnings.
func WithLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{entries: map[string]strategy.Strategy{}, log: slog.Default()}
	for _, o := range opts {
		o(r)
	}
	return r
}

// RegisterEnum registers an enum schema under its title.
func (r *Registry) RegisterEnum(s *schema.Schema, aliases map[string]string) error {
	return r.registerEnum(s, "", aliases)
}

// RegisterObject registers an object schema under its title.
func (r *Registry) RegisterObject(s *schema.Schema, aliases map[string]string) error {
	return r.registerObject(s, "", aliases)
}

// RegisterDocument registers every titled enum and object in doc: the root,
// nested properties, items and branches, and all definitions. A definition
// without a title is registered under its key. aliases is keyed by name.
func (r *Registry) RegisterDocument(doc *schema.Schema, aliases map[string]map[string]string) error {
	if doc == nil {
		return &ConfigError{Op: "register", Msg: "nil document"}
	}
	w := &docWalker{reg: r, aliases: aliases, seen: map[*schema.Schema]bool{}}
	if err := w.walk(doc, ""); err != nil {
		return err
	}
	defs := doc.Definitions()
	for _, name := range sortedKeys(defs) {
		if err := w.walk(defs[name], name); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the strategy registered under name.
func (r *Registry) Lookup(name string) (strategy.Strategy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.entries[name]
	return s, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.entries)
}

func (r *Registry) registerEnum(s *schema.Schema, fallback string, aliases map[string]string) error {
	name, err := entityName(s, fallback, schema.KindEnum)
	if err != nil {
		return err
	}
	r.put(name, strategy.NewEnum(name, s.Enum, aliases))
	return nil
}

func (r *Registry) registerObject(s *schema.Schema, fallback string, aliases map[string]string) error {
	name, err := entityName(s, fallback, schema.KindObject)
	if err != nil {
		return err
	}
	r.put(name, strategy.NewObject(name, s.Properties, s.Required, aliases))
	return nil
}

func (r *Registry) put(name string, s strategy.Strategy) {
	r.mu.Lock()
	_, dup := r.entries[name]
	r.entries[name] = s
	r.mu.Unlock()
	if dup {
		r.log.Warn("duplicate registration, last one wins", "name", name, "strategy", s.Name())
	}
}

func entityName(s *schema.Schema, fallback string, want schema.Kind) (string, error) {
	if s == nil {
		return "", &ConfigError{Op: "register", Msg: "nil schema"}
	}
	if k := s.Kind(); k != want {
		return "", &ConfigError{Op: "register", Name: s.Title, Msg: "expected " + want.String() + " schema, got " + k.String()}
	}
	name := s.Title
	if name == "" {
		name = fallback
	}
	if name == "" {
		return "", &ConfigError{Op: "register", Msg: want.String() + " schema has no title"}
	}
	return name, nil
}

type docWalker struct {
	reg     *Registry
	aliases map[string]map[string]string
	seen    map[*schema.Schema]bool
}

// walk registers s when it is a titled (or keyed) enum or object and descends
// into properties, items and branches. Untitled inline entities are skipped
// here and reported when a Deserializer resolves them.
func (w *docWalker) walk(s *schema.Schema, key string) error {
	if s == nil || s.IsBool() || w.seen[s] {
		return nil
	}
	w.seen[s] = true
	name := s.Title
	if name == "" {
		name = key
	}
	switch s.Kind() {
	case schema.KindEnum:
		if name != "" {
			return w.reg.registerEnum(s, key, w.aliases[name])
		}
	case schema.KindObject:
		if name != "" {
			if err := w.reg.registerObject(s, key, w.aliases[name]); err != nil {
				return err
			}
		}
		for _, p := range s.Properties {
			if err := w.walk(p.Schema, ""); err != nil {
				return err
			}
		}
	case schema.KindArray:
		return w.walk(s.Items, "")
	case schema.KindUnion:
		if len(s.AnyOf) > 0 {
			key = ""
		}
		for _, b := range s.Branches() {
			if err := w.walk(b, key); err != nil {
				return err
			}
		}
	}
	return nil
}
