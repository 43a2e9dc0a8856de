package tercet

import (
	"sort"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Mapping is a single context entry binding a short name to a Contraction
// or an IRI. The entry with Name == DefaultPrefix designates the default
// prefix used to expand bare names.
type Mapping struct {
	Name Contraction
	Term Term
}

// PrefixBinding pairs a fully expanded namespace IRI with the contraction
// bound to it.
type PrefixBinding struct {
	IRI  string
	Name Contraction
}

// Context is an immutable, insertion-ordered mapping from contractions to
// contractions or IRIs. It drives both expansion of short names into IRIs
// and contraction of IRIs back into short names.
//
// Tables derived from a context (ReverseContext, SortPrefixes) are computed
// once and shared across structurally equal contexts, so Contract and
// Prefixed stay cheap when invoked once per object over large triple
// streams.
type Context struct {
	pairs []Mapping
	index map[Contraction]Term

	once   sync.Once
	tables *derivedTables
	fp     uint64
}

// NewContext builds a context from ordered entries. When a name is bound
// more than once the newest binding wins and takes the later position.
func NewContext(pairs ...Mapping) *Context {
	c := &Context{index: make(map[Contraction]Term, len(pairs))}
	for _, m := range pairs {
		if _, dup := c.index[m.Name]; dup {
			for i := range c.pairs {
				if c.pairs[i].Name == m.Name {
					c.pairs = append(c.pairs[:i], c.pairs[i+1:]...)
					break
				}
			}
		}
		c.pairs = append(c.pairs, m)
		c.index[m.Name] = m.Term
	}
	return c
}

// ContextFromMap builds a context from an unordered map. Entries are
// ordered by name so that derived tables are deterministic.
func ContextFromMap(entries map[Contraction]Term) *Context {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, string(name))
	}
	sort.Strings(names)
	pairs := make([]Mapping, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, Mapping{Name: Contraction(name), Term: entries[Contraction(name)]})
	}
	return NewContext(pairs...)
}

// Len returns the number of entries.
func (c *Context) Len() int { return len(c.pairs) }

// Mappings returns a copy of the entries in order.
func (c *Context) Mappings() []Mapping {
	return append([]Mapping(nil), c.pairs...)
}

// Lookup returns the term bound to a name.
func (c *Context) Lookup(name Contraction) (Term, bool) {
	t, ok := c.index[name]
	return t, ok
}

// The three literal-record field markers are never resolvable identifiers
// and always expand to themselves.
func isReservedToken(name Contraction) bool {
	switch name {
	case "value", "type", "lang":
		return true
	}
	return false
}

// Expand resolves a contraction against the context. Non-contraction terms
// and the reserved tokens "value", "type" and "lang" pass through
// unchanged. Exact-key bindings are followed recursively, "prefix:local"
// names concatenate the prefix's unexpanded mapped string with the local
// part, and bare names concatenate the expanded default-prefix entry with
// the name. Names that cannot be resolved pass through unchanged.
//
// A context cycle fails with a *CycleError; the unresolved input is
// returned alongside the error as a documented fallback for this one case.
func (c *Context) Expand(t Term) (Term, error) {
	name, ok := t.(Contraction)
	if !ok {
		return t, nil
	}
	return c.expandName(name, nil, nil)
}

func (c *Context) expandName(name Contraction, seen map[Contraction]struct{}, path []Contraction) (Term, error) {
	if isReservedToken(name) {
		return name, nil
	}
	if _, dup := seen[name]; dup {
		return name, &CycleError{Name: name, Path: path}
	}
	if mapped, ok := c.index[name]; ok {
		next, isContraction := mapped.(Contraction)
		if !isContraction {
			if mapped == nil {
				return name, nil
			}
			return mapped, nil
		}
		if seen == nil {
			seen = make(map[Contraction]struct{})
		}
		seen[name] = struct{}{}
		return c.expandName(next, seen, append(path, name))
	}
	if prefix, local, ok := name.Split(); ok {
		if mapped, ok := c.index[Contraction(prefix)]; ok && mapped != nil {
			return IRI{Value: mapped.String() + local}, nil
		}
		return name, nil
	}
	base, ok := c.index[DefaultPrefix]
	if !ok || base == nil {
		return name, nil
	}
	if next, isContraction := base.(Contraction); isContraction {
		if seen == nil {
			seen = make(map[Contraction]struct{})
		}
		if _, dup := seen[DefaultPrefix]; dup {
			return name, &CycleError{Name: DefaultPrefix, Path: path}
		}
		seen[DefaultPrefix] = struct{}{}
		expanded, err := c.expandName(next, seen, append(path, DefaultPrefix))
		if err != nil {
			return name, err
		}
		base = expanded
	}
	return IRI{Value: base.String() + string(name)}, nil
}

// ExpandAll applies Expand to every contraction leaf in an arbitrarily
// nested structure, rebuilding containers with their shape preserved.
// Supported containers are slices, maps, Records, Fields and FlatTriples;
// a Literal's datatype counts as a leaf. Unknown values pass through
// unchanged. On failure the original value is returned with the error.
func (c *Context) ExpandAll(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case Contraction:
		return c.Expand(v)
	case Literal:
		if v.Type == nil {
			return v, nil
		}
		expanded, err := c.Expand(v.Type)
		if err != nil {
			return value, err
		}
		v.Type = expanded
		return v, nil
	case IRI, BlankNode:
		return v, nil
	case Field:
		predicate, err := c.Expand(v.Predicate)
		if err != nil {
			return value, err
		}
		object, err := c.ExpandAll(v.Object)
		if err != nil {
			return value, err
		}
		return Field{Predicate: predicate, Object: object}, nil
	case Record:
		out := make(Record, len(v))
		for i, field := range v {
			expanded, err := c.ExpandAll(field)
			if err != nil {
				return value, err
			}
			out[i] = expanded.(Field)
		}
		return out, nil
	case FlatTriple:
		out := make(FlatTriple, len(v))
		for i, elem := range v {
			expanded, err := c.ExpandAll(elem)
			if err != nil {
				return value, err
			}
			out[i] = expanded
		}
		return out, nil
	case []FlatTriple:
		out := make([]FlatTriple, len(v))
		for i, triple := range v {
			expanded, err := c.ExpandAll(triple)
			if err != nil {
				return value, err
			}
			out[i] = expanded.(FlatTriple)
		}
		return out, nil
	case []Term:
		out := make([]Term, len(v))
		for i, term := range v {
			expanded, err := c.ExpandAll(term)
			if err != nil {
				return value, err
			}
			out[i], _ = expanded.(Term)
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			expanded, err := c.ExpandAll(elem)
			if err != nil {
				return value, err
			}
			out[i] = expanded
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, elem := range v {
			expanded, err := c.ExpandAll(elem)
			if err != nil {
				return value, err
			}
			out[key] = expanded
		}
		return out, nil
	case map[any]any:
		out := make(map[any]any, len(v))
		for key, elem := range v {
			expandedKey, err := c.ExpandAll(key)
			if err != nil {
				return value, err
			}
			expanded, err := c.ExpandAll(elem)
			if err != nil {
				return value, err
			}
			out[expandedKey] = expanded
		}
		return out, nil
	}
	return value, nil
}

// ReverseContext returns the expanded-IRI → contraction table. Later
// entries overwrite earlier ones on collision. Entries that do not expand
// to an IRI and the default-prefix entry are omitted.
func (c *Context) ReverseContext() map[string]Contraction {
	tables := c.derived()
	out := make(map[string]Contraction, len(tables.reverse))
	for iri, name := range tables.reverse {
		out[iri] = name
	}
	return out
}

// SortPrefixes returns (expanded IRI, contraction) pairs ordered by IRI
// length descending, ties broken by IRI then name. The ordering guarantees
// that Prefixed always matches the most specific namespace first.
func (c *Context) SortPrefixes() []PrefixBinding {
	tables := c.derived()
	return append([]PrefixBinding(nil), tables.prefixes...)
}

// Prefixed contracts an IRI against the longest matching namespace,
// substituting the matched text with "name:". A default-prefix match
// yields a bare name. ok is false when no namespace matches.
func (c *Context) Prefixed(iri string) (Contraction, bool) {
	for _, binding := range c.derived().prefixes {
		if binding.IRI == "" || !strings.HasPrefix(iri, binding.IRI) {
			continue
		}
		local := iri[len(binding.IRI):]
		if binding.Name == DefaultPrefix {
			return Contraction(local), true
		}
		return Contraction(string(binding.Name) + ":" + local), true
	}
	return "", false
}

// Contract abbreviates an IRI term: an exact reverse-lookup hit wins, then
// the longest prefix match, then the input passes through unchanged.
// Non-IRI terms pass through unchanged.
func (c *Context) Contract(t Term) Term {
	iri, ok := t.(IRI)
	if !ok {
		return t
	}
	if name, ok := c.derived().reverse[iri.Value]; ok {
		return name
	}
	if name, ok := c.Prefixed(iri.Value); ok {
		return name
	}
	return t
}

// Fingerprint returns a structural hash of the context's entries. Equal
// contexts have equal fingerprints; the derived-table cache is keyed by it.
func (c *Context) Fingerprint() uint64 {
	c.derived()
	return c.fp
}

type derivedTables struct {
	canon    string
	reverse  map[string]Contraction
	prefixes []PrefixBinding
}

// derivedCache shares derived tables across structurally equal contexts.
// Contexts are immutable, so entries never need invalidation.
var derivedCache sync.Map // uint64 -> *derivedTables

func (c *Context) derived() *derivedTables {
	c.once.Do(func() {
		canon := c.canonical()
		c.fp = xxhash.Sum64String(canon)
		if cached, ok := derivedCache.Load(c.fp); ok {
			if tables := cached.(*derivedTables); tables.canon == canon {
				c.tables = tables
				return
			}
			// Fingerprint alias: compute locally, leave the cache alone.
			c.tables = c.buildDerived(canon)
			return
		}
		tables := c.buildDerived(canon)
		if cached, loaded := derivedCache.LoadOrStore(c.fp, tables); loaded {
			if prev := cached.(*derivedTables); prev.canon == canon {
				tables = prev
			}
		}
		c.tables = tables
	})
	return c.tables
}

func (c *Context) canonical() string {
	var b strings.Builder
	for _, m := range c.pairs {
		b.WriteString(string(m.Name))
		b.WriteByte(0)
		if m.Term != nil {
			b.WriteByte(byte('0') + byte(m.Term.Kind()))
			b.WriteString(m.Term.String())
		}
		b.WriteByte(0)
	}
	return b.String()
}

func (c *Context) buildDerived(canon string) *derivedTables {
	tables := &derivedTables{
		canon:   canon,
		reverse: make(map[string]Contraction, len(c.pairs)),
	}
	for _, m := range c.pairs {
		var iri string
		switch t := m.Term.(type) {
		case IRI:
			iri = t.Value
		case Contraction:
			expanded, err := c.expandName(t, nil, nil)
			if err != nil {
				continue
			}
			resolved, ok := expanded.(IRI)
			if !ok {
				continue
			}
			iri = resolved.Value
		default:
			continue
		}
		tables.prefixes = append(tables.prefixes, PrefixBinding{IRI: iri, Name: m.Name})
		if m.Name != DefaultPrefix {
			tables.reverse[iri] = m.Name
		}
	}
	sort.SliceStable(tables.prefixes, func(i, j int) bool {
		a, b := tables.prefixes[i], tables.prefixes[j]
		if len(a.IRI) != len(b.IRI) {
			return len(a.IRI) > len(b.IRI)
		}
		if a.IRI != b.IRI {
			return a.IRI < b.IRI
		}
		return a.Name < b.Name
	})
	return tables
}
