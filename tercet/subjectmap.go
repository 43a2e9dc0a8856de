package tercet

import "fmt"

// SubjectMap groups triples as subject → predicate → set of objects.
// Object sets collapse duplicates; traversal follows insertion order, so
// flattening the same map always produces the same sequence. Empty
// predicate or object entries are never stored.
type SubjectMap struct {
	order   []Term
	entries map[Term]*predicateSet
}

type predicateSet struct {
	order   []Term
	objects map[Term]*objectSet
}

type objectSet struct {
	order []Term
	seen  map[Term]struct{}
}

// NewSubjectMap returns an empty subject map.
func NewSubjectMap() *SubjectMap {
	return &SubjectMap{entries: make(map[Term]*predicateSet)}
}

// Add inserts an object under (subject, predicate). Duplicate inserts are
// no-ops.
func (m *SubjectMap) Add(subject, predicate, object Term) {
	ps, ok := m.entries[subject]
	if !ok {
		ps = &predicateSet{objects: make(map[Term]*objectSet)}
		m.entries[subject] = ps
		m.order = append(m.order, subject)
	}
	os, ok := ps.objects[predicate]
	if !ok {
		os = &objectSet{seen: make(map[Term]struct{})}
		ps.objects[predicate] = os
		ps.order = append(ps.order, predicate)
	}
	if _, dup := os.seen[object]; dup {
		return
	}
	os.seen[object] = struct{}{}
	os.order = append(os.order, object)
}

// Subjects returns the subjects in insertion order.
func (m *SubjectMap) Subjects() []Term {
	return append([]Term(nil), m.order...)
}

// Predicates returns the predicates of a subject in insertion order.
func (m *SubjectMap) Predicates(subject Term) []Term {
	ps, ok := m.entries[subject]
	if !ok {
		return nil
	}
	return append([]Term(nil), ps.order...)
}

// Objects returns the object set of (subject, predicate) in insertion
// order.
func (m *SubjectMap) Objects(subject, predicate Term) []Term {
	ps, ok := m.entries[subject]
	if !ok {
		return nil
	}
	os, ok := ps.objects[predicate]
	if !ok {
		return nil
	}
	return append([]Term(nil), os.order...)
}

// Len returns the number of distinct triples.
func (m *SubjectMap) Len() int {
	n := 0
	for _, ps := range m.entries {
		for _, os := range ps.objects {
			n += len(os.order)
		}
	}
	return n
}

// Equal compares two subject maps as set-valued nested mappings: subject,
// predicate and object order is ignored, object sets are compared as sets.
func (m *SubjectMap) Equal(other *SubjectMap) bool {
	if m == nil {
		return other == nil || other.Len() == 0
	}
	if other == nil {
		return m.Len() == 0
	}
	if len(m.entries) != len(other.entries) {
		return false
	}
	for subject, ps := range m.entries {
		ops, ok := other.entries[subject]
		if !ok || len(ps.objects) != len(ops.objects) {
			return false
		}
		for predicate, os := range ps.objects {
			oos, ok := ops.objects[predicate]
			if !ok || len(os.seen) != len(oos.seen) {
				return false
			}
			for object := range os.seen {
				if _, ok := oos.seen[object]; !ok {
					return false
				}
			}
		}
	}
	return true
}

// Subjectify folds a flat triple sequence into a subject map. Objects are
// reconstructed from each triple's arity; duplicate triples collapse. An
// empty input yields an empty map.
func Subjectify(triples []FlatTriple) (*SubjectMap, error) {
	m := NewSubjectMap()
	for i, t := range triples {
		subject := t.Subject()
		predicate := t.Predicate()
		if subject == nil || predicate == nil {
			return nil, fmt.Errorf("tercet: triple %d: %w", i, ErrMalformedTriple)
		}
		object, err := t.Object()
		if err != nil {
			return nil, fmt.Errorf("tercet: triple %d: %w", i, err)
		}
		m.Add(subject, predicate, object)
	}
	return m, nil
}

// Squash flattens a subject map back into triples, traversing subjects,
// predicates and objects in their natural stored order.
func Squash(m *SubjectMap) []FlatTriple {
	if m == nil {
		return nil
	}
	var out []FlatTriple
	for _, subject := range m.order {
		out = append(out, SquashPredicates(m, subject)...)
	}
	return out
}

// SquashPredicates flattens all triples of one subject.
func SquashPredicates(m *SubjectMap, subject Term) []FlatTriple {
	if m == nil {
		return nil
	}
	ps, ok := m.entries[subject]
	if !ok {
		return nil
	}
	var out []FlatTriple
	for _, predicate := range ps.order {
		out = append(out, SquashObjects(m, subject, predicate)...)
	}
	return out
}

// SquashObjects flattens the object set of one (subject, predicate) pair.
// Trailing-field presence is the only encoding of literal vs. resource:
// value-only literals emit 3 elements with a plain string object, typed
// literals 4, language-tagged literals 5.
func SquashObjects(m *SubjectMap, subject, predicate Term) []FlatTriple {
	if m == nil {
		return nil
	}
	ps, ok := m.entries[subject]
	if !ok {
		return nil
	}
	os, ok := ps.objects[predicate]
	if !ok {
		return nil
	}
	out := make([]FlatTriple, 0, len(os.order))
	for _, object := range os.order {
		lit, isLiteral := object.(Literal)
		if !isLiteral {
			out = append(out, FlatTriple{subject, predicate, object})
			continue
		}
		switch {
		case lit.Lang != "":
			datatype := lit.Type
			if datatype == nil {
				datatype = IRI{Value: RDFLangString}
			}
			out = append(out, FlatTriple{subject, predicate, lit.Value, datatype, lit.Lang})
		case lit.Type != nil:
			out = append(out, FlatTriple{subject, predicate, lit.Value, lit.Type})
		default:
			out = append(out, FlatTriple{subject, predicate, lit.Value})
		}
	}
	return out
}
