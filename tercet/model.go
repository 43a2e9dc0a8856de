package tercet

import (
	"fmt"
	"strings"
)

// TermKind identifies the kinds of terms that appear in triples.
type TermKind uint8

const (
	// TermIRI represents a fully-qualified resource identifier.
	TermIRI TermKind = iota
	// TermBlankNode represents an anonymous, locally-scoped resource.
	TermBlankNode
	// TermContraction represents an abbreviated name resolvable via a Context.
	TermContraction
	// TermLiteral represents a data value.
	TermLiteral
)

// Term is a value that can appear in a triple.
type Term interface {
	Kind() TermKind
	String() string
}

// IRI is a fully-qualified resource identifier. The value is treated as an
// opaque string; no grammar validation is performed.
type IRI struct {
	// Value is the IRI string value.
	Value string
}

// Kind returns TermIRI.
func (i IRI) Kind() TermKind { return TermIRI }

// String returns the IRI value.
func (i IRI) String() string { return i.Value }

// BlankNode is an anonymous, locally-scoped resource identifier.
type BlankNode struct {
	// ID is the blank node identifier without the "_:" marker.
	ID string
}

// Kind returns TermBlankNode.
func (b BlankNode) Kind() TermKind { return TermBlankNode }

// String returns the blank node identifier prefixed with "_:".
func (b BlankNode) String() string { return "_:" + b.ID }

// Contraction is an abbreviated resource name: either a bare name resolved
// through a context's default prefix, or a "prefix:local" pair resolved
// through the prefix's mapping.
type Contraction string

// DefaultPrefix is the context key designating the default prefix used to
// expand bare names.
const DefaultPrefix Contraction = ""

// Kind returns TermContraction.
func (c Contraction) Kind() TermKind { return TermContraction }

// String returns the short name as written.
func (c Contraction) String() string { return string(c) }

// Split separates a "prefix:local" contraction at the first separator.
// ok is false for bare names.
func (c Contraction) Split() (prefix, local string, ok bool) {
	return strings.Cut(string(c), ":")
}

// Literal is a data value, as opposed to a resource reference. A nil Type
// implies the default string datatype (the canonical value-only form).
// Language-tagged literals carry Type = rdf:langString and a non-empty Lang.
type Literal struct {
	// Value is the lexical form of the literal.
	Value string
	// Type is the datatype IRI or Contraction, or nil for the implicit
	// string datatype.
	Type Term
	// Lang is the language tag, if any.
	Lang string
}

// Kind returns TermLiteral.
func (l Literal) Kind() TermKind { return TermLiteral }

// String returns a string representation of the literal.
func (l Literal) String() string {
	if l.Lang != "" {
		return fmt.Sprintf("%q@%s", l.Value, l.Lang)
	}
	if l.Type != nil {
		return fmt.Sprintf("%q^^<%s>", l.Value, l.Type.String())
	}
	return fmt.Sprintf("%q", l.Value)
}

// FlatTriple is the wire form of a statement: a 3-, 4-, or 5-element
// sequence. [S P O] carries a resource object (or, at arity 3 with a plain
// string element, a value-only literal), [S P value type] a typed literal,
// and [S P value type lang] a language-tagged literal. The length alone
// determines how elements beyond the predicate are interpreted.
type FlatTriple []any

// Subject returns the subject term, or nil if the slot is missing or not a
// Term.
func (t FlatTriple) Subject() Term {
	if len(t) > 0 {
		if term, ok := t[0].(Term); ok {
			return term
		}
	}
	return nil
}

// Predicate returns the predicate term, or nil if the slot is missing or
// not a Term.
func (t FlatTriple) Predicate() Term {
	if len(t) > 1 {
		if term, ok := t[1].(Term); ok {
			return term
		}
	}
	return nil
}

// IsLiteral reports whether the triple carries a literal object.
func (t FlatTriple) IsLiteral() bool {
	if len(t) > 3 {
		return true
	}
	if len(t) == 3 {
		_, ok := t[2].(string)
		return ok
	}
	return false
}

// Lang returns the language tag of a 5-element triple, or "".
func (t FlatTriple) Lang() string {
	if len(t) == 5 {
		if lang, ok := t[4].(string); ok {
			return lang
		}
	}
	return ""
}

// Datatype returns the datatype term of a 4- or 5-element triple, or nil.
func (t FlatTriple) Datatype() Term {
	if len(t) >= 4 {
		if term, ok := t[3].(Term); ok {
			return term
		}
	}
	return nil
}

// Object reconstructs the object term: a resource Term at arity 3, or a
// Literal built from the value/type/lang slots. Explicit string-datatype
// literals canonicalize to the value-only form.
func (t FlatTriple) Object() (Term, error) {
	switch len(t) {
	case 3:
		if term, ok := t[2].(Term); ok {
			return term, nil
		}
		if value, ok := t[2].(string); ok {
			return Literal{Value: value}, nil
		}
		return nil, fmt.Errorf("tercet: object slot holds %T: %w", t[2], ErrMalformedTriple)
	case 4:
		value, ok := t[2].(string)
		datatype := t.Datatype()
		if !ok || datatype == nil {
			return nil, fmt.Errorf("tercet: bad typed-literal slots: %w", ErrMalformedTriple)
		}
		return TypedLiteral(value, datatype, "")
	case 5:
		value, ok := t[2].(string)
		datatype := t.Datatype()
		lang, langOK := t[4].(string)
		if !ok || datatype == nil || !langOK || lang == "" {
			return nil, fmt.Errorf("tercet: bad language-literal slots: %w", ErrMalformedTriple)
		}
		return TypedLiteral(value, datatype, lang)
	}
	return nil, fmt.Errorf("tercet: arity %d: %w", len(t), ErrMalformedTriple)
}
