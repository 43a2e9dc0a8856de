package tercet

import (
	"fmt"
	"reflect"
)

// ResourceMap maps raw values to the identifiers they denote. It is the
// single disambiguation point deciding "this value is a resource reference,
// not a literal". Callers supply it; the triplifier never mutates it.
type ResourceMap map[any]Term

// Field is one predicate/object entry of a record. The object may be a
// Term or any raw value.
type Field struct {
	Predicate Term
	Object    any
}

// Record is an ordered sequence of fields. Order is preserved through
// triplification (Go maps do not preserve iteration order).
type Record []Field

// Get returns the object of the first field with the given predicate.
func (r Record) Get(predicate Term) (any, bool) {
	for _, f := range r {
		if f.Predicate == predicate {
			return f.Object, true
		}
	}
	return nil, false
}

// Objectify resolves a raw value into an object term. Terms pass through
// unchanged — callers have already decided they are references. A value
// found in the resource map resolves to its mapped identifier. Anything
// else becomes a literal via NewLiteral.
func Objectify(resources ResourceMap, value any) (Term, error) {
	if t, ok := value.(Term); ok {
		return t, nil
	}
	if resources != nil && comparableValue(value) {
		if t, ok := resources[value]; ok {
			return t, nil
		}
	}
	return NewLiteral(value)
}

// Raw values that cannot be map keys skip the resource-map probe.
func comparableValue(value any) bool {
	if value == nil {
		return false
	}
	return reflect.TypeOf(value).Comparable()
}

// TriplifyOne emits the flat triple for a single (subject, predicate,
// object) entry. When resource-map aliasing resolves the object to the
// subject itself, the object is re-objectified without the map so that the
// aliasing alone cannot fabricate a reflexive statement. If the object
// still equals the subject after that, the triple is emitted as resolved.
//
// Value-only literals are emitted as explicit xsd:string 4-tuples; a bare
// literal without a datatype is never produced.
func TriplifyOne(resources ResourceMap, subject, predicate Term, object any) (FlatTriple, error) {
	o, err := Objectify(resources, object)
	if err != nil {
		return nil, err
	}
	if o == subject {
		o, err = Objectify(nil, object)
		if err != nil {
			return nil, err
		}
	}
	return flatten(subject, predicate, o), nil
}

// flatten picks the wire shape matching the object's resolved kind:
// 5 elements when language-tagged, 4 for typed literals, 3 for resources.
func flatten(subject, predicate, object Term) FlatTriple {
	lit, ok := object.(Literal)
	if !ok {
		return FlatTriple{subject, predicate, object}
	}
	datatype := lit.Type
	if datatype == nil {
		datatype = IRI{Value: XSDString}
	}
	if lit.Lang != "" {
		return FlatTriple{subject, predicate, lit.Value, datatype, lit.Lang}
	}
	return FlatTriple{subject, predicate, lit.Value, datatype}
}

// Triplify emits one flat triple per record field, in field order.
func Triplify(resources ResourceMap, subject Term, record Record) ([]FlatTriple, error) {
	triples := make([]FlatTriple, 0, len(record))
	for _, field := range record {
		t, err := TriplifyOne(resources, subject, field.Predicate, field.Object)
		if err != nil {
			return nil, err
		}
		triples = append(triples, t)
	}
	return triples, nil
}

// SubjectSelector chooses the subject for each record passed to
// TriplifyAll. The three strategies — an explicit subject list, a record
// field, or a function — are constructed with SubjectList, SubjectField and
// SubjectFunc; no other shape exists.
type SubjectSelector interface {
	subject(resources ResourceMap, index int, record Record) (Term, error)
}

// SubjectList selects subjects from a parallel sequence, one per record.
func SubjectList(subjects ...Term) SubjectSelector {
	return subjectList(subjects)
}

type subjectList []Term

func (s subjectList) subject(_ ResourceMap, index int, _ Record) (Term, error) {
	if index >= len(s) || s[index] == nil {
		return nil, fmt.Errorf("tercet: no subject for record %d: %w", index, ErrInvalidSubjectSelector)
	}
	return s[index], nil
}

// SubjectField selects each record's subject from the named field: the
// field's value is looked up in the resource map, or used directly when it
// is already a term.
func SubjectField(predicate Term) SubjectSelector {
	return subjectField{predicate: predicate}
}

type subjectField struct {
	predicate Term
}

func (s subjectField) subject(resources ResourceMap, index int, record Record) (Term, error) {
	value, ok := record.Get(s.predicate)
	if !ok {
		return nil, fmt.Errorf("tercet: record %d has no field %v: %w", index, s.predicate, ErrInvalidSubjectSelector)
	}
	if resources != nil && comparableValue(value) {
		if t, ok := resources[value]; ok {
			return t, nil
		}
	}
	if t, ok := value.(Term); ok {
		return t, nil
	}
	return nil, fmt.Errorf("tercet: record %d field %v does not name a resource: %w", index, s.predicate, ErrInvalidSubjectSelector)
}

// SubjectFunc selects subjects by applying a function to each record.
func SubjectFunc(fn func(Record) (Term, error)) SubjectSelector {
	return subjectFunc(fn)
}

type subjectFunc func(Record) (Term, error)

func (s subjectFunc) subject(_ ResourceMap, index int, record Record) (Term, error) {
	if s == nil {
		return nil, fmt.Errorf("tercet: nil subject function: %w", ErrInvalidSubjectSelector)
	}
	t, err := s(record)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("tercet: subject function returned nil for record %d: %w", index, ErrInvalidSubjectSelector)
	}
	return t, nil
}

// TriplifyAll triplifies a sequence of records, concatenating the
// per-record triples in record order. A nil selector or a subject list
// whose length differs from the record count fails with
// ErrInvalidSubjectSelector.
func TriplifyAll(resources ResourceMap, selector SubjectSelector, records []Record) ([]FlatTriple, error) {
	if selector == nil {
		return nil, fmt.Errorf("tercet: nil subject selector: %w", ErrInvalidSubjectSelector)
	}
	if list, ok := selector.(subjectList); ok && len(list) != len(records) {
		return nil, fmt.Errorf("tercet: %d subjects for %d records: %w", len(list), len(records), ErrInvalidSubjectSelector)
	}
	var out []FlatTriple
	for i, record := range records {
		subject, err := selector.subject(resources, i, record)
		if err != nil {
			return nil, err
		}
		triples, err := Triplify(resources, subject, record)
		if err != nil {
			return nil, err
		}
		out = append(out, triples...)
	}
	return out, nil
}
