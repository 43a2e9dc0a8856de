// Package tercet converts between compact nested record data and flat
// RDF-style triples, and between abbreviated identifiers ("contractions")
// and fully-qualified IRIs, driven by a caller-supplied prefix mapping
// (a Context).
//
// The package has three tightly coupled parts:
//   - Resolve: Context.Expand/Contract turn short prefixed names into IRIs
//     and back, with longest-prefix matching and cycle-safe resolution.
//   - Triplify: Triplify/TriplifyAll turn (subject, record) pairs into flat
//     triples, deciding per object whether it is a resource reference or a
//     literal value.
//   - Group: Subjectify folds a flat triple stream into a subject →
//     predicate → object-set map, and Squash flattens it back losslessly.
//
// A FlatTriple is a 3-, 4-, or 5-element sequence: [S P O] for resource
// objects, [S P value type] for typed literals, and [S P value type lang]
// for language-tagged literals. The sequence length alone determines how
// elements beyond the predicate are read.
//
// Example (triplifying a record):
//
//	ctx := tercet.NewContext(
//	    tercet.Mapping{Name: "ex", Term: tercet.IRI{Value: "http://example.org/"}},
//	)
//	record := tercet.Record{
//	    {Predicate: tercet.Contraction("ex:name"), Object: "Alice"},
//	    {Predicate: tercet.Contraction("ex:age"), Object: 42},
//	}
//	triples, err := tercet.Triplify(nil, tercet.Contraction("ex:alice"), record)
//	if err != nil {
//	    // handle error
//	}
//	expanded, err := ctx.ExpandAll(triples)
//
// All functions are pure: contexts and resource maps are never mutated, and
// every call either returns a complete result or fails with an error that
// Code classifies programmatically. The only shared state is a
// concurrency-safe cache of tables derived from a Context, which is safe
// because contexts are immutable once constructed.
package tercet
