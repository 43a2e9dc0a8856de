package tercet

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	ld "github.com/piprate/json-gold/ld"
)

// ParseContext reads the @context member of a JSON-LD document into a
// Context. The document may be a context object itself, an object carrying
// "@context", or an array of context objects merged in order. String
// entries become prefix mappings, "@vocab" becomes the default prefix and
// expanded term definitions contribute their "@id". Keys within one object
// are ordered lexically so the resulting context is deterministic.
//
// Remote context references (string entries in a context array) are not
// resolved; fetching documents is outside the core.
func ParseContext(data []byte) (*Context, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("tercet: parse context: %w", err)
	}
	if obj, ok := doc.(map[string]any); ok {
		if raw, found := obj["@context"]; found {
			doc = raw
		}
	}
	pairs, err := contextPairs(doc)
	if err != nil {
		return nil, err
	}
	return NewContext(pairs...), nil
}

func contextPairs(raw any) ([]Mapping, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []any:
		var pairs []Mapping
		for _, item := range v {
			sub, err := contextPairs(item)
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, sub...)
		}
		return pairs, nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		var pairs []Mapping
		for _, key := range keys {
			if key == "@vocab" {
				if vocab, ok := v[key].(string); ok {
					pairs = append(pairs, Mapping{Name: DefaultPrefix, Term: IRI{Value: vocab}})
				}
				continue
			}
			if strings.HasPrefix(key, "@") {
				continue
			}
			switch value := v[key].(type) {
			case string:
				pairs = append(pairs, Mapping{Name: Contraction(key), Term: contextTerm(value)})
			case map[string]any:
				if id, ok := value["@id"].(string); ok {
					pairs = append(pairs, Mapping{Name: Contraction(key), Term: contextTerm(id)})
				}
			}
		}
		return pairs, nil
	case string:
		return nil, fmt.Errorf("tercet: remote context %q not supported", v)
	}
	return nil, fmt.Errorf("tercet: unsupported @context value %T", raw)
}

// A context value that still contains a separator is itself a contraction
// to be resolved; absolute references map directly.
func contextTerm(value string) Term {
	if strings.Contains(value, "://") || strings.HasPrefix(value, "urn:") {
		return IRI{Value: value}
	}
	if strings.Contains(value, ":") {
		return Contraction(value)
	}
	return IRI{Value: value}
}

// ToDataset converts flat triples into a json-gold RDF dataset (default
// graph). When a context is supplied, contractions are expanded through it
// first; contractions that remain unresolved are carried as opaque IRIs.
func ToDataset(context *Context, triples []FlatTriple) (*ld.RDFDataset, error) {
	dataset := ld.NewRDFDataset()
	quads := make([]*ld.Quad, 0, len(triples))
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
		s, err := datasetNode(context, subject)
		if err != nil {
			return nil, err
		}
		p, err := datasetNode(context, predicate)
		if err != nil {
			return nil, err
		}
		o, err := datasetNode(context, object)
		if err != nil {
			return nil, err
		}
		quads = append(quads, ld.NewQuad(s, p, o, "@default"))
	}
	dataset.Graphs["@default"] = quads
	return dataset, nil
}

func datasetNode(context *Context, t Term) (ld.Node, error) {
	if context != nil {
		expanded, err := context.Expand(t)
		if err != nil {
			return nil, err
		}
		t = expanded
	}
	switch v := t.(type) {
	case IRI:
		return ld.NewIRI(v.Value), nil
	case BlankNode:
		return ld.NewBlankNode(v.String()), nil
	case Contraction:
		return ld.NewIRI(v.String()), nil
	case Literal:
		datatype := XSDString
		if v.Type != nil {
			resolved := v.Type
			if context != nil {
				expanded, err := context.Expand(v.Type)
				if err != nil {
					return nil, err
				}
				resolved = expanded
			}
			datatype = resolved.String()
		}
		if v.Lang != "" {
			datatype = RDFLangString
		}
		return ld.NewLiteral(v.Value, datatype, v.Lang), nil
	}
	return nil, fmt.Errorf("tercet: cannot convert %T to a dataset node", t)
}

// FromDataset converts a json-gold RDF dataset into flat triples. Named
// graphs are flattened; graphs are visited in sorted name order for
// determinism, quads in stored order.
func FromDataset(dataset *ld.RDFDataset) ([]FlatTriple, error) {
	if dataset == nil {
		return nil, nil
	}
	names := make([]string, 0, len(dataset.Graphs))
	for name := range dataset.Graphs {
		names = append(names, name)
	}
	sort.Strings(names)
	var out []FlatTriple
	for _, name := range names {
		for _, quad := range dataset.Graphs[name] {
			if quad == nil {
				continue
			}
			subject, err := termFromNode(quad.Subject)
			if err != nil {
				return nil, err
			}
			predicate, err := termFromNode(quad.Predicate)
			if err != nil {
				return nil, err
			}
			object, err := termFromNode(quad.Object)
			if err != nil {
				return nil, err
			}
			out = append(out, flatten(subject, predicate, object))
		}
	}
	return out, nil
}

func termFromNode(node ld.Node) (Term, error) {
	switch v := node.(type) {
	case *ld.IRI:
		return IRI{Value: v.Value}, nil
	case ld.IRI:
		return IRI{Value: v.Value}, nil
	case *ld.BlankNode:
		return BlankNode{ID: strings.TrimPrefix(v.Attribute, "_:")}, nil
	case ld.BlankNode:
		return BlankNode{ID: strings.TrimPrefix(v.Attribute, "_:")}, nil
	case *ld.Literal:
		return literalTerm(v.Value, v.Datatype, v.Language), nil
	case ld.Literal:
		return literalTerm(v.Value, v.Datatype, v.Language), nil
	case nil:
		return nil, fmt.Errorf("tercet: dataset quad missing a node: %w", ErrMalformedTriple)
	}
	return nil, fmt.Errorf("tercet: unsupported dataset node %T", node)
}

func literalTerm(value, datatype, language string) Term {
	if language != "" {
		return Literal{Value: value, Type: IRI{Value: RDFLangString}, Lang: language}
	}
	if datatype == "" || datatype == XSDString {
		return Literal{Value: value}
	}
	return Literal{Value: value, Type: IRI{Value: datatype}}
}

// Canonicalize renders flat triples as URDNA2015 canonical N-Quads.
// Contractions must already be expanded; unresolved short names are carried
// as opaque IRIs.
func Canonicalize(triples []FlatTriple) (string, error) {
	dataset, err := ToDataset(nil, triples)
	if err != nil {
		return "", err
	}
	api := ld.NewJsonLdApi()
	opts := ld.NewJsonLdOptions("")
	opts.Format = "application/n-quads"
	opts.Algorithm = ld.AlgorithmURDNA2015
	normalized, err := api.Normalize(dataset, opts)
	if err != nil {
		return "", err
	}
	value, ok := normalized.(string)
	if !ok {
		return "", fmt.Errorf("tercet: unexpected normalization result %T", normalized)
	}
	return value, nil
}
