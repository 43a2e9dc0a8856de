package tercet

import (
	"fmt"
	"strings"
)

// NewLiteral builds a literal from a raw value. With no qualifiers the
// datatype is inferred from the value's kind (see RegisterDatatype). A
// string qualifier starting with '@' sets the language tag; a Term
// qualifier sets the datatype explicitly; any other string qualifier is
// taken as a datatype name — an IRI when it looks absolute, a contraction
// otherwise.
//
//	NewLiteral("hello")                  // value-only, implicit xsd:string
//	NewLiteral("hi", "@en")              // language-tagged
//	NewLiteral("5", IRI{Value: XSDInteger})
//	NewLiteral("5", "xsd:integer")
func NewLiteral(value any, qualifiers ...any) (Literal, error) {
	var datatype Term
	lang := ""
	for _, q := range qualifiers {
		switch qv := q.(type) {
		case string:
			if strings.HasPrefix(qv, "@") {
				lang = strings.TrimPrefix(qv, "@")
			} else {
				datatype = datatypeTerm(qv)
			}
		case Term:
			datatype = qv
		default:
			return Literal{}, fmt.Errorf("tercet: literal qualifier %T: %w", q, ErrInvalidLiteralType)
		}
	}
	if datatype == nil && lang == "" {
		datatype = inferDatatype(value)
	}
	return TypedLiteral(formatValue(value), datatype, lang)
}

// TypedLiteral builds a literal from explicit parts. A non-empty lang wins:
// the datatype is forced to rdf:langString even when a conflicting datatype
// was supplied. The xsd:string datatype canonicalizes to the value-only
// form. A nil datatype without a language tag fails with
// ErrInvalidLiteralType.
func TypedLiteral(value string, datatype Term, lang string) (Literal, error) {
	if lang != "" {
		return Literal{Value: value, Type: IRI{Value: RDFLangString}, Lang: lang}, nil
	}
	if datatype == nil {
		return Literal{}, fmt.Errorf("tercet: literal %q: %w", value, ErrInvalidLiteralType)
	}
	if iri, ok := datatype.(IRI); ok && iri.Value == XSDString {
		return Literal{Value: value}, nil
	}
	return Literal{Value: value, Type: datatype}, nil
}

// A datatype written as a plain string is an IRI when absolute and a
// contraction otherwise.
func datatypeTerm(name string) Term {
	if strings.Contains(name, "://") || strings.HasPrefix(name, "urn:") {
		return IRI{Value: name}
	}
	return Contraction(name)
}
