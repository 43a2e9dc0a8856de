package tercet

import (
	"errors"
	"testing"
)

func exampleContext() *Context {
	return NewContext(
		Mapping{Name: "ex", Term: IRI{Value: "http://example.org/"}},
		Mapping{Name: "foaf", Term: IRI{Value: "http://xmlns.com/foaf/0.1/"}},
		Mapping{Name: DefaultPrefix, Term: IRI{Value: "http://default.org/"}},
	)
}

func TestExpandPrefixedName(t *testing.T) {
	ctx := exampleContext()
	got, err := ctx.Expand(Contraction("ex:alice"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := IRI{Value: "http://example.org/alice"}
	if got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestExpandBareNameUsesDefaultPrefix(t *testing.T) {
	ctx := exampleContext()
	got, err := ctx.Expand(Contraction("thing"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := IRI{Value: "http://default.org/thing"}
	if got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestExpandExactKeyChain(t *testing.T) {
	ctx := NewContext(
		Mapping{Name: "a", Term: Contraction("b")},
		Mapping{Name: "b", Term: Contraction("c")},
		Mapping{Name: "c", Term: IRI{Value: "http://chain.org/"}},
	)
	got, err := ctx.Expand(Contraction("a"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if (got != IRI{Value: "http://chain.org/"}) {
		t.Errorf("chain did not resolve, got %v", got)
	}
}

func TestExpandChainedDefaultPrefix(t *testing.T) {
	ctx := NewContext(
		Mapping{Name: DefaultPrefix, Term: Contraction("base")},
		Mapping{Name: "base", Term: IRI{Value: "http://base.org/"}},
	)
	got, err := ctx.Expand(Contraction("x"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if (got != IRI{Value: "http://base.org/x"}) {
		t.Errorf("expected http://base.org/x, got %v", got)
	}
}

func TestExpandPassthrough(t *testing.T) {
	ctx := exampleContext()
	cases := []struct {
		name  string
		input Term
	}{
		{"iri", IRI{Value: "http://opaque.org/x"}},
		{"blank node", BlankNode{ID: "b0"}},
		{"literal", Literal{Value: "plain"}},
		{"unknown prefix", Contraction("zz:x")},
		{"reserved value", Contraction("value")},
		{"reserved type", Contraction("type")},
		{"reserved lang", Contraction("lang")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ctx.Expand(tc.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.input {
				t.Errorf("expected %v unchanged, got %v", tc.input, got)
			}
		})
	}
}

func TestExpandReservedTokensWinOverBindings(t *testing.T) {
	ctx := NewContext(Mapping{Name: "value", Term: IRI{Value: "http://never.org/"}})
	got, err := ctx.Expand(Contraction("value"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != Contraction("value") {
		t.Errorf("reserved token was resolved to %v", got)
	}
}

func TestExpandNoDefaultPrefixPassthrough(t *testing.T) {
	ctx := NewContext(Mapping{Name: "ex", Term: IRI{Value: "http://example.org/"}})
	got, err := ctx.Expand(Contraction("bare"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != Contraction("bare") {
		t.Errorf("expected passthrough, got %v", got)
	}
}

func TestExpandCycle(t *testing.T) {
	cases := []struct {
		name  string
		ctx   *Context
		input Contraction
	}{
		{
			"self cycle",
			NewContext(Mapping{Name: "foo", Term: Contraction("foo")}),
			Contraction("foo"),
		},
		{
			"two-step cycle",
			NewContext(
				Mapping{Name: "a", Term: Contraction("b")},
				Mapping{Name: "b", Term: Contraction("a")},
			),
			Contraction("a"),
		},
		{
			"default prefix cycle",
			NewContext(Mapping{Name: DefaultPrefix, Term: Contraction("loop")}),
			Contraction("loop"),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.ctx.Expand(tc.input)
			if !errors.Is(err, ErrCycle) {
				t.Fatalf("expected ErrCycle, got %v", err)
			}
			if Code(err) != ErrCodeCycle {
				t.Errorf("expected code %s, got %s", ErrCodeCycle, Code(err))
			}
			var cycleErr *CycleError
			if !errors.As(err, &cycleErr) {
				t.Fatalf("expected *CycleError, got %T", err)
			}
			if _, ok := got.(Contraction); !ok {
				t.Errorf("expected the unresolved input as fallback, got %v", got)
			}
		})
	}
}

func TestContractExactMatch(t *testing.T) {
	ctx := exampleContext()
	got := ctx.Contract(IRI{Value: "http://example.org/"})
	if got != Contraction("ex") {
		t.Errorf("expected ex, got %v", got)
	}
}

func TestContractLongestPrefixWins(t *testing.T) {
	ctx := NewContext(
		Mapping{Name: "a", Term: IRI{Value: "http://ex.org/"}},
		Mapping{Name: "ab", Term: IRI{Value: "http://ex.org/b/"}},
	)
	got := ctx.Contract(IRI{Value: "http://ex.org/b/foo"})
	if got != Contraction("ab:foo") {
		t.Errorf("expected ab:foo, got %v", got)
	}
}

func TestContractPassthrough(t *testing.T) {
	ctx := exampleContext()
	cases := []Term{
		IRI{Value: "http://nowhere.org/x"},
		BlankNode{ID: "b1"},
		Contraction("ex:alice"),
		Literal{Value: "v"},
	}
	for _, input := range cases {
		if got := ctx.Contract(input); got != input {
			t.Errorf("expected %v unchanged, got %v", input, got)
		}
	}
}

func TestContractDefaultPrefixYieldsBareName(t *testing.T) {
	ctx := exampleContext()
	got := ctx.Contract(IRI{Value: "http://default.org/widget"})
	if got != Contraction("widget") {
		t.Errorf("expected bare name widget, got %v", got)
	}
}

func TestExpandContractRoundTrip(t *testing.T) {
	ctx := exampleContext()
	// Round trips hold for the longest-matching contraction of an IRI.
	names := []Contraction{"ex:alice", "foaf:knows", "thing"}
	for _, name := range names {
		expanded, err := ctx.Expand(name)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if got := ctx.Contract(expanded); got != name {
			t.Errorf("%s: round trip gave %v (via %v)", name, got, expanded)
		}
	}
}

func TestReverseContextLastWriteWins(t *testing.T) {
	ctx := NewContext(
		Mapping{Name: "first", Term: IRI{Value: "http://same.org/"}},
		Mapping{Name: "second", Term: IRI{Value: "http://same.org/"}},
	)
	reverse := ctx.ReverseContext()
	if got := reverse["http://same.org/"]; got != Contraction("second") {
		t.Errorf("expected the later binding to win, got %v", got)
	}
}

func TestReverseContextSkipsUnresolvable(t *testing.T) {
	ctx := NewContext(
		Mapping{Name: "ok", Term: IRI{Value: "http://ok.org/"}},
		Mapping{Name: "loop", Term: Contraction("loop")},
		Mapping{Name: "dangling", Term: Contraction("nope:x")},
	)
	reverse := ctx.ReverseContext()
	if len(reverse) != 1 {
		t.Fatalf("expected 1 entry, got %d: %v", len(reverse), reverse)
	}
	if reverse["http://ok.org/"] != Contraction("ok") {
		t.Errorf("missing resolvable entry: %v", reverse)
	}
}

func TestSortPrefixesOrdering(t *testing.T) {
	ctx := NewContext(
		Mapping{Name: "short", Term: IRI{Value: "http://e.org/"}},
		Mapping{Name: "long", Term: IRI{Value: "http://e.org/deeper/"}},
		Mapping{Name: "tie-b", Term: IRI{Value: "http://tie.org/x/"}},
		Mapping{Name: "tie-a", Term: IRI{Value: "http://tie.org/x/"}},
	)
	prefixes := ctx.SortPrefixes()
	if len(prefixes) != 4 {
		t.Fatalf("expected 4 bindings, got %d", len(prefixes))
	}
	if prefixes[0].Name != "long" {
		t.Errorf("longest namespace must sort first, got %v", prefixes[0])
	}
	for i := 1; i < len(prefixes); i++ {
		a, b := prefixes[i-1], prefixes[i]
		if len(a.IRI) < len(b.IRI) {
			t.Errorf("length order violated at %d: %v before %v", i, a, b)
		}
		if len(a.IRI) == len(b.IRI) && a.IRI == b.IRI && a.Name > b.Name {
			t.Errorf("tie-break order violated at %d: %v before %v", i, a, b)
		}
	}
}

func TestExpandAll(t *testing.T) {
	ctx := exampleContext()
	record := Record{
		{Predicate: Contraction("ex:name"), Object: "Alice"},
		{Predicate: Contraction("foaf:knows"), Object: Contraction("ex:bob")},
	}
	expanded, err := ctx.ExpandAll(record)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := expanded.(Record)
	if !ok {
		t.Fatalf("expected Record, got %T", expanded)
	}
	if (got[0].Predicate != IRI{Value: "http://example.org/name"}) {
		t.Errorf("predicate not expanded: %v", got[0].Predicate)
	}
	if got[0].Object != "Alice" {
		t.Errorf("raw value must pass through, got %v", got[0].Object)
	}
	if (got[1].Object != IRI{Value: "http://example.org/bob"}) {
		t.Errorf("object contraction not expanded: %v", got[1].Object)
	}
}

func TestExpandAllNestedContainers(t *testing.T) {
	ctx := exampleContext()
	input := []any{
		Contraction("ex:a"),
		map[string]any{"inner": Contraction("ex:b")},
		map[any]any{Contraction("ex:key"): Contraction("ex:val")},
		Literal{Value: "5", Type: Contraction("ex:num")},
	}
	expanded, err := ctx.ExpandAll(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := expanded.([]any)
	if (got[0] != IRI{Value: "http://example.org/a"}) {
		t.Errorf("slice leaf not expanded: %v", got[0])
	}
	inner := got[1].(map[string]any)
	if (inner["inner"] != IRI{Value: "http://example.org/b"}) {
		t.Errorf("map value not expanded: %v", inner["inner"])
	}
	keyed := got[2].(map[any]any)
	if (keyed[IRI{Value: "http://example.org/key"}] != IRI{Value: "http://example.org/val"}) {
		t.Errorf("map key/value not expanded: %v", keyed)
	}
	lit := got[3].(Literal)
	if (lit.Type != IRI{Value: "http://example.org/num"}) {
		t.Errorf("literal datatype not expanded: %v", lit.Type)
	}
}

func TestExpandAllPropagatesCycle(t *testing.T) {
	ctx := NewContext(Mapping{Name: "loop", Term: Contraction("loop")})
	_, err := ctx.ExpandAll([]any{Contraction("loop")})
	if !errors.Is(err, ErrCycle) {
		t.Fatalf("expected ErrCycle, got %v", err)
	}
}

func TestContextFromMapDeterministic(t *testing.T) {
	entries := map[Contraction]Term{
		"b": IRI{Value: "http://b.org/"},
		"a": IRI{Value: "http://a.org/"},
	}
	first := ContextFromMap(entries)
	second := ContextFromMap(entries)
	if first.Fingerprint() != second.Fingerprint() {
		t.Errorf("equal contexts must share a fingerprint")
	}
	m := first.Mappings()
	if m[0].Name != "a" || m[1].Name != "b" {
		t.Errorf("entries must be ordered by name, got %v", m)
	}
}

func TestFingerprintDistinguishesContexts(t *testing.T) {
	a := NewContext(Mapping{Name: "ex", Term: IRI{Value: "http://a.org/"}})
	b := NewContext(Mapping{Name: "ex", Term: IRI{Value: "http://b.org/"}})
	if a.Fingerprint() == b.Fingerprint() {
		t.Errorf("different contexts should not collide")
	}
}

func TestDerivedTablesSharedAcrossEqualContexts(t *testing.T) {
	build := func() *Context {
		return NewContext(
			Mapping{Name: "ex", Term: IRI{Value: "http://shared.example/"}},
			Mapping{Name: "ab", Term: IRI{Value: "http://shared.example/b/"}},
		)
	}
	first := build()
	second := build()
	if first.Fingerprint() != second.Fingerprint() {
		t.Fatalf("equal contexts must share a fingerprint")
	}
	a := first.SortPrefixes()
	b := second.SortPrefixes()
	if len(a) != len(b) {
		t.Fatalf("derived tables differ: %v vs %v", a, b)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("binding %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestNewContextLaterBindingWins(t *testing.T) {
	ctx := NewContext(
		Mapping{Name: "ex", Term: IRI{Value: "http://old.org/"}},
		Mapping{Name: "ex", Term: IRI{Value: "http://new.org/"}},
	)
	if ctx.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", ctx.Len())
	}
	got, err := ctx.Expand(Contraction("ex:x"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if (got != IRI{Value: "http://new.org/x"}) {
		t.Errorf("expected the newer binding, got %v", got)
	}
}

func TestCodeClassification(t *testing.T) {
	if Code(nil) != "" {
		t.Errorf("nil error must map to the empty code")
	}
	if Code(errors.New("other")) != ErrCodeConversion {
		t.Errorf("unknown errors must map to %s", ErrCodeConversion)
	}
	if Code(ErrInvalidLiteralType) != ErrCodeInvalidLiteralType {
		t.Errorf("sentinel mapping broken for literal type")
	}
	if Code(ErrInvalidSubjectSelector) != ErrCodeInvalidSubjectSelector {
		t.Errorf("sentinel mapping broken for subject selector")
	}
	if Code(ErrMalformedTriple) != ErrCodeMalformedTriple {
		t.Errorf("sentinel mapping broken for malformed triple")
	}
}
