package tercet

import (
	"fmt"
	"reflect"
	"strconv"
	"sync"
	"time"
)

// Well-known datatype IRIs.
const (
	XSDString   = "http://www.w3.org/2001/XMLSchema#string"
	XSDBoolean  = "http://www.w3.org/2001/XMLSchema#boolean"
	XSDInteger  = "http://www.w3.org/2001/XMLSchema#integer"
	XSDDouble   = "http://www.w3.org/2001/XMLSchema#double"
	XSDDateTime = "http://www.w3.org/2001/XMLSchema#dateTime"

	// RDFLangString is the datatype of every language-tagged literal.
	RDFLangString = "http://www.w3.org/1999/02/22-rdf-syntax-ns#langString"
)

// DatatypeFunc maps a raw value to its default datatype term. Returning nil
// defers to the built-in table.
type DatatypeFunc func(value any) Term

var datatypeRegistry = struct {
	sync.RWMutex
	handlers map[reflect.Kind]DatatypeFunc
}{handlers: make(map[reflect.Kind]DatatypeFunc)}

// RegisterDatatype installs a datatype-inference handler for a Go kind,
// overriding the built-in table for that kind. A nil handler removes a
// previous registration. Registration is expected at initialization time;
// the registry is safe for concurrent lookup.
func RegisterDatatype(kind reflect.Kind, fn DatatypeFunc) {
	datatypeRegistry.Lock()
	defer datatypeRegistry.Unlock()
	if fn == nil {
		delete(datatypeRegistry.handlers, kind)
		return
	}
	datatypeRegistry.handlers[kind] = fn
}

// inferDatatype resolves the default datatype for a raw value: a registered
// handler for the value's kind wins, then the built-in table, then
// xsd:string for anything unrecognized.
func inferDatatype(value any) Term {
	if value == nil {
		return IRI{Value: XSDString}
	}
	kind := reflect.TypeOf(value).Kind()
	datatypeRegistry.RLock()
	fn := datatypeRegistry.handlers[kind]
	datatypeRegistry.RUnlock()
	if fn != nil {
		if t := fn(value); t != nil {
			return t
		}
	}
	switch kind {
	case reflect.String:
		return IRI{Value: XSDString}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return IRI{Value: XSDInteger}
	case reflect.Float32, reflect.Float64:
		return IRI{Value: XSDDouble}
	case reflect.Bool:
		return IRI{Value: XSDBoolean}
	case reflect.Struct:
		if _, ok := value.(time.Time); ok {
			return IRI{Value: XSDDateTime}
		}
	}
	return IRI{Value: XSDString}
}

// formatValue renders a raw value in its lexical form.
func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int8:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case uint16:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case time.Time:
		return v.Format(time.RFC3339)
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprintf("%v", value)
}
