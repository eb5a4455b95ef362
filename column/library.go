package column

import (
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/tablebind-project/tablebind"
)

// Factory builds the column generated for a single model field.
type Factory func(field reflect.StructField) *Column

// Library maps native model field types to the columns generated for them
// when a table auto generates its columns from a model. Explicit type
// registrations win over kind registrations, which win over the fallback.
type Library struct {
	types    map[reflect.Type]Factory
	kinds    map[reflect.Kind]Factory
	fallback Factory
}

// NewLibrary creates an empty library with a plain text fallback.
func NewLibrary() *Library {
	return &Library{
		types: make(map[reflect.Type]Factory),
		kinds: make(map[reflect.Kind]Factory),
		fallback: func(reflect.StructField) *Column {
			return NewText()
		},
	}
}

// RegisterType maps an exact field type to a column factory.
func (l *Library) RegisterType(fieldType reflect.Type, factory Factory) error {
	if factory == nil {
		return tablebind.ConfigurationError{Reason: "column: cannot register a nil factory with the library"}
	}

	l.types[fieldType] = factory

	return nil
}

// RegisterKind maps a field kind to a column factory.
func (l *Library) RegisterKind(kind reflect.Kind, factory Factory) error {
	if factory == nil {
		return tablebind.ConfigurationError{Reason: "column: cannot register a nil factory with the library"}
	}

	l.kinds[kind] = factory

	return nil
}

// RegisterFallback replaces the factory used when neither a type nor a kind
// registration matches.
func (l *Library) RegisterFallback(factory Factory) error {
	if factory == nil {
		return tablebind.ConfigurationError{Reason: "column: cannot register a nil factory with the library"}
	}

	l.fallback = factory

	return nil
}

// FromField builds the column generated for the given model field,
// resolving through type, kind, and finally fallback registrations.
// Pointer fields resolve through the type they point at.
func (l *Library) FromField(field reflect.StructField) *Column {
	fieldType := field.Type
	for fieldType.Kind() == reflect.Ptr {
		fieldType = fieldType.Elem()
	}

	if factory, ok := l.types[fieldType]; ok {
		return factory(field)
	}

	if factory, ok := l.kinds[fieldType.Kind()]; ok {
		return factory(field)
	}

	return l.fallback(field)
}

var defaultLibrary = buildDefaultLibrary()

// Default returns the library used when a table definition does not supply
// its own: booleans, numbers, strings and times map to their specialized
// columns, everything else to plain text.
func Default() *Library {
	return defaultLibrary
}

func buildDefaultLibrary() *Library {
	library := NewLibrary()

	numeric := func(reflect.StructField) *Column { return NewNumber() }
	for _, kind := range []reflect.Kind{
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
	} {
		// Registration cannot fail for non-nil factories.
		_ = library.RegisterKind(kind, numeric)
	}

	_ = library.RegisterKind(reflect.Bool, func(reflect.StructField) *Column { return NewBool() })
	_ = library.RegisterKind(reflect.String, func(reflect.StructField) *Column { return NewText() })
	_ = library.RegisterType(reflect.TypeOf(time.Time{}), func(reflect.StructField) *Column { return NewDateTime("") })

	return library
}

// NameForField derives the exposed column name for a model field. The
// "table" struct tag wins, then the json tag, then the snake cased field
// name. The second return reports whether the field takes part in column
// generation at all; a "-" tag opts a field out.
func NameForField(field reflect.StructField) (string, bool) {
	if field.PkgPath != "" || field.Anonymous {
		return "", false
	}

	if tag, ok := field.Tag.Lookup("table"); ok {
		name := tagName(tag)
		if name == "-" {
			return "", false
		}

		if name != "" {
			return name, true
		}
	}

	if tag, ok := field.Tag.Lookup("json"); ok {
		name := tagName(tag)
		if name == "-" {
			return "", false
		}

		if name != "" {
			return name, true
		}
	}

	return NameForDescriptor(field.Name), true
}

func tagName(tag string) string {
	if i := strings.Index(tag, ","); i >= 0 {
		return tag[:i]
	}

	return tag
}

var descriptorPattern = regexp.MustCompile("([A-Z])")

// NameForDescriptor converts an exported Go identifier to its snake cased
// column name, e.g. "FirstName" => "first_name".
func NameForDescriptor(descriptor string) string {
	rest := descriptorPattern.ReplaceAllString(descriptor, "_${1}")

	return strings.ToLower(strings.TrimPrefix(rest, "_"))
}
