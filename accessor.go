package tablebind

import (
	"reflect"
	"strconv"
	"strings"

	"gopkg.in/birkirb/loggers.v1/log"
)

// Separator joins the components of an Accessor path.
const Separator = "__"

// legacySeparator is the deprecated single character path separator.
const legacySeparator = "."

// DataMutator marks a callable whose invocation changes the data it is bound
// to. Safe resolution refuses to invoke such values, so that display code can
// never trigger destructive side effects by accident.
type DataMutator interface {
	AltersData() bool
}

// MutatingFunc wraps a callable which alters data when invoked.
type MutatingFunc func() interface{}

// AltersData implements DataMutator.
func (f MutatingFunc) AltersData() bool { return true }

// NoAutoCall marks a value which must not be invoked automatically while
// resolving an accessor path, even though it is callable.
type NoAutoCall interface {
	DoNotCall()
}

// ResolveOptions control how an Accessor walks its context.
type ResolveOptions struct {
	// Quiet suppresses lookup failures - unresolvable bits yield nil
	// instead of a ResolutionError. Refused calls stay loud.
	Quiet bool

	// AllowMutating permits invoking callables marked as data mutating.
	AllowMutating bool
}

// Accessor describes a path for pulling a value out of an arbitrary record,
// e.g. "occupation__region__name". Components are separated by Separator and
// resolved through successive lookup strategies: mapping lookup, field or
// method lookup, and integer index lookup.
type Accessor string

func (a Accessor) String() string {
	return string(a)
}

// Bits splits the accessor into its ordered path components. The deprecated
// dot separator is still honored when the accessor contains no regular
// separator.
func (a Accessor) Bits() []string {
	if a == "" {
		return nil
	}

	value := string(a)
	if !strings.Contains(value, Separator) && strings.Contains(value, legacySeparator) {
		log.WithField("accessor", value).Warn("Dot separated accessor paths are deprecated, use double underscores")
		return strings.Split(value, legacySeparator)
	}

	return strings.Split(value, Separator)
}

// Resolve walks the accessor against ctx and returns the resolved value.
// Mapping, field, method and index lookups are attempted per component, in
// that order, and the first strategy that succeeds wins for that component.
// Zero argument callables encountered along the path are invoked, and their
// result becomes the new current value. A nil value anywhere along the path
// short circuits the walk and resolves the whole accessor to nil, rather
// than failing on a null relationship. The empty accessor resolves to ctx
// itself, unchanged.
func (a Accessor) Resolve(ctx interface{}) (interface{}, error) {
	return a.ResolveWith(ctx, ResolveOptions{})
}

// ResolveQuiet is Resolve with lookup failures suppressed to nil. Refusals
// to invoke data mutating callables are still surfaced.
func (a Accessor) ResolveQuiet(ctx interface{}) (interface{}, error) {
	return a.ResolveWith(ctx, ResolveOptions{Quiet: true})
}

// ResolveWith is Resolve under explicitly supplied options.
func (a Accessor) ResolveWith(ctx interface{}, opts ResolveOptions) (interface{}, error) {
	// Fast path: flattened mappings may carry the whole accessor,
	// separators included, as a literal key.
	if a != "" {
		if value, ok := mappingLookup(ctx, string(a)); ok {
			return value, nil
		}
	}

	current := ctx
	for _, bit := range a.Bits() {
		if isNil(current) {
			return nil, nil
		}

		next, ok := lookupBit(current, bit)
		if !ok {
			if opts.Quiet {
				return nil, nil
			}

			return nil, ResolutionError{Bit: bit, Context: current, Accessor: a}
		}

		value, err := invokeIfCallable(next, opts.AllowMutating)
		if err != nil {
			return nil, ResolutionError{Bit: bit, Context: current, Accessor: a, cause: err}
		}

		current = value
	}

	return current, nil
}

// Penultimate quietly resolves everything up to, but not including, the
// final path component. It returns the intermediate value together with the
// final component, for callers which need to distinguish the field from the
// container holding the field.
func (a Accessor) Penultimate(ctx interface{}) (interface{}, string) {
	bits := a.Bits()
	if len(bits) == 0 {
		return ctx, ""
	}

	prefix := Accessor(strings.Join(bits[:len(bits)-1], Separator))
	value, _ := prefix.ResolveQuiet(ctx)

	return value, bits[len(bits)-1]
}

func lookupBit(ctx interface{}, bit string) (interface{}, bool) {
	if value, ok := mappingLookup(ctx, bit); ok {
		return value, true
	}

	if value, ok := fieldLookup(ctx, bit); ok {
		return value, true
	}

	return indexLookup(ctx, bit)
}

func mappingLookup(ctx interface{}, key string) (interface{}, bool) {
	rv := reflect.ValueOf(ctx)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, false
		}

		rv = rv.Elem()
	}

	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}

	entry := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
	if !entry.IsValid() {
		return nil, false
	}

	return entry.Interface(), true
}

func fieldLookup(ctx interface{}, bit string) (interface{}, bool) {
	rv := reflect.ValueOf(ctx)
	if !rv.IsValid() {
		return nil, false
	}

	candidates := fieldCandidates(bit)

	elem := rv
	for elem.Kind() == reflect.Ptr {
		if elem.IsNil() {
			return nil, false
		}

		elem = elem.Elem()
	}

	if elem.Kind() == reflect.Struct {
		for _, name := range candidates {
			field := elem.FieldByName(name)
			if field.IsValid() && field.CanInterface() {
				return field.Interface(), true
			}
		}
	}

	// The original value carries the full method set, pointer receivers
	// included, so probe it before the dereferenced value.
	for _, name := range candidates {
		if method := rv.MethodByName(name); method.IsValid() {
			return method.Interface(), true
		}
	}

	if elem != rv {
		for _, name := range candidates {
			if method := elem.MethodByName(name); method.IsValid() {
				return method.Interface(), true
			}
		}
	}

	return nil, false
}

func indexLookup(ctx interface{}, bit string) (interface{}, bool) {
	index, err := strconv.Atoi(bit)
	if err != nil {
		return nil, false
	}

	rv := reflect.ValueOf(ctx)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, false
		}

		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if index < 0 || index >= rv.Len() {
			return nil, false
		}

		return rv.Index(index).Interface(), true
	case reflect.String:
		runes := []rune(rv.String())
		if index < 0 || index >= len(runes) {
			return nil, false
		}

		return string(runes[index]), true
	default:
		return nil, false
	}
}

// invokeIfCallable calls zero argument func values and passes everything
// else through unchanged. Callables implementing NoAutoCall are passed
// through uncalled; callables marked as data mutating are refused unless
// explicitly allowed.
func invokeIfCallable(value interface{}, allowMutating bool) (interface{}, error) {
	if isNil(value) {
		return value, nil
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Func {
		return value, nil
	}

	if _, optsOut := value.(NoAutoCall); optsOut {
		return value, nil
	}

	if mutator, ok := value.(DataMutator); ok && mutator.AltersData() && !allowMutating {
		return nil, ErrRefusedCall
	}

	funcType := rv.Type()
	if funcType.NumIn() != 0 && !(funcType.IsVariadic() && funcType.NumIn() == 1) {
		return value, nil
	}

	outs := rv.Call(nil)
	switch len(outs) {
	case 0:
		return nil, nil
	case 1:
		return outs[0].Interface(), nil
	default:
		if err, ok := outs[len(outs)-1].Interface().(error); ok && err != nil {
			return nil, err
		}

		return outs[0].Interface(), nil
	}
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}

func fieldCandidates(bit string) []string {
	exported := exportedFieldName(bit)
	if exported == bit {
		return []string{bit}
	}

	return []string{bit, exported}
}

// exportedFieldName maps a snake_case path component onto the exported
// field name it conventionally addresses, e.g. "first_name" => "FirstName".
func exportedFieldName(bit string) string {
	parts := strings.Split(bit, "_")
	for i, part := range parts {
		if part != "" {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}

	return strings.Join(parts, "")
}
