package tablebind

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"golang.org/x/text/collate"
)

// descendingPrefix marks an OrderBy as descending.
const descendingPrefix = "-"

// OrderBy is a single sort key, optionally prefixed with "-" to mean
// descending. It is an immutable value type.
type OrderBy string

func (o OrderBy) String() string {
	return string(o)
}

// Bare returns the sort key with its descending prefix stripped.
func (o OrderBy) Bare() OrderBy {
	return OrderBy(strings.TrimPrefix(string(o), descendingPrefix))
}

// Accessor returns the accessor addressed by this sort key.
func (o OrderBy) Accessor() Accessor {
	return Accessor(o.Bare())
}

// Opposite returns the sort key with its direction toggled.
func (o OrderBy) Opposite() OrderBy {
	if o.IsDescending() {
		return o.Bare()
	}

	return OrderBy(descendingPrefix + string(o))
}

// IsDescending reports whether the key carries the descending prefix.
func (o OrderBy) IsDescending() bool {
	return strings.HasPrefix(string(o), descendingPrefix)
}

// IsAscending reports whether the key does not carry the descending prefix.
func (o OrderBy) IsAscending() bool {
	return !o.IsDescending()
}

// ForCollection rewrites the sort key into the form a persisted collection
// collaborator expects: path components joined by double underscores,
// independent of the separator used for in-memory resolution.
func (o OrderBy) ForCollection() string {
	prefix := ""
	bare := o
	if o.IsDescending() {
		prefix = descendingPrefix
		bare = o.Bare()
	}

	return prefix + strings.Join(Accessor(bare).Bits(), Separator)
}

// OrderByTuple is an ordered sequence of OrderBy values with sign
// insensitive membership testing by bare name.
type OrderByTuple []OrderBy

// NewOrderByTuple coerces the given keys into an OrderByTuple.
func NewOrderByTuple(keys ...string) OrderByTuple {
	tuple := make(OrderByTuple, len(keys))
	for i, key := range keys {
		tuple[i] = OrderBy(key)
	}

	return tuple
}

// Contains reports whether the tuple carries the given key, ignoring its
// sign. "age" matches both "age" and "-age".
func (t OrderByTuple) Contains(name string) bool {
	bare := OrderBy(name).Bare()
	for _, key := range t {
		if key.Bare() == bare {
			return true
		}
	}

	return false
}

// Get retrieves a key by its signed or bare name, or returns an
// ErrUnknownOrderBy if no key matches.
func (t OrderByTuple) Get(name string) (OrderBy, error) {
	wanted := OrderBy(name)
	for _, key := range t {
		if key == wanted || key.Bare() == wanted {
			return key, nil
		}
	}

	return "", fmt.Errorf("%q: %w", name, ErrUnknownOrderBy)
}

// At retrieves a key by position, or returns an ErrIndexOutOfRange.
func (t OrderByTuple) At(i int) (OrderBy, error) {
	if i < 0 || i >= len(t) {
		return "", fmt.Errorf("order by index %d: %w", i, ErrIndexOutOfRange)
	}

	return t[i], nil
}

// Opposite returns a new tuple with every key's direction toggled.
func (t OrderByTuple) Opposite() OrderByTuple {
	opposite := make(OrderByTuple, len(t))
	for i, key := range t {
		opposite[i] = key.Opposite()
	}

	return opposite
}

// ForCollection rewrites every key into persisted collection syntax.
func (t OrderByTuple) ForCollection() []string {
	keys := make([]string, len(t))
	for i, key := range t {
		keys[i] = key.ForCollection()
	}

	return keys
}

// Key builds a three way comparator over two records, resolving each of the
// tuple's accessors against both candidates and comparing the values in
// priority order, respecting each key's sign. Suitable for a stable sort.
func (t OrderByTuple) Key() func(a, b interface{}) int {
	return t.KeyWithCollator(nil)
}

// KeyWithCollator is Key with locale aware string comparison.
func (t OrderByTuple) KeyWithCollator(collator *collate.Collator) func(a, b interface{}) int {
	return func(a, b interface{}) int {
		for _, key := range t {
			left, _ := key.Accessor().ResolveQuiet(a)
			right, _ := key.Accessor().ResolveQuiet(b)

			result := CompareWithCollator(left, right, collator)
			if key.IsDescending() {
				result = -result
			}

			if result != 0 {
				return result
			}
		}

		return 0
	}
}

// Compare deterministically orders two values of arbitrary type. Mutually
// comparable values (nils, booleans, numbers, strings, times) compare
// naturally; everything else falls back to an implementation defined but
// deterministic cross type tiebreak, so that sorting heterogeneous or nil
// containing columns never fails.
func Compare(a, b interface{}) int {
	return CompareWithCollator(a, b, nil)
}

// CompareWithCollator is Compare with locale aware string comparison.
func CompareWithCollator(a, b interface{}, collator *collate.Collator) int {
	aNil, bNil := isNil(a), isNil(b)
	switch {
	case aNil && bNil:
		return 0
	case aNil:
		return -1
	case bNil:
		return 1
	}

	aBool, aIsBool := a.(bool)
	bBool, bIsBool := b.(bool)
	switch {
	case aIsBool && bIsBool:
		return compareBool(aBool, bBool)
	case aIsBool:
		return -1
	case bIsBool:
		return 1
	}

	if aNum, ok := numericValue(a); ok {
		if bNum, ok := numericValue(b); ok {
			return compareFloat(aNum, bNum)
		}
	}

	if aStr, ok := stringValue(a); ok {
		if bStr, ok := stringValue(b); ok {
			if collator != nil {
				return collator.CompareString(aStr, bStr)
			}

			return strings.Compare(aStr, bStr)
		}
	}

	if aTime, ok := a.(time.Time); ok {
		if bTime, ok := b.(time.Time); ok {
			return aTime.Compare(bTime)
		}
	}

	// Incomparable mix. Group by type name, then by formatted value, so
	// the result is stable across runs even though the order carries no
	// semantic meaning.
	aType, bType := reflect.TypeOf(a).String(), reflect.TypeOf(b).String()
	if result := strings.Compare(aType, bType); result != 0 {
		return result
	}

	return strings.Compare(fmt.Sprintf("%v", a), fmt.Sprintf("%v", b))
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func numericValue(value interface{}) (float64, bool) {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

func stringValue(value interface{}) (string, bool) {
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}

	return "", false
}
