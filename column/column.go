// Package column contains the declarative, data source agnostic column
// model: column declarations, specialized column constructors, choices and
// the field library used when auto generating columns from a model.
package column

import (
	"reflect"
	"sync/atomic"

	"github.com/tablebind-project/tablebind"
)

// counter assigns every column a monotonically increasing creation index,
// totally ordering columns as declared in source. Indices are handed out at
// construction time, so declarations may be reused and referenced across
// table definitions without losing their order.
var counter uint64

// RenderFunc transforms a resolved cell value for display. record is the
// full row record the value was resolved from.
type RenderFunc func(value, record interface{}) interface{}

// DefaultFunc computes an empty cell replacement from the row record.
type DefaultFunc func(record interface{}) interface{}

// AccessorFunc pulls a cell value directly out of a record, bypassing path
// resolution entirely.
type AccessorFunc func(record interface{}) interface{}

// Column is an immutable, data source agnostic description of a single
// table column: how to access its value, its display default, its
// visibility and orderability, and its render transform. Declarations are
// shared freely across tables and goroutines; binding never mutates them.
type Column struct {
	accessor        tablebind.Accessor
	accessorFunc    AccessorFunc
	defaultValue    interface{}
	defaultFunc     DefaultFunc
	defaultSet      bool
	verboseName     string
	hidden          bool
	orderable       *bool
	orderBy         tablebind.OrderByTuple
	emptyValues     []interface{}
	emptyValuesSet  bool
	descendingFirst bool
	render          RenderFunc
	value           RenderFunc
	attrs           map[string]string
	choices         Choices
	index           uint64
}

// Option configures a column declaration.
type Option func(*Column)

// WithAccessor sets an explicit accessor path. When absent, the column's
// declared name doubles as its accessor.
func WithAccessor(accessor string) Option {
	return func(c *Column) { c.accessor = tablebind.Accessor(accessor) }
}

// WithAccessorFunc sets a callable accessor. Mutually exclusive with a
// default, since default substitution inspects the record's raw field, not
// the callable's output.
func WithAccessorFunc(fn AccessorFunc) Option {
	return func(c *Column) { c.accessorFunc = fn }
}

// WithDefault sets the replacement for empty cell values.
func WithDefault(value interface{}) Option {
	return func(c *Column) {
		c.defaultValue = value
		c.defaultSet = true
	}
}

// WithDefaultFunc sets a computed replacement for empty cell values.
func WithDefaultFunc(fn DefaultFunc) Option {
	return func(c *Column) {
		c.defaultFunc = fn
		c.defaultSet = true
	}
}

// WithVerboseName sets the human readable header. When absent, the header
// is derived from the column name.
func WithVerboseName(name string) Option {
	return func(c *Column) { c.verboseName = name }
}

// WithVisible controls whether the column takes part in display iteration.
func WithVisible(visible bool) Option {
	return func(c *Column) { c.hidden = !visible }
}

// WithOrderable explicitly allows or forbids ordering by this column. When
// unset, the table level default applies.
func WithOrderable(orderable bool) Option {
	return func(c *Column) { c.orderable = &orderable }
}

// WithOrderBy sets the physical sort keys this column contributes,
// overriding the accessor derived single key. Multiple keys let one logical
// column sort by several underlying fields.
func WithOrderBy(keys ...string) Option {
	return func(c *Column) { c.orderBy = tablebind.NewOrderByTuple(keys...) }
}

// WithEmptyValues sets the sentinel values which trigger default
// substitution. When unset, nil and the empty string count as empty.
func WithEmptyValues(values ...interface{}) Option {
	return func(c *Column) {
		c.emptyValues = values
		c.emptyValuesSet = true
	}
}

// WithDescendingFirst makes the first ordering toggle on an unordered
// column descend instead of ascend.
func WithDescendingFirst() Option {
	return func(c *Column) { c.descendingFirst = true }
}

// WithRender sets the column's display transform.
func WithRender(fn RenderFunc) Option {
	return func(c *Column) { c.render = fn }
}

// WithValue sets the column's export value transform.
func WithValue(fn RenderFunc) Option {
	return func(c *Column) { c.value = fn }
}

// WithAttrs attaches opaque attributes which are passed through to
// rendering layers untouched.
func WithAttrs(attrs map[string]string) Option {
	return func(c *Column) { c.attrs = attrs }
}

// WithChoices attaches the choices resolved for this column's raw values.
func WithChoices(choices Choices) Option {
	return func(c *Column) { c.choices = choices }
}

// New constructs a column declaration. Invalid option combinations are
// reported by Validate, which table assembly calls, so that configuration
// mistakes surface where the table is put together.
func New(opts ...Option) *Column {
	col := &Column{index: atomic.AddUint64(&counter, 1)}
	for _, opt := range opts {
		opt(col)
	}

	return col
}

// Validate checks the declaration for invalid option combinations.
func (c *Column) Validate() error {
	if c.accessorFunc != nil && c.defaultSet {
		return tablebind.ConfigurationError{
			Reason: "column: an accessor function cannot be combined with a default, as default substitution inspects the record's raw field",
		}
	}

	if c.accessorFunc != nil && c.accessor != "" {
		return tablebind.ConfigurationError{
			Reason: "column: accessor and accessor function are mutually exclusive",
		}
	}

	return nil
}

// Accessor returns the explicitly declared accessor path, if any.
func (c *Column) Accessor() tablebind.Accessor {
	return c.accessor
}

// AccessorFunc returns the callable accessor, if any.
func (c *Column) AccessorFunc() AccessorFunc {
	return c.accessorFunc
}

// DefaultFor resolves the column's empty cell replacement against a record.
// The second return reports whether a default is declared at all.
func (c *Column) DefaultFor(record interface{}) (interface{}, bool) {
	if !c.defaultSet {
		return nil, false
	}

	if c.defaultFunc != nil {
		return c.defaultFunc(record), true
	}

	return c.defaultValue, true
}

// VerboseName returns the explicitly declared header, if any.
func (c *Column) VerboseName() string {
	return c.verboseName
}

// Visible reports whether the column takes part in display iteration.
func (c *Column) Visible() bool {
	return !c.hidden
}

// Orderable returns the declared orderability together with whether it was
// declared at all; undeclared orderability defers to the table default.
func (c *Column) Orderable() (orderable, declared bool) {
	if c.orderable == nil {
		return false, false
	}

	return *c.orderable, true
}

// OrderBy returns the explicitly declared physical sort keys, if any.
func (c *Column) OrderBy() tablebind.OrderByTuple {
	return c.orderBy
}

// EmptyValues returns the sentinel values which trigger default
// substitution.
func (c *Column) EmptyValues() []interface{} {
	if !c.emptyValuesSet {
		return []interface{}{nil, ""}
	}

	return c.emptyValues
}

// IsEmptyValue reports whether the given cell value counts as empty for
// this column.
func (c *Column) IsEmptyValue(value interface{}) bool {
	for _, empty := range c.EmptyValues() {
		if empty == nil {
			if valueIsNil(value) {
				return true
			}

			continue
		}

		if reflect.DeepEqual(value, empty) {
			return true
		}
	}

	return false
}

// DescendingFirst reports whether the first ordering toggle descends.
func (c *Column) DescendingFirst() bool {
	return c.descendingFirst
}

// Render returns the display transform, if any.
func (c *Column) Render() RenderFunc {
	return c.render
}

// Value returns the export value transform, if any.
func (c *Column) Value() RenderFunc {
	return c.value
}

// Attrs returns the opaque rendering attributes.
func (c *Column) Attrs() map[string]string {
	return c.attrs
}

// ColumnChoices returns the attached choices, if any.
func (c *Column) ColumnChoices() Choices {
	return c.choices
}

// CreationIndex returns the monotonic index assigned at construction time.
func (c *Column) CreationIndex() uint64 {
	return c.index
}

func valueIsNil(value interface{}) bool {
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
