package table

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gopkg.in/birkirb/loggers.v1/log"

	"github.com/tablebind-project/tablebind"
)

// Table binds a frozen Definition to one data source, carrying the
// instance's ordering and filtering state. Definitions are shared between
// tables; the table itself is not safe for concurrent mutation.
type Table struct {
	def     *Definition
	source  Data
	data    Data
	columns BoundColumns

	orderBy      tablebind.OrderByTuple
	hooks        map[string]Hooks
	headers      HeaderLookup
	orderable    bool
	defaultValue interface{}
	emptyText    string
	attrs        map[string]string
	rowAttrs     map[string]string
	collator     *collate.Collator
	filters      []FilterGroup
}

// HeaderLookup resolves a column name to its display header. A locale's
// header catalog satisfies it.
type HeaderLookup interface {
	Display(key string) (string, error)
}

// Option adjusts a single table instance without touching the shared
// definition.
type Option func(*tableConfig)

type tableConfig struct {
	orderBy   []string
	hasOrder  bool
	extra     []Declaration
	sequence  []string
	orderable *bool
	emptyText *string
	deflt     interface{}
	hooks     map[string]Hooks
	headers   HeaderLookup
	locale    *language.Tag
	attrs     map[string]string
	rowAttrs  map[string]string
	filters   []FilterGroup
}

// WithOrderBy sets the instance's initial sort, overriding the
// definition's.
func WithOrderBy(aliases ...string) Option {
	return func(cfg *tableConfig) {
		cfg.orderBy = aliases
		cfg.hasOrder = true
	}
}

// WithExtraColumns adds or removes columns on this instance only.
func WithExtraColumns(declarations ...Declaration) Option {
	return func(cfg *tableConfig) {
		cfg.extra = append(cfg.extra, declarations...)
	}
}

// WithSequence overrides the definition's column sequence.
func WithSequence(sequence ...string) Option {
	return func(cfg *tableConfig) {
		cfg.sequence = sequence
	}
}

// WithOrderable overrides the default sortability of columns which do not
// declare their own.
func WithOrderable(orderable bool) Option {
	return func(cfg *tableConfig) {
		cfg.orderable = &orderable
	}
}

// WithEmptyText overrides the text exposed for tables without rows.
func WithEmptyText(text string) Option {
	return func(cfg *tableConfig) {
		cfg.emptyText = &text
	}
}

// WithDefault overrides the table wide empty cell replacement.
func WithDefault(value interface{}) Option {
	return func(cfg *tableConfig) {
		cfg.deflt = value
	}
}

// WithHooks attaches per column render, value and order hooks.
func WithHooks(name string, hooks Hooks) Option {
	return func(cfg *tableConfig) {
		if cfg.hooks == nil {
			cfg.hooks = make(map[string]Hooks)
		}
		cfg.hooks[name] = hooks
	}
}

// WithHeaders sets the lookup consulted for headers of columns without a
// declared verbose name, before falling back to the humanized column name.
func WithHeaders(lookup HeaderLookup) Option {
	return func(cfg *tableConfig) {
		cfg.headers = lookup
	}
}

// WithLocale overrides the definition's locale for string comparison.
func WithLocale(tag language.Tag) Option {
	return func(cfg *tableConfig) {
		cfg.locale = &tag
	}
}

// WithAttrs overrides the table's opaque rendering attributes.
func WithAttrs(attrs map[string]string) Option {
	return func(cfg *tableConfig) {
		cfg.attrs = attrs
	}
}

// WithRowAttrs overrides the table's opaque row attributes.
func WithRowAttrs(attrs map[string]string) Option {
	return func(cfg *tableConfig) {
		cfg.rowAttrs = attrs
	}
}

// WithFilters applies filter groups before the initial sort. Groups are
// AND combined; filters within a group are OR combined.
func WithFilters(groups ...FilterGroup) Option {
	return func(cfg *tableConfig) {
		cfg.filters = append(cfg.filters, groups...)
	}
}

// New binds a definition to a data source. Instance options layer on top
// of the definition's own settings; the definition itself is never
// modified. The returned table has its filters and initial sort already
// applied.
func New(def *Definition, data Data, options ...Option) (*Table, error) {
	if def == nil {
		return nil, tablebind.ConfigurationError{Reason: "table: cannot bind a nil definition"}
	}
	if data == nil {
		return nil, tablebind.ConfigurationError{Reason: "table: cannot bind a nil data source"}
	}

	var cfg tableConfig
	for _, option := range options {
		option(&cfg)
	}

	t := &Table{
		def:          def,
		source:       data,
		data:         data,
		hooks:        cfg.hooks,
		headers:      cfg.headers,
		orderable:    true,
		defaultValue: def.opts.Default,
		emptyText:    def.opts.EmptyText,
		attrs:        def.opts.Attrs,
		rowAttrs:     def.opts.RowAttrs,
	}

	if def.opts.Orderable != nil {
		t.orderable = *def.opts.Orderable
	}
	if cfg.orderable != nil {
		t.orderable = *cfg.orderable
	}
	if cfg.deflt != nil {
		t.defaultValue = cfg.deflt
	}
	if cfg.emptyText != nil {
		t.emptyText = *cfg.emptyText
	}
	if cfg.attrs != nil {
		t.attrs = cfg.attrs
	}
	if cfg.rowAttrs != nil {
		t.rowAttrs = cfg.rowAttrs
	}

	locale := def.opts.Locale
	if cfg.locale != nil {
		locale = *cfg.locale
	}
	if locale != language.Und {
		t.collator = collate.New(locale)
	}

	if err := t.buildColumns(cfg.extra, cfg.sequence); err != nil {
		return nil, err
	}

	if len(cfg.filters) > 0 {
		if err := t.SetFilters(cfg.filters...); err != nil {
			return nil, err
		}
	}

	initial := def.opts.OrderBy
	if cfg.hasOrder {
		initial = cfg.orderBy
	}
	if err := t.SetOrderBy(initial...); err != nil {
		return nil, err
	}

	return t, nil
}

func (t *Table) buildColumns(extra []Declaration, sequence []string) error {
	names := append([]string(nil), t.def.Names()...)
	columns := make(map[string]BoundColumn, len(names))
	for _, name := range names {
		col, err := t.def.Column(name)
		if err != nil {
			return err
		}
		columns[name] = BoundColumn{table: t, col: col, name: name}
	}

	for _, declaration := range extra {
		if declaration.col == nil {
			if _, ok := columns[declaration.name]; ok {
				delete(columns, declaration.name)
				names = removeName(names, declaration.name)
			}
			continue
		}

		if err := declaration.col.Validate(); err != nil {
			return err
		}

		if _, ok := columns[declaration.name]; !ok {
			names = append(names, declaration.name)
		}
		columns[declaration.name] = BoundColumn{
			table: t,
			col:   declaration.col,
			name:  declaration.name,
		}
	}

	if sequence == nil {
		sequence = t.def.opts.Sequence
	}
	if len(sequence) > 0 {
		expanded, err := expandSequence(sequence, names)
		if err != nil {
			return err
		}
		names = expanded
	}

	t.columns = newBoundColumns(t, names, columns)
	return nil
}

func removeName(names []string, name string) []string {
	kept := names[:0]
	for _, candidate := range names {
		if candidate != name {
			kept = append(kept, candidate)
		}
	}
	return kept
}

// SetOrderBy replaces the current sort with the given logical aliases and
// reorders the data. Aliases naming unknown or non orderable columns are
// dropped rather than failing the whole sort.
func (t *Table) SetOrderBy(aliases ...string) error {
	accepted := make(tablebind.OrderByTuple, 0, len(aliases))
	for _, alias := range aliases {
		key := tablebind.OrderBy(alias)
		bc, err := t.columns.Get(string(key.Bare()))
		if err != nil {
			log.WithFields("alias", alias).Debug("Dropping sort on unknown column")
			continue
		}
		if !bc.Orderable() {
			log.WithFields("alias", alias).Debug("Dropping sort on non orderable column")
			continue
		}
		accepted = append(accepted, key)
	}

	t.orderBy = accepted
	return t.applyOrder()
}

// applyOrder reorders the data to match t.orderBy. When any alias is
// handled by its column's order hook, the hook's result stands and the
// remaining aliases' physical keys are not applied on top; otherwise all
// logical keys are translated into physical accessor keys and applied in
// one pass.
func (t *Table) applyOrder() error {
	if len(t.orderBy) == 0 {
		return nil
	}

	physical := make(tablebind.OrderByTuple, 0, len(t.orderBy))
	hooked := false
	for _, key := range t.orderBy {
		bc, err := t.columns.Get(string(key.Bare()))
		if err != nil {
			return err
		}

		if hooks, ok := t.hooks[bc.Name()]; ok && hooks.Order != nil {
			data, handled := hooks.Order(t.data, key.IsDescending())
			if handled {
				t.data = data
				hooked = true
				continue
			}
		}

		physical = append(physical, bc.OrderBy()...)
	}

	if hooked {
		return nil
	}

	if len(physical) > 0 {
		t.data = t.data.order(physical, t.collator)
	}
	return nil
}

// SetFilters replaces the current record filter. Each call narrows the
// original data source anew, so records excluded by an earlier filter come
// back when the new filter admits them, and the current sort is reapplied
// to the result. Sources which cannot filter return
// ErrFilteringUnsupported.
func (t *Table) SetFilters(groups ...FilterGroup) error {
	filtered, err := t.source.filter(groups, t.collator)
	if err != nil {
		return err
	}

	t.filters = groups
	t.data = filtered
	return t.applyOrder()
}

// Rows returns the iterable view over the table's current records.
func (t *Table) Rows() BoundRows {
	return BoundRows{table: t}
}

// Columns returns the table's bound columns in sequence order.
func (t *Table) Columns() BoundColumns {
	return t.columns
}

// OrderBy returns a copy of the current sort aliases.
func (t *Table) OrderBy() tablebind.OrderByTuple {
	return append(tablebind.OrderByTuple(nil), t.orderBy...)
}

// EmptyText returns the text exposed for tables without rows.
func (t *Table) EmptyText() string {
	return t.emptyText
}

// Attrs returns the table's opaque rendering attributes.
func (t *Table) Attrs() map[string]string {
	return t.attrs
}

// RowAttrs returns the table's opaque row attributes.
func (t *Table) RowAttrs() map[string]string {
	return t.rowAttrs
}
