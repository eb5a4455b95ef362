// Package table binds column declarations to live data sources, producing
// orderable, filterable bound tables whose rows resolve cell values on
// demand.
package table

import (
	"errors"
	"fmt"
	"reflect"
	"sort"

	"golang.org/x/text/language"
	"gopkg.in/birkirb/loggers.v1/log"

	"github.com/tablebind-project/tablebind"
	"github.com/tablebind-project/tablebind/column"
)

// ErrUnknownColumn indicates that a requested column is not known to a
// table.
var ErrUnknownColumn = errors.New("unknown column")

// SequenceWildcard expands to all remaining columns in declaration order.
const SequenceWildcard = "..."

// Declaration pairs an exposed column name with its declaration. A nil
// column un-declares an inherited or auto generated column of that name.
type Declaration struct {
	name string
	col  *column.Column
}

// Declare names a column declaration.
func Declare(name string, col *column.Column) Declaration {
	return Declaration{name: name, col: col}
}

// Remove un-declares an inherited or auto generated column.
func Remove(name string) Declaration {
	return Declaration{name: name}
}

// Options is the per definition configuration surface.
type Options struct {
	// Extends merges the columns of the given base definitions. Bases
	// are applied in reverse order, so earlier bases and the definition's
	// own declarations win name ties.
	Extends []*Definition

	// Model auto generates one column per exported struct field, through
	// the Library. Auto generated columns never override explicitly
	// declared columns of the same name.
	Model interface{}

	// Fields restricts model generation to the named columns.
	Fields []string

	// Exclude removes named columns entirely, regardless of origin.
	Exclude []string

	// Sequence orders the bound columns. The "..." wildcard expands to
	// all remaining columns in declaration order; without a wildcard,
	// unnamed columns are appended at the end.
	Sequence []string

	// OrderBy is the initial sort, given as logical column aliases.
	OrderBy []string

	// Orderable is the default sortability for columns which do not
	// declare their own. Unset means orderable.
	Orderable *bool

	// Default replaces empty cell values table wide, unless a column
	// declares its own default.
	Default interface{}

	// EmptyText is exposed to rendering layers for tables without rows.
	EmptyText string

	// Attrs and RowAttrs are opaque rendering attributes, passed through
	// untouched.
	Attrs    map[string]string
	RowAttrs map[string]string

	// Library resolves model field types during auto generation.
	// Defaults to column.Default().
	Library *column.Library

	// Locale drives locale aware string comparison for in-memory
	// ordering and filtering.
	Locale language.Tag
}

// Definition is the frozen, ordered column set of one table type, built
// once and shared read-only between table instances.
type Definition struct {
	opts    Options
	names   []string
	columns map[string]*column.Column
}

// NewDefinition assembles a table definition from its options and column
// declarations. Inherited columns are merged first, then model generated
// columns, then the definition's own declarations; excludes and removals
// apply last. Configuration errors propagate to the caller and are never
// swallowed.
func NewDefinition(opts Options, declarations ...Declaration) (*Definition, error) {
	def := &Definition{
		opts:    opts,
		columns: make(map[string]*column.Column),
	}

	for i := len(opts.Extends) - 1; i >= 0; i-- {
		base := opts.Extends[i]
		if base == nil {
			return nil, tablebind.ConfigurationError{Reason: "table: cannot extend a nil definition"}
		}

		for _, name := range base.names {
			def.upsert(name, base.columns[name])
		}
	}

	declared := make(map[string]struct{}, len(declarations))
	for _, declaration := range declarations {
		declared[declaration.name] = struct{}{}
	}

	if opts.Model != nil {
		if err := def.generateModelColumns(declared); err != nil {
			return nil, err
		}
	}

	explicit := make([]Declaration, 0, len(declarations))
	for _, declaration := range declarations {
		if declaration.col != nil {
			explicit = append(explicit, declaration)
		}
	}

	sort.SliceStable(explicit, func(i, j int) bool {
		return explicit[i].col.CreationIndex() < explicit[j].col.CreationIndex()
	})

	for _, declaration := range explicit {
		def.upsert(declaration.name, declaration.col)
	}

	if len(opts.Exclude) > 0 {
		removed := 0
		for _, name := range opts.Exclude {
			if def.remove(name) {
				removed++
			}
		}

		log.WithFields(
			"columns", removed,
			"excluded", len(opts.Exclude),
		).Debug("Removed excluded columns from definition")
	}

	for _, declaration := range declarations {
		if declaration.col == nil {
			def.remove(declaration.name)
		}
	}

	for _, name := range def.names {
		if err := def.columns[name].Validate(); err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
	}

	return def, nil
}

// generateModelColumns appends one column per usable model field, honoring
// the field allow list and skipping names already present, so that neither
// inherited nor own declarations are ever overridden by generated ones.
func (def *Definition) generateModelColumns(declared map[string]struct{}) error {
	modelType := reflect.TypeOf(def.opts.Model)
	for modelType != nil && modelType.Kind() == reflect.Ptr {
		modelType = modelType.Elem()
	}

	if modelType == nil || modelType.Kind() != reflect.Struct {
		return tablebind.ConfigurationError{Reason: "table: model must be a struct or a pointer to one"}
	}

	library := def.opts.Library
	if library == nil {
		library = column.Default()
	}

	allowed := make(map[string]struct{}, len(def.opts.Fields))
	for _, name := range def.opts.Fields {
		allowed[name] = struct{}{}
	}

	generated := 0
	for i := 0; i < modelType.NumField(); i++ {
		field := modelType.Field(i)

		name, usable := column.NameForField(field)
		if !usable {
			continue
		}

		if len(allowed) > 0 {
			if _, ok := allowed[name]; !ok {
				continue
			}
		}

		if _, ok := declared[name]; ok {
			continue
		}

		if _, ok := def.columns[name]; ok {
			continue
		}

		def.upsert(name, library.FromField(field))
		generated++
	}

	log.WithFields(
		"columns", generated,
		"model", modelType.Name(),
	).Debug("Auto generated columns from model")

	return nil
}

// upsert sets a column, keeping the original position of an already known
// name and appending unknown names.
func (def *Definition) upsert(name string, col *column.Column) {
	if _, ok := def.columns[name]; !ok {
		def.names = append(def.names, name)
	}

	def.columns[name] = col
}

func (def *Definition) remove(name string) bool {
	if _, ok := def.columns[name]; !ok {
		return false
	}

	delete(def.columns, name)
	for i, known := range def.names {
		if known == name {
			def.names = append(def.names[:i], def.names[i+1:]...)
			break
		}
	}

	return true
}

// Names returns the merged column names in declaration order.
func (def *Definition) Names() []string {
	names := make([]string, len(def.names))
	copy(names, def.names)

	return names
}

// Column retrieves a single column declaration, or returns an
// ErrUnknownColumn, if the name is not part of the definition.
func (def *Definition) Column(name string) (*column.Column, error) {
	col, ok := def.columns[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownColumn)
	}

	return col, nil
}

// Len returns the number of columns in the definition.
func (def *Definition) Len() int {
	return len(def.names)
}

// expandSequence orders names by the given sequence, expanding the "..."
// wildcard to all names the sequence does not mention, in declaration
// order. Unknown or duplicate sequence entries are configuration errors.
func expandSequence(sequence, names []string) ([]string, error) {
	if len(sequence) == 0 {
		return names, nil
	}

	known := make(map[string]struct{}, len(names))
	for _, name := range names {
		known[name] = struct{}{}
	}

	mentioned := make(map[string]struct{}, len(sequence))
	wildcards := 0
	for _, entry := range sequence {
		if entry == SequenceWildcard {
			wildcards++
			continue
		}

		if _, ok := known[entry]; !ok {
			return nil, tablebind.ConfigurationError{Reason: fmt.Sprintf("table: unknown column %q in sequence", entry)}
		}

		if _, ok := mentioned[entry]; ok {
			return nil, tablebind.ConfigurationError{Reason: fmt.Sprintf("table: duplicate column %q in sequence", entry)}
		}

		mentioned[entry] = struct{}{}
	}

	if wildcards > 1 {
		return nil, tablebind.ConfigurationError{Reason: "table: sequence may contain at most one wildcard"}
	}

	remaining := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := mentioned[name]; !ok {
			remaining = append(remaining, name)
		}
	}

	expanded := make([]string, 0, len(names))
	for _, entry := range sequence {
		if entry == SequenceWildcard {
			expanded = append(expanded, remaining...)
			continue
		}

		expanded = append(expanded, entry)
	}

	if wildcards == 0 {
		expanded = append(expanded, remaining...)
	}

	return expanded, nil
}
