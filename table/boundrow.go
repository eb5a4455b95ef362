package table

import (
	"github.com/tablebind-project/tablebind/column"
)

// BoundRow pairs a single record with the table it is displayed in. Rows
// are constructed on demand during iteration and hold no cached cell state.
type BoundRow struct {
	table  *Table
	record interface{}
}

// Record returns the underlying record.
func (br BoundRow) Record() interface{} {
	return br.record
}

// Table returns the owning table.
func (br BoundRow) Table() *Table {
	return br.table
}

// Cell resolves the display value for the named column: the raw value is
// extracted, empty values are substituted with the effective default, and
// any render hook or column renderer is applied last.
func (br BoundRow) Cell(name string) (interface{}, error) {
	bc, err := br.table.columns.Get(name)
	if err != nil {
		return nil, err
	}

	value, err := br.rawCell(bc)
	if err != nil {
		return nil, err
	}

	value = br.substituteDefault(bc, value)

	if hooks, ok := br.table.hooks[name]; ok && hooks.Render != nil {
		return hooks.Render(CellContext{
			Table:  br.table,
			Row:    br,
			Column: bc,
			Record: br.record,
			Value:  value,
		}), nil
	}

	if render := bc.Column().Render(); render != nil {
		return render(value, br.record), nil
	}

	return value, nil
}

// Value resolves the named column's raw value for non display consumers
// such as export, bypassing render hooks but honoring value hooks.
func (br BoundRow) Value(name string) (interface{}, error) {
	bc, err := br.table.columns.Get(name)
	if err != nil {
		return nil, err
	}

	value, err := br.rawCell(bc)
	if err != nil {
		return nil, err
	}

	if hooks, ok := br.table.hooks[name]; ok && hooks.Value != nil {
		return hooks.Value(CellContext{
			Table:  br.table,
			Row:    br,
			Column: bc,
			Record: br.record,
			Value:  value,
		}), nil
	}

	if value_ := bc.Column().Value(); value_ != nil {
		return value_(value, br.record), nil
	}

	return value, nil
}

func (br BoundRow) rawCell(bc BoundColumn) (interface{}, error) {
	if fn := bc.Column().AccessorFunc(); fn != nil {
		return fn(br.record), nil
	}

	accessor := bc.Accessor()

	// A record may expose per field display strings for choice backed
	// values. The container is resolved quietly so plain records fall
	// through to ordinary resolution.
	penultimate, last := accessor.Penultimate(br.record)
	if displayer, ok := penultimate.(column.Displayer); ok {
		if value, ok := displayer.Display(last); ok {
			return value, nil
		}
	}

	return accessor.Resolve(br.record)
}

func (br BoundRow) substituteDefault(bc BoundColumn, value interface{}) interface{} {
	if !bc.Column().IsEmptyValue(value) {
		return value
	}

	if fallback, ok := bc.Default(br.record); ok {
		return fallback
	}

	return value
}

// BoundRows is the iterable view over a table's current, ordered and
// filtered records.
type BoundRows struct {
	table *Table
}

// Len returns the number of rows in the table's current data.
func (brs BoundRows) Len() int {
	return brs.table.data.Len()
}

// At returns the row at the given position in current order.
func (brs BoundRows) At(i int) (BoundRow, error) {
	record, err := brs.table.data.At(i)
	if err != nil {
		return BoundRow{}, err
	}

	return BoundRow{table: brs.table, record: record}, nil
}

// Each calls fn for every row in order, stopping early when fn returns
// false.
func (brs BoundRows) Each(fn func(BoundRow) bool) error {
	for i := 0; i < brs.Len(); i++ {
		row, err := brs.At(i)
		if err != nil {
			return err
		}

		if !fn(row) {
			return nil
		}
	}

	return nil
}
