package table

import (
	"fmt"
	"strings"

	"github.com/tablebind-project/tablebind"
	"github.com/tablebind-project/tablebind/column"
)

// CellContext carries everything a render or value function may want: the
// owning table, the bound row and column, the raw record and the resolved
// (and default substituted) cell value.
type CellContext struct {
	Table  *Table
	Row    BoundRow
	Column BoundColumn
	Record interface{}
	Value  interface{}
}

// RenderFunc transforms a cell under full context. Functions which only
// need a subset of the context use the adapters below, keeping their
// signatures as small as what they actually consume.
type RenderFunc func(ctx CellContext) interface{}

// RenderValue adapts a transform which only consumes the cell value.
func RenderValue(fn func(value interface{}) interface{}) RenderFunc {
	return func(ctx CellContext) interface{} {
		return fn(ctx.Value)
	}
}

// RenderRecord adapts a transform which consumes the record and the cell
// value.
func RenderRecord(fn func(record, value interface{}) interface{}) RenderFunc {
	return func(ctx CellContext) interface{} {
		return fn(ctx.Record, ctx.Value)
	}
}

// OrderFunc reorders data on behalf of a single column. It returns the
// possibly replaced data and whether it handled the ordering; unhandled
// ordering falls back to the column's physical sort keys.
type OrderFunc func(data Data, descending bool) (Data, bool)

// Hooks are per column overrides, registered by column name at table
// construction. A render hook wins over the column's own render transform,
// a value hook over the column's value transform, and an order hook over
// key based ordering.
type Hooks struct {
	Render RenderFunc
	Value  RenderFunc
	Order  OrderFunc
}

// ChoicesOrder builds an order hook sorting in-memory records by the
// display form of their raw choice keys, so that a choice column orders the
// way it reads, not the way it is stored. Collection backed data is left
// unhandled.
func ChoicesOrder(accessor string, choices column.Choices) OrderFunc {
	path := tablebind.Accessor(accessor)

	displayFor := func(record interface{}) string {
		raw, _ := path.ResolveQuiet(record)

		display, err := choices.Display(fmt.Sprint(raw))
		if err != nil {
			return fmt.Sprint(raw)
		}

		return display
	}

	return func(data Data, descending bool) (Data, bool) {
		list, ok := data.(*ListData)
		if !ok {
			return data, false
		}

		sorted := list.Sort(func(a, b interface{}) int {
			result := strings.Compare(displayFor(a), displayFor(b))
			if descending {
				result = -result
			}

			return result
		})

		return sorted, true
	}
}
