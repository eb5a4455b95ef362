package column

import (
	"fmt"
	"reflect"
	"time"

	"github.com/araddon/dateparse"
	"github.com/dustin/go-humanize"
	json "github.com/goccy/go-json"
)

// Marks rendered by boolean columns.
const (
	defaultTrueMark  = "✔"
	defaultFalseMark = "✘"
)

// Default layouts for date and datetime columns.
const (
	DefaultDateLayout     = "2006-01-02"
	DefaultDateTimeLayout = "2006-01-02 15:04:05"
)

// NewText builds a column for plain text values.
func NewText(opts ...Option) *Column {
	return New(opts...)
}

// NewBool builds a column rendering boolean values as marks.
func NewBool(opts ...Option) *Column {
	return NewBoolWithMarks(defaultTrueMark, defaultFalseMark, opts...)
}

// NewBoolWithMarks builds a boolean column with custom marks.
func NewBoolWithMarks(trueMark, falseMark string, opts ...Option) *Column {
	render := WithRender(func(value, _ interface{}) interface{} {
		b, ok := value.(bool)
		if !ok {
			return value
		}

		if b {
			return trueMark
		}

		return falseMark
	})

	return New(append([]Option{render}, opts...)...)
}

// NewNumber builds a column rendering numeric values with thousands
// separators. Non numeric values pass through unchanged.
func NewNumber(opts ...Option) *Column {
	render := WithRender(func(value, _ interface{}) interface{} {
		rv := reflect.ValueOf(value)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return humanize.Comma(rv.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return humanize.Comma(int64(rv.Uint()))
		case reflect.Float32, reflect.Float64:
			return humanize.Commaf(rv.Float())
		default:
			return value
		}
	})

	return New(append([]Option{render}, opts...)...)
}

// NewDate builds a column rendering dates in the given layout. String
// values are parsed leniently before formatting; an empty layout uses
// DefaultDateLayout.
func NewDate(layout string, opts ...Option) *Column {
	if layout == "" {
		layout = DefaultDateLayout
	}

	return newTimeColumn(layout, opts...)
}

// NewDateTime builds a column rendering timestamps in the given layout.
// String values are parsed leniently before formatting; an empty layout
// uses DefaultDateTimeLayout.
func NewDateTime(layout string, opts ...Option) *Column {
	if layout == "" {
		layout = DefaultDateTimeLayout
	}

	return newTimeColumn(layout, opts...)
}

func newTimeColumn(layout string, opts ...Option) *Column {
	render := WithRender(func(value, _ interface{}) interface{} {
		switch v := value.(type) {
		case time.Time:
			return v.Format(layout)
		case *time.Time:
			if v == nil {
				return nil
			}

			return v.Format(layout)
		case string:
			parsed, err := dateparse.ParseAny(v)
			if err != nil {
				return v
			}

			return parsed.Format(layout)
		default:
			return value
		}
	})

	return New(append([]Option{render}, opts...)...)
}

// NewJSON builds a column rendering structured values as compact JSON.
// Values which cannot be marshalled pass through unchanged.
func NewJSON(opts ...Option) *Column {
	render := WithRender(func(value, _ interface{}) interface{} {
		encoded, err := json.Marshal(value)
		if err != nil {
			return value
		}

		return string(encoded)
	})

	return New(append([]Option{render}, opts...)...)
}

// NewChoice builds a column rendering raw values through a Choices mapping.
// Values without a display form pass through unchanged.
func NewChoice(choices Choices, opts ...Option) *Column {
	render := WithRender(func(value, _ interface{}) interface{} {
		display, err := choices.Display(fmt.Sprint(value))
		if err != nil {
			return value
		}

		return display
	})

	return New(append([]Option{WithChoices(choices), render}, opts...)...)
}
