package table

import (
	"errors"
	"fmt"
	"reflect"
	"sort"

	"golang.org/x/text/collate"

	"github.com/tablebind-project/tablebind"
)

// ErrFilteringUnsupported indicates that a wrapped collection cannot narrow
// itself and no in-memory fallback is possible.
var ErrFilteringUnsupported = errors.New("collection does not support filtering")

// Collection is the contract a queryset-like collaborator must fulfill:
// native counting, native reordering by double underscore separated keys
// (optionally prefixed with "-") and positional access. Implementations may
// defer any round trips until first access.
type Collection interface {
	Count() int
	OrderBy(keys ...string) Collection
	At(i int) interface{}
}

// FilterableCollection is a Collection which can natively narrow itself.
type FilterableCollection interface {
	Collection

	Filter(groups ...FilterGroup) Collection
}

// Data normalizes the supported record collections behind a uniform length,
// indexing and ordering surface. The two implementations are ListData and
// CollectionData; the caller picks the variant when wrapping its input, or
// lets NewData probe for one.
type Data interface {
	// Len returns the number of records.
	Len() int

	// At returns the record at the given position, or an error wrapping
	// tablebind.ErrIndexOutOfRange.
	At(i int) (interface{}, error)

	order(keys tablebind.OrderByTuple, collator *collate.Collator) Data
	filter(groups []FilterGroup, collator *collate.Collator) (Data, error)
}

// NewData wraps arbitrary input into the matching Data variant: Collection
// implementations keep their native behavior, slices and arrays are
// snapshotted in-memory. Anything else is a configuration error.
func NewData(input interface{}) (Data, error) {
	switch value := input.(type) {
	case nil:
		return nil, tablebind.ConfigurationError{Reason: "table: data is required"}
	case Data:
		return value, nil
	case Collection:
		return NewCollectionData(value), nil
	case []interface{}:
		return NewListData(value), nil
	}

	rv := reflect.ValueOf(input)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		records := make([]interface{}, rv.Len())
		for i := range records {
			records[i] = rv.Index(i).Interface()
		}

		return &ListData{records: records}, nil
	}

	return nil, tablebind.ConfigurationError{
		Reason: "table: data must be Collection-like (Count, OrderBy, At) or a slice",
	}
}

// ListData is the in-memory Data variant. It operates on a private snapshot
// of the wrapped records; the caller's original slice is never mutated.
type ListData struct {
	records []interface{}
}

// NewListData snapshots the given records into an in-memory data source.
func NewListData(records []interface{}) *ListData {
	snapshot := make([]interface{}, len(records))
	copy(snapshot, records)

	return &ListData{records: snapshot}
}

// Len returns the number of records.
func (d *ListData) Len() int {
	return len(d.records)
}

// At returns the record at the given position.
func (d *ListData) At(i int) (interface{}, error) {
	if i < 0 || i >= len(d.records) {
		return nil, fmt.Errorf("row index %d: %w", i, tablebind.ErrIndexOutOfRange)
	}

	return d.records[i], nil
}

// Records returns a copy of the wrapped records.
func (d *ListData) Records() []interface{} {
	records := make([]interface{}, len(d.records))
	copy(records, d.records)

	return records
}

// Sort returns a new ListData ordered by the given comparator, leaving the
// receiver untouched. The sort is stable.
func (d *ListData) Sort(compare func(a, b interface{}) int) *ListData {
	records := d.Records()
	sort.SliceStable(records, func(i, j int) bool {
		return compare(records[i], records[j]) < 0
	})

	return &ListData{records: records}
}

func (d *ListData) order(keys tablebind.OrderByTuple, collator *collate.Collator) Data {
	return d.Sort(keys.KeyWithCollator(collator))
}

func (d *ListData) filter(groups []FilterGroup, collator *collate.Collator) (Data, error) {
	records := make([]interface{}, 0, len(d.records))

	for _, record := range d.records {
		matched := true
		for _, group := range groups {
			ok, err := group.matches(record, collator)
			if err != nil {
				return nil, err
			}

			if !ok {
				matched = false
				break
			}
		}

		if matched {
			records = append(records, record)
		}
	}

	return &ListData{records: records}, nil
}

// CollectionData is the Data variant delegating to a queryset-like
// collaborator's native counting and reordering.
type CollectionData struct {
	collection Collection
}

// NewCollectionData wraps a queryset-like collaborator.
func NewCollectionData(collection Collection) *CollectionData {
	return &CollectionData{collection: collection}
}

// Len returns the collaborator's native count.
func (d *CollectionData) Len() int {
	return d.collection.Count()
}

// At returns the record at the given position.
func (d *CollectionData) At(i int) (interface{}, error) {
	if i < 0 || i >= d.collection.Count() {
		return nil, fmt.Errorf("row index %d: %w", i, tablebind.ErrIndexOutOfRange)
	}

	return d.collection.At(i), nil
}

// Collection returns the wrapped collaborator.
func (d *CollectionData) Collection() Collection {
	return d.collection
}

func (d *CollectionData) order(keys tablebind.OrderByTuple, _ *collate.Collator) Data {
	return &CollectionData{collection: d.collection.OrderBy(keys.ForCollection()...)}
}

func (d *CollectionData) filter(groups []FilterGroup, _ *collate.Collator) (Data, error) {
	filterable, ok := d.collection.(FilterableCollection)
	if !ok {
		return nil, ErrFilteringUnsupported
	}

	return &CollectionData{collection: filterable.Filter(groups...)}, nil
}
