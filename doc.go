// Package tablebind turns declarative column definitions and arbitrary record
// collections into bound, orderable and filterable tables.
//
// The root package contains the shared value types: Accessor paths for pulling
// values out of heterogeneous records, and OrderBy / OrderByTuple for modelling
// sort keys. The column package contains data source agnostic column
// declarations, and the table package binds declarations to live data.
package tablebind
