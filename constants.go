package tablebind

// FilterMode selects how a filter value is compared against a resolved
// cell value. The comparison itself runs through Compare, so every mode
// works across the same value types ordering does.
type FilterMode string

// The comparison modes understood by a filter. The equality modes match
// the resolved value exactly; the relational modes follow Compare's
// ordering.
const (
	FilterEquals        FilterMode = "EQUALS"
	FilterNotEquals     FilterMode = "NOT_EQUALS"
	FilterGreater       FilterMode = "GREATER"
	FilterGreaterEquals FilterMode = "GREATER_EQUALS"
	FilterLesser        FilterMode = "LESSER"
	FilterLesserEquals  FilterMode = "LESSER_EQUALS"
)
