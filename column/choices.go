package column

import "errors"

// ErrUnknownChoice indicates that a requested key is not known to a
// Choices mapping.
var ErrUnknownChoice = errors.New("unknown choice")

// Choices is an assignment of raw record values to their display form.
// E.g. "DE" => "Germany"
type Choices map[string]string

// ChoiceEntry is a simple tuple of a raw choice key to its display form.
type ChoiceEntry struct {
	Key, Display string
}

// Display retrieves the display form for a single choice key, or returns an
// ErrUnknownChoice, if the key does not exist.
func (c Choices) Display(key string) (string, error) {
	if c[key] == "" {
		return "", ErrUnknownChoice
	}

	return c[key], nil
}

// Entries returns all choice keys and their respective display forms, in no
// particular order.
func (c Choices) Entries() []ChoiceEntry {
	entries := make([]ChoiceEntry, len(c))

	i := 0
	for k, v := range c {
		entries[i] = ChoiceEntry{
			Key:     k,
			Display: v,
		}
		i++
	}

	return entries
}

// Displayer lets a record type provide display forms for raw field values,
// e.g. resolving a stored choice key to its human readable form. Cell
// resolution prefers the display form over raw field access.
type Displayer interface {
	// Display returns the display form of the named field, and whether
	// the record provides one for it.
	Display(field string) (interface{}, bool)
}
