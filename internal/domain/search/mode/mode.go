package mode

// Mode is the search strategy, chosen by whether free text is present.
type Mode string

// Search mode constants.
const (
	// Simple filters by structured fields only and keeps the requested order.
	Simple Mode = "simple"
	// Weighted matches free text and re-orders the fetched page by relevance.
	Weighted Mode = "weighted"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Simple || m == Weighted
}

// For returns Weighted when hasFreeText is set, Simple otherwise.
func For(hasFreeText bool) Mode {
	if hasFreeText {
		return Weighted
	}
	return Simple
}
