package domain

// CountryEntry maps a country selection to its dialing metadata.
// Keyed by ISO code; calling codes are not unique across entries
// (several territories share one), so lookups always go ISO -> calling code.
type CountryEntry struct {
	ISO         string
	CallingCode string
	Name        string
	Flag        string
}
