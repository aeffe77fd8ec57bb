package countries

import (
	"errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/candidhq/intake/internal/core/domain"
)

var (
	// ErrCountryNotFound is returned when no resolution tier knows the ISO code.
	ErrCountryNotFound = errors.New("country not found")
)

// genericHint is shown when no calling-code specific format exists.
const genericHint = "XXX XXX XXXX"

// Generic national-number bounds used when no per-country pattern exists.
const (
	GenericMinDigits = 7
	GenericMaxDigits = 15
)

// PhonePattern is a digit-count rule for national numbers of one calling code.
type PhonePattern struct {
	MinDigits int
	MaxDigits int
	Hint      string
}

// Matches reports whether the digit count satisfies the pattern.
func (p *PhonePattern) Matches(digits string) bool {
	n := len(digits)
	return n >= p.MinDigits && n <= p.MaxDigits
}

// tier resolves an ISO code to a country entry. A false return is
// non-fatal and hands resolution to the next tier.
type tier func(iso string) (domain.CountryEntry, bool)

// Registry resolves country selections to calling codes, format hints and
// validation patterns. Resolution walks an ordered list of tiers and the
// first hit wins, so a broken or missing data source never blocks lookups.
type Registry struct {
	tiers []tier
	log   *slog.Logger
}

// NewRegistry builds a registry with the default tier chain:
// phone-number library, static table, minimal fallback list.
func NewRegistry() *Registry {
	return &Registry{
		tiers: []tier{libraryTier, staticTier, minimalTier},
		log:   slog.Default().With("component", "countries"),
	}
}

// newRegistryWithTiers is used by tests to exercise individual tiers.
func newRegistryWithTiers(tiers ...tier) *Registry {
	return &Registry{tiers: tiers, log: slog.Default().With("component", "countries")}
}

// Resolve maps a two-letter ISO code to a CountryEntry.
// Deterministic; no side effects beyond debug logging.
func (r *Registry) Resolve(iso string) (domain.CountryEntry, error) {
	iso = strings.ToUpper(strings.TrimSpace(iso))
	if len(iso) != 2 {
		return domain.CountryEntry{}, ErrCountryNotFound
	}

	for i, t := range r.tiers {
		if entry, ok := t(iso); ok {
			if i > 0 {
				r.log.Debug("Resolved country from fallback tier", "iso", iso, "tier", i+1)
			}
			return entry, nil
		}
	}
	return domain.CountryEntry{}, ErrCountryNotFound
}

// FormatHint returns a human-readable example pattern for a calling code,
// or a generic placeholder when the code is unknown.
func (r *Registry) FormatHint(callingCode string) string {
	if p, ok := phonePatterns[normalizeCallingCode(callingCode)]; ok && p.Hint != "" {
		return p.Hint
	}
	return genericHint
}

// Pattern returns the digit-count rule for a calling code, or nil when no
// specific rule exists and the caller should fall back to the generic
// 7-15 digit check.
func (r *Registry) Pattern(callingCode string) *PhonePattern {
	if p, ok := phonePatterns[normalizeCallingCode(callingCode)]; ok {
		rule := p
		return &rule
	}
	return nil
}

// StrictValidate asks the phone-number library whether the national number
// is valid for the given ISO region. checked=false means the library could
// not decide and the caller should fall back to pattern checks.
func (r *Registry) StrictValidate(national, iso string) (valid, checked bool) {
	num, err := phonenumbers.Parse(national, strings.ToUpper(iso))
	if err != nil {
		return false, false
	}
	return phonenumbers.IsValidNumber(num), true
}

// All returns every entry known to the static tiers, sorted by display
// name, for populating the country selector.
func (r *Registry) All() []domain.CountryEntry {
	seen := make(map[string]bool, len(staticCountries))
	var all []domain.CountryEntry
	for _, c := range staticCountries {
		seen[c.ISO] = true
		all = append(all, c)
	}
	for _, c := range minimalCountries {
		if !seen[c.ISO] {
			all = append(all, c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all
}

// libraryTier queries the phone-number library for the calling code.
// A zero return means the region is unknown to the library.
func libraryTier(iso string) (domain.CountryEntry, bool) {
	code := phonenumbers.GetCountryCodeForRegion(iso)
	if code == 0 {
		return domain.CountryEntry{}, false
	}

	entry := domain.CountryEntry{
		ISO:         iso,
		CallingCode: formatCallingCode(code),
		Name:        countryName(iso),
		Flag:        flagGlyph(iso),
	}
	return entry, true
}

// staticTier serves the hardcoded table of commonly used countries.
func staticTier(iso string) (domain.CountryEntry, bool) {
	c, ok := staticCountries[iso]
	return c, ok
}

// minimalTier is the last resort: a short curated list that keeps the
// selector usable even if every richer source is unavailable.
func minimalTier(iso string) (domain.CountryEntry, bool) {
	for _, c := range minimalCountries {
		if c.ISO == iso {
			return c, true
		}
	}
	return domain.CountryEntry{}, false
}

// countryName prefers the static table's display name, falling back to the
// raw ISO code for regions only the library knows.
func countryName(iso string) string {
	if c, ok := staticCountries[iso]; ok {
		return c.Name
	}
	for _, c := range minimalCountries {
		if c.ISO == iso {
			return c.Name
		}
	}
	return iso
}

// flagGlyph builds the regional-indicator flag for a two-letter ISO code.
func flagGlyph(iso string) string {
	if len(iso) != 2 {
		return ""
	}
	const base = 0x1F1E6
	r1 := rune(iso[0]-'A') + base
	r2 := rune(iso[1]-'A') + base
	return string(r1) + string(r2)
}
