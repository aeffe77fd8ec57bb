package countries

import (
	"fmt"
	"strings"

	"github.com/candidhq/intake/internal/core/domain"
)

func formatCallingCode(code int) string {
	return fmt.Sprintf("+%d", code)
}

func normalizeCallingCode(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return code
	}
	if !strings.HasPrefix(code, "+") {
		code = "+" + code
	}
	return code
}

// staticCountries is the second resolution tier: commonly used countries
// with their calling codes, kept deliberately small and hand-maintained.
var staticCountries = map[string]domain.CountryEntry{
	"AR": {ISO: "AR", CallingCode: "+54", Name: "Argentina", Flag: flagGlyph("AR")},
	"AT": {ISO: "AT", CallingCode: "+43", Name: "Austria", Flag: flagGlyph("AT")},
	"AU": {ISO: "AU", CallingCode: "+61", Name: "Australia", Flag: flagGlyph("AU")},
	"BE": {ISO: "BE", CallingCode: "+32", Name: "Belgium", Flag: flagGlyph("BE")},
	"BO": {ISO: "BO", CallingCode: "+591", Name: "Bolivia", Flag: flagGlyph("BO")},
	"BR": {ISO: "BR", CallingCode: "+55", Name: "Brazil", Flag: flagGlyph("BR")},
	"CA": {ISO: "CA", CallingCode: "+1", Name: "Canada", Flag: flagGlyph("CA")},
	"CH": {ISO: "CH", CallingCode: "+41", Name: "Switzerland", Flag: flagGlyph("CH")},
	"CL": {ISO: "CL", CallingCode: "+56", Name: "Chile", Flag: flagGlyph("CL")},
	"CN": {ISO: "CN", CallingCode: "+86", Name: "China", Flag: flagGlyph("CN")},
	"CO": {ISO: "CO", CallingCode: "+57", Name: "Colombia", Flag: flagGlyph("CO")},
	"CR": {ISO: "CR", CallingCode: "+506", Name: "Costa Rica", Flag: flagGlyph("CR")},
	"CZ": {ISO: "CZ", CallingCode: "+420", Name: "Czechia", Flag: flagGlyph("CZ")},
	"DE": {ISO: "DE", CallingCode: "+49", Name: "Germany", Flag: flagGlyph("DE")},
	"DK": {ISO: "DK", CallingCode: "+45", Name: "Denmark", Flag: flagGlyph("DK")},
	"EC": {ISO: "EC", CallingCode: "+593", Name: "Ecuador", Flag: flagGlyph("EC")},
	"ES": {ISO: "ES", CallingCode: "+34", Name: "Spain", Flag: flagGlyph("ES")},
	"FI": {ISO: "FI", CallingCode: "+358", Name: "Finland", Flag: flagGlyph("FI")},
	"FR": {ISO: "FR", CallingCode: "+33", Name: "France", Flag: flagGlyph("FR")},
	"GB": {ISO: "GB", CallingCode: "+44", Name: "United Kingdom", Flag: flagGlyph("GB")},
	"GR": {ISO: "GR", CallingCode: "+30", Name: "Greece", Flag: flagGlyph("GR")},
	"GT": {ISO: "GT", CallingCode: "+502", Name: "Guatemala", Flag: flagGlyph("GT")},
	"HN": {ISO: "HN", CallingCode: "+504", Name: "Honduras", Flag: flagGlyph("HN")},
	"HR": {ISO: "HR", CallingCode: "+385", Name: "Croatia", Flag: flagGlyph("HR")},
	"HU": {ISO: "HU", CallingCode: "+36", Name: "Hungary", Flag: flagGlyph("HU")},
	"IE": {ISO: "IE", CallingCode: "+353", Name: "Ireland", Flag: flagGlyph("IE")},
	"IN": {ISO: "IN", CallingCode: "+91", Name: "India", Flag: flagGlyph("IN")},
	"IT": {ISO: "IT", CallingCode: "+39", Name: "Italy", Flag: flagGlyph("IT")},
	"JP": {ISO: "JP", CallingCode: "+81", Name: "Japan", Flag: flagGlyph("JP")},
	"KR": {ISO: "KR", CallingCode: "+82", Name: "South Korea", Flag: flagGlyph("KR")},
	"MX": {ISO: "MX", CallingCode: "+52", Name: "Mexico", Flag: flagGlyph("MX")},
	"NI": {ISO: "NI", CallingCode: "+505", Name: "Nicaragua", Flag: flagGlyph("NI")},
	"NL": {ISO: "NL", CallingCode: "+31", Name: "Netherlands", Flag: flagGlyph("NL")},
	"NO": {ISO: "NO", CallingCode: "+47", Name: "Norway", Flag: flagGlyph("NO")},
	"NZ": {ISO: "NZ", CallingCode: "+64", Name: "New Zealand", Flag: flagGlyph("NZ")},
	"PA": {ISO: "PA", CallingCode: "+507", Name: "Panama", Flag: flagGlyph("PA")},
	"PE": {ISO: "PE", CallingCode: "+51", Name: "Peru", Flag: flagGlyph("PE")},
	"PL": {ISO: "PL", CallingCode: "+48", Name: "Poland", Flag: flagGlyph("PL")},
	"PT": {ISO: "PT", CallingCode: "+351", Name: "Portugal", Flag: flagGlyph("PT")},
	"PY": {ISO: "PY", CallingCode: "+595", Name: "Paraguay", Flag: flagGlyph("PY")},
	"RO": {ISO: "RO", CallingCode: "+40", Name: "Romania", Flag: flagGlyph("RO")},
	"SE": {ISO: "SE", CallingCode: "+46", Name: "Sweden", Flag: flagGlyph("SE")},
	"SV": {ISO: "SV", CallingCode: "+503", Name: "El Salvador", Flag: flagGlyph("SV")},
	"US": {ISO: "US", CallingCode: "+1", Name: "United States", Flag: flagGlyph("US")},
	"UY": {ISO: "UY", CallingCode: "+598", Name: "Uruguay", Flag: flagGlyph("UY")},
	"VE": {ISO: "VE", CallingCode: "+58", Name: "Venezuela", Flag: flagGlyph("VE")},
}

// minimalCountries is the third tier: enough entries to keep the form
// usable when both richer sources fail.
var minimalCountries = []domain.CountryEntry{
	{ISO: "AR", CallingCode: "+54", Name: "Argentina", Flag: flagGlyph("AR")},
	{ISO: "BR", CallingCode: "+55", Name: "Brazil", Flag: flagGlyph("BR")},
	{ISO: "CL", CallingCode: "+56", Name: "Chile", Flag: flagGlyph("CL")},
	{ISO: "CO", CallingCode: "+57", Name: "Colombia", Flag: flagGlyph("CO")},
	{ISO: "DE", CallingCode: "+49", Name: "Germany", Flag: flagGlyph("DE")},
	{ISO: "ES", CallingCode: "+34", Name: "Spain", Flag: flagGlyph("ES")},
	{ISO: "GB", CallingCode: "+44", Name: "United Kingdom", Flag: flagGlyph("GB")},
	{ISO: "MX", CallingCode: "+52", Name: "Mexico", Flag: flagGlyph("MX")},
	{ISO: "US", CallingCode: "+1", Name: "United States", Flag: flagGlyph("US")},
	{ISO: "UY", CallingCode: "+598", Name: "Uruguay", Flag: flagGlyph("UY")},
	{ISO: "GL", CallingCode: "+299", Name: "Greenland", Flag: flagGlyph("GL")},
}

// phonePatterns maps calling codes to national-number digit rules and
// display hints. Codes without an entry fall back to the generic check.
var phonePatterns = map[string]PhonePattern{
	"+1":   {MinDigits: 10, MaxDigits: 10, Hint: "XXX XXX XXXX"},
	"+31":  {MinDigits: 9, MaxDigits: 9, Hint: "X XXXX XXXX"},
	"+33":  {MinDigits: 9, MaxDigits: 9, Hint: "X XX XX XX XX"},
	"+34":  {MinDigits: 9, MaxDigits: 9, Hint: "XXX XXX XXX"},
	"+39":  {MinDigits: 9, MaxDigits: 10, Hint: "XXX XXX XXXX"},
	"+44":  {MinDigits: 10, MaxDigits: 10, Hint: "XXXX XXX XXX"},
	"+49":  {MinDigits: 10, MaxDigits: 11, Hint: "XXX XXXXXXXX"},
	"+52":  {MinDigits: 10, MaxDigits: 10, Hint: "XX XXXX XXXX"},
	"+54":  {MinDigits: 10, MaxDigits: 10, Hint: "XX XXXX XXXX"},
	"+55":  {MinDigits: 10, MaxDigits: 11, Hint: "XX XXXXX XXXX"},
	"+56":  {MinDigits: 9, MaxDigits: 9, Hint: "X XXXX XXXX"},
	"+57":  {MinDigits: 10, MaxDigits: 10, Hint: "XXX XXX XXXX"},
	"+385": {MinDigits: 8, MaxDigits: 9, Hint: "XX XXX XXXX"},
	"+506": {MinDigits: 8, MaxDigits: 8, Hint: "XXXX XXXX"},
	"+591": {MinDigits: 8, MaxDigits: 8, Hint: "XXXX XXXX"},
	"+598": {MinDigits: 8, MaxDigits: 8, Hint: "XXXX XXXX"},
}
