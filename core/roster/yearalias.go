package roster

import "strings"

// YearAliases maps short year codes to full year names (FE -> First Year).
// Roster data carries both spellings over time; comparisons go through
// Normalize so either spelling matches the other.
type YearAliases map[string]string

// DefaultYearAliases is the standard FE/SE/TE/BE mapping, used when no
// mapping is configured.
func DefaultYearAliases() YearAliases {
	return YearAliases{
		"FE": "First Year",
		"SE": "Second Year",
		"TE": "Third Year",
		"BE": "Final Year",
	}
}

// NewYearAliases builds a YearAliases from configuration, upper-casing the
// short codes. A nil or empty map falls back to the defaults.
func NewYearAliases(m map[string]string) YearAliases {
	if len(m) == 0 {
		return DefaultYearAliases()
	}
	aliases := make(YearAliases, len(m))
	for short, full := range m {
		aliases[strings.ToUpper(strings.TrimSpace(short))] = strings.TrimSpace(full)
	}
	return aliases
}

// Normalize maps a year spelling to its canonical full name. Unknown values
// come back trimmed but otherwise untouched.
func (a YearAliases) Normalize(year string) string {
	year = strings.TrimSpace(year)
	if full, ok := a[strings.ToUpper(year)]; ok {
		return full
	}
	for _, full := range a {
		if strings.EqualFold(full, year) {
			return full
		}
	}
	return year
}

// Match reports whether two year spellings refer to the same year of study.
func (a YearAliases) Match(y1, y2 string) bool {
	return strings.EqualFold(a.Normalize(y1), a.Normalize(y2))
}
