package roster

import (
	"regexp"
	"strconv"
	"strings"
)

var trailingDigitsRegex = regexp.MustCompile(`\d+$`)

// ExtractSequence returns the integer value of the trailing digit run of a
// roll number or PRN ("CS2401" -> 2401, "045" -> 45). It matches digits
// anchored at the end of the string only: a value ending in a non-digit
// suffix (e.g. a PRN checksum letter, "72200001K") does not extract, and the
// caller must strip the suffix first. Extraction failure reports ok=false.
func ExtractSequence(value string) (int, bool) {
	match := trailingDigitsRegex.FindString(strings.TrimSpace(value))
	if match == "" {
		return 0, false
	}
	seq, err := strconv.Atoi(match)
	if err != nil {
		// digit run too long for an int
		return 0, false
	}
	return seq, true
}
