package roster

// seqModulus folds the admission-year prefix out of a sequence number. Roll
// numbers embed a 2-digit admission year before a per-year sequence
// ("CS2401" = year 24, sequence 401); comparing modulo 1000 keeps one range
// definition valid year after year. A per-year sequence of 1000+ students in
// one division would silently alias; this is an accepted design constraint,
// not a guarded condition.
const seqModulus = 1000

// InRange reports whether rollOrPRN falls inside the inclusive [from, to]
// range, compared on modulo-1000 sequences. Any extraction failure is a
// non-match (fail closed). Neither bound ordering (from <= to) nor scope is
// validated here: sequences are only meaningful within one
// department/year/division, and the caller owns that scoping.
func InRange(rollOrPRN, from, to string) bool {
	seq, ok := ExtractSequence(rollOrPRN)
	if !ok {
		return false
	}
	fromSeq, ok := ExtractSequence(from)
	if !ok {
		return false
	}
	toSeq, ok := ExtractSequence(to)
	if !ok {
		return false
	}

	seq %= seqModulus
	fromSeq %= seqModulus
	toSeq %= seqModulus
	return fromSeq <= seq && seq <= toSeq
}
