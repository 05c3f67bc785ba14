package roster

import "strings"

// appliesTo reports whether a batch definition's scope covers the student:
// same department, same (alias-normalized) year of study, and the same
// division leading character — a sub-batch division like "A1" belongs to
// division "A".
func appliesTo(def BatchDefinition, st Student, aliases YearAliases) bool {
	if !strings.EqualFold(strings.TrimSpace(st.Branch), strings.TrimSpace(def.Department)) {
		return false
	}
	if !aliases.Match(st.YearOfStudy, def.Class) {
		return false
	}
	return divisionMatch(st.Division, def.Division)
}

func divisionMatch(studentDiv, defDiv string) bool {
	studentDiv = strings.TrimSpace(studentDiv)
	defDiv = strings.TrimSpace(defDiv)
	if studentDiv == "" || defDiv == "" {
		return false
	}
	return strings.EqualFold(studentDiv[:1], defDiv[:1])
}

// MatchingBatches returns every batch definition applicable to the student,
// in input order. More than one element means overlapping ranges — a
// data-entry error the caller may warn about; it is never fatal.
func MatchingBatches(st Student, defs []BatchDefinition, aliases YearAliases) []BatchDefinition {
	var matches []BatchDefinition
	for _, def := range defs {
		if !appliesTo(def, st, aliases) {
			continue
		}
		if InRange(st.RollKey(), def.RbtFrom, def.RbtTo) {
			matches = append(matches, def)
		}
	}
	return matches
}

// ResolveBatchForStudent finds the batch definition the student belongs to:
// the first match in input order, or nil when the student is unassigned.
// Callers must treat nil as "unassigned", not as an error.
func ResolveBatchForStudent(st Student, defs []BatchDefinition, aliases YearAliases) *BatchDefinition {
	matches := MatchingBatches(st, defs, aliases)
	if len(matches) == 0 {
		return nil
	}
	return &matches[0]
}

// ResolveStudentsForBatch returns the students whose roll keys fall inside
// the batch definition's range, preserving input order.
func ResolveStudentsForBatch(def BatchDefinition, students []Student, aliases YearAliases) []Student {
	var matched []Student
	for _, st := range students {
		if !appliesTo(def, st, aliases) {
			continue
		}
		if InRange(st.RollKey(), def.RbtFrom, def.RbtTo) {
			matched = append(matched, st)
		}
	}
	return matched
}
