package report

import "sort"

// Bucket is a compliance tally for one cohort. Buckets only exist for
// cohorts that actually had absences in the window; zero-population cohorts
// never appear.
type Bucket struct {
	Department  string  `json:"department"`
	YearOfStudy string  `json:"year_of_study"`
	Division    string  `json:"division"`
	Batch       string  `json:"batch,omitempty"`
	Total       int     `json:"total"`
	Called      int     `json:"called"`
	PreInformed int     `json:"pre_informed"`
	Pending     int     `json:"pending"`
	Compliance  float64 `json:"compliance_pct"`
}

// Summarize tallies audit rows into cohort buckets. Rows group by
// (department, year, division); when byBatch is set they group by batch
// within that tuple instead, which is the useful view once a division filter
// narrows the rows to one class.
func Summarize(rows []AuditItem, byBatch bool) []Bucket {
	type key struct{ dept, year, div, batch string }

	tallies := make(map[key]*Bucket)
	order := make([]key, 0)
	for _, row := range rows {
		k := key{dept: row.Department, year: row.YearOfStudy, div: row.Division}
		if byBatch {
			k.batch = row.Batch
		}
		b, ok := tallies[k]
		if !ok {
			b = &Bucket{
				Department:  row.Department,
				YearOfStudy: row.YearOfStudy,
				Division:    row.Division,
				Batch:       k.batch,
			}
			tallies[k] = b
			order = append(order, k)
		}
		b.Total++
		switch row.Status {
		case StatusCalled:
			b.Called++
		case StatusPreInformed:
			b.PreInformed++
		default:
			b.Pending++
		}
	}

	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if a.dept != b.dept {
			return a.dept < b.dept
		}
		if a.year != b.year {
			return a.year < b.year
		}
		if a.div != b.div {
			return a.div < b.div
		}
		return a.batch < b.batch
	})

	buckets := make([]Bucket, 0, len(order))
	for _, k := range order {
		b := tallies[k]
		if b.Total > 0 {
			b.Compliance = float64(b.Called+b.PreInformed) / float64(b.Total) * 100
		}
		buckets = append(buckets, *b)
	}
	return buckets
}
