package grading

import (
	"sort"

	"github.com/vietanh2810/school-portal-api/internal/domain"
)

// AssignPositions ranks the results of one class/session/term group in
// place: overall position by average, and per-subject position by subject
// total, both descending. Equal scores keep their id order and receive
// consecutive positions.
func AssignPositions(results []domain.Result) {
	order := make([]int, len(results))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return results[order[a]].ID < results[order[b]].ID
	})
	byID := append([]int(nil), order...)

	sort.SliceStable(order, func(a, b int) bool {
		return results[order[a]].Average > results[order[b]].Average
	})
	for pos, idx := range order {
		results[idx].Position = pos + 1
		results[idx].OutOf = len(results)
	}

	type entry struct {
		result, subject int
		total           float64
	}
	bySubject := make(map[string][]entry)
	var names []string
	for _, ri := range byID {
		for si, sc := range results[ri].Subjects {
			if _, ok := bySubject[sc.Subject]; !ok {
				names = append(names, sc.Subject)
			}
			bySubject[sc.Subject] = append(bySubject[sc.Subject], entry{ri, si, sc.Total})
		}
	}

	for _, name := range names {
		entries := bySubject[name]
		sort.SliceStable(entries, func(a, b int) bool {
			return entries[a].total > entries[b].total
		})
		for pos, e := range entries {
			results[e.result].Subjects[e.subject].Position = pos + 1
		}
	}
}
