package grading

import (
	"sort"

	"github.com/vietanh2810/school-portal-api/internal/domain"
)

// Cumulative aggregates a class's term results for one session. Results
// must carry their Student. Terms without a result are left out of the
// means rather than counted as zero.
func Cumulative(scheme Scheme, results []domain.Result) []domain.CumulativeResult {
	grouped := make(map[uint]*domain.CumulativeResult)
	var ids []uint

	for _, r := range results {
		if !r.Term.Valid() {
			continue
		}
		c, ok := grouped[r.StudentID]
		if !ok {
			c = &domain.CumulativeResult{}
			if r.Student != nil {
				c.Student = *r.Student
			} else {
				c.Student = domain.Student{ID: r.StudentID}
			}
			grouped[r.StudentID] = c
			ids = append(ids, r.StudentID)
		}
		c.Terms = append(c.Terms, domain.CumulativeTerm{
			Term:     r.Term,
			ResultID: r.ID,
			Average:  r.Average,
			GPA:      r.GPA,
			Position: r.Position,
		})
	}

	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })

	out := make([]domain.CumulativeResult, 0, len(ids))
	for _, id := range ids {
		c := grouped[id]
		sort.SliceStable(c.Terms, func(a, b int) bool {
			return c.Terms[a].Term.Index() < c.Terms[b].Term.Index()
		})

		var avgSum, gpaSum float64
		for _, t := range c.Terms {
			avgSum += t.Average
			gpaSum += t.GPA
		}
		n := float64(len(c.Terms))
		c.Average = Round2(avgSum / n)
		c.GPA = Round2(gpaSum / n)
		c.Grade = scheme.Grade(c.Average)
		c.Trend = trend(c.Terms)

		out = append(out, *c)
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Average > out[b].Average
	})
	for i := range out {
		out[i].Position = i + 1
	}

	return out
}

// trend compares the last two available terms.
func trend(terms []domain.CumulativeTerm) domain.Trend {
	if len(terms) < 2 {
		return domain.TrendStable
	}
	prev, last := terms[len(terms)-2].Average, terms[len(terms)-1].Average
	switch {
	case last > prev:
		return domain.TrendUp
	case last < prev:
		return domain.TrendDown
	}
	return domain.TrendStable
}
