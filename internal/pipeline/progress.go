package pipeline

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/jonathan/careergate/internal/types"
)

// ComputeProgress derives completion totals from the items. Nothing here is
// stored; progress is always recomputed on read.
func ComputeProgress(roadmapID uuid.UUID, items []types.LearningItem) types.Progress {
	p := types.Progress{RoadmapID: roadmapID, Weeks: []types.WeekProgress{}}

	byWeek := map[int]*types.WeekProgress{}
	for _, it := range items {
		w, ok := byWeek[it.WeekNo]
		if !ok {
			w = &types.WeekProgress{WeekNo: it.WeekNo}
			byWeek[it.WeekNo] = w
		}
		w.TotalItems++
		p.TotalItems++
		if it.Completed {
			w.CompletedItems++
			p.CompletedItems++
		}
	}

	for _, w := range byWeek {
		w.Percent = percent(w.CompletedItems, w.TotalItems)
		p.Weeks = append(p.Weeks, *w)
	}
	sort.Slice(p.Weeks, func(i, j int) bool { return p.Weeks[i].WeekNo < p.Weeks[j].WeekNo })

	p.Percent = percent(p.CompletedItems, p.TotalItems)
	return p
}

func percent(done, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(done) / float64(total)))
}
