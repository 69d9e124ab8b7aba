// Package repair brings untrusted learning plan drafts into a valid, totally ordered shape.
// Content is renumbered or trimmed rather than rejected.
package repair

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/jonathan/careergate/internal/types"
)

// Week and day numbers above these limits are coerced down to them.
const (
	MaxWeekNo = 520
	MaxDayNo  = 1000
)

// Report counts what NormalizeItems changed.
type Report struct {
	CoercedWeeks  int
	CoercedDays   int
	Renumbered    int
	DroppedLinks  int
	UntitledItems int
}

// Changed reports whether any repair was applied.
func (r Report) Changed() bool {
	return r.CoercedWeeks+r.CoercedDays+r.Renumbered+r.DroppedLinks+r.UntitledItems > 0
}

// NormalizeItems returns drafts ordered by (week, day) with every pair unique.
//
// Week and day numbers below 1 become 1 and those above MaxWeekNo/MaxDayNo
// are capped. Items are stable-sorted, so ties keep
// their arrival order, then within each week a day that does not advance past
// the previous one is moved to the next free day. Article links that are not
// absolute http(s) URLs are dropped, and blank titles are filled in.
func NormalizeItems(drafts []types.LearningItemDraft) ([]types.LearningItemDraft, Report) {
	var report Report
	items := make([]types.LearningItemDraft, len(drafts))
	for i, d := range drafts {
		if d.WeekNo < 1 || d.WeekNo > MaxWeekNo {
			d.WeekNo = max(1, min(MaxWeekNo, d.WeekNo))
			report.CoercedWeeks++
		}
		if d.DayNo < 1 || d.DayNo > MaxDayNo {
			d.DayNo = max(1, min(MaxDayNo, d.DayNo))
			report.CoercedDays++
		}
		items[i] = d
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].WeekNo != items[j].WeekNo {
			return items[i].WeekNo < items[j].WeekNo
		}
		return items[i].DayNo < items[j].DayNo
	})

	week, prevDay := 0, 0
	for i := range items {
		it := &items[i]
		if it.WeekNo != week {
			week, prevDay = it.WeekNo, 0
		}
		if it.DayNo <= prevDay {
			it.DayNo = prevDay + 1
			report.Renumbered++
		}
		prevDay = it.DayNo

		var dropped int
		it.ArticleLinks, dropped = cleanLinks(it.ArticleLinks)
		report.DroppedLinks += dropped

		it.Title = strings.TrimSpace(it.Title)
		if it.Title == "" {
			it.Title = fmt.Sprintf("Week %d, Day %d", it.WeekNo, it.DayNo)
			report.UntitledItems++
		}
		it.Description = strings.TrimSpace(it.Description)
		it.YouTubeVideoID = strings.TrimSpace(it.YouTubeVideoID)
		it.YouTubeSearchQuery = strings.TrimSpace(it.YouTubeSearchQuery)
	}

	return items, report
}

// CheckOrdering verifies the invariants NormalizeItems establishes.
func CheckOrdering(items []types.LearningItemDraft) error {
	seen := make(map[[2]int]bool, len(items))
	for i, it := range items {
		if it.WeekNo < 1 || it.DayNo < 1 {
			return &Error{Message: fmt.Sprintf("item %d has week %d day %d", i, it.WeekNo, it.DayNo)}
		}
		key := [2]int{it.WeekNo, it.DayNo}
		if seen[key] {
			return &Error{Message: fmt.Sprintf("duplicate week %d day %d", it.WeekNo, it.DayNo)}
		}
		seen[key] = true
		if i > 0 {
			prev := items[i-1]
			if prev.WeekNo > it.WeekNo || (prev.WeekNo == it.WeekNo && prev.DayNo > it.DayNo) {
				return &Error{Message: fmt.Sprintf("item %d is out of order", i)}
			}
		}
	}
	return nil
}

// IsArticleURL reports whether s is an absolute http(s) URL with a host.
func IsArticleURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func cleanLinks(links []string) ([]string, int) {
	out := make([]string, 0, len(links))
	seen := make(map[string]bool, len(links))
	dropped := 0
	for _, l := range links {
		l = strings.TrimSpace(l)
		if !IsArticleURL(l) {
			dropped++
			continue
		}
		if seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out, dropped
}
