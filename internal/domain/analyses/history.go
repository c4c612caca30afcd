package analyses

import (
	"math"
	"sort"
)

// Pure views over an already-fetched history; no I/O here.

// TimelinePoint is one score sample on the progress chart.
type TimelinePoint struct {
	Period string `json:"period"`
	Score  int    `json:"score"`
}

// SortNewestFirst orders records descending by CreatedAt. Ordering is done
// here, after the fetch, so the store never needs to support it. Records
// with equal timestamps keep their fetch order.
func SortNewestFirst(records []*Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
}

// ScoreTimeline reduces records to one point per calendar month. When
// several records fall in the same month, the one seen last in the input
// wins, whatever its timestamp says.
func ScoreTimeline(records []*Record) []TimelinePoint {
	var out []TimelinePoint
	seen := map[string]int{}
	for _, r := range records {
		label := r.CreatedAt.Format("Jan 2006")
		if i, ok := seen[label]; ok {
			out[i].Score = r.Score
			continue
		}
		seen[label] = len(out)
		out = append(out, TimelinePoint{Period: label, Score: r.Score})
	}
	return out
}

// ScoreDelta is the newest score minus the second-newest. Records must be
// ordered newest first; with fewer than two records the delta is 0.
func ScoreDelta(records []*Record) int {
	if len(records) < 2 {
		return 0
	}
	return records[0].Score - records[1].Score
}

// StrengthsRatio is round(100 * strengths / (strengths + weaknesses)),
// 0 when both lists are empty.
func StrengthsRatio(r *Record) int {
	total := len(r.Strengths) + len(r.Weaknesses)
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(len(r.Strengths)) / float64(total)))
}

// ImprovementScore saturates to 100 with no weaknesses and bottoms out at 0
// once there are five or more.
func ImprovementScore(r *Record) int {
	score := 100 - len(r.Weaknesses)*20
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
