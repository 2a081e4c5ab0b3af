package core

import (
	"sort"

	"github.com/scangrade/scangrade/schema"
)

// rankOutcomes sorts batch outcomes worst first and returns the top 'limit'
// entries. Ungraded documents sort ahead of everything so failures are
// always visible, then worse compliance levels, then lower scores. Image
// name breaks remaining ties to keep the order deterministic.
func rankOutcomes(outcomes []schema.ImageOutcome, limit int) []schema.ImageOutcome {
	sort.SliceStable(outcomes, func(i, j int) bool {
		a, b := outcomes[i], outcomes[j]
		if (a.Err != "") != (b.Err != "") {
			return a.Err != ""
		}
		if a.Level != b.Level {
			return schema.LevelRank(a.Level) > schema.LevelRank(b.Level)
		}
		if a.OverallScore != b.OverallScore {
			return a.OverallScore < b.OverallScore
		}
		return a.Image < b.Image
	})
	if len(outcomes) > limit {
		return outcomes[:limit]
	}
	return outcomes
}
