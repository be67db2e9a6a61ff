package tabulation

import (
	"sort"

	"github.com/blutech18/LDCU-Tabulation-sub001/storage"
)

// JudgeSheet is one judge's computed view of a category for one division:
// participant totals plus the dense ranks derived from them (scoring) or from
// the judge's recorded positions (ranking).
type JudgeSheet struct {
	JudgeID string
	Totals  map[int]float64
	Ranks   map[int]int
}

// BuildJudgeSheets groups persisted cells by judge and computes each judge's
// totals and ranks over the given participant set. Cells for participants
// outside the set (another division) are ignored.
func BuildJudgeSheets(category *storage.Category, participants []*storage.Participant, cells []*storage.ScoreCell) []*JudgeSheet {
	inSet := make(map[int]bool, len(participants))
	for _, p := range participants {
		inSet[p.ID] = true
	}

	byJudge := make(map[string][]*storage.ScoreCell)
	var judgeIDs []string
	for _, cell := range cells {
		if cell.CategoryID != category.ID || !inSet[cell.ParticipantID] {
			continue
		}
		if _, ok := byJudge[cell.JudgeID]; !ok {
			judgeIDs = append(judgeIDs, cell.JudgeID)
		}
		byJudge[cell.JudgeID] = append(byJudge[cell.JudgeID], cell)
	}
	sort.Strings(judgeIDs)

	sheets := make([]*JudgeSheet, 0, len(judgeIDs))
	for _, judgeID := range judgeIDs {
		sheet := &JudgeSheet{JudgeID: judgeID, Totals: make(map[int]float64)}
		positions := make(map[int]int)

		for _, p := range participants {
			sheet.Totals[p.ID] = 0
			positions[p.ID] = 0
		}
		for _, cell := range byJudge[judgeID] {
			sheet.Totals[cell.ParticipantID] += cell.Score
			if cell.Rank > 0 {
				positions[cell.ParticipantID] = cell.Rank
			}
		}

		if category.TabularType == storage.TabularTypeRanking {
			sheet.Ranks = RanksByParticipant(DenseRankPositions(positions))
		} else {
			sheet.Ranks = RanksByParticipant(DenseRankScores(sheet.Totals))
		}
		sheets = append(sheets, sheet)
	}
	return sheets
}

// Aggregator selects how one judge's sheet contributes to a category result.
// The two modes are chosen once at the top and injected everywhere a result
// is computed.
type Aggregator interface {
	Mode() string
	// JudgeValue is one judge's contribution for a participant, false when
	// the judge contributes nothing for them.
	JudgeValue(category *storage.Category, sheet *JudgeSheet, participantID int) (float64, bool)
	// Ascending reports whether a lower aggregate places higher.
	Ascending() bool
}

// RankBasedAggregator averages each judge's dense rank for the participant;
// lower averages place higher.
type RankBasedAggregator struct{}

func (RankBasedAggregator) Mode() string { return "rank" }

func (RankBasedAggregator) JudgeValue(_ *storage.Category, sheet *JudgeSheet, participantID int) (float64, bool) {
	rank, ok := sheet.Ranks[participantID]
	if !ok {
		return 0, false
	}
	return float64(rank), true
}

func (RankBasedAggregator) Ascending() bool { return true }

// ScoreBasedAggregator averages each judge's raw total; higher averages place
// higher. Ranking categories carry no scores, so they contribute nothing in
// this mode.
type ScoreBasedAggregator struct{}

func (ScoreBasedAggregator) Mode() string { return "score" }

func (ScoreBasedAggregator) JudgeValue(category *storage.Category, sheet *JudgeSheet, participantID int) (float64, bool) {
	if category.TabularType == storage.TabularTypeRanking {
		return 0, false
	}
	// A sheet with no ranks is an untouched sheet; it contributes nothing.
	if len(sheet.Ranks) == 0 {
		return 0, false
	}
	return sheet.Totals[participantID], true
}

func (ScoreBasedAggregator) Ascending() bool { return false }

// AggregatorForMode maps a mode name to its strategy; rank-based is the
// default for anything unrecognized.
func AggregatorForMode(mode string) Aggregator {
	if mode == "score" {
		return ScoreBasedAggregator{}
	}
	return RankBasedAggregator{}
}

// CategoryData bundles everything the aggregation needs for one category.
type CategoryData struct {
	Category *storage.Category
	Cells    []*storage.ScoreCell
}

// CategoryAverages computes each participant's category contribution: the
// average of the per-judge values over the judges that have one for them. A
// completed category contributes nothing for anyone, preserving its data
// while excluding it from every numerator and denominator.
func CategoryAverages(agg Aggregator, data CategoryData, participants []*storage.Participant) map[int]float64 {
	averages := make(map[int]float64)
	if data.Category.Completed {
		return averages
	}

	sheets := BuildJudgeSheets(data.Category, participants, data.Cells)
	for _, p := range participants {
		var sum float64
		var n int
		for _, sheet := range sheets {
			if v, ok := agg.JudgeValue(data.Category, sheet, p.ID); ok {
				sum += v
				n++
			}
		}
		if n > 0 {
			averages[p.ID] = sum / float64(n)
		}
	}
	return averages
}

// CategoryStandings dense-ranks a single category's averages in the mode's
// direction. Participants without a contribution stay unranked.
func CategoryStandings(agg Aggregator, data CategoryData, participants []*storage.Participant) []Standing {
	return rankAverages(agg, CategoryAverages(agg, data, participants), participants)
}

// FinalStandings combines every category into the overall event result: each
// participant's final value is the average of their category contributions,
// over the categories that produced one, dense-ranked in the mode's direction.
func FinalStandings(agg Aggregator, categories []CategoryData, participants []*storage.Participant) []Standing {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, data := range categories {
		for id, avg := range CategoryAverages(agg, data, participants) {
			sums[id] += avg
			counts[id]++
		}
	}

	finals := make(map[int]float64)
	for id, n := range counts {
		finals[id] = sums[id] / float64(n)
	}
	return rankAverages(agg, finals, participants)
}

func rankAverages(agg Aggregator, averages map[int]float64, participants []*storage.Participant) []Standing {
	var ranked []Standing
	var unranked []Standing
	for _, p := range participants {
		if v, ok := averages[p.ID]; ok {
			ranked = append(ranked, Standing{ParticipantID: p.ID, Value: v})
		} else {
			unranked = append(unranked, Standing{ParticipantID: p.ID})
		}
	}

	asc := agg.Ascending()
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Value != ranked[j].Value {
			if asc {
				return ranked[i].Value < ranked[j].Value
			}
			return ranked[i].Value > ranked[j].Value
		}
		return ranked[i].ParticipantID < ranked[j].ParticipantID
	})

	rank := 0
	for i := range ranked {
		if i == 0 || ranked[i].Value != ranked[i-1].Value {
			rank++
		}
		ranked[i].Rank = rank
	}
	return append(ranked, unranked...)
}
