package tabulation

import "sort"

// Standing is one participant's computed place. Rank 0 means unranked.
type Standing struct {
	ParticipantID int
	Value         float64
	Rank          int
}

// DenseRankScores ranks score totals for one judge, one category, one
// division: descending by total, dense competition ranking, so tied totals
// share a rank and the next distinct total takes the immediately following
// integer. A field of all-zero totals is reported unranked instead of being
// ranked as a tie.
func DenseRankScores(totals map[int]float64) []Standing {
	standings := make([]Standing, 0, len(totals))
	allZero := true
	for id, total := range totals {
		if total != 0 {
			allZero = false
		}
		standings = append(standings, Standing{ParticipantID: id, Value: total})
	}

	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Value != standings[j].Value {
			return standings[i].Value > standings[j].Value
		}
		return standings[i].ParticipantID < standings[j].ParticipantID
	})

	if allZero {
		return standings
	}

	rank := 0
	for i := range standings {
		if i == 0 || standings[i].Value != standings[i-1].Value {
			rank++
		}
		standings[i].Rank = rank
	}
	return standings
}

// DenseRankPositions ranks explicitly assigned positions (ranking categories):
// ascending, position 1 first. Participants without a recorded position stay
// unranked; when nothing was ever recorded the whole field is unranked.
func DenseRankPositions(positions map[int]int) []Standing {
	standings := make([]Standing, 0, len(positions))
	for id, pos := range positions {
		standings = append(standings, Standing{ParticipantID: id, Value: float64(pos)})
	}

	sort.Slice(standings, func(i, j int) bool {
		vi, vj := standings[i].Value, standings[j].Value
		// Unrecorded positions sort last.
		if (vi > 0) != (vj > 0) {
			return vi > 0
		}
		if vi != vj {
			return vi < vj
		}
		return standings[i].ParticipantID < standings[j].ParticipantID
	})

	rank := 0
	for i := range standings {
		if standings[i].Value <= 0 {
			continue
		}
		if rank == 0 || standings[i].Value != standings[i-1].Value {
			rank++
		}
		standings[i].Rank = rank
	}
	return standings
}

// RanksByParticipant flattens standings into a participant -> rank lookup,
// omitting unranked entries.
func RanksByParticipant(standings []Standing) map[int]int {
	out := make(map[int]int, len(standings))
	for _, s := range standings {
		if s.Rank > 0 {
			out[s.ParticipantID] = s.Rank
		}
	}
	return out
}
