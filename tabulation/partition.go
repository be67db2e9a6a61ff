package tabulation

import "github.com/blutech18/LDCU-Tabulation-sub001/storage"

// FilterDivision returns the participants competing in one division. An empty
// division selects everyone, so events without divisions pass through intact.
func FilterDivision(participants []*storage.Participant, division string) []*storage.Participant {
	if division == "" {
		return participants
	}
	var out []*storage.Participant
	for _, p := range participants {
		if p.Division == division {
			out = append(out, p)
		}
	}
	return out
}
