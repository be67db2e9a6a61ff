package models

import (
	"github.com/blutech18/LDCU-Tabulation-sub001/storage"
	"github.com/blutech18/LDCU-Tabulation-sub001/tabulation"
)

type ResultEntry struct {
	ParticipantID   int     `json:"participantId"`
	ParticipantName string  `json:"participantName"`
	Number          int     `json:"number"`
	Average         float64 `json:"average"`
	Rank            int     `json:"rank"`
	Ranked          bool    `json:"ranked"`
}

type CategoryResultsResponse struct {
	CategoryID   int           `json:"categoryId"`
	CategoryName string        `json:"categoryName"`
	Mode         string        `json:"mode"`
	Division     string        `json:"division,omitempty"`
	Results      []ResultEntry `json:"results"`
}

type FinalResultsResponse struct {
	Mode     string        `json:"mode"`
	Division string        `json:"division,omitempty"`
	Results  []ResultEntry `json:"results"`
}

func TransformResultEntries(standings []tabulation.Standing, participants []*storage.Participant) []ResultEntry {
	names := make(map[int]*storage.Participant, len(participants))
	for _, p := range participants {
		names[p.ID] = p
	}

	out := make([]ResultEntry, 0, len(standings))
	for _, s := range standings {
		entry := ResultEntry{
			ParticipantID: s.ParticipantID,
			Average:       s.Value,
			Rank:          s.Rank,
			Ranked:        s.Rank > 0,
		}
		if p, ok := names[s.ParticipantID]; ok {
			entry.ParticipantName = p.Name
			entry.Number = p.Number
		}
		out = append(out, entry)
	}
	return out
}
