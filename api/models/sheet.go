package models

import (
	"time"

	"github.com/blutech18/LDCU-Tabulation-sub001/tabulation"
)

// ScoreEntryRequest carries one cell edit. A null score clears the cell; it
// displays blank and persists as zero.
type ScoreEntryRequest struct {
	ParticipantID int      `json:"participantId"`
	CriterionID   int      `json:"criterionId"`
	Score         *float64 `json:"score"`
}

// ReorderRequest commits a drag-drop sequence: participant IDs in their new
// 1-based rank order for one division.
type ReorderRequest struct {
	Division string `json:"division"`
	Order    []int  `json:"order"`
}

type CellResponse struct {
	Score    *float64   `json:"score"`
	Rank     int        `json:"rank,omitempty"`
	LockedAt *time.Time `json:"lockedAt,omitempty"`
}

type StandingResponse struct {
	ParticipantID int     `json:"participantId"`
	Value         float64 `json:"value"`
	Rank          int     `json:"rank"`
	Ranked        bool    `json:"ranked"`
}

type SheetResponse struct {
	JudgeID       string                       `json:"judgeId"`
	Category      CategoryResponse             `json:"category"`
	Criteria      []CriterionResponse          `json:"criteria"`
	Participants  []ParticipantResponse        `json:"participants"`
	Cells         map[int]map[int]CellResponse `json:"cells"`
	Totals        map[int]float64              `json:"totals"`
	Standings     []StandingResponse           `json:"standings"`
	Order         []int                        `json:"order,omitempty"`
	Locked        bool                         `json:"locked"`
	EverSubmitted bool                         `json:"everSubmitted"`
	Saving        bool                         `json:"saving"`
	Unsaved       int                          `json:"unsaved"`
}

func TransformCell(cell tabulation.Cell) CellResponse {
	out := CellResponse{Rank: cell.Rank}
	if cell.Kind != tabulation.CellEmpty {
		score := cell.Score
		out.Score = &score
	}
	if cell.Kind == tabulation.CellLocked {
		ts := cell.LockedAt
		out.LockedAt = &ts
	}
	return out
}

func TransformStandings(standings []tabulation.Standing) []StandingResponse {
	out := make([]StandingResponse, 0, len(standings))
	for _, s := range standings {
		out = append(out, StandingResponse{
			ParticipantID: s.ParticipantID,
			Value:         s.Value,
			Rank:          s.Rank,
			Ranked:        s.Rank > 0,
		})
	}
	return out
}

func TransformSheetView(view *tabulation.SheetView) SheetResponse {
	criteria := make([]CriterionResponse, 0, len(view.Criteria))
	for _, cr := range view.Criteria {
		criteria = append(criteria, TransformCriterionFromStorage(cr))
	}
	participants := make([]ParticipantResponse, 0, len(view.Participants))
	for _, p := range view.Participants {
		participants = append(participants, TransformParticipantFromStorage(p))
	}
	cells := make(map[int]map[int]CellResponse, len(view.Cells))
	for participantID, row := range view.Cells {
		out := make(map[int]CellResponse, len(row))
		for criterionID, cell := range row {
			out[criterionID] = TransformCell(cell)
		}
		cells[participantID] = out
	}

	return SheetResponse{
		JudgeID:       view.JudgeID,
		Category:      TransformCategoryFromStorage(view.Category),
		Criteria:      criteria,
		Participants:  participants,
		Cells:         cells,
		Totals:        view.Totals,
		Standings:     TransformStandings(view.Standings),
		Order:         view.Order,
		Locked:        view.Locked,
		EverSubmitted: view.EverSubmitted,
		Saving:        view.Saving,
		Unsaved:       len(view.Unsaved),
	}
}
