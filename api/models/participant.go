package models

import "github.com/blutech18/LDCU-Tabulation-sub001/storage"

type ParticipantCreateRequest struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Number   int    `json:"number"`
	Division string `json:"division"`
	Active   *bool  `json:"active"`
}

type ParticipantUpdateRequest struct {
	Name     string `json:"name"`
	Number   int    `json:"number"`
	Division string `json:"division"`
	Active   *bool  `json:"active"`
}

type ParticipantResponse struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Number   int    `json:"number"`
	Division string `json:"division,omitempty"`
	Active   bool   `json:"active"`
}

func TransformParticipantFromStorage(p *storage.Participant) ParticipantResponse {
	return ParticipantResponse{
		ID:       p.ID,
		Name:     p.Name,
		Number:   p.Number,
		Division: p.Division,
		Active:   p.Active,
	}
}
