package models

import "github.com/blutech18/LDCU-Tabulation-sub001/storage"

type CriterionCreateRequest struct {
	ID         int     `json:"id"`
	CategoryID int     `json:"categoryId"`
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
	MinScore   float64 `json:"minScore"`
	MaxScore   float64 `json:"maxScore"`
	Order      int     `json:"order"`
}

type CriterionResponse struct {
	ID         int     `json:"id"`
	CategoryID int     `json:"categoryId"`
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
	MinScore   float64 `json:"minScore,omitempty"`
	MaxScore   float64 `json:"maxScore,omitempty"`
	Order      int     `json:"order"`
}

func TransformCriterionFromStorage(c *storage.Criterion) CriterionResponse {
	return CriterionResponse{
		ID:         c.ID,
		CategoryID: c.CategoryID,
		Name:       c.Name,
		Percentage: c.Percentage,
		MinScore:   c.MinScore,
		MaxScore:   c.MaxScore,
		Order:      c.Order,
	}
}
