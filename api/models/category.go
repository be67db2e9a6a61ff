package models

import "github.com/blutech18/LDCU-Tabulation-sub001/storage"

type CategoryCreateRequest struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	TabularType string `json:"tabularType"`
	Order       int    `json:"order"`
}

type CategoryUpdateRequest struct {
	Name        string `json:"name"`
	TabularType string `json:"tabularType"`
	Completed   bool   `json:"completed"`
	Order       int    `json:"order"`
}

type CategoryResponse struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	TabularType string `json:"tabularType"`
	Completed   bool   `json:"completed"`
	Order       int    `json:"order"`
}

func TransformCategoryFromStorage(c *storage.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		TabularType: c.TabularType,
		Completed:   c.Completed,
		Order:       c.Order,
	}
}
