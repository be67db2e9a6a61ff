package models

import (
	"time"

	"github.com/blutech18/LDCU-Tabulation-sub001/storage"
)

type ActivityResponse struct {
	ID         string    `json:"id"`
	JudgeID    string    `json:"judgeId"`
	CategoryID int       `json:"categoryId"`
	Action     string    `json:"action"`
	Detail     string    `json:"detail"`
	Timestamp  time.Time `json:"timestamp"`
}

func TransformActivityFromStorage(r *storage.ActivityRecord) ActivityResponse {
	return ActivityResponse{
		ID:         r.ID,
		JudgeID:    r.JudgeID,
		CategoryID: r.CategoryID,
		Action:     r.Action,
		Detail:     r.Detail,
		Timestamp:  r.Timestamp,
	}
}
