package model

import "time"

type VisitEvent struct {
	ID         int64     `json:"id"`
	ExternalID int64     `json:"external_id"`
	Source     string    `json:"source"`
	CreatedAt  time.Time `json:"created_at"`
}
