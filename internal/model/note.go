package model

import "time"

type TastingNote struct {
	ID         int64     `json:"id"`
	ExternalID int64     `json:"external_id"`
	TeaName    string    `json:"tea_name"`
	Taste      string    `json:"taste"`
	Impression string    `json:"impression"`
	CreatedAt  time.Time `json:"created_at"`
}
