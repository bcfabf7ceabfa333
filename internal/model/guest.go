package model

import "time"

type Guest struct {
	ExternalID     int64     `json:"external_id"`
	DisplayName    string    `json:"display_name"`
	RedemptionCode string    `json:"redemption_code"`
	CreatedAt      time.Time `json:"created_at"`
}
