package models

import "time"

type AdCreatedMessage struct {
	EventID   string    `json:"event_id"`
	Entry     AdEntry   `json:"entry"`
	Timestamp time.Time `json:"timestamp"`
}
