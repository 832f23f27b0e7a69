package model

import "time"

// PersistedAuth is the subset of the session that survives restarts.
type PersistedAuth struct {
	User            *User  `json:"user"`
	Tokens          string `json:"tokens"`
	IsAuthenticated bool   `json:"isAuthenticated"`
}

// StoredRecord is a named client-side storage entry.
type StoredRecord struct {
	Name      string    `gorm:"primaryKey;size:128"`
	Payload   string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
