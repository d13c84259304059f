package model

import "time"

// EventType identifies the type of session event
type EventType string

const (
	EventSessionStarted EventType = "session_started"
	EventEnergyChanged  EventType = "energy_changed"
	EventScoreChanged   EventType = "score_changed"
	EventItemsSpawned   EventType = "items_spawned"
	EventItemCollected  EventType = "item_collected"
	EventItemExpired    EventType = "item_expired"
	EventGameOver       EventType = "game_over"
	EventSessionRestart EventType = "session_restarted"
	EventAccountChanged EventType = "account_changed"
	EventHighScoreSaved EventType = "high_score_saved"
)

// Event is emitted by the game controller after a state change
type Event struct {
	Type       EventType
	Timestamp  time.Time
	Generation int
	Energy     int
	Score      int
	Payload    any // Type-specific data
}

// ItemsSpawnedPayload contains data for items spawned events
type ItemsSpawnedPayload struct {
	Count int
}

// ItemPayload contains data for item collected and expired events
type ItemPayload struct {
	ItemID  CollectibleID
	Variant Variant
}

// AccountChangedPayload contains data for account changed events
type AccountChangedPayload struct {
	Authenticated bool
	DisplayName   string
}
