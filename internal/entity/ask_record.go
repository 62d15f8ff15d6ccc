package entity

import (
	"time"
)

// AskRecord is one handled ask. Only metadata and the question are kept, never the answer.
type AskRecord struct {
	Id           int64  `gorm:"primaryKey;autoIncrement"`
	Model        string `gorm:"index"`
	Question     string
	HasImage     bool
	Status       string `gorm:"index"`
	Error        string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	CreatedAt    time.Time `gorm:"index"`
}

const (
	AskStatusOK     = "ok"
	AskStatusFailed = "failed"
)
