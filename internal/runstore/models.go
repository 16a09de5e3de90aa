package runstore

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a generation run.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPlanning  Status = "planning"
	StatusRendering Status = "rendering"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusInvalid   Status = "invalid"
)

var allStatuses = []Status{
	StatusPending,
	StatusPlanning,
	StatusRendering,
	StatusCompleted,
	StatusFailed,
	StatusInvalid,
}

// ParseStatus normalizes a user supplied status string.
func ParseStatus(value string) (Status, bool) {
	candidate := Status(strings.ToLower(strings.TrimSpace(value)))
	for _, status := range allStatuses {
		if status == candidate {
			return status, true
		}
	}
	return "", false
}

// Terminal reports whether the status ends a run.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusInvalid:
		return true
	default:
		return false
	}
}

// Run is one caption generation attempt.
type Run struct {
	ID              string
	Title           string
	TranscriptPath  string
	VideoPath       string
	AudioPath       string
	ImagePath       string
	OutputPath      string
	Status          Status
	ChunkCount      int
	SubCaptionCount int
	OverlayCount    int
	ErrorMessage    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	CompletedAt     time.Time
}

// Counts summarizes what the caption engine produced for a run.
type Counts struct {
	Chunks      int
	SubCaptions int
	Overlays    int
}
