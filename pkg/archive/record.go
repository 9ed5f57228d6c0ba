// Package archive persists each session's captions to disk so a run of
// the installation leaves a reviewable transcript.
package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Record is one archived caption.
type Record struct {
	ID        string    `json:"id"`
	Seq       uint64    `json:"seq"`
	Text      string    `json:"text"`
	RawText   string    `json:"raw_text"`
	Model     string    `json:"model,omitempty"`
	LatencyMs int64     `json:"latency_ms,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionData is the JSON structure of one session file.
type SessionData struct {
	Version   int       `json:"version"`
	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Records   []Record  `json:"records"`
}

const currentVersion = 1

// LoadSession reads a session file from disk.
func LoadSession(path string) (*SessionData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var session SessionData
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}
	return &session, nil
}
