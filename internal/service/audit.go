package service

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// AuditLog is an append-only operation log. Each recorded event becomes one
// JSON line; the file is only ever appended to, never rewritten.
type AuditLog struct {
	f   *os.File
	enc *json.Encoder
}

// auditRecord is the on-disk line format.
type auditRecord struct {
	Time    time.Time   `json:"time"`
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// OpenAudit opens (or creates) the audit log at path.
func OpenAudit(path string) (*AuditLog, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open audit log %s: %w", path, err)
	}
	return &AuditLog{f: f, enc: json.NewEncoder(f)}, nil
}

// Record appends one event to the log.
func (a *AuditLog) Record(event Event) error {
	return a.enc.Encode(auditRecord{
		Time:    time.Now().UTC(),
		Type:    event.Type,
		Payload: event.Payload,
	})
}

// Close closes the underlying file.
func (a *AuditLog) Close() error {
	return a.f.Close()
}
