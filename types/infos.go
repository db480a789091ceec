package types

import (
	"encoding/json"
	"time"
)

// LatestImportTime is the last time the school imported data into
// WebUntis, in epoch milliseconds.
type LatestImportTime int64

// Time converts the value to a time.Time in UTC.
func (t LatestImportTime) Time() time.Time { return time.UnixMilli(int64(t)).UTC() }

// Infos describes an authenticated session. It carries no password.
type Infos struct {
	Username   string      `json:"username"`
	Server     string      `json:"server"`
	School     string      `json:"school"`
	UserAgent  string      `json:"userAgent,omitempty"`
	SessionID  string      `json:"sessionId"`
	PersonID   int         `json:"personId"`
	PersonType ElementType `json:"personType,omitempty"`
	ClassID    int         `json:"classId"`
}

// String renders the infos as JSON.
func (i Infos) String() string {
	b, err := json.Marshal(i)
	if err != nil {
		return "{}"
	}
	return string(b)
}
