package app

import (
	"sync"
	"time"
)

const apiLogMaxEntries = 200

// APILogEntry records a single call to the places backend.
type APILogEntry struct {
	Time     time.Time     `json:"time"`
	Service  string        `json:"service"`
	Method   string        `json:"method"`
	Target   string        `json:"target"`
	Status   string        `json:"status"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

var (
	apiLogMu      sync.Mutex
	apiLogEntries []*APILogEntry
)

// RecordAPICall appends an external API call record to the in-memory log.
// Target must never contain credentials.
func RecordAPICall(service, method, target, status string, duration time.Duration, callErr error) {
	entry := &APILogEntry{
		Time:     time.Now(),
		Service:  service,
		Method:   method,
		Target:   target,
		Status:   status,
		Duration: duration,
	}
	if callErr != nil {
		entry.Error = callErr.Error()
	}
	apiLogMu.Lock()
	apiLogEntries = append(apiLogEntries, entry)
	if len(apiLogEntries) > apiLogMaxEntries {
		apiLogEntries = apiLogEntries[len(apiLogEntries)-apiLogMaxEntries:]
	}
	apiLogMu.Unlock()
}

// GetAPILog returns up to limit entries, newest first. A limit <= 0 returns
// everything.
func GetAPILog(limit int) []*APILogEntry {
	apiLogMu.Lock()
	defer apiLogMu.Unlock()
	n := len(apiLogEntries)
	if limit > 0 && limit < n {
		n = limit
	}
	result := make([]*APILogEntry, 0, n)
	for i := len(apiLogEntries) - 1; i >= 0 && len(result) < n; i-- {
		result = append(result, apiLogEntries[i])
	}
	return result
}
