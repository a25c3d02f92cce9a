package portal

import (
	"sync"
	"time"
)

// Decision is the outcome of an approval review.
type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

// ReviewEntry records one approve/reject action.
type ReviewEntry struct {
	ItemID   string    `json:"item_id"`
	Decision Decision  `json:"decision"`
	Reason   string    `json:"reason,omitempty"`
	Reviewer string    `json:"reviewer,omitempty"`
	At       time.Time `json:"at"`
}

// ReviewLog keeps the most recent review decisions, newest first.
type ReviewLog struct {
	mu      sync.RWMutex
	entries []ReviewEntry
	max     int
}

// NewReviewLog keeps at most max entries; max <= 0 keeps 50.
func NewReviewLog(max int) *ReviewLog {
	if max <= 0 {
		max = 50
	}
	return &ReviewLog{max: max}
}

// Record prepends an entry, dropping the oldest past capacity.
func (l *ReviewLog) Record(entry ReviewEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append([]ReviewEntry{entry}, l.entries...)
	if len(l.entries) > l.max {
		l.entries = l.entries[:l.max]
	}
}

// Recent returns up to limit entries; limit <= 0 returns all.
func (l *ReviewLog) Recent(limit int) []ReviewEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if limit <= 0 || limit >= len(l.entries) {
		return append([]ReviewEntry{}, l.entries...)
	}
	return append([]ReviewEntry{}, l.entries[:limit]...)
}
