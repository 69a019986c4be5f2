package solver

import "sync"

// LogEntry records one completed outer iteration: the accepted
// operating point, every player's strategy and total cost, and the
// step size the line search settled on. Entries are immutable once
// appended.
type LogEntry struct {
	Iteration      int
	StepSize       float64
	Accepted       bool
	TotalCosts     []float64
	MaxFeedforward float64
	OperatingPoint *OperatingPoint
	Strategies     []*Strategy
}

// Log is the append-only iterate record. The solver is the single
// writer; readers (live views, exporters) may poll concurrently.
type Log struct {
	mu      sync.RWMutex
	entries []*LogEntry
}

func NewLog() *Log {
	return &Log{}
}

func (l *Log) Append(e *LogEntry) {
	l.mu.Lock()
	l.entries = append(l.entries, e)
	l.mu.Unlock()
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

func (l *Log) Entry(i int) *LogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.entries[i]
}

func (l *Log) Last() *LogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.entries) == 0 {
		return nil
	}
	return l.entries[len(l.entries)-1]
}

// Entries returns a snapshot of the current entry list.
func (l *Log) Entries() []*LogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}
