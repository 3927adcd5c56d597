package service

// SessionMetrics records session lifecycle counters.
type SessionMetrics interface {
	SessionCreated()
	SessionsPurged(n int64)
}
