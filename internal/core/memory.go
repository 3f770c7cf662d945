package core

// SessionCache is the volatile, process-lifetime recent-turn window per
// session. It is a latency optimization, not a source of truth: entries
// are lost on restart and evicted under memory pressure.
type SessionCache interface {
	// Get returns up to limit turns for the session, oldest-first.
	// Unknown sessions yield nil; Get never fails.
	Get(sessionID string, limit int) []Turn
	Append(sessionID string, t Turn)
}
