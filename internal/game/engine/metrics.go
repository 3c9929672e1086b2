package engine

import "sync/atomic"

// Metrics counts what the engine did since start.
type Metrics struct {
	Requests             int64
	AuthFailures         int64
	Syncs                int64
	AdminViolations      int64
	TurnsAccepted        int64
	TurnsRejected        int64
	MissedTurnsCorrected int64
	ChangesApplied       int64
	PersistFailures      int64
}

func (m *Metrics) inc(field *int64) { atomic.AddInt64(field, 1) }
func (m *Metrics) add(field *int64, n int) { atomic.AddInt64(field, int64(n)) }

// Snapshot returns a read-only copy for HTTP output.
func (m *Metrics) Snapshot() map[string]any {
	return map[string]any{
		"requests":               atomic.LoadInt64(&m.Requests),
		"auth_failures":          atomic.LoadInt64(&m.AuthFailures),
		"syncs":                  atomic.LoadInt64(&m.Syncs),
		"admin_violations":       atomic.LoadInt64(&m.AdminViolations),
		"turns_accepted":         atomic.LoadInt64(&m.TurnsAccepted),
		"turns_rejected":         atomic.LoadInt64(&m.TurnsRejected),
		"missed_turns_corrected": atomic.LoadInt64(&m.MissedTurnsCorrected),
		"changes_applied":        atomic.LoadInt64(&m.ChangesApplied),
		"persist_failures":       atomic.LoadInt64(&m.PersistFailures),
	}
}
