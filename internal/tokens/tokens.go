// Package tokens watches how much of the model's context window a session
// is consuming. Purely advisory: it never blocks or trims anything.
package tokens

import "context"

// ContextCeiling is the model's advertised context window in tokens.
const ContextCeiling = 1_000_000

// Advisory thresholds, in percent of the ceiling.
const (
	NoticePercent = 50.0
	WarnPercent   = 80.0
)

// Tier grades how full the context window is.
type Tier int

const (
	TierOK Tier = iota
	TierNotice
	TierWarn
)

// Counter is the remote surface the monitor needs. A negative count means
// the probe failed.
type Counter interface {
	CountTokens(ctx context.Context) int
}

// Usage reports the measured context size for one session.
type Usage struct {
	Tokens  int
	Percent float64
	Tier    Tier
}

// Monitor checks session context size against the ceiling.
type Monitor struct {
	counter Counter
	ceiling int
}

// NewMonitor builds a monitor with the default ceiling.
func NewMonitor(counter Counter) *Monitor {
	return &Monitor{counter: counter, ceiling: ContextCeiling}
}

// Check measures the current context. The second return is false when the
// count failed and no advisory should be shown.
func (m *Monitor) Check(ctx context.Context) (Usage, bool) {
	count := m.counter.CountTokens(ctx)
	if count < 0 {
		return Usage{}, false
	}

	usage := Usage{
		Tokens:  count,
		Percent: float64(count) / float64(m.ceiling) * 100.0,
	}
	switch {
	case usage.Percent >= WarnPercent:
		usage.Tier = TierWarn
	case usage.Percent >= NoticePercent:
		usage.Tier = TierNotice
	default:
		usage.Tier = TierOK
	}
	return usage, true
}
