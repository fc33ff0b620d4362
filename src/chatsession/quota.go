package chatsession

import (
	"github.com/tradewind/stockchat/src/chatapi"
)

// QuotaGate tracks the last-known send-allowance snapshot and answers "is a
// send currently allowed" without touching the network. The server remains
// authoritative; a send the gate allowed can still be rejected remotely. Not
// safe for concurrent use; the owning Session serializes access.
type QuotaGate struct {
	total     int
	used      int
	remaining int
	loaded    bool
}

// NewQuotaGate creates a gate with no snapshot. CanSend reports false until
// the first Set.
func NewQuotaGate() *QuotaGate {
	return &QuotaGate{}
}

// Set installs a server-reported snapshot.
func (g *QuotaGate) Set(q chatapi.Quota) {
	g.total = q.Total
	g.used = q.Used
	g.remaining = q.Remaining
	g.loaded = true
}

// Loaded reports whether a snapshot has been installed.
func (g *QuotaGate) Loaded() bool {
	return g.loaded
}

// CanSend is the fast, possibly stale pre-flight check.
func (g *QuotaGate) CanSend() bool {
	return g.loaded && g.remaining > 0
}

// RecordSuccess adjusts the counters after a confirmed send, keeping the gate
// accurate between refreshes without waiting on the network.
func (g *QuotaGate) RecordSuccess() {
	g.used++
	if g.remaining > 0 {
		g.remaining--
	}
}

// Snapshot returns the current counters.
func (g *QuotaGate) Snapshot() chatapi.Quota {
	return chatapi.Quota{Total: g.total, Used: g.used, Remaining: g.remaining}
}
