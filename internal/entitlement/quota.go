// AngelaMos | 2026
// quota.go

// Package entitlement decides whether a user may download another asset
// today. It holds no storage and no clock: callers pass the current state
// and time and persist whatever state comes back.
package entitlement

import (
	"time"
)

const (
	DefaultFreeDailyLimit       = 3
	DefaultSubscribedDailyLimit = 15
)

// State is the per-user entitlement record as persisted on the user row.
// A nil LastDownload means the user has never downloaded.
type State struct {
	DailyDownloads int
	TotalDownloads int
	LastDownload   *time.Time
	Subscribed     bool
}

type Policy struct {
	FreeDailyLimit       int
	SubscribedDailyLimit int
	Location             *time.Location
}

func DefaultPolicy() Policy {
	return Policy{
		FreeDailyLimit:       DefaultFreeDailyLimit,
		SubscribedDailyLimit: DefaultSubscribedDailyLimit,
		Location:             time.UTC,
	}
}

func (p Policy) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

func (p Policy) Limit(subscribed bool) int {
	if subscribed {
		return p.SubscribedDailyLimit
	}
	return p.FreeDailyLimit
}

// DaysElapsed counts calendar-date boundaries between last and now in the
// policy zone. 23:59:59 to 00:00:01 is one day; 00:00:01 to 23:59:59 of the
// same date is zero.
func (p Policy) DaysElapsed(last, now time.Time) int {
	loc := p.location()

	ly, lm, ld := last.In(loc).Date()
	ny, nm, nd := now.In(loc).Date()

	lastDate := time.Date(ly, lm, ld, 0, 0, 0, 0, time.UTC)
	nowDate := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)

	return int(nowDate.Sub(lastDate).Hours() / 24)
}

// normalize applies the day rollover: the daily counter is stale once the
// calendar date has advanced past the last download.
func (p Policy) normalize(st State, now time.Time) State {
	if st.LastDownload == nil || p.DaysElapsed(*st.LastDownload, now) > 0 {
		st.DailyDownloads = 0
	}
	return st
}

// CheckAndConsume applies one download attempt. On allow the returned state
// has the counters advanced and LastDownload set to now. On deny only the
// rollover reset is applied; callers persist the returned state either way.
func (p Policy) CheckAndConsume(st State, now time.Time) (bool, State) {
	st = p.normalize(st, now)

	if st.DailyDownloads >= p.Limit(st.Subscribed) {
		return false, st
	}

	st.DailyDownloads++
	st.TotalDownloads++
	at := now
	st.LastDownload = &at

	return true, st
}

func (p Policy) Remaining(st State, now time.Time) int {
	st = p.normalize(st, now)

	remaining := p.Limit(st.Subscribed) - st.DailyDownloads
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ResetsAt is the next calendar midnight after now in the policy zone.
func (p Policy) ResetsAt(now time.Time) time.Time {
	local := now.In(p.location())
	y, m, d := local.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, p.location())
}

type Quota struct {
	Limit          int       `json:"limit"`
	Used           int       `json:"used"`
	Remaining      int       `json:"remaining"`
	Subscribed     bool      `json:"subscribed"`
	TotalDownloads int       `json:"total_downloads"`
	ResetsAt       time.Time `json:"resets_at"`
}

func (p Policy) Quota(st State, now time.Time) Quota {
	normalized := p.normalize(st, now)

	return Quota{
		Limit:          p.Limit(st.Subscribed),
		Used:           normalized.DailyDownloads,
		Remaining:      p.Remaining(st, now),
		Subscribed:     st.Subscribed,
		TotalDownloads: st.TotalDownloads,
		ResetsAt:       p.ResetsAt(now),
	}
}
