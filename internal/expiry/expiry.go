// Package expiry maps user-facing expiration options to absolute deadlines.
//
// This is deliberately a pure package — no I/O, no clock injection, just
// time.Now() at the call site's moment. Keeping it side-effect free means
// the policy can be unit tested exhaustively and reused anywhere (HTTP
// create path, realtime activity refresh) without mocking.
package expiry

import "time"

// RefreshWindow is how long a snippet stays alive after any realtime
// interaction (join, edit, chat). Every activity touch moves ExpiresAt to
// now + RefreshWindow — even for snippets created with "never". That
// override is intentional, long-standing behavior: an actively edited
// snippet is treated as transient until the author saves it again.
//
// The same value backs the "10m" creation option, which is why both live
// in this package instead of being duplicated at each call site.
const RefreshWindow = 10 * time.Minute

// Options accepted by For. Anything else falls through to "never".
const (
	OptionTenMinutes = "10m"
	Option24Hours    = "24h"
	Option7Days      = "7d"
	Option30Days     = "30d"
	OptionNever      = "never"
)

// For returns the absolute deadline for an expiration option, or nil for
// "never". Unrecognized options default to nil — the original service shipped
// with that behavior and clients rely on it.
func For(option string) *time.Time {
	now := time.Now()

	var d time.Duration
	switch option {
	case OptionTenMinutes:
		d = RefreshWindow
	case Option24Hours:
		d = 24 * time.Hour
	case Option7Days:
		d = 7 * 24 * time.Hour
	case Option30Days:
		d = 30 * 24 * time.Hour
	default:
		return nil
	}

	t := now.Add(d)
	return &t
}

// Refresh returns the deadline an activity touch assigns: now + RefreshWindow.
func Refresh(now time.Time) *time.Time {
	t := now.Add(RefreshWindow)
	return &t
}
