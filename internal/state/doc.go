// Package state holds the persisted side of the query: an address-bar style
// Location with navigation history, and the session file that carries the
// last query from one run to the next.
//
// # Location
//
// Location implements query.Store. The browse controller writes to it after
// every change and reads from it on Pull. The UI moves through history with
// Back and Forward and then asks the controller to Pull, which is the only
// way the store changes underneath the controller.
//
// History rules:
//   - Writing the current content again adds nothing
//   - Writing after Back discards the forward entries
//   - A write that only changes an already non-empty search replaces the
//     current entry, so each search is one history step rather than one per
//     keystroke
//   - At most limit entries are kept; the oldest go first
//
// All methods take a sync.RWMutex. The app reads the final entry from its own
// goroutine after the UI exits, so the lock is required even though the UI
// itself is single threaded.
//
// # Session file
//
// LoadSession and SaveSession read and write a small TOML file:
//
//	query = "page=2&type=Fire"
//	saved_at = 2024-05-01T10:00:00Z
//
// Writes go through natefinch/atomic so a crash never leaves a torn file. A
// missing file is not an error.
package state
