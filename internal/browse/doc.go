// Package browse is the engine behind the catalog view.
//
// A Controller owns the query state, the page currently on screen and the
// list of pokemon types. It is driven entirely from the Bubble Tea event
// loop: every operation returns a tea.Cmd, and the results of those commands
// come back through Update as messages. No field is touched from any other
// goroutine, so nothing here takes a lock.
//
// The pieces:
//
//   - Orchestrator tags each list request with a sequence number and only
//     lets the response to the latest request through. Superseded requests
//     have their context cancelled; responses that still arrive are counted
//     and dropped.
//   - Mutator performs capture and release calls and, on success, patches the
//     matching item of the held page by key without refetching.
//   - The search box feeds a debounce.Debouncer. Keystrokes are persisted
//     straight away but only a committed search changes the effective query.
//   - A query.Adapter persists the state after every change and is consulted
//     by Pull when the store changed underneath the Controller.
//
// Every setter except SetPage and SetSearchText returns to page 1, as does a
// search commit. A fetch is issued only when the effective query differs from
// the last one requested; Reload forces one.
package browse
