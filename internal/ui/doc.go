// Package ui provides the terminal view for focus.
//
// The view is a Bubble Tea program. It owns no timing of its own: the
// countdown lives in the timer package and the UI only reads it.
//
// # Update Sources
//
//   - Timer events: a subscriber channel is drained one event at a time
//     through waitForEventCmd, so every start, tick, pause and completion
//     triggers a re-render.
//   - Poll tick: once per second the model re-reads the timer snapshot
//     (events may be dropped when the buffer is full) and fetches the latest
//     history snapshot from state.Store.
//
// # Keys
//
//	f      start focus       b      start break
//	space  pause/resume      s      stop
//	r      reset             enter  restart interval
//	a      toggle auto-break T      cycle theme
//	?      help              q      quit
//
// Theme and auto-break changes are written to the prefs file immediately.
//
// # Progress
//
// The bar is a bubbles/progress model. The timer reports progress as a
// percentage; the view clamps it to [0,100] and renders ViewAs(p/100).
package ui
