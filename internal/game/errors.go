package game

import "errors"

// Error kinds shared by the loading pipeline, the controller and the HTTP
// layer. Wrap with fmt.Errorf("...: %w", err) and match with errors.Is.
var (
	// ErrProviderUnavailable means the trivia provider could not be reached,
	// answered with a non-success status, or returned an unusable pool.
	ErrProviderUnavailable = errors.New("trivia provider unavailable")

	// ErrMalformedRecord means a category or clue record is missing a
	// required field (title, clue list, question or answer text).
	ErrMalformedRecord = errors.New("malformed trivia record")

	// ErrCycleInProgress is returned when a start/restart is triggered while
	// another one is still fetching.
	ErrCycleInProgress = errors.New("a deal is already in progress")

	// ErrStaleCycle is returned for a click that targets a board which has
	// since been replaced.
	ErrStaleCycle = errors.New("board has been re-dealt")

	// ErrNoCell is returned for a click outside the grid or on an empty
	// padding cell.
	ErrNoCell = errors.New("no clue at that position")
)
