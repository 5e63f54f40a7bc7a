package nested

import "github.com/pkg/errors"

var (
	// ErrInvalidParameter rejects a run before any sampling happens.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrNonConvergence means the level cap was hit before the threshold
	// reached the target. The partial Result is returned with it.
	ErrNonConvergence = errors.New("level cap reached before target threshold")
)
