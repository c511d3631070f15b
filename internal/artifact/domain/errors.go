package domain

import (
	"github.com/allisson/paytrust/internal/errors"
)

// ErrArtifactNotFound indicates the requested payment artifact does not exist
// or was already removed by the retention sweep.
var ErrArtifactNotFound = errors.Wrap(errors.ErrNotFound, "payment artifact not found")
