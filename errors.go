package glip

import (
	"errors"

	"github.com/uml-digitalinitiatives/glip/internal/store"
)

var (
	ErrNotFound    = store.ErrNotFound
	ErrFormat      = errors.New("glip: malformed object")
	ErrInvalidPath = errors.New("glip: invalid path")
	ErrNoRemote    = errors.New("glip: no remote configured")
)
