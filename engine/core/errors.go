package core

import (
	"errors"
)

var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrMissingLoader    = errors.New("no scene loader configured")
	ErrManagerDestroyed = errors.New("resource manager already destroyed")
)
