package core

import "errors"

// ErrUnsupported is the cause attached when a provider cannot perform an
// operation, for example copying on an object store without server-side copy.
var ErrUnsupported = errors.New("operation not supported")
