// Package errorspkg provides common app errors.
package errorspkg

import "errors"

// ErrInternal indicates a system failure: the store was unreachable, a write failed
// or a conflict outlived its retry budget. Nothing was committed.
var ErrInternal = errors.New("internal")
