// File: internal/concurrency/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

import "errors"

// ErrExecutorClosed indicates the executor has been shut down and is
// no longer accepting submissions.
var ErrExecutorClosed = errors.New("executor is closed")
