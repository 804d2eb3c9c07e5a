// Copyright © 2026 The EEMS2-Go Authors
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package propagator

import "fmt"

// NumericError reports a numerical failure inside the propagator: a
// Padé LU solve that failed, or a Krylov/Lanczos breakdown before the
// subspace reached dimension 2 (spec.md §7). Callers in the proposal
// engine treat this as a rejected proposal (α = 0); callers in
// diagnostics or tests treat it as fatal.
type NumericError struct {
	Op  string
	Err error
}

func (e *NumericError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("propagator: numeric error in %s", e.Op)
	}
	return fmt.Sprintf("propagator: numeric error in %s: %v", e.Op, e.Err)
}

func (e *NumericError) Unwrap() error {
	return e.Err
}
