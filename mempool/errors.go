package mempool

import "github.com/pkg/errors"

// ErrTxNotFound is returned by an Upstream's GetTransaction when the
// transaction was evicted between the listing and the fetch. The engine
// treats this as a normal skip, not a pass-aborting failure.
var ErrTxNotFound = errors.New("mempool: transaction not found upstream")

// ErrInvalidConfig is returned by NewEngine when a Config fails
// validation. Construction-time failures are fatal; runtime failures
// never are (see Config.validate and RunOnce).
var ErrInvalidConfig = errors.New("mempool: invalid engine configuration")
