package upstilatex

import "context"

// Approver requests confirmation before long or irreversible batch
// operations. Implementations may prompt interactively or auto-approve.
type Approver interface {
	// RequestApproval asks whether the described operation may proceed.
	// Returns (false, nil) when the user declines.
	RequestApproval(ctx context.Context, operation string) (bool, error)
}
