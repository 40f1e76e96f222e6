package approval

import (
	"errors"
	"fmt"
)

// ErrSubmissionRejected wraps submit failures the remote side answered with
// a non-zero status. Transport failures are returned without it.
var ErrSubmissionRejected = errors.New("approval: submission rejected")

// remoteStatus is implemented by errors carrying a status code returned by
// the approval API.
type remoteStatus interface {
	RemoteCode() int
}

func isRemoteStatus(err error) bool {
	var rs remoteStatus
	return errors.As(err, &rs)
}

// PartialError reports a chain whose primary form was created while the
// secondary failed. The primary is never rolled back; the secondary has to
// be resubmitted with PrimaryID.
type PartialError struct {
	PrimaryID string
	Err       error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("approval: primary %s created but secondary failed: %v", e.PrimaryID, e.Err)
}

func (e *PartialError) Unwrap() error {
	return e.Err
}
