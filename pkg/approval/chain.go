package approval

import (
	"context"
	"fmt"
)

// PlaceholderSpNo stands in for the primary sp_no when a chain is previewed.
const PlaceholderSpNo = "TO_BE_FILLED_AFTER_OVERTIME_SUBMIT"

// Submitter creates an approval and returns its sp_no.
type Submitter interface {
	ApplyEvent(ctx context.Context, event ApplyEvent) (string, error)
}

// ChainResult describes a two-phase submission. In dry-run mode only the
// payloads are set.
type ChainResult struct {
	Primary     ApplyEvent
	Secondary   ApplyEvent
	PrimaryID   string
	SecondaryID string
	DryRun      bool
}

// Submit sends one payload. Errors carrying a remote status are wrapped with
// ErrSubmissionRejected; anything else is returned as a submit failure.
func Submit(ctx context.Context, s Submitter, event ApplyEvent) (string, error) {
	id, err := s.ApplyEvent(ctx, event)
	if err != nil {
		if isRemoteStatus(err) {
			return "", fmt.Errorf("%w: %w", ErrSubmissionRejected, err)
		}
		return "", fmt.Errorf("approval: submit: %w", err)
	}
	return id, nil
}

// SubmitChain submits primary, then the payload buildSecondary derives from
// the primary's sp_no. A rejected primary aborts the chain. A failed
// secondary returns the result with PrimaryID set and a *PartialError.
//
// With dryRun set nothing is sent and the secondary is built around
// PlaceholderSpNo.
func SubmitChain(ctx context.Context, s Submitter, primary ApplyEvent, buildSecondary func(primaryID string) (ApplyEvent, error), dryRun bool) (ChainResult, error) {
	res := ChainResult{Primary: primary, DryRun: dryRun}

	if dryRun {
		secondary, err := buildSecondary(PlaceholderSpNo)
		if err != nil {
			return res, err
		}
		res.Secondary = secondary
		return res, nil
	}

	primaryID, err := Submit(ctx, s, primary)
	if err != nil {
		return res, fmt.Errorf("approval: primary: %w", err)
	}
	res.PrimaryID = primaryID

	secondary, err := buildSecondary(primaryID)
	if err != nil {
		return res, &PartialError{PrimaryID: primaryID, Err: err}
	}
	res.Secondary = secondary

	secondaryID, err := Submit(ctx, s, secondary)
	if err != nil {
		return res, &PartialError{PrimaryID: primaryID, Err: err}
	}
	res.SecondaryID = secondaryID
	return res, nil
}
