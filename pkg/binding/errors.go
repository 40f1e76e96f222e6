package binding

import "errors"

var (
	// ErrInvalidDatetime is returned when a date or datetime input cannot be parsed.
	ErrInvalidDatetime = errors.New("binding: invalid datetime")
	// ErrInvalidRange is returned when an end time is not after its start time.
	ErrInvalidRange = errors.New("binding: end time must be later than start time")
	// ErrMissingInput is returned when a mandatory business value was not supplied.
	ErrMissingInput = errors.New("binding: missing required input")
	// ErrSelectorOptionNotFound is returned when a selector has no resolvable option.
	ErrSelectorOptionNotFound = errors.New("binding: selector option not found")
	// ErrUnknownCategoryType is returned for a category alias that is neither known nor configured.
	ErrUnknownCategoryType = errors.New("binding: unknown category type")
)
