package core

import (
	"errors"
	"fmt"

	"github.com/agenthands/ragsearch/internal/core/model"
)

var (
	// ErrInvalidParams is returned for requests that fail validation.
	ErrInvalidParams = model.ErrInvalidParams

	// ErrSearchFailed wraps every failure of the mandatory search stage. Its
	// text is the prefix of the message returned to callers.
	ErrSearchFailed = errors.New("get search results failed")

	// ErrUnscoredResult is returned by the detail stage when no result has
	// been scored, usually because reranking is off.
	ErrUnscoredResult = errors.New("no scored results to select from")

	// ErrNoFetcher is returned by the detail stage when no page fetcher is
	// configured.
	ErrNoFetcher = errors.New("page fetcher not configured")
)

// StageError records an optional stage that failed. The pipeline keeps the
// results it had before the stage ran.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
