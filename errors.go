package ndsort

import (
	"errors"
	"fmt"

	"github.com/hupe1980/ndsort/internal/engine"
	"github.com/hupe1980/ndsort/internal/resource"
	"github.com/hupe1980/ndsort/rankquery"
)

var (
	// ErrCapacityExceeded is returned when an input exceeds the limits a
	// sorter was created with.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrInvalidArgument is returned for malformed input or options.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnsupportedConfiguration is returned when options cannot be
	// combined or a backend cannot serve the requested capacity.
	ErrUnsupportedConfiguration = errors.New("unsupported configuration")

	// ErrUnknownAlgorithm is returned by Registry.New for an unregistered name.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")

	// ErrDuplicateAlgorithm is returned by Registry.Register for a taken name.
	ErrDuplicateAlgorithm = errors.New("duplicate algorithm")

	// ErrMemoryLimitExceeded is returned when the arena of a sorter does not
	// fit into its memory budget.
	ErrMemoryLimitExceeded = errors.New("memory limit exceeded")

	// ErrClosed is returned when sorting with a closed sorter.
	ErrClosed = errors.New("sorter closed")
)

// ErrCapacity indicates an input larger than a sorter's limits.
type ErrCapacity struct {
	// Kind is "points" or "dimension".
	Kind   string
	Limit  int
	Actual int
}

func (e *ErrCapacity) Error() string {
	return fmt.Sprintf("capacity exceeded: %d %s, limit %d", e.Actual, e.Kind, e.Limit)
}

func (e *ErrCapacity) Unwrap() error { return ErrCapacityExceeded }

// ErrDimensionMismatch indicates a point whose length differs from the
// first point's.
type ErrDimensionMismatch struct {
	Row      int
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: point %d has %d coordinates, expected %d", e.Row, e.Actual, e.Expected)
}

func (e *ErrDimensionMismatch) Unwrap() error { return ErrInvalidArgument }

// ErrRankLength indicates a rank slice whose length differs from the number
// of points.
type ErrRankLength struct {
	Expected int
	Actual   int
}

func (e *ErrRankLength) Error() string {
	return fmt.Sprintf("rank slice length %d, expected %d", e.Actual, e.Expected)
}

func (e *ErrRankLength) Unwrap() error { return ErrInvalidArgument }

// translateError maps construction errors of the internal layers onto the
// public sentinels.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, resource.ErrMemoryLimitExceeded):
		return fmt.Errorf("%w: %w", ErrMemoryLimitExceeded, err)
	case errors.Is(err, engine.ErrSingleThreadedBackend),
		errors.Is(err, rankquery.ErrCapacity),
		errors.Is(err, rankquery.ErrUnknownKind):
		return fmt.Errorf("%w: %w", ErrUnsupportedConfiguration, err)
	case errors.Is(err, engine.ErrInvalidConfig):
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return err
}
