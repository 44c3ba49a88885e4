package hpastar

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// segmentTask is one local search the router hands to a worker.
type segmentTask[RegionType comparable, PointType comparable] struct {
	Index  int
	Region RegionType
	Entry  PointType
	Exit   PointType
}

// segmentResult is the worker's answer for the task with the same index.
type segmentResult[PointType comparable] struct {
	Path []PointType
	Err  error
}

// runSegments searches every task with at most workers in flight. Results
// are stored by task index, so completion order does not matter. Failures
// are reported per segment rather than through the group so that the
// lowest failing index can be chosen deterministically.
func runSegments[RegionType comparable, PointType comparable](
	ctx context.Context,
	atlas Atlas[RegionType, PointType],
	tasks []segmentTask[RegionType, PointType],
	workers int,
	logger *zap.Logger,
	options []Option,
) []segmentResult[PointType] {
	results := make([]segmentResult[PointType], len(tasks))
	var group errgroup.Group
	group.SetLimit(workers)
	for _, task := range tasks {
		group.Go(func() error {
			planner, ok := atlas.Planner(task.Region)
			if !ok {
				results[task.Index].Err = ErrNodeNotFound
				return nil
			}
			result, err := planner.FindPath(ctx, task.Entry, task.Exit, options...)
			if err != nil {
				logger.Debug("segment search failed",
					zap.Int("segment", task.Index),
					zap.Any("region", task.Region),
					zap.Error(err))
				results[task.Index].Err = err
				return nil
			}
			results[task.Index].Path = result.Path
			return nil
		})
	}
	_ = group.Wait()
	return results
}
