package usecase

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"newsroom/infrastructure/logger"
)

const (
	sideEffectCacheInvalidation = "cache_invalidation"
	sideEffectEventPublish      = "event_publish"
	sideEffectDistribution      = "distribution"
)

// SideEffect reports the outcome of a secondary task that ran after the
// primary operation had already succeeded.
type SideEffect struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type sideTask struct {
	name string
	run  func(ctx context.Context) error
}

// runSideTasks runs every task to completion concurrently. A failing or
// panicking task never affects its siblings or the caller.
func runSideTasks(ctx context.Context, tasks ...sideTask) []SideEffect {
	results := make([]SideEffect, len(tasks))
	var g errgroup.Group
	for i, task := range tasks {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("panic: %v", r)
				}
				results[i] = SideEffect{Name: task.name, OK: err == nil}
				if err != nil {
					results[i].Error = err.Error()
					logger.GetLogger().WithField("task", task.name).WithField("error", err).Warn("Side task failed")
				}
			}()
			return task.run(ctx)
		})
	}
	_ = g.Wait()
	return results
}

func articleURL(baseURL, slug string) string {
	return strings.TrimRight(baseURL, "/") + "/articles/" + slug
}
