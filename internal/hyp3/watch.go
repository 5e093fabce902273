package hyp3

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Watch polls the service until every job in the named batch has reached a
// terminal status, then returns the final job records. It returns an error
// if the context is cancelled or a poll fails.
func (c *Client) Watch(ctx context.Context, name string, interval time.Duration) ([]Job, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive, got %s", interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		jobs, err := c.Jobs(ctx, JobQuery{Name: name})
		if err != nil {
			return nil, fmt.Errorf("failed to poll jobs: %w", err)
		}
		if len(jobs) == 0 {
			return nil, fmt.Errorf("no jobs found for batch %q", name)
		}

		pending, running, succeeded, failed := 0, 0, 0, 0
		for _, job := range jobs {
			switch job.Status {
			case StatusPending:
				pending++
			case StatusRunning:
				running++
			case StatusSucceeded:
				succeeded++
			case StatusFailed:
				failed++
			}
		}

		c.logger.InfoContext(ctx, "batch progress",
			slog.String("batch", name),
			slog.Int("pending", pending),
			slog.Int("running", running),
			slog.Int("succeeded", succeeded),
			slog.Int("failed", failed),
		)

		if pending == 0 && running == 0 {
			return jobs, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
