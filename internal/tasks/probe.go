package tasks

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/tvplus/internal/shared"
	"golang.org/x/time/rate"
)

// ProbeResult records stream reachability for one region.
type ProbeResult struct {
	Region    string
	Checked   int
	Reachable int
	Failed    []ProbeFailure
}

// ProbeFailure is a stream that did not answer with a usable status.
type ProbeFailure struct {
	Key    string
	Name   string
	URL    string
	Status int   // 0 when the request itself failed
	Error  error // nil when a response was received
}

// isReachable treats success codes and a found-redirect as a live stream.
func isReachable(code int) bool {
	return (code >= 200 && code < 300) || code == http.StatusFound
}

// Probe checks up to limit stream URLs of a region one at a time, paced by the configured rate limit.
//
// A limit of zero or less checks every entry.
func (g *Generator) Probe(ctx context.Context, code string, limit int) (*ProbeResult, error) {
	if g.checker == nil {
		return nil, fmt.Errorf("%w: no stream checker configured", shared.ErrInvalidArgument)
	}

	c, err := g.fetch(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := g.Entries(c, code)
	if err != nil {
		return nil, err
	}

	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}

	rl := g.config.Probe.RateLimit
	if rl <= 0 {
		rl = 2.0
	}
	limiter := rate.NewLimiter(rate.Limit(rl), 1)
	timeout := g.config.Probe.Timeout()

	result := &ProbeResult{Region: code}
	for _, e := range entries {
		if err := limiter.Wait(ctx); err != nil {
			return result, err
		}

		result.Checked++
		status, err := g.checker.Head(ctx, e.StreamURL, timeout)
		if err == nil && isReachable(status) {
			result.Reachable++
			g.logger.Debug("stream reachable", "key", e.Key, "status", status)
			continue
		}

		g.logger.Warn("stream unreachable", "key", e.Key, "name", e.Name, "status", status, "error", err)
		result.Failed = append(result.Failed, ProbeFailure{
			Key:    e.Key,
			Name:   e.Name,
			URL:    e.StreamURL,
			Status: status,
			Error:  err,
		})
	}

	return result, nil
}
