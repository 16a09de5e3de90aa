package preflight

import (
	"context"
	"fmt"
	"strings"

	"reelcap/internal/config"
	"reelcap/internal/services"
	"reelcap/internal/textmetrics"
)

const bytesPerMiB = 1 << 20

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes every preflight check for the given config. fonts may be
// nil, in which case a throwaway measurer parses the font.
func RunAll(ctx context.Context, cfg *config.Config, fonts *textmetrics.OpenType) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	results = append(results, CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir))
	results = append(results, CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir))
	if cfg.Render.MinFreeMiB > 0 {
		results = append(results, CheckFreeSpace("Output free space", cfg.Paths.OutputDir, uint64(cfg.Render.MinFreeMiB)*bytesPerMiB))
	}
	results = append(results, CheckFont(cfg, fonts))

	for _, status := range CheckSystemDeps(cfg) {
		if ctx.Err() != nil {
			break
		}
		detail := status.Command
		if !status.Available {
			detail = status.Detail
		}
		results = append(results, Result{Name: status.Name, Passed: status.Available || status.Optional, Detail: detail})
	}
	return results
}

// Err folds failed results into a configuration error, or nil when every
// check passed.
func Err(results []Result) error {
	var failed []string
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, fmt.Sprintf("%s: %s", r.Name, r.Detail))
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return services.Wrap(services.ErrConfiguration, "preflight", "readiness", strings.Join(failed, "; "), nil)
}
