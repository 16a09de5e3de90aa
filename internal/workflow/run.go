package workflow

import (
	"context"
	"log/slog"

	"reelcap/internal/logging"
	"reelcap/internal/overlay"
	"reelcap/internal/runstore"
	"reelcap/internal/services"
)

func (g *Generator) createRun(ctx context.Context, run runstore.Run) error {
	if g.store == nil {
		return nil
	}
	if _, err := g.store.Create(ctx, run); err != nil {
		return services.Wrap(services.ErrConfiguration, "workflow", "record run", "", err)
	}
	return nil
}

// advance moves the run to a non-terminal status. Run history is
// best-effort once the run exists.
func (g *Generator) advance(ctx context.Context, logger *slog.Logger, status runstore.Status) {
	if g.store == nil {
		return
	}
	runID, _ := services.RunIDFromContext(ctx)
	if err := g.store.UpdateStatus(ctx, runID, status); err != nil {
		logging.WarnWithContext(logger, "failed to update run status", "runstore_update_failed",
			logging.String("status", string(status)),
			logging.Error(err),
			logging.String(logging.FieldImpact, "run history lags behind the run"),
		)
	}
}

func (g *Generator) recordCounts(ctx context.Context, logger *slog.Logger, counts overlay.Counts) {
	if g.store == nil {
		return
	}
	runID, _ := services.RunIDFromContext(ctx)
	if err := g.store.RecordCounts(ctx, runID, runstore.Counts{
		Chunks:      counts.Chunks,
		SubCaptions: counts.SubCaptions,
		Overlays:    counts.Overlays,
	}); err != nil {
		logging.WarnWithContext(logger, "failed to record plan counts", "runstore_update_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "run history omits caption counts"),
		)
	}
}

func (g *Generator) failRun(ctx context.Context, runID string, status runstore.Status, cause error) {
	if g.store == nil {
		return
	}
	// The run context may already be cancelled; history still needs the outcome.
	if err := g.store.Fail(context.WithoutCancel(ctx), runID, status, cause.Error()); err != nil {
		logging.WarnWithContext(g.logger, "failed to record run failure", "runstore_update_failed",
			logging.String(logging.FieldRunID, runID),
			logging.Error(err),
		)
	}
}
