package agent

import (
	"context"

	"github.com/stridebound/stridebound/internal/core/evolution"
	"github.com/stridebound/stridebound/internal/progress"
	progressionclient "github.com/stridebound/stridebound/internal/services/progression/client"
)

// remoteProgress adapts the progression HTTP client to the health syncer's
// progress contract. The multiplier argument is ignored; the service derives
// it from the stored premium flag.
type remoteProgress struct {
	client ProgressAPI
	userID string
}

func (r remoteProgress) SyncFromHealth(ctx context.Context, userID string, rawStepsToday int, _ float64) (progress.Snapshot, error) {
	response, err := r.client.SyncSteps(ctx, userID, rawStepsToday)
	if err != nil {
		return progress.Snapshot{}, err
	}
	return toSnapshot(response), nil
}

func (r remoteProgress) Snapshot(ctx context.Context, userID string) (progress.Snapshot, error) {
	response, err := r.client.GetProgress(ctx, userID)
	if err != nil {
		return progress.Snapshot{}, err
	}
	return toSnapshot(response), nil
}

func toSnapshot(response progressionclient.Progress) progress.Snapshot {
	return progress.Snapshot{
		TotalXP:           response.TotalXP,
		StepsToday:        response.StepsToday,
		DailyBonusGranted: response.DailyBonusGranted,
		Premium:           response.Premium,
		Level:             response.Level,
		Rank:              evolution.Rank(response.Rank),
		Ranked:            response.Ranked,
		Progress:          response.Progress,
		XPToNextLevel:     response.XPToNextLevel,
	}
}
