package repository

import (
	"context"
	"fmt"

	"MarketSentinel/internal/domain/models"
	"MarketSentinel/internal/usecase"
	"MarketSentinel/pkg/queue"
)

// BacklogReplayJob re-enters deferred signals into the intake so the next
// poll cycle picks them up.
type BacklogReplayJob struct {
	intake *usecase.SignalIntake
}

func NewBacklogReplayJob(intake *usecase.SignalIntake) *BacklogReplayJob {
	return &BacklogReplayJob{intake: intake}
}

func (j *BacklogReplayJob) Name() string { return "backlog-replay" }

func (j *BacklogReplayJob) Type() string { return DeferredSignalType }

func (j *BacklogReplayJob) Handle(_ context.Context, payload interface{}) error {
	s, err := queue.ParsePayload[models.RawSignal](payload)
	if err != nil {
		return fmt.Errorf("parse deferred signal: %w", err)
	}
	j.intake.Add(s)
	return nil
}
