package lottery

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"coin-casino/internal/logger"
	"coin-casino/internal/svcerr"
)

// DrawJob settles the previous day's draw shortly after midnight. The draw
// algorithm lives in the service; this only decides when to call it.
type DrawJob struct {
	service *Service
}

func NewDrawJob(service *Service) *DrawJob {
	return &DrawJob{service: service}
}

func (j *DrawJob) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(untilNextRun(time.Now())):
		}

		drawDate := dateString(time.Now().AddDate(0, 0, -1))
		err := j.service.Settle(drawDate, j.service.GenerateNumbers())
		if errors.Is(err, svcerr.ErrConflict) {
			// already drawn, e.g. by the admin endpoint
			continue
		}
		if err != nil {
			logger.Log.Error("lottery draw failed",
				zap.String("draw_date", drawDate),
				zap.Error(err))
		}
	}
}

// untilNextRun is the wait until the next 00:05 local time.
func untilNextRun(now time.Time) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), 0, 5, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}
