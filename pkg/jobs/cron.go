package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coweringg/LawCaseAI/pkg/logger"
	"github.com/coweringg/LawCaseAI/pkg/models"
)

// UserSource lists users and corrects their quota counter.
type UserSource interface {
	All(ctx context.Context, page, limit int64) ([]models.User, int64, error)
	SetCurrentCases(ctx context.Context, id primitive.ObjectID, count int) error
}

// CaseCounter counts the cases a user actually owns.
type CaseCounter interface {
	CountByUser(ctx context.Context, ownerID primitive.ObjectID) (int64, error)
}

// CronManager schedules background maintenance jobs.
type CronManager struct {
	cron  *cron.Cron
	users UserSource
	cases CaseCounter
	log   logger.Logger
}

// NewCronManager creates the scheduler. Jobs run in the server process.
func NewCronManager(users UserSource, cases CaseCounter, log logger.Logger) *CronManager {
	if log == nil {
		log = logger.Default()
	}
	return &CronManager{
		cron:  cron.New(),
		users: users,
		cases: cases,
		log:   log,
	}
}

// Start registers and launches the scheduled jobs.
func (m *CronManager) Start() error {
	// Nightly quota reconciliation at 3 AM.
	if _, err := m.cron.AddFunc("0 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if err := m.ReconcileQuotas(ctx); err != nil {
			m.log.Error("quota reconciliation failed", "error", err)
		}
	}); err != nil {
		return err
	}

	m.cron.Start()
	m.log.Info("cron jobs scheduled")
	return nil
}

// Stop halts the scheduler, waiting for running jobs.
func (m *CronManager) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
}

// ReconcileQuotas recounts each user's cases and repairs drift in the
// currentCases counter.
func (m *CronManager) ReconcileQuotas(ctx context.Context) error {
	const pageSize = 200

	var fixed int
	for page := int64(1); ; page++ {
		users, total, err := m.users.All(ctx, page, pageSize)
		if err != nil {
			return err
		}
		if len(users) == 0 {
			break
		}

		for _, u := range users {
			actual, err := m.cases.CountByUser(ctx, u.ID)
			if err != nil {
				m.log.Warn("failed to count cases", "user", u.Email, "error", err)
				continue
			}
			if int(actual) != u.CurrentCases {
				if err := m.users.SetCurrentCases(ctx, u.ID, int(actual)); err != nil {
					m.log.Warn("failed to fix quota counter", "user", u.Email, "error", err)
					continue
				}
				m.log.Info("fixed quota counter", "user", u.Email, "from", u.CurrentCases, "to", actual)
				fixed++
			}
		}

		if page*pageSize >= total {
			break
		}
	}

	m.log.Info("quota reconciliation complete", "fixed", fixed)
	return nil
}
