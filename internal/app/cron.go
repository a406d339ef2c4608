package app

import (
	"context"
	"time"

	pkgcron "github.com/zivana-montessori/core/internal/pkg/cron"
	sessionpkg "github.com/zivana-montessori/core/internal/pkg/session"
	"go.uber.org/zap"
)

const jobCleanupSessions = "cleanup_sessions"

// registerCronJobs registers all scheduled background jobs.
func registerCronJobs(sched *pkgcron.Scheduler, sessions *sessionpkg.Manager, logger *zap.Logger) {
	cronLogger := logger.Named("CronService")

	sched.Register(pkgcron.Job{
		Name:        jobCleanupSessions,
		Description: "Hapus sesi admin yang kedaluwarsa atau dicabut",
		Interval:    24 * time.Hour,
		Fn: func(ctx context.Context) error {
			n, err := sessions.Cleanup(ctx)
			if err != nil {
				cronLogger.Warn("session cleanup failed", zap.Error(err))
				return err
			}
			cronLogger.Info("session cleanup done", zap.Int64("deleted", n))
			return nil
		},
	})
}
