package cronjob

import (
	"context"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/adminpanel-sm/adminpanel-backend/internal/migration"
)

const backupTimeout = 10 * time.Minute

// Scheduler runs periodic store backups. Specs carry a leading seconds field.
type Scheduler struct {
	c   *cron.Cron
	log *zap.Logger
	now func() time.Time
}

func NewScheduler(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		c: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		log: logger,
		now: time.Now,
	}
}

// AddBackup exports the store into a fresh timestamped directory under root
// every time spec fires.
func (s *Scheduler) AddBackup(spec string, exporter *migration.Exporter, root string) error {
	_, err := s.c.AddFunc(spec, func() {
		dir := BackupDir(root, s.now())

		ctx, cancel := context.WithTimeout(context.Background(), backupTimeout)
		defer cancel()

		if _, err := exporter.Export(ctx, dir); err != nil {
			s.log.Error("backup failed", zap.String("dir", dir), zap.Error(err))
			return
		}
		s.log.Info("backup completed", zap.String("dir", dir))
	})
	if err != nil {
		return err
	}

	s.log.Info("backup scheduled", zap.String("spec", spec), zap.String("root", root))
	return nil
}

func (s *Scheduler) Start() {
	s.c.Start()
}

// Stop halts the schedule and waits for a running backup, at most until ctx ends.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.c.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("backup still running at shutdown")
	}
}

// BackupDir names the directory for a backup taken at t.
func BackupDir(root string, t time.Time) string {
	return filepath.Join(root, t.UTC().Format("20060102T150405Z"))
}
