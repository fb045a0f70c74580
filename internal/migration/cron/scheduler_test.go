package cronjob

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adminpanel-sm/adminpanel-backend/internal/docstore/docstoretest"
	"github.com/adminpanel-sm/adminpanel-backend/internal/migration"
)

func TestBackupDir(t *testing.T) {
	at := time.Date(2025, 3, 4, 5, 6, 7, 0, time.FixedZone("x", 3600))
	assert.Equal(t, filepath.Join("backups", "20250304T040607Z"), BackupDir("backups", at))
}

func TestAddBackupRejectsBadSpec(t *testing.T) {
	s := NewScheduler(nil)
	exporter := migration.NewExporter(docstoretest.NewSQLite(t), nil)

	// five fields is a standard cron spec, but this scheduler wants seconds
	assert.Error(t, s.AddBackup("0 0 * * *", exporter, t.TempDir()))
	assert.Error(t, s.AddBackup("nonsense", exporter, t.TempDir()))
}

func TestBackupRuns(t *testing.T) {
	root := t.TempDir()
	s := NewScheduler(nil)
	require.NoError(t, s.AddBackup("* * * * * *", migration.NewExporter(docstoretest.NewSQLite(t), nil), root))

	s.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.Stop(ctx)
	}()

	require.Eventually(t, func() bool {
		matches, _ := filepath.Glob(filepath.Join(root, "*", "projects.json"))
		if len(matches) == 0 {
			return false
		}
		raw, err := os.ReadFile(matches[0])
		return err == nil && strings.TrimSpace(string(raw)) == "[]"
	}, 5*time.Second, 50*time.Millisecond)
}
