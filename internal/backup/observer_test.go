package backup_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/snapdir/internal/backup"
	"github.com/thoreinstein/snapdir/internal/backup/mocks"
	"github.com/thoreinstein/snapdir/internal/copier"
	"github.com/thoreinstein/snapdir/internal/exclude"
)

func TestSession_ObserverSeesEveryOutcome(t *testing.T) {
	src := filepath.Join(t.TempDir(), "src")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "b.tmp"), []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "sub", "c.txt"), []byte("c"), 0o644))

	locations := []string{t.TempDir(), t.TempDir()}

	obs := mocks.NewMockObserver(t)
	obs.EXPECT().
		Observe(mock.AnythingOfType("backup.Pair"), mock.MatchedBy(func(o copier.Outcome) bool {
			return o.Status == copier.StatusCopied
		})).
		Return().
		Times(4)
	obs.EXPECT().
		Observe(mock.AnythingOfType("backup.Pair"), mock.MatchedBy(func(o copier.Outcome) bool {
			return o.Status == copier.StatusSkipped && o.Reason == copier.ReasonExcluded
		})).
		Return().
		Times(2)

	summary, err := backup.NewSession(
		backup.WithSources(backup.Source{Path: src, Alias: "data"}),
		backup.WithLocations(locations...),
		backup.WithFilter(exclude.Suffixes(".tmp")),
		backup.WithObserver(obs),
		backup.WithWorkers(2),
	).Run(t.Context())
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Copied)
	assert.Equal(t, 2, summary.Skipped)
}

func TestSession_ObserverSeesPairFailures(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	bad := filepath.Join(blocker, "backups")

	obs := mocks.NewMockObserver(t)
	obs.EXPECT().
		Observe(mock.MatchedBy(func(p backup.Pair) bool {
			return p.Location == bad && p.Source.Alias == "data"
		}), mock.MatchedBy(func(o copier.Outcome) bool {
			return o.Status == copier.StatusFailed
		})).
		Return().
		Once()

	summary, err := backup.NewSession(
		backup.WithSources(backup.Source{Path: t.TempDir(), Alias: "data"}),
		backup.WithLocations(bad),
		backup.WithObserver(obs),
	).Run(t.Context())
	require.NoError(t, err)
	assert.Equal(t, backup.StateFailed, summary.State())
}
