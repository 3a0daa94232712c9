package featureflag_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gardencare/database"
	"gardencare/pkg/featureflag"
	"gardencare/pkg/featureflag/repository"
	"gardencare/pkg/featureflag/repositoryImp"
)

func newGate(t *testing.T) (*featureflag.Gate, repository.FlagRepository) {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "flags.db"))
	require.NoError(t, err)
	repo := repositoryImp.New(db)
	return featureflag.NewGate(repo, nil), repo
}

func TestGateDefaultsToEnabled(t *testing.T) {
	g, _ := newGate(t)
	assert.True(t, g.Enabled(featureflag.TaskGenerator))
	require.NoError(t, g.Reload(context.Background()))
	assert.True(t, g.Enabled(featureflag.InsightEvaluator))
	assert.Equal(t, map[string]bool{"task_generator": true, "insight_evaluator": true}, g.Snapshot())
}

func TestGateSetReloadsSynchronously(t *testing.T) {
	g, _ := newGate(t)
	ctx := context.Background()

	require.NoError(t, g.Set(ctx, featureflag.TaskGenerator, false))
	assert.False(t, g.Enabled(featureflag.TaskGenerator))
	assert.True(t, g.Enabled(featureflag.InsightEvaluator), "flags are independent")

	require.NoError(t, g.Set(ctx, featureflag.TaskGenerator, true))
	assert.True(t, g.Enabled(featureflag.TaskGenerator))
}

func TestGateCacheOnlyChangesOnReload(t *testing.T) {
	g, repo := newGate(t)
	ctx := context.Background()
	require.NoError(t, g.Reload(ctx))

	// a write that bypasses the gate is invisible until Reload
	require.NoError(t, repo.Set(ctx, featureflag.InsightEvaluator, false))
	assert.True(t, g.Enabled(featureflag.InsightEvaluator))
	require.NoError(t, g.Reload(ctx))
	assert.False(t, g.Enabled(featureflag.InsightEvaluator))
}

func TestGateRejectsUnknownFlag(t *testing.T) {
	g, _ := newGate(t)
	err := g.Set(context.Background(), "dark_mode", true)
	assert.True(t, errors.Is(err, featureflag.ErrUnknownFlag))
}

func TestEnsureDefaultsKeepsExistingRows(t *testing.T) {
	g, repo := newGate(t)
	ctx := context.Background()
	require.NoError(t, repo.Set(ctx, featureflag.TaskGenerator, false))
	require.NoError(t, repo.EnsureDefaults(ctx, map[string]bool{
		featureflag.TaskGenerator:    true,
		featureflag.InsightEvaluator: false,
	}))
	require.NoError(t, g.Reload(ctx))
	assert.False(t, g.Enabled(featureflag.TaskGenerator))
	assert.False(t, g.Enabled(featureflag.InsightEvaluator))

	rows, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, []string{"insight_evaluator", "task_generator"}, featureflag.Names(g.Snapshot()))
}
