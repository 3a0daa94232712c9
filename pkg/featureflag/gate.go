// Package featureflag gates the engine entry points behind named flags. Reads
// are served from an in-process cache that only changes on Reload or Set.
package featureflag

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"gardencare/pkg/featureflag/repository"
)

const (
	TaskGenerator    = "task_generator"
	InsightEvaluator = "insight_evaluator"
)

var ErrUnknownFlag = errors.New("unknown feature flag")

// Known lists every flag the engine consults.
var Known = []string{InsightEvaluator, TaskGenerator}

func known(name string) bool {
	for _, k := range Known {
		if k == name {
			return true
		}
	}
	return false
}

type Gate struct {
	repo repository.FlagRepository
	log  *zap.Logger

	mu    sync.RWMutex
	cache map[string]bool
}

func NewGate(repo repository.FlagRepository, log *zap.Logger) *Gate {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gate{repo: repo, log: log, cache: map[string]bool{}}
}

// Enabled reports whether name is on. Flags missing from the store count as enabled.
func (g *Gate) Enabled(name string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	on, ok := g.cache[name]
	return !ok || on
}

// Reload replaces the cache with the stored flags. On error the old cache stays.
func (g *Gate) Reload(ctx context.Context) error {
	rows, err := g.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("load flags: %w", err)
	}
	next := make(map[string]bool, len(rows))
	for _, f := range rows {
		next[f.Name] = f.Enabled
	}
	g.mu.Lock()
	g.cache = next
	g.mu.Unlock()
	g.log.Debug("feature flags reloaded", zap.Int("count", len(next)))
	return nil
}

// Set persists a flag and reloads before returning, so the next Enabled call sees it.
func (g *Gate) Set(ctx context.Context, name string, enabled bool) error {
	if !known(name) {
		return fmt.Errorf("%q: %w", name, ErrUnknownFlag)
	}
	if err := g.repo.Set(ctx, name, enabled); err != nil {
		return fmt.Errorf("set flag %s: %w", name, err)
	}
	g.log.Info("feature flag changed", zap.String("flag", name), zap.Bool("enabled", enabled))
	return g.Reload(ctx)
}

// Snapshot returns the effective value of every known flag plus any extra stored ones.
func (g *Gate) Snapshot() map[string]bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make(map[string]bool, len(Known)+len(g.cache))
	for _, k := range Known {
		out[k] = true
	}
	for k, v := range g.cache {
		out[k] = v
	}
	return out
}

// Names returns Snapshot's keys sorted.
func Names(snap map[string]bool) []string {
	out := make([]string, 0, len(snap))
	for k := range snap {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
