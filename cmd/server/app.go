package main

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gardencare/config"
	"gardencare/database"
	"gardencare/router"

	"gardencare/pkg/catalog"
	catalogCtrlImp "gardencare/pkg/catalog/controllerImp"
	catalogRepoImp "gardencare/pkg/catalog/repositoryImp"
	"gardencare/pkg/featureflag"
	flagCtrlImp "gardencare/pkg/featureflag/controllerImp"
	flagRepoImp "gardencare/pkg/featureflag/repositoryImp"
	gardenCtrlImp "gardencare/pkg/garden/controllerImp"
	gardenRepoImp "gardencare/pkg/garden/repositoryImp"
	genSvc "gardencare/pkg/generator/service"
	genSvcImp "gardencare/pkg/generator/serviceImp"
	healthCtrlImp "gardencare/pkg/health/controllerImp"
	insightCtrlImp "gardencare/pkg/insight/controllerImp"
	insightSvc "gardencare/pkg/insight/service"
	insightSvcImp "gardencare/pkg/insight/serviceImp"
	"gardencare/pkg/metrics"
	obsCtrlImp "gardencare/pkg/observation/controllerImp"
	obsRepoImp "gardencare/pkg/observation/repositoryImp"
	plantingCtrlImp "gardencare/pkg/planting/controllerImp"
	plantingRepoImp "gardencare/pkg/planting/repositoryImp"
	"gardencare/pkg/recurrence"
	"gardencare/pkg/rulecontext"
	"gardencare/pkg/rules"
	seedCtrlImp "gardencare/pkg/seedbatch/controllerImp"
	seedRepoImp "gardencare/pkg/seedbatch/repositoryImp"
	taskCtrlImp "gardencare/pkg/task/controllerImp"
	taskRepoImp "gardencare/pkg/task/repositoryImp"
)

type app struct {
	cfg     config.AppConfig
	log     *zap.Logger
	db      *gorm.DB
	gate    *featureflag.Gate
	insight insightSvc.InsightService
	gen     genSvc.GeneratorService
	reg     *prometheus.Registry
	m       *metrics.Metrics
}

// newApp opens the database, seeds the catalog and flags, and builds the
// engine services. It does not start any listener.
func newApp(ctx context.Context, cfg config.AppConfig, log *zap.Logger, clock func() time.Time) (*app, error) {
	db, err := database.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	thresholds, err := rules.LoadThresholdTable(cfg.ThresholdsPath)
	if err != nil {
		return nil, err
	}

	varieties := catalogRepoImp.New(db)
	if err := catalog.Seed(ctx, varieties, cfg.VarietyCatalogPath, log.Named("catalog")); err != nil {
		return nil, err
	}

	flagRepo := flagRepoImp.New(db)
	if err := flagRepo.EnsureDefaults(ctx, map[string]bool{
		featureflag.TaskGenerator:    cfg.TaskGeneratorEnabled,
		featureflag.InsightEvaluator: cfg.InsightEvaluatorEnabled,
	}); err != nil {
		return nil, fmt.Errorf("seed flags: %w", err)
	}
	gate := featureflag.NewGate(flagRepo, log.Named("flags"))
	if err := gate.Reload(ctx); err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	opts := []rulecontext.Option{rulecontext.WithWindow(cfg.ObservationWindow)}
	if clock != nil {
		opts = append(opts, rulecontext.WithClock(clock))
	}
	builder := rulecontext.NewBuilder(gardenRepoImp.New(db), plantingRepoImp.New(db), varieties, obsRepoImp.New(db), thresholds, opts...)
	registry := rules.DefaultRegistry()

	return &app{
		cfg:     cfg,
		log:     log,
		db:      db,
		gate:    gate,
		insight: insightSvcImp.New(builder, registry, gate, cfg.EvalBudget, log.Named("insight"), m),
		gen:     genSvcImp.New(builder, registry, taskRepoImp.New(db), gate, log.Named("generator"), m),
		reg:     reg,
		m:       m,
	}, nil
}

func (a *app) echo() *echo.Echo {
	gardens := gardenRepoImp.New(a.db)
	plantings := plantingRepoImp.New(a.db)
	tasks := taskRepoImp.New(a.db)
	rec := recurrence.NewEngine(tasks, a.log.Named("recurrence"), a.m)

	e := echo.New()
	e.HideBanner = true
	return router.New(e, a.log.Named("http"), router.Controllers{
		Garden:      gardenCtrlImp.New(gardens),
		Insight:     insightCtrlImp.New(a.insight),
		Variety:     catalogCtrlImp.New(catalogRepoImp.New(a.db)),
		Planting:    plantingCtrlImp.New(plantings, gardens, catalogRepoImp.New(a.db), a.gen, a.log.Named("planting")),
		SeedBatch:   seedCtrlImp.New(seedRepoImp.New(a.db), gardens, a.gen, a.log.Named("seedbatch")),
		Observation: obsCtrlImp.New(obsRepoImp.New(a.db), gardens, a.gen, a.log.Named("observation")),
		Task:        taskCtrlImp.New(tasks, gardens, plantings, rec),
		Flags:       flagCtrlImp.New(a.gate),
		Health:      healthCtrlImp.NewHealthCtrl(a.db, a.gate),
		Metrics:     echo.WrapHandler(promhttp.HandlerFor(a.reg, promhttp.HandlerOpts{})),
	})
}
