// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"finmatch-workers/internal/catalog"
	"finmatch-workers/internal/common/camunda"
	"finmatch-workers/internal/common/config"
	"finmatch-workers/internal/common/database"
	"finmatch-workers/internal/common/logger"
	"finmatch-workers/internal/common/observability"
	"finmatch-workers/internal/engine/schemes"
	"finmatch-workers/internal/engine/scoring"
	"finmatch-workers/pkg/registry"

	mbp "finmatch-workers/internal/workers/matching/match-bank-programs"
	nsp "finmatch-workers/internal/workers/matching/normalize-startup-profile"
	rgs "finmatch-workers/internal/workers/matching/recommend-govt-schemes"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func weightsFromConfig(w config.WeightsConfig) scoring.Weights {
	return scoring.Weights{
		Stage:           w.Stage,
		Sector:          w.Sector,
		Revenue:         w.Revenue,
		Location:        w.Location,
		Services:        w.Services,
		SpecialCriteria: w.SpecialCriteria,
		BankType:        w.BankType,
		LoanRange:       w.LoanRange,
		NeutralScore:    w.NeutralScore,
	}
}

func ruleScoresFromConfig(s config.RuleScoresConfig) schemes.RuleScores {
	return schemes.RuleScores{
		Neutral:  s.Neutral,
		Fallback: s.Fallback,
	}
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         time.Duration(cfg.Camunda.RequestTimeout) * time.Millisecond,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Catalog Source ---
	var source catalog.Source
	switch cfg.Catalog.Source {
	case "postgres":
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		zapLog.Info("PostgreSQL connected successfully")
		source = catalog.NewPostgresSource(pg)

	case "elasticsearch":
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		zapLog.Info("Elasticsearch connected successfully")
		source = catalog.NewElasticsearchSource(
			esClient,
			cfg.Catalog.ProgramsIndex,
			cfg.Catalog.SchemesIndex,
			cfg.Catalog.RulesIndex,
		)

	case "file":
		source = catalog.NewFileSource(
			cfg.Catalog.ProgramsPath,
			cfg.Catalog.SchemesPath,
			cfg.Catalog.RulesPath,
		)
	}

	loaderOpts := []catalog.LoaderOption{}
	if cfg.Catalog.RedisTTL > 0 {
		loaderOpts = append(loaderOpts, catalog.WithRedis(redis, time.Duration(cfg.Catalog.RedisTTL)*time.Second))
	}
	loader, err := catalog.NewLoader(source, catalog.NewCache(), log, loaderOpts...)
	if err != nil {
		zapLog.Fatal("catalog loader failed", zap.Error(err))
	}

	// --- Activity Registry ---
	reg, regErr := registry.LoadRegistry("configs/activity-registry.json")
	if regErr != nil {
		zapLog.Warn("activity registry not loaded", zap.Error(regErr))
		reg = nil
	} else {
		zapLog.Info("activity registry loaded",
			zap.String("version", reg.Version),
			zap.Int("activities", len(reg.Activities)),
		)
	}

	// jobTimeout prefers the per-worker config value and falls back to the
	// registry entry for the task type.
	jobTimeout := func(taskType string, configuredMillis int) time.Duration {
		if configuredMillis > 0 {
			return time.Duration(configuredMillis) * time.Millisecond
		}
		if reg != nil {
			if act := reg.FindByTaskType(taskType); act != nil {
				if d, err := time.ParseDuration(act.Timeout); err == nil {
					return d
				}
			}
		}
		return 15 * time.Second
	}

	// --- Register Workers ---
	var workers []*camunda.CamundaWorker

	if wcfg := cfg.Workers[nsp.TaskType]; wcfg.Enabled {
		timeout := jobTimeout(nsp.TaskType, wcfg.Timeout)
		handler := nsp.NewHandler(
			&nsp.Config{
				Timeout: timeout,
			},
			log,
		)
		workers = append(workers, camunda.NewWorker(
			zeebe.GetClient(), nsp.TaskType, wcfg.MaxJobsActive,
			timeout, handler.Handle, zapLog,
		))
	}

	if wcfg := cfg.Workers[mbp.TaskType]; wcfg.Enabled {
		timeout := jobTimeout(mbp.TaskType, wcfg.Timeout)
		handler := mbp.NewHandler(
			&mbp.Config{
				Timeout:      timeout,
				DefaultLimit: cfg.Matching.DefaultLimit,
				Weights:      weightsFromConfig(cfg.Matching.Weights),
			},
			loader, log,
		)
		workers = append(workers, camunda.NewWorker(
			zeebe.GetClient(), mbp.TaskType, wcfg.MaxJobsActive,
			timeout, handler.Handle, zapLog,
		))
	}

	if wcfg := cfg.Workers[rgs.TaskType]; wcfg.Enabled {
		timeout := jobTimeout(rgs.TaskType, wcfg.Timeout)
		handler := rgs.NewHandler(
			&rgs.Config{
				Timeout: timeout,
				Scores:  ruleScoresFromConfig(cfg.Matching.RuleScores),
			},
			loader, log,
		)
		workers = append(workers, camunda.NewWorker(
			zeebe.GetClient(), rgs.TaskType, wcfg.MaxJobsActive,
			timeout, handler.Handle, zapLog,
		))
	}

	zapLog.Info("All workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := zeebe.HealthCheck(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "not ready",
					"error":  err.Error(),
				})
				return
			}
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop(shutdownCtx)
	}

	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}
