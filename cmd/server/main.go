package main

import (
	"context"
	"log"
	"time"

	logbridge "tapvault/internal/adapter/bridge/logbridge"
	wsbridge "tapvault/internal/adapter/bridge/ws"
	httpadapter "tapvault/internal/adapter/http"
	metricsinmem "tapvault/internal/adapter/metrics/inmemory"
	filerepo "tapvault/internal/adapter/repo/file"
	gormrepo "tapvault/internal/adapter/repo/gorm"
	memoryrepo "tapvault/internal/adapter/repo/memory"
	sqliterepo "tapvault/internal/adapter/repo/sqlite"
	"tapvault/internal/app/persist"
	"tapvault/internal/app/ports"
	"tapvault/internal/app/session"
	"tapvault/internal/domain/game"
	"tapvault/internal/platform/config"
	"tapvault/internal/platform/logger"

	"github.com/cloudwego/hertz/pkg/app/server"
)

func main() {
	cfg, err := config.ParseEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	lg := logger.New()

	backends := mustBuildBackends(cfg, lg)
	kpi := metricsinmem.NewRecorder()

	ctrl := session.New(session.Config{
		UserID:   cfg.UserID,
		Store:    persist.Chain{Backends: backends, Log: lg, Metrics: kpi},
		Bridge:   buildBridge(cfg, lg),
		Notifier: noticeLogger{lg},
		Metrics:  kpi,
		Log:      lg,
	})
	if err := ctrl.Start(context.Background()); err != nil {
		log.Fatalf("start session: %v", err)
	}

	ticker := time.NewTicker(time.Second)
	go func() {
		for range ticker.C {
			ctrl.Tick(context.Background())
		}
	}()

	h := httpadapter.Handler{Session: ctrl, KPI: kpi}
	s := server.Default(server.WithHostPorts(cfg.ListenAddr))
	h.RegisterRoutes(s)
	s.OnShutdown = append(s.OnShutdown, func(ctx context.Context) {
		ticker.Stop()
		ctrl.Suspend(ctx)
	})

	lg.Infof("tapvault listening on %s (user=%s)", cfg.ListenAddr, cfg.UserID)
	s.Spin()
}

// mustBuildBackends assembles the fallback chain in load order: sqlite
// first, then the per-key file store, then in-process memory so a save
// always has somewhere to land. A postgres mirror joins the tail when a
// DSN is configured.
func mustBuildBackends(cfg config.Config, lg ports.Logger) []ports.Backend {
	primary, err := sqliterepo.Open(cfg.SQLitePath)
	if err != nil {
		log.Fatalf("open sqlite at %s: %v", cfg.SQLitePath, err)
	}
	secondary, err := filerepo.NewStore(cfg.FileDir)
	if err != nil {
		log.Fatalf("open file store at %s: %v", cfg.FileDir, err)
	}
	backends := []ports.Backend{primary, secondary, memoryrepo.NewStore()}

	if cfg.DBDSN != "" {
		db, err := gormrepo.OpenPostgres(cfg.DBDSN)
		if err != nil {
			log.Fatalf("open postgres: %v", err)
		}
		mirror, err := gormrepo.NewStore(db)
		if err != nil {
			log.Fatalf("migrate postgres: %v", err)
		}
		backends = append(backends, mirror)
		lg.Infof("postgres mirror enabled")
	}
	return backends
}

func buildBridge(cfg config.Config, lg ports.Logger) ports.HostBridge {
	if cfg.BridgeURL != "" {
		return wsbridge.New(cfg.BridgeURL)
	}
	return logbridge.Bridge{Log: lg}
}

// noticeLogger surfaces user-facing notices in the process log. A real
// host embeds the engine and renders these in its own UI instead.
type noticeLogger struct {
	lg ports.Logger
}

func (n noticeLogger) Notify(notice game.Notice) {
	n.lg.Infof("notice %s: %s", notice.Kind, notice.Message)
}
