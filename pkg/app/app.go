// Package app 提供应用程序的初始化和配置功能.
package app

import (
	contextPkg "context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yeisme/patchvault/pkg/api"
	"github.com/yeisme/patchvault/pkg/configs"
	"github.com/yeisme/patchvault/pkg/context"
	"github.com/yeisme/patchvault/pkg/internal/jobs"
	"github.com/yeisme/patchvault/pkg/internal/storage"
	"github.com/yeisme/patchvault/pkg/log"
	"github.com/yeisme/patchvault/pkg/metrics"
	"github.com/yeisme/patchvault/pkg/middleware"
	"github.com/yeisme/patchvault/pkg/queue"
	"github.com/yeisme/patchvault/pkg/scheduler"
	"github.com/yeisme/patchvault/pkg/tracing"
)

type App struct {
	Engine    *gin.Engine
	config    *configs.AppConfig
	manager   *storage.Manager
	scheduler *scheduler.Scheduler
}

func NewApp(configPath string) *App {
	ctx := contextPkg.Background()

	// 初始化配置
	if err := configs.InitConfig(configPath); err != nil {
		fmt.Printf("Error initializing config: %v\n", err)
		os.Exit(1)
	}

	config := configs.GetConfig()

	if !config.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.MaxMultipartMemory = config.Server.MaxUploadBytes()

	// 初始化追踪
	if err := tracing.InitTracer(config.Tracing); err != nil {
		fmt.Printf("Error initializing tracing: %v\n", err)
		os.Exit(1)
	}

	// 初始化监控
	if err := metrics.InitMetrics(config.Metrics); err != nil {
		fmt.Printf("Error initializing metrics: %v\n", err)
		os.Exit(1)
	}

	manager, err := storage.Init(ctx)
	if err != nil {
		fmt.Printf("Error initializing storage: %v\n", err)
		os.Exit(1)
	}

	l := log.Logger()
	gin.DefaultWriter = log.NewGinWriter(l, zerolog.InfoLevel)
	gin.DefaultErrorWriter = log.NewGinWriter(l, zerolog.ErrorLevel)

	sched, err := scheduler.NewScheduler()
	if err != nil {
		fmt.Printf("Error initializing scheduler: %v\n", err)
		os.Exit(1)
	}

	engine.Use(
		gin.Recovery(),
		middleware.GinLoggerMiddleware(),
		middleware.CORSMiddleware(config.Server),
		gzip.Gzip(gzip.DefaultCompression),
		middleware.TracingMiddleware(),
		middleware.PrometheusMiddleware(),
		middleware.CircuitBreakerMiddleware(config.Breaker),
		middleware.StorageMiddleware(manager),
		middleware.SchedulerMiddleware(sched),
	)

	api.RegisterGroup(engine, config)

	if err := jobs.RegisterCronJobs(sched, manager, config.Retention); err != nil {
		l.Error().Err(err).Msg("register cron jobs failed")
	}

	sched.Start()

	if config.Metrics.Enabled {
		_ = metrics.StartMetricsServer(config.Metrics, engine)
	}

	app := &App{
		Engine:    engine,
		config:    config,
		manager:   manager,
		scheduler: sched,
	}

	app.startDownloadCounter(ctx)

	return app
}

// startDownloadCounter 订阅下载台账事件，将下载量累加到 Prometheus 指标.
func (a *App) startDownloadCounter(ctx contextPkg.Context) {
	mqc := a.manager.GetMQClient()
	if mqc == nil || !a.config.Events.Enabled || !a.config.Events.Ledger.DownloadRecorded {
		return
	}

	ch, err := mqc.Subscribe(ctx, queue.TopicDownloadRecorded)
	if err != nil {
		log.Logger().Warn().Err(err).Msg("subscribe download events failed")

		return
	}

	go func() {
		for msg := range ch {
			env, err := queue.ParseDownloadRecorded(msg)
			if err != nil {
				log.Logger().Warn().Err(err).Str("msg", msg.UUID).Msg("bad download event")
				msg.Ack()

				continue
			}

			metrics.DownloadsTotal.WithLabelValues(env.Payload.FileType, "ok").Inc()
			msg.Ack()
		}
	}()
}

// Run 启动 HTTP 服务并阻塞，收到 SIGINT/SIGTERM 后优雅退出.
func (a *App) Run() error {
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port),
		Handler:           a.Engine,
		ReadHeaderTimeout: a.config.Server.GetTimeoutDuration(),
	}

	errCh := make(chan error, 1)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	log.Logger().Info().Str("addr", srv.Addr).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Logger().Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := contextPkg.WithTimeout(contextPkg.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	a.Close(ctx)

	return nil
}

// Close 释放调度器、存储与追踪资源.
func (a *App) Close(ctx contextPkg.Context) {
	if a.scheduler != nil {
		if err := a.scheduler.Shutdown(); err != nil {
			log.Logger().Warn().Err(err).Msg("shutdown scheduler failed")
		}
	}

	if a.manager != nil {
		if err := a.manager.Close(); err != nil {
			log.Logger().Warn().Err(err).Msg("close storage failed")
		}
	}

	if err := tracing.ShutdownTracer(ctx); err != nil {
		log.Logger().Warn().Err(err).Msg("shutdown tracer failed")
	}
}

// NewJobContext 供定时任务与 CLI 构造带存储依赖的 context.
func (a *App) NewJobContext() contextPkg.Context {
	return context.WithStorageManager(contextPkg.Background(), a.manager)
}
