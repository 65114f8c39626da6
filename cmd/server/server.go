package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fest-judging-system/config"
	"fest-judging-system/internal/global/database"
	"fest-judging-system/internal/global/httpclient"
	"fest-judging-system/internal/global/logger"
	"fest-judging-system/internal/global/mailer"
	"fest-judging-system/internal/global/middleware"
	"fest-judging-system/internal/global/objectstore"
	internalOtel "fest-judging-system/internal/global/otel"
	"fest-judging-system/internal/global/redis"
	"fest-judging-system/internal/global/sentry"
	"fest-judging-system/internal/module"
	"fest-judging-system/tools"

	"github.com/gin-gonic/gin"
)

var log *slog.Logger

// Init 初始化顺序：配置、日志、Sentry、存储、外部客户端，最后是各模块
func Init() {
	config.Init()
	tools.PanicOnErr(sentry.Init())
	log = logger.New("Server")

	database.Init()
	redis.Init()
	httpclient.Init()
	mailer.Init()

	ctx := context.Background()
	if err := objectstore.Init(ctx); err != nil {
		// 没有对象存储时照片上传不可用，其余功能正常
		log.Warn("对象存储初始化失败", "error", err)
	}
	if config.Get().OTel.Enable {
		log.Info("OTel Enabled")
		tools.PanicOnErr(internalOtel.Init(ctx))
	}

	for _, m := range module.Modules {
		log.Info(fmt.Sprintf("Init Module: %s", m.GetName()))
		m.Init()
	}
}

func Router() *gin.Engine {
	gin.SetMode(string(config.Get().Mode))
	r := gin.New()

	r.Use(middleware.Metrics())
	r.Use(sentry.Middleware())
	r.Use(middleware.SentryEnrichIP())
	switch config.Get().Mode {
	case config.ModeRelease:
		r.Use(middleware.Logger(logger.Get()))
	case config.ModeDebug:
		r.Use(gin.Logger())
	}
	r.Use(middleware.Cors())
	r.Use(middleware.Recovery())

	if config.Get().OTel.Enable {
		r.Use(middleware.Trace())
	}

	for _, m := range module.Modules {
		log.Info(fmt.Sprintf("Init Router: %s", m.GetName()))
		m.InitRouter(r.Group("/" + config.Get().Prefix))
	}
	return r
}

// Run 收到 SIGINT/SIGTERM 后优雅退出
func Run() {
	srv := &http.Server{
		Addr:              config.Get().Host + ":" + config.Get().Port,
		Handler:           Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server stopped unexpectedly", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", "error", err)
	}
	if err := internalOtel.Shutdown(ctx); err != nil {
		log.Error("Failed to shutdown TracerProvider", "error", err)
	}
	sentry.Flush(2 * time.Second)
}
