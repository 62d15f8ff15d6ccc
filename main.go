package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KNICEX/ask-ai/internal/repo"
	"github.com/KNICEX/ask-ai/internal/schedule"
	"github.com/KNICEX/ask-ai/internal/service/audit"
	"github.com/KNICEX/ask-ai/internal/service/ask"
	"github.com/KNICEX/ask-ai/internal/web"
	"github.com/KNICEX/ask-ai/ioc"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func initViper() {
	// --config=./config/xxx.yaml
	file := pflag.String("config", "./config/config.dev.yaml", "specify config file")
	pflag.Parse()

	viper.SetDefault("server.addr", ":3000")
	viper.SetDefault("server.mode", gin.ReleaseMode)
	viper.SetDefault("server.max_body_bytes", 20<<20)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 120*time.Second)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")
	viper.SetDefault("llm.gemini.poll_interval", 2*time.Second)
	viper.SetDefault("db.enabled", false)
	viper.SetDefault("db.dsn", "ask.db")
	viper.SetDefault("db.retention", 30*24*time.Hour)

	viper.SetConfigFile(*file)
	err := viper.ReadInConfig()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(fmt.Errorf("fatal error config file: %s \n", err))
	}
}

type serverConfig struct {
	Addr         string        `mapstructure:"addr"`
	Mode         string        `mapstructure:"mode"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

func main() {
	// .env is optional and only used in local development
	_ = godotenv.Load()
	initViper()

	logger := ioc.InitLogger()
	defer logger.Sync()

	var cfg serverConfig
	if err := viper.UnmarshalKey("server", &cfg); err != nil {
		logger.Fatal("parse server config", zap.Error(err))
	}

	geminiCli := ioc.InitGeminiCli()
	defer geminiCli.Close()
	registry := ioc.InitModelRegistry(geminiCli, logger)
	fileStore := ioc.InitFileStore(geminiCli, logger)

	opts := []ask.Option{
		ask.WithLogger(logger.Named("ask")),
		ask.WithTempDir(viper.GetString("upload.temp_dir")),
	}
	bgCtx, stopBg := context.WithCancel(context.Background())
	defer stopBg()
	if db := ioc.InitDB(); db != nil {
		records := repo.NewAskRecordRepo(db)
		opts = append(opts, ask.WithRecorder(records))
		if retention := viper.GetDuration("db.retention"); retention > 0 {
			go schedule.Every(bgCtx, time.Hour, audit.NewPurgeTask(records, retention, logger.Named("audit")), logger)
		}
	}
	askSvc := ask.NewService(registry, fileStore, opts...)

	gin.SetMode(cfg.Mode)
	engine := web.NewEngine(logger, web.NewAskHandler(askSvc, logger, cfg.MaxBodyBytes))
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      engine,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")
	stopBg()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.WriteTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
}
