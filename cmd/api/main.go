package main

import (
	"Foryou/internal/api/config"
	"Foryou/internal/pkg/cron"
	"Foryou/internal/pkg/database"
	"Foryou/internal/pkg/logger"
	"Foryou/internal/pkg/minio"
	"Foryou/internal/pkg/mongo"
	"Foryou/internal/pkg/redis"
	"Foryou/internal/pkg/security"
	"Foryou/internal/wire"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

func main() {
	// 加载配置
	if err := config.LoadConfig(); err != nil {
		log.Error("Fatal error: failed to load configuration", "err", err)
		panic(err)
	}
	cfg := config.Cfg

	// 初始化日志
	logger.InitLogger(cfg.Logstash)

	// JWT
	if err := security.InitJWT(cfg.JWT.Secret, cfg.JWT.Issuer); err != nil {
		log.Error("Fatal error: failed to initialize jwt", "err", err)
		panic(err)
	}

	// 数据库连接，未配置时业务接口返回 503
	var db *gorm.DB
	if cfg.DB.DSN != "" {
		dbCfg := cfg.DB
		conn, err := database.NewGormDB(&dbCfg)
		if err != nil {
			log.Error("Fatal error: failed to create database connection", "err", err)
			panic(err)
		}
		if dbCfg.AutoMigrate {
			if err = database.Migrate(conn); err != nil {
				log.Error("Fatal error: failed to migrate database", "err", err)
				panic(err)
			}
		}
		db = conn
	} else {
		log.Warn("database dsn is empty, feed endpoints will respond 503")
	}

	// Redis 连接，失败时降级为无补偿队列、无吊销检查
	if cfg.Redis.Addr != "" {
		if err := redis.InitRedis(cfg.Redis); err != nil {
			log.Warn("redis unavailable, continue without it", "err", err)
		}
	}

	// Mongo 连接，失败时不记录曝光
	var mongoConn *mongodriver.Database
	if cfg.Mongo.URL != "" {
		conn, err := mongo.InitMongo(cfg.Mongo)
		if err != nil {
			log.Warn("mongo unavailable, feed impressions disabled", "err", err)
		} else {
			mongoConn = conn
		}
	}

	// MinIO 地址解析
	var resolver *minio.URLResolver
	if cfg.MinIO.ExternalEndpoint != "" {
		r, err := minio.Init(cfg.MinIO)
		if err != nil {
			log.Error("Fatal error: failed to initialize MinIO", "err", err)
			panic(err)
		}
		resolver = r
	}

	// 依赖注入
	app, err := wire.BuildApplication(db, mongoConn, resolver, cfg)
	if err != nil {
		log.Error("Fatal error: failed to create application", "err", err)
		panic(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	// 定时任务
	err = cron.InitCron(app.CronMgr)
	if err != nil {
		log.Error("Fatal error: failed to start cron jobs", "err", err)
		panic(err)
	}
	g.Go(func() error {
		<-ctx.Done()
		log.Info("Cron Jobs stopping...")
		app.CronMgr.Stop()
		return nil
	})

	// Kafka 消费者
	if app.KafkaManager != nil {
		g.Go(func() error {
			log.Info("Kafka Consumers starting...")
			return app.KafkaManager.Start(ctx)
		})
	}

	// HTTP 服务器
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           app.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	g.Go(func() error {
		log.Info("HTTP Server starting...", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// 优雅退出
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case <-ctx.Done():
		case sig := <-quit:
			log.Info("Received signal, shutting down...", "signal", sig)
			cancel()
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP Server shutdown failed", "err", err)
		}
		if mongoConn != nil {
			_ = mongoConn.Client().Disconnect(shutdownCtx)
		}
		if err := redis.Close(); err != nil {
			log.Error("Redis close failed", "err", err)
		}
		return nil
	})

	if err = g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("App exited with error", "err", err)
	}
	log.Info("App exited successfully.")
}
