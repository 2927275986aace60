package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "backoffice/internal/config"
	intdb "backoffice/internal/db"
	router "backoffice/internal/http"
	"backoffice/internal/http/handlers"
	"backoffice/internal/notify"
	"backoffice/internal/repositories"
	"backoffice/internal/sequence"
	"backoffice/internal/services"
	"backoffice/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	logger, err := utils.InitLogger(env.LogMode)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	conn, err := intconfig.ConnectDB(env)
	if err != nil {
		logger.Fatalw("database connection failed", "error", err)
	}
	defer intconfig.CloseDB()

	if env.DBMigrate {
		if err := intdb.Migrate(conn, env.DBName, logger); err != nil {
			logger.Fatalw("migration failed", "error", err)
		}
	}

	store := services.SQLUnitOfWork{DB: conn}
	if env.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: env.RedisAddr, Password: env.RedisPassword})
		defer func() { _ = rdb.Close() }()

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rdb.Ping(ctx).Err()
		cancel()
		if err != nil {
			logger.Warnw("redis unreachable, numbering from the database", "addr", env.RedisAddr, "error", err)
		} else {
			store.Seq = sequence.NewRedisGenerator(rdb)
		}
	}

	handlers.Configure(handlers.Deps{
		Store:  store,
		Users:  repositories.UserRepository{DB: conn},
		Mailer: notify.LogMailer{From: env.MailFrom, Logger: logger},
		Env:    env,
	})

	r := router.NewRouter(env)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Infow("server listening", "addr", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalw("shutdown failed", "error", err)
	}

	logger.Info("server stopped")
}
