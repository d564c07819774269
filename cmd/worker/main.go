package main

import (
	"context"
	"encoding/json"
	"log"

	"github.com/bwmarrin/snowflake"
	"github.com/hibiken/asynq"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"gyansultanat-platform/pkg/config"
	"gyansultanat-platform/pkg/db"
	"gyansultanat-platform/pkg/hashistack/secretmanager"
	"gyansultanat-platform/pkg/logger"
	"gyansultanat-platform/pkg/minio"
	"gyansultanat-platform/pkg/redis"
	"gyansultanat-platform/pkg/sequence"
	"gyansultanat-platform/pkg/task"
	"gyansultanat-platform/pkg/taskname"
	"gyansultanat-platform/services/agency"
	"gyansultanat-platform/services/charity"
	"gyansultanat-platform/services/crown"
	"gyansultanat-platform/services/host"
	"gyansultanat-platform/services/leaderboard"
	"gyansultanat-platform/services/notification"
	"gyansultanat-platform/services/vip"
	"gyansultanat-platform/services/wallet"
	"gyansultanat-platform/services/withdrawal"
)

func main() {
	opts := []fx.Option{
		secretmanager.Module,
		config.Module,
		logger.Module,
		db.Module,
		redis.Module,
		task.Client,
		task.Server,
		sequence.Module,
		minio.Client,
		fx.Provide(
			provideSnowflakeNode,
			wallet.NewService,
			vip.NewService,
			charity.NewService,
			crown.NewService,
		),
		notification.TaskModule,
		agency.TaskModule,
		withdrawal.TaskModule,
		host.TaskModule,
		leaderboard.TaskModule,
		fx.Invoke(runScheduler),
		fxLogger,
	}

	if err := fx.ValidateApp(opts...); err != nil {
		log.Fatalf("fx validation failed: %v", err)
	}

	app := fx.New(opts...)

	app.Run()
}

var fxLogger = fx.WithLogger(func(cfg *config.Config, logger *zap.Logger) fxevent.Logger {
	return fxevent.NopLogger
})

func provideSnowflakeNode() (*snowflake.Node, error) {
	return snowflake.NewNode(2)
}

// runScheduler enqueues the recurring leaderboard payouts.
func runScheduler(lc fx.Lifecycle, cfg *config.Config) {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		&asynq.SchedulerOpts{},
	)

	entries := map[string]string{
		"0 0 * * *": leaderboard.PeriodDaily,
		"0 0 * * 1": leaderboard.PeriodWeekly,
		"0 0 1 * *": leaderboard.PeriodMonthly,
	}
	for spec, period := range entries {
		payload, _ := json.Marshal(leaderboard.PayoutPayload{Period: period})
		if _, err := scheduler.Register(spec,
			asynq.NewTask(taskname.LeaderboardPayout, payload),
			asynq.Queue("low"),
		); err != nil {
			zap.L().Error("failed to register payout schedule",
				zap.String("period", period), zap.Error(err))
		}
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := scheduler.Run(); err != nil {
					zap.L().Error("asynq scheduler stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			scheduler.Shutdown()
			return nil
		},
	})
}
