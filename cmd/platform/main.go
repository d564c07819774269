package main

import (
	"log"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"gyansultanat-platform/pkg/config"
	"gyansultanat-platform/pkg/db"
	"gyansultanat-platform/pkg/featureflags"
	"gyansultanat-platform/pkg/hashistack/secretmanager"
	"gyansultanat-platform/pkg/hashistack/servicediscover"
	"gyansultanat-platform/pkg/health"
	"gyansultanat-platform/pkg/logger"
	"gyansultanat-platform/pkg/minio"
	"gyansultanat-platform/pkg/profiling"
	"gyansultanat-platform/pkg/redis"
	"gyansultanat-platform/pkg/sequence"
	"gyansultanat-platform/pkg/server"
	"gyansultanat-platform/pkg/task"
	"gyansultanat-platform/services/agency"
	"gyansultanat-platform/services/auth"
	"gyansultanat-platform/services/charity"
	"gyansultanat-platform/services/crown"
	"gyansultanat-platform/services/education"
	"gyansultanat-platform/services/exchange"
	"gyansultanat-platform/services/game"
	"gyansultanat-platform/services/gift"
	"gyansultanat-platform/services/host"
	"gyansultanat-platform/services/leaderboard"
	"gyansultanat-platform/services/logicpk"
	"gyansultanat-platform/services/notification"
	"gyansultanat-platform/services/payment"
	"gyansultanat-platform/services/reward"
	"gyansultanat-platform/services/vip"
	"gyansultanat-platform/services/wallet"
	"gyansultanat-platform/services/withdrawal"
)

func main() {
	opts := []fx.Option{
		secretmanager.Module,
		config.Module,
		logger.Module,
		profiling.Module,
		servicediscover.Module,
		db.Module,
		redis.Module,
		task.Client,
		sequence.Module,
		featureflags.Module,
		minio.Client,
		health.Module,
		fx.Provide(
			provideTracerProvider,
			provideMeterProvider,
			provideSnowflakeNode,
		),
		auth.Module,
		wallet.Module,
		notification.Module,
		vip.Module,
		charity.Module,
		host.Module,
		crown.Module,
		gift.Module,
		game.Module,
		agency.Module,
		exchange.Module,
		logicpk.Module,
		withdrawal.Module,
		education.Module,
		reward.Module,
		leaderboard.Module,
		payment.Module,
		fx.Invoke(registerHealthRoutes),
		server.ProvideHTTPServer,
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

func registerHealthRoutes(e *gin.Engine, h health.HealthService) {
	e.GET("/healthz", h.Liveness)
	e.GET("/readyz", h.Readiness)
}

func provideTracerProvider() trace.TracerProvider {
	return otel.GetTracerProvider()
}

func provideMeterProvider() metric.MeterProvider {
	return otel.GetMeterProvider()
}

func provideSnowflakeNode() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
