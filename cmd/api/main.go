package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Taller-api/internal/application/orders"
	"github.com/jhoicas/Taller-api/internal/application/parts"
	"github.com/jhoicas/Taller-api/internal/application/stock"
	"github.com/jhoicas/Taller-api/internal/infrastructure/notify"
	"github.com/jhoicas/Taller-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Taller-api/internal/interfaces/http"
	"github.com/jhoicas/Taller-api/internal/jobs"
	"github.com/jhoicas/Taller-api/pkg/config"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	orderRepo := postgres.NewOrderRepository(pool)
	lineRepo := postgres.NewOrderLineRepository(pool)
	partRepo := postgres.NewPartRepository(pool)
	movRepo := postgres.NewStockMovementRepository(pool)
	historyRepo := postgres.NewStatusHistoryRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	notifier := notify.NewAsyncNotifier(log.Named("notifier"), 256)
	defer notifier.Close()

	orderUC := orders.NewOrderUseCase(txRunner, orderRepo, lineRepo, historyRepo, notifier)
	partUC := parts.NewPartUseCase(partRepo)
	adjustUC := stock.NewAdjustStockUseCase(txRunner, movRepo)

	// Vigilante de plazos: alerta por órdenes con fecha compromiso vencida.
	watchdog := jobs.NewDeadlineWatchdog(orderRepo, notifier, log.Named("jobs"))
	if cfg.Jobs.Enabled {
		if err := watchdog.Start(cfg.Jobs.DeadlineCron); err != nil {
			log.Fatal().Err(err).Msg("programación del vigilante de plazos")
		}
		defer watchdog.Stop()
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if !httpRouter.RegisterSwagger(app, "./docs/swagger.json", "Taller API") {
		log.Warn().Msg("docs/swagger.json no encontrado, la UI de Swagger no se monta")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		OrderUC:   orderUC,
		PartUC:    partUC,
		AdjustUC:  adjustUC,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
