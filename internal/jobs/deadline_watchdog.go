package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/Taller-api/internal/application/orders"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

// DeadlineWatchdog recorre periódicamente las órdenes con fecha compromiso
// vencida y sin terminar, y publica un evento por cada una. No cambia
// estados: el vencimiento es una alerta, no una transición.
type DeadlineWatchdog struct {
	orderRepo repository.OrderRepository
	notifier  orders.Notifier
	log       *logger.Logger
	cron      *cron.Cron
}

// NewDeadlineWatchdog construye el vigilante de plazos.
func NewDeadlineWatchdog(orderRepo repository.OrderRepository, notifier orders.Notifier, log *logger.Logger) *DeadlineWatchdog {
	return &DeadlineWatchdog{
		orderRepo: orderRepo,
		notifier:  notifier,
		log:       log,
		cron:      cron.New(),
	}
}

// Start programa la revisión con la expresión cron dada y arranca el
// planificador.
func (w *DeadlineWatchdog) Start(spec string) error {
	if _, err := w.cron.AddFunc(spec, w.Scan); err != nil {
		return err
	}
	w.cron.Start()
	w.log.Info().Str("cron", spec).Msg("vigilante de plazos programado")
	return nil
}

// Stop detiene el planificador y espera a que termine la corrida en curso.
func (w *DeadlineWatchdog) Stop() {
	<-w.cron.Stop().Done()
}

// Scan una corrida del vigilante. Exportado para poder dispararla a mano.
func (w *DeadlineWatchdog) Scan() {
	now := time.Now()
	overdue, err := w.orderRepo.ListOverdue(now)
	if err != nil {
		w.log.Error().Err(err).Msg("no se pudieron consultar las órdenes vencidas")
		return
	}
	for _, o := range overdue {
		w.notifier.Publish(context.Background(), orders.EventDeadlineOverdue, o.ID, map[string]any{
			"code":     o.Code,
			"status":   string(o.Status),
			"deadline": o.ExecutionDeadline,
		})
	}
	w.log.Info().Int("overdue", len(overdue)).Msg("corrida del vigilante de plazos completada")
}
