package notify

import (
	"context"
	"sync"

	"github.com/jhoicas/Taller-api/internal/application/orders"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

var _ orders.Notifier = (*AsyncNotifier)(nil)

type event struct {
	Type    string
	OrderID string
	Payload map[string]any
}

// AsyncNotifier despacha eventos de dominio fuera de la transacción, en una
// goroutine dedicada. Si el buffer se llena el evento se descarta y se deja
// constancia en el log: las notificaciones nunca bloquean ni fallan la
// operación que las originó.
type AsyncNotifier struct {
	log    *logger.Logger
	events chan event
	wg     sync.WaitGroup
	once   sync.Once
}

// NewAsyncNotifier crea el notificador y arranca su worker.
func NewAsyncNotifier(log *logger.Logger, bufferSize int) *AsyncNotifier {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	n := &AsyncNotifier{
		log:    log,
		events: make(chan event, bufferSize),
	}
	n.wg.Add(1)
	go n.run()
	return n
}

// Publish encola el evento sin bloquear. Llamar únicamente después del commit.
func (n *AsyncNotifier) Publish(_ context.Context, eventType, orderID string, payload map[string]any) {
	select {
	case n.events <- event{Type: eventType, OrderID: orderID, Payload: payload}:
	default:
		n.log.Warn().
			Str("event", eventType).
			Str("order_id", orderID).
			Msg("buffer de notificaciones lleno, evento descartado")
	}
}

func (n *AsyncNotifier) run() {
	defer n.wg.Done()
	for ev := range n.events {
		n.log.Info().
			Str("event", ev.Type).
			Str("order_id", ev.OrderID).
			Interface("payload", ev.Payload).
			Msg("evento de orden publicado")
	}
}

// Close drena los eventos pendientes y detiene el worker.
func (n *AsyncNotifier) Close() {
	n.once.Do(func() {
		close(n.events)
	})
	n.wg.Wait()
}
