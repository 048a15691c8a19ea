package orders_test

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/application/orders"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Almacén en memoria con semántica transaccional: RunOrder trabaja sobre una
// copia y solo la vuelca al almacén real si el callback termina sin error.
// Así los tests verifican atomicidad de verdad, no solo valores finales.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	orders       map[string]*entity.Order
	serviceLines map[string]*entity.OrderServiceLine
	partLines    map[string]*entity.OrderPartLine
	parts        map[string]*entity.Part
	movements    []*entity.StockMovement
	history      []*entity.StatusHistoryEntry
	sequences    map[string]int
}

func newMemStore() *memStore {
	return &memStore{
		orders:       map[string]*entity.Order{},
		serviceLines: map[string]*entity.OrderServiceLine{},
		partLines:    map[string]*entity.OrderPartLine{},
		parts:        map[string]*entity.Part{},
		sequences:    map[string]int{},
	}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	for k, v := range s.orders {
		cp := *v
		c.orders[k] = &cp
	}
	for k, v := range s.serviceLines {
		cp := *v
		c.serviceLines[k] = &cp
	}
	for k, v := range s.partLines {
		cp := *v
		c.partLines[k] = &cp
	}
	for k, v := range s.parts {
		cp := *v
		c.parts[k] = &cp
	}
	for _, v := range s.movements {
		cp := *v
		c.movements = append(c.movements, &cp)
	}
	for _, v := range s.history {
		cp := *v
		c.history = append(c.history, &cp)
	}
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	return c
}

func (s *memStore) replaceWith(c *memStore) {
	s.orders = c.orders
	s.serviceLines = c.serviceLines
	s.partLines = c.partLines
	s.parts = c.parts
	s.movements = c.movements
	s.history = c.history
	s.sequences = c.sequences
}

// movementsForOrder movimientos de una orden en orden de inserción.
func (s *memStore) movementsForOrder(orderID string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range s.movements {
		if m.OrderID == orderID {
			out = append(out, m)
		}
	}
	return out, nil
}

// signedSum suma firmada del libro para un repuesto (IN positivo, OUT negativo).
func (s *memStore) signedSum(partID string) decimal.Decimal {
	sum := decimal.Zero
	for _, m := range s.movements {
		if m.PartID == partID {
			sum = sum.Add(m.Signed())
		}
	}
	return sum
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios fake sobre el almacén
// ──────────────────────────────────────────────────────────────────────────────

type fakeOrderRepo struct{ s *memStore }

func (r *fakeOrderRepo) Create(o *entity.Order) error {
	cp := *o
	r.s.orders[o.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) GetByID(id string) (*entity.Order, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) GetForUpdate(id string) (*entity.Order, error) {
	return r.GetByID(id)
}

func (r *fakeOrderRepo) Update(o *entity.Order) error {
	if _, ok := r.s.orders[o.ID]; !ok {
		return fmt.Errorf("orden %s no existe", o.ID)
	}
	cp := *o
	r.s.orders[o.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) UpdateTotals(o *entity.Order) error {
	stored, ok := r.s.orders[o.ID]
	if !ok {
		return fmt.Errorf("orden %s no existe", o.ID)
	}
	stored.TotalServices = o.TotalServices
	stored.TotalParts = o.TotalParts
	stored.Total = o.Total
	return nil
}

func (r *fakeOrderRepo) List(limit, offset int) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range r.s.orders {
		cp := *o
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeOrderRepo) ListOverdue(now time.Time) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range r.s.orders {
		if o.ExecutionDeadline != nil && o.ExecutionDeadline.Before(now) &&
			o.FinishedAt == nil && !o.Status.IsTerminal() {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) NextSequence(prefix string, year int) (int, error) {
	key := fmt.Sprintf("%s-%d", prefix, year)
	r.s.sequences[key]++
	return r.s.sequences[key], nil
}

type fakeLineRepo struct{ s *memStore }

func (r *fakeLineRepo) CreateService(l *entity.OrderServiceLine) error {
	cp := *l
	r.s.serviceLines[l.ID] = &cp
	return nil
}

func (r *fakeLineRepo) GetServiceByID(id string) (*entity.OrderServiceLine, error) {
	l, ok := r.s.serviceLines[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *fakeLineRepo) UpdateService(l *entity.OrderServiceLine) error {
	cp := *l
	r.s.serviceLines[l.ID] = &cp
	return nil
}

func (r *fakeLineRepo) DeleteService(id string) error {
	delete(r.s.serviceLines, id)
	return nil
}

func (r *fakeLineRepo) ListServicesByOrder(orderID string) ([]*entity.OrderServiceLine, error) {
	var out []*entity.OrderServiceLine
	for _, l := range r.s.serviceLines {
		if l.OrderID == orderID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeLineRepo) CreatePart(l *entity.OrderPartLine) error {
	cp := *l
	r.s.partLines[l.ID] = &cp
	return nil
}

func (r *fakeLineRepo) GetPartLineByID(id string) (*entity.OrderPartLine, error) {
	l, ok := r.s.partLines[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *fakeLineRepo) UpdatePart(l *entity.OrderPartLine) error {
	cp := *l
	r.s.partLines[l.ID] = &cp
	return nil
}

func (r *fakeLineRepo) DeletePart(id string) error {
	delete(r.s.partLines, id)
	return nil
}

func (r *fakeLineRepo) ListPartsByOrder(orderID string) ([]*entity.OrderPartLine, error) {
	var out []*entity.OrderPartLine
	for _, l := range r.s.partLines {
		if l.OrderID == orderID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakePartRepo struct{ s *memStore }

func (r *fakePartRepo) Create(p *entity.Part) error {
	cp := *p
	r.s.parts[p.ID] = &cp
	return nil
}

func (r *fakePartRepo) GetByID(id string) (*entity.Part, error) {
	p, ok := r.s.parts[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakePartRepo) GetForUpdate(id string) (*entity.Part, error) {
	return r.GetByID(id)
}

func (r *fakePartRepo) Update(p *entity.Part) error {
	cp := *p
	r.s.parts[p.ID] = &cp
	return nil
}

func (r *fakePartRepo) UpdateStock(id string, quantity decimal.Decimal) error {
	p, ok := r.s.parts[id]
	if !ok {
		return fmt.Errorf("repuesto %s no existe", id)
	}
	p.StockQuantity = quantity
	return nil
}

func (r *fakePartRepo) List(limit, offset int) ([]*entity.Part, error) {
	var out []*entity.Part
	for _, p := range r.s.parts {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakePartRepo) ListBelowMinStock() ([]*entity.Part, error) {
	var out []*entity.Part
	for _, p := range r.s.parts {
		if p.BelowMinStock() {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeMovementRepo struct{ s *memStore }

func (r *fakeMovementRepo) Create(m *entity.StockMovement) error {
	cp := *m
	if cp.ID == "" {
		cp.ID = uuid.New().String()
	}
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *fakeMovementRepo) ListByPart(partID string, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.PartID == partID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) ListByOrder(orderID string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.OrderID == orderID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) SumByPart(partID string) (decimal.Decimal, error) {
	return r.s.signedSum(partID), nil
}

type fakeHistoryRepo struct{ s *memStore }

func (r *fakeHistoryRepo) Create(e *entity.StatusHistoryEntry) error {
	cp := *e
	if cp.ID == "" {
		cp.ID = uuid.New().String()
	}
	r.s.history = append(r.s.history, &cp)
	return nil
}

func (r *fakeHistoryRepo) ListByOrder(orderID string) ([]*entity.StatusHistoryEntry, error) {
	var out []*entity.StatusHistoryEntry
	for _, e := range r.s.history {
		if e.OrderID == orderID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// TxRunner y Notifier fake
// ──────────────────────────────────────────────────────────────────────────────

type fakeTxRunner struct{ s *memStore }

func (t *fakeTxRunner) RunOrder(ctx context.Context, fn func(
	repository.OrderRepository,
	repository.OrderLineRepository,
	repository.PartRepository,
	repository.StockMovementRepository,
	repository.StatusHistoryRepository,
) error) error {
	tx := t.s.clone()
	err := fn(
		&fakeOrderRepo{s: tx},
		&fakeLineRepo{s: tx},
		&fakePartRepo{s: tx},
		&fakeMovementRepo{s: tx},
		&fakeHistoryRepo{s: tx},
	)
	if err != nil {
		return err
	}
	t.s.replaceWith(tx)
	return nil
}

type publishedEvent struct {
	Type    string
	OrderID string
	Payload map[string]any
}

type fakeNotifier struct{ events []publishedEvent }

func (n *fakeNotifier) Publish(_ context.Context, eventType, orderID string, payload map[string]any) {
	n.events = append(n.events, publishedEvent{Type: eventType, OrderID: orderID, Payload: payload})
}

// ──────────────────────────────────────────────────────────────────────────────
// Armado del caso de uso contra el almacén
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store    *memStore
	notifier *fakeNotifier
	uc       *orders.OrderUseCase
}

func newFixture() *fixture {
	s := newMemStore()
	n := &fakeNotifier{}
	uc := orders.NewOrderUseCase(
		&fakeTxRunner{s: s},
		&fakeOrderRepo{s: s},
		&fakeLineRepo{s: s},
		&fakeHistoryRepo{s: s},
		n,
	)
	return &fixture{store: s, notifier: n, uc: uc}
}

// seedPart registra un repuesto con stock inicial y su movimiento de entrada,
// como lo haría un ajuste de compra real (libro y contador siempre acoplados).
func (f *fixture) seedPart(sku string, stock, salePrice decimal.Decimal) *entity.Part {
	p := &entity.Part{
		ID:            uuid.New().String(),
		SKU:           sku,
		Name:          "repuesto " + sku,
		StockQuantity: stock,
		SalePrice:     salePrice,
		CreatedAt:     time.Now(),
	}
	f.store.parts[p.ID] = p
	if stock.GreaterThan(decimal.Zero) {
		f.store.movements = append(f.store.movements, &entity.StockMovement{
			ID:        uuid.New().String(),
			PartID:    p.ID,
			Direction: entity.DirectionIn,
			Quantity:  stock,
			Reason:    entity.ReasonPurchase,
			CreatedAt: time.Now(),
		})
	}
	return p
}
