package stock_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/internal/application/stock"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes mínimos: un almacén con semántica de commit/rollback para verificar
// que contador y movimiento se escriben juntos o no se escribe ninguno.
// ──────────────────────────────────────────────────────────────────────────────

type ledgerStore struct {
	parts     map[string]*entity.Part
	movements []*entity.StockMovement
}

func newLedgerStore() *ledgerStore {
	return &ledgerStore{parts: map[string]*entity.Part{}}
}

func (s *ledgerStore) clone() *ledgerStore {
	c := newLedgerStore()
	for k, v := range s.parts {
		cp := *v
		c.parts[k] = &cp
	}
	for _, m := range s.movements {
		cp := *m
		c.movements = append(c.movements, &cp)
	}
	return c
}

func (s *ledgerStore) signedSum(partID string) decimal.Decimal {
	sum := decimal.Zero
	for _, m := range s.movements {
		if m.PartID == partID {
			sum = sum.Add(m.Signed())
		}
	}
	return sum
}

type ledgerPartRepo struct{ s *ledgerStore }

func (r *ledgerPartRepo) Create(p *entity.Part) error {
	cp := *p
	r.s.parts[p.ID] = &cp
	return nil
}

func (r *ledgerPartRepo) GetByID(id string) (*entity.Part, error) {
	p, ok := r.s.parts[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *ledgerPartRepo) GetForUpdate(id string) (*entity.Part, error) {
	return r.GetByID(id)
}

func (r *ledgerPartRepo) Update(p *entity.Part) error {
	cp := *p
	r.s.parts[p.ID] = &cp
	return nil
}

func (r *ledgerPartRepo) UpdateStock(id string, quantity decimal.Decimal) error {
	p, ok := r.s.parts[id]
	if !ok {
		return fmt.Errorf("repuesto %s no existe", id)
	}
	p.StockQuantity = quantity
	return nil
}

func (r *ledgerPartRepo) List(limit, offset int) ([]*entity.Part, error) { return nil, nil }

func (r *ledgerPartRepo) ListBelowMinStock() ([]*entity.Part, error) { return nil, nil }

type ledgerMovementRepo struct{ s *ledgerStore }

func (r *ledgerMovementRepo) Create(m *entity.StockMovement) error {
	cp := *m
	if cp.ID == "" {
		cp.ID = uuid.New().String()
	}
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *ledgerMovementRepo) ListByPart(partID string, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.PartID == partID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *ledgerMovementRepo) ListByOrder(orderID string) ([]*entity.StockMovement, error) {
	return nil, nil
}

func (r *ledgerMovementRepo) SumByPart(partID string) (decimal.Decimal, error) {
	return r.s.signedSum(partID), nil
}

type ledgerTxRunner struct{ s *ledgerStore }

func (t *ledgerTxRunner) Run(ctx context.Context, fn func(
	repository.PartRepository,
	repository.StockMovementRepository,
) error) error {
	tx := t.s.clone()
	if err := fn(&ledgerPartRepo{s: tx}, &ledgerMovementRepo{s: tx}); err != nil {
		return err
	}
	t.s.parts = tx.parts
	t.s.movements = tx.movements
	return nil
}

func newAdjustFixture() (*ledgerStore, *stock.AdjustStockUseCase) {
	s := newLedgerStore()
	uc := stock.NewAdjustStockUseCase(&ledgerTxRunner{s: s}, &ledgerMovementRepo{s: s})
	return s, uc
}

func seedPart(s *ledgerStore, sku string, stockQty decimal.Decimal) *entity.Part {
	p := &entity.Part{
		ID:            uuid.New().String(),
		SKU:           sku,
		Name:          "repuesto " + sku,
		StockQuantity: stockQty,
		CreatedAt:     time.Now(),
	}
	s.parts[p.ID] = p
	if stockQty.GreaterThan(decimal.Zero) {
		s.movements = append(s.movements, &entity.StockMovement{
			ID:        uuid.New().String(),
			PartID:    p.ID,
			Direction: entity.DirectionIn,
			Quantity:  stockQty,
			Reason:    entity.ReasonPurchase,
			CreatedAt: time.Now(),
		})
	}
	return p
}

func qty(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ──────────────────────────────────────────────────────────────────────────────
// Ajustes manuales
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterAdjustment_EntradaSumaStockYMovimiento(t *testing.T) {
	s, uc := newAdjustFixture()
	p := seedPart(s, "ROD-6204", qty("3"))

	err := uc.RegisterAdjustment(context.Background(), stock.AdjustmentInput{
		PartID:    p.ID,
		Direction: entity.DirectionIn,
		Reason:    entity.ReasonPurchase,
		Quantity:  qty("7"),
		UserID:    "u-admin",
	})
	require.NoError(t, err)

	assert.True(t, s.parts[p.ID].StockQuantity.Equal(qty("10")))
	require.Len(t, s.movements, 2)
	last := s.movements[len(s.movements)-1]
	assert.Equal(t, entity.DirectionIn, last.Direction)
	assert.Equal(t, entity.ReasonPurchase, last.Reason)
	assert.Equal(t, "u-admin", last.CreatedBy)
	assert.True(t, s.signedSum(p.ID).Equal(s.parts[p.ID].StockQuantity),
		"contador y libro deben coincidir")
}

func TestRegisterAdjustment_SalidaNoPuedeDejarStockNegativo(t *testing.T) {
	s, uc := newAdjustFixture()
	p := seedPart(s, "FIL-001", qty("2"))

	err := uc.RegisterAdjustment(context.Background(), stock.AdjustmentInput{
		PartID:    p.ID,
		Direction: entity.DirectionOut,
		Reason:    entity.ReasonLoss,
		Quantity:  qty("5"),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.True(t, s.parts[p.ID].StockQuantity.Equal(qty("2")), "el stock quedó intacto")
	assert.Len(t, s.movements, 1, "no se escribió ningún movimiento")
}

func TestRegisterAdjustment_SalidaExactaDejaStockEnCero(t *testing.T) {
	s, uc := newAdjustFixture()
	p := seedPart(s, "ACE-15W40", qty("4"))

	err := uc.RegisterAdjustment(context.Background(), stock.AdjustmentInput{
		PartID:    p.ID,
		Direction: entity.DirectionOut,
		Reason:    entity.ReasonAdjustment,
		Note:      "conteo físico",
		Quantity:  qty("4"),
	})
	require.NoError(t, err)
	assert.True(t, s.parts[p.ID].StockQuantity.IsZero())
	assert.True(t, s.signedSum(p.ID).IsZero())
}

func TestRegisterAdjustment_RechazaEntradasInvalidas(t *testing.T) {
	s, uc := newAdjustFixture()
	p := seedPart(s, "SEN-T90", qty("5"))

	cases := []struct {
		name string
		in   stock.AdjustmentInput
	}{
		{"sin repuesto", stock.AdjustmentInput{Direction: entity.DirectionIn, Reason: entity.ReasonPurchase, Quantity: qty("1")}},
		{"cantidad cero", stock.AdjustmentInput{PartID: p.ID, Direction: entity.DirectionIn, Reason: entity.ReasonPurchase}},
		{"cantidad negativa", stock.AdjustmentInput{PartID: p.ID, Direction: entity.DirectionIn, Reason: entity.ReasonPurchase, Quantity: qty("-2")}},
		{"dirección desconocida", stock.AdjustmentInput{PartID: p.ID, Direction: "SIDEWAYS", Reason: entity.ReasonPurchase, Quantity: qty("1")}},
		{"razón desconocida", stock.AdjustmentInput{PartID: p.ID, Direction: entity.DirectionIn, Reason: "REGALO", Quantity: qty("1")}},
		{"consumo por orden reservado al orquestador", stock.AdjustmentInput{PartID: p.ID, Direction: entity.DirectionOut, Reason: entity.ReasonOrderConsumption, Quantity: qty("1")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := uc.RegisterAdjustment(context.Background(), tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Len(t, s.movements, 1, "ningún rechazo escribió en el libro")
}

func TestRegisterAdjustment_RepuestoInexistente(t *testing.T) {
	_, uc := newAdjustFixture()
	err := uc.RegisterAdjustment(context.Background(), stock.AdjustmentInput{
		PartID:    "no-existe",
		Direction: entity.DirectionIn,
		Reason:    entity.ReasonPurchase,
		Quantity:  qty("1"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListMovementsByPart_ExigePartID(t *testing.T) {
	_, uc := newAdjustFixture()
	_, err := uc.ListMovementsByPart(context.Background(), "", 20, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
