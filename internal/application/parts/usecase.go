package parts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// PartUseCase catálogo de repuestos. El stock NO se toca por aquí: nace en
// cero y solo lo mueve el libro (ajustes y consumos de órdenes).
type PartUseCase struct {
	partRepo repository.PartRepository
}

// NewPartUseCase construye el caso de uso.
func NewPartUseCase(partRepo repository.PartRepository) *PartUseCase {
	return &PartUseCase{partRepo: partRepo}
}

// CreatePartInput alta de repuesto en el catálogo.
type CreatePartInput struct {
	SKU       string
	Name      string
	MinStock  decimal.Decimal
	CostPrice decimal.Decimal
	SalePrice decimal.Decimal
}

// Create da de alta el repuesto con stock cero.
func (uc *PartUseCase) Create(ctx context.Context, in CreatePartInput) (*entity.Part, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.MinStock.LessThan(decimal.Zero) || in.CostPrice.LessThan(decimal.Zero) || in.SalePrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	p := &entity.Part{
		ID:            uuid.New().String(),
		SKU:           in.SKU,
		Name:          in.Name,
		StockQuantity: decimal.Zero,
		MinStock:      in.MinStock,
		CostPrice:     in.CostPrice,
		SalePrice:     in.SalePrice,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.partRepo.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetByID obtiene un repuesto.
func (uc *PartUseCase) GetByID(ctx context.Context, id string) (*entity.Part, error) {
	p, err := uc.partRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// List listado paginado del catálogo.
func (uc *PartUseCase) List(ctx context.Context, limit, offset int) ([]*entity.Part, error) {
	return uc.partRepo.List(limit, offset)
}

// ListBelowMinStock repuestos en o bajo su punto de reposición, para armar
// la lista de compras.
func (uc *PartUseCase) ListBelowMinStock(ctx context.Context) ([]*entity.Part, error) {
	return uc.partRepo.ListBelowMinStock()
}

// UpdatePricesInput edición de precios y punto de reposición.
type UpdatePricesInput struct {
	Name      string
	MinStock  decimal.Decimal
	CostPrice decimal.Decimal
	SalePrice decimal.Decimal
}

// Update edita nombre, precios y mínimo; nunca el stock.
func (uc *PartUseCase) Update(ctx context.Context, id string, in UpdatePricesInput) (*entity.Part, error) {
	if in.Name == "" || in.MinStock.LessThan(decimal.Zero) || in.CostPrice.LessThan(decimal.Zero) || in.SalePrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	p, err := uc.partRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	p.Name = in.Name
	p.MinStock = in.MinStock
	p.CostPrice = in.CostPrice
	p.SalePrice = in.SalePrice
	p.UpdatedAt = time.Now()
	if err := uc.partRepo.Update(p); err != nil {
		return nil, err
	}
	return p, nil
}
