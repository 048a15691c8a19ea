package repository

import "github.com/jhoicas/Taller-api/internal/domain/entity"

// OrderLineRepository persistencia de las líneas (servicios y repuestos) de
// una orden. Discriminadas en dos tablas; el recálculo lee ambas.
type OrderLineRepository interface {
	CreateService(l *entity.OrderServiceLine) error
	GetServiceByID(id string) (*entity.OrderServiceLine, error)
	UpdateService(l *entity.OrderServiceLine) error
	DeleteService(id string) error
	ListServicesByOrder(orderID string) ([]*entity.OrderServiceLine, error)

	CreatePart(l *entity.OrderPartLine) error
	GetPartLineByID(id string) (*entity.OrderPartLine, error)
	UpdatePart(l *entity.OrderPartLine) error
	DeletePart(id string) error
	ListPartsByOrder(orderID string) ([]*entity.OrderPartLine, error)
}
