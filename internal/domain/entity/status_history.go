package entity

import "time"

// StatusHistoryEntry fila de auditoría por cambio de estado. Exactamente una
// por transición confirmada; nunca se edita retroactivamente.
type StatusHistoryEntry struct {
	ID         string
	OrderID    string
	FromStatus Status
	ToStatus   Status
	Note       string
	CreatedAt  time.Time
	CreatedBy  string // UserID del actor
}
