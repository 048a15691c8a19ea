package domain

import "errors"

// Errores de dominio (sin dependencias externas). El orquestador y los
// handlers HTTP distinguen cada denegación para que el caller pueda mostrar
// un mensaje accionable (ver mapeo en interfaces/http).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrIllegalTransition      = errors.New("transición de estado no permitida")
	ErrPreconditionFailed     = errors.New("precondición de la transición no cumplida")
	ErrRolePermissionDenied   = errors.New("el rol no tiene permiso para esta transición")
	ErrConcurrentModification = errors.New("modificación concurrente, reintente la operación")
)
