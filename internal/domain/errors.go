package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrSourceUnavailable = errors.New("fuente externa no disponible")
	ErrMalformedPayload  = errors.New("payload externo malformado")
	ErrMissingConfig     = errors.New("configuración incompleta")
)
