package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound    = errors.New("recurso no encontrado")
	ErrDecode      = errors.New("snapshot almacenado ilegible")
	ErrSyncRunning = errors.New("ya hay una sincronización en curso")
	ErrUnauthorized = errors.New("no autorizado")
	ErrInvalidInput = errors.New("entrada inválida")
)
