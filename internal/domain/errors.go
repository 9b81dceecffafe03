package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	// ErrNotFound: diario o llave de balance inexistente. Sin efectos secundarios.
	ErrNotFound = errors.New("recurso no encontrado")
	// ErrInvalidInput: campos requeridos faltantes o tipo de diario desconocido.
	// Se rechaza antes de cualquier trabajo del motor.
	ErrInvalidInput = errors.New("entrada inválida")
	// ErrStateTransition: transición de estado ilegal (ej. post sobre un diario
	// que no está CONFIRMED). Se rechaza sin efectos secundarios.
	ErrStateTransition = errors.New("transición de estado no permitida")
	// ErrIntegrity: violación de invariante previa (ej. reversar una llave sin
	// registro de balance). Fatal: se aborta la operación y se loguea.
	ErrIntegrity = errors.New("violación de integridad del inventario")
	// ErrConflict: colisión de unicidad (ej. código de diario repetido).
	ErrConflict = errors.New("conflicto con el estado actual")
)
