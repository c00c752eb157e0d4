package warnengine

import "errors"

// Failure taxonomy of the engine. Validation and conflict conditions are
// returned directly to the caller; store failures mean the operation must
// not be assumed persisted. Actuator and audit failures are never returned
// from the facade, only logged.
var (
	ErrReasonLength       = errors.New("la razón debe tener entre 5 y 500 caracteres")
	ErrInvalidSeverity    = errors.New("severidad inválida")
	ErrMaxWarnings        = errors.New("el usuario alcanzó el máximo de advertencias")
	ErrWarningNotFound    = errors.New("advertencia no encontrada")
	ErrStoreUnavailable   = errors.New("la base de datos no está disponible")
	ErrAppealReasonLength = errors.New("la razón de la apelación debe tener entre 20 y 500 caracteres")
	ErrAppealInFlight     = errors.New("ya hay una apelación en curso para esta advertencia")
	ErrAppealCooldown     = errors.New("ya existe una apelación pendiente reciente para esta advertencia")
	ErrAppealNotPending   = errors.New("la apelación no está pendiente")
	ErrUnknownFormat      = errors.New("formato de exportación desconocido")
)
