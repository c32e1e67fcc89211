package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
)

// Errores del motor de movimientos de stock (taxonomía del workflow).
var (
	// ErrIllegalTransition: la arista (estado actual → estado destino) no existe
	// en la tabla de transiciones. Se rechaza localmente, sin tocar caché ni red.
	ErrIllegalTransition = errors.New("transición de estado no permitida")

	// ErrReasonRequired: la diferencia es distinta de cero y no se indicó motivo.
	// Se rechaza antes de cualquier mutación o llamada remota.
	ErrReasonRequired = errors.New("se requiere un motivo cuando la diferencia no es cero")

	// ErrUnsupportedTransition: el estado destino no tiene acción remota mapeada.
	// Se devuelve como fallo tipado, nunca como panic.
	ErrUnsupportedTransition = errors.New("estado destino sin acción remota mapeada")

	// ErrRemoteFailure: la acción remota falló (red o servicio). Obliga al
	// rollback exacto del snapshot previo a la mutación optimista.
	ErrRemoteFailure = errors.New("fallo del servicio remoto")

	// ErrStaleRequest: una continuación quedó obsoleta frente a una petición
	// más reciente sobre la misma entidad; su efecto se descarta.
	ErrStaleRequest = errors.New("petición obsoleta descartada")

	// ErrNotDeletable: solo se eliminan movimientos en pending o cancelled.
	ErrNotDeletable = errors.New("el movimiento no se puede eliminar en su estado actual")
)
