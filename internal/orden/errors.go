package orden

import "errors"

var (
	ErrSinAlternativas         = errors.New("la orden debe incluir al menos una alternativa")
	ErrAlternativaNoEncontrada = errors.New("alternativa no encontrada")
	ErrAlternativaOtroPlan     = errors.New("la alternativa pertenece a otro plan")
	ErrPlanNoEncontrado        = errors.New("plan no encontrado")
	ErrEstadoInvalido          = errors.New("solo una orden Emitida admite esta operación")
	ErrNumeroDuplicado         = errors.New("no se pudo asignar un número de orden único")
)
