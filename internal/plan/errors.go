package plan

import "errors"

var (
	ErrAlternativaConsumida = errors.New("la alternativa ya fue incluida en una orden")
	ErrPlanConOrden         = errors.New("el plan tiene órdenes emitidas")
)
