package rentabilidad

import "github.com/shopspring/decimal"

var cien = decimal.NewFromInt(100)

// Entrada de la calculadora. Las tasas van en porcentaje (15 = 15 %).
type Entrada struct {
	Precio           decimal.Decimal `json:"precio"`
	Costo            decimal.Decimal `json:"costo"`
	TasaComision     decimal.Decimal `json:"tasaComision"`
	TasaBonificacion decimal.Decimal `json:"tasaBonificacion"`
}

type Resultado struct {
	Precio           decimal.Decimal `json:"precio"`
	Costo            decimal.Decimal `json:"costo"`
	Comision         decimal.Decimal `json:"comision"`
	Bonificacion     decimal.Decimal `json:"bonificacion"`
	Markup           decimal.Decimal `json:"markup"`
	RentabilidadNeta decimal.Decimal `json:"rentabilidadNeta"`
	Porcentaje       decimal.Decimal `json:"porcentaje"`
}

// Calcular aplica:
//
//	comision     = precio × tasaComision
//	bonificacion = costo × tasaBonificacion
//	markup       = precio − costo − comision
//	neta         = comision + bonificacion + markup
//	porcentaje   = neta / precio × 100 (0 si precio es 0)
//
// Comisión y bonificación se redondean a 2 decimales antes de derivar el resto,
// así neta = comision + bonificacion + markup se cumple exacto.
func Calcular(e Entrada) Resultado {
	precio := e.Precio.Round(2)
	costo := e.Costo.Round(2)
	comision := precio.Mul(e.TasaComision).Div(cien).Round(2)
	bono := costo.Mul(e.TasaBonificacion).Div(cien).Round(2)
	markup := precio.Sub(costo).Sub(comision)
	return completar(Resultado{
		Precio:       precio,
		Costo:        costo,
		Comision:     comision,
		Bonificacion: bono,
		Markup:       markup,
	})
}

// Sumar acumula dos resultados y recalcula neta y porcentaje sobre el total.
func (r Resultado) Sumar(o Resultado) Resultado {
	return completar(Resultado{
		Precio:       r.Precio.Add(o.Precio),
		Costo:        r.Costo.Add(o.Costo),
		Comision:     r.Comision.Add(o.Comision),
		Bonificacion: r.Bonificacion.Add(o.Bonificacion),
		Markup:       r.Markup.Add(o.Markup),
	})
}

func completar(r Resultado) Resultado {
	r.RentabilidadNeta = r.Comision.Add(r.Bonificacion).Add(r.Markup)
	if r.Precio.IsZero() {
		r.Porcentaje = decimal.Zero
	} else {
		r.Porcentaje = r.RentabilidadNeta.Div(r.Precio).Mul(cien).Round(2)
	}
	return r
}
