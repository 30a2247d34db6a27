package bonificacion

import (
	"time"

	"github.com/AgenciaMedios/api-agencia/internal/comision"
)

type Resultado struct {
	Tasa           float64 `json:"tasa"`
	BonificacionID *uint   `json:"bonificacionId"`
	Acumulado      float64 `json:"acumulado"`
	MontoMinimo    float64 `json:"montoMinimo"`
}

// AcumuladoFunc retorna el costo acumulado que cuenta para la bonificación.
type AcumuladoFunc func(b BonificacionMedio) (float64, error)

// Resolver elige, entre las bonificaciones vigentes cuyo acumulado alcanza
// MontoMinimo, la más específica (medio+proveedor antes que solo medio).
// Sin ninguna alcanzada la tasa es 0.
func Resolver(bonos []BonificacionMedio, medioID, proveedorID uint, fecha time.Time, acumulado AcumuladoFunc) (Resultado, error) {
	var res Resultado
	mejor := -1
	for i := range bonos {
		b := &bonos[i]
		if !b.VigenteEn(fecha) {
			continue
		}
		m := b.MedioID
		e := comision.Especificidad(&m, b.ProveedorID, medioID, proveedorID)
		if e < 0 || e < mejor {
			continue
		}
		acum, err := acumulado(*b)
		if err != nil {
			return Resultado{}, err
		}
		if acum < b.MontoMinimo {
			continue
		}
		if e > mejor || b.Tasa > res.Tasa {
			id := b.ID
			res = Resultado{Tasa: b.Tasa, BonificacionID: &id, Acumulado: acum, MontoMinimo: b.MontoMinimo}
			mejor = e
		}
	}
	return res, nil
}
