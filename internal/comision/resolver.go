package comision

import "time"

// Especificidad ordena las reglas: medio+proveedor > proveedor > medio > global.
// Retorna -1 si la regla no aplica a la combinación pedida.
func Especificidad(medioRegla, proveedorRegla *uint, medioID, proveedorID uint) int {
	if medioRegla != nil && *medioRegla != medioID {
		return -1
	}
	if proveedorRegla != nil && *proveedorRegla != proveedorID {
		return -1
	}
	switch {
	case medioRegla != nil && proveedorRegla != nil:
		return 3
	case proveedorRegla != nil:
		return 2
	case medioRegla != nil:
		return 1
	default:
		return 0
	}
}

// Resultado indica la tasa aplicada y de qué configuración salió (nil = defecto).
type Resultado struct {
	Tasa            float64 `json:"tasa"`
	ConfiguracionID *uint   `json:"configuracionId"`
}

// Resolver elige la configuración más específica vigente en fecha. Ante empate
// gana la de VigenciaDesde más reciente. Sin coincidencias usa defecto.
func Resolver(configs []ConfiguracionComision, medioID, proveedorID uint, fecha time.Time, defecto float64) Resultado {
	var elegida *ConfiguracionComision
	mejor := -1
	for i := range configs {
		c := &configs[i]
		if !c.VigenteEn(fecha) {
			continue
		}
		e := Especificidad(c.MedioID, c.ProveedorID, medioID, proveedorID)
		if e < 0 {
			continue
		}
		if e > mejor || (e == mejor && c.VigenciaDesde.After(elegida.VigenciaDesde)) {
			elegida, mejor = c, e
		}
	}
	if elegida == nil {
		return Resultado{Tasa: defecto}
	}
	id := elegida.ID
	return Resultado{Tasa: elegida.Tasa, ConfiguracionID: &id}
}
