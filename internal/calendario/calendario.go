package calendario

import (
	"errors"
	"sort"
	"time"

	"github.com/AgenciaMedios/api-agencia/internal/medio"
	"github.com/AgenciaMedios/api-agencia/internal/plan"
	"github.com/AgenciaMedios/api-agencia/internal/utils"
)

const (
	Disponible  = "Disponible"
	Planificado = "Planificado"
	Ocupado     = "Ocupado"

	MaxDias = 92
)

var (
	ErrRango      = errors.New("hasta no puede ser anterior a desde")
	ErrRangoLargo = errors.New("el rango no puede superar 92 días")
)

type EstadoSoporte struct {
	SoporteID    uint   `json:"soporteId"`
	Soporte      string `json:"soporte"`
	MedioID      uint   `json:"medioId"`
	Estado       string `json:"estado"`
	Planificadas []uint `json:"planificadas"`
	Consumidas   []uint `json:"consumidas"`
}

type Dia struct {
	Fecha    string          `json:"fecha"`
	Soportes []EstadoSoporte `json:"soportes"`
}

func truncar(t time.Time) time.Time {
	return utils.Dia(t)
}

// ValidarRango acepta rangos de hasta MaxDias días, ambos extremos incluidos.
func ValidarRango(desde, hasta time.Time) error {
	desde, hasta = truncar(desde), truncar(hasta)
	if hasta.Before(desde) {
		return ErrRango
	}
	if hasta.After(desde.AddDate(0, 0, MaxDias-1)) {
		return ErrRangoLargo
	}
	return nil
}

// Construir arma una entrada por día con el estado de cada soporte. Un soporte
// está Ocupado si alguna alternativa consumida lo usa ese día y Planificado si
// solo hay alternativas sin orden. Los soportes inactivos aparecen solo cuando
// tienen alternativas en el rango.
func Construir(desde, hasta time.Time, soportes []medio.Soporte, alternativas []plan.Alternativa) ([]Dia, error) {
	if err := ValidarRango(desde, hasta); err != nil {
		return nil, err
	}
	desde, hasta = truncar(desde), truncar(hasta)

	type llave struct {
		fecha   string
		soporte uint
	}
	uso := map[llave]*EstadoSoporte{}
	conUso := map[uint]bool{}
	for _, a := range alternativas {
		f := truncar(a.Fecha)
		if f.Before(desde) || f.After(hasta) {
			continue
		}
		k := llave{f.Format("2006-01-02"), a.SoporteID}
		e, ok := uso[k]
		if !ok {
			e = &EstadoSoporte{Planificadas: []uint{}, Consumidas: []uint{}}
			uso[k] = e
		}
		if a.Consumida {
			e.Consumidas = append(e.Consumidas, a.ID)
		} else {
			e.Planificadas = append(e.Planificadas, a.ID)
		}
		conUso[a.SoporteID] = true
	}

	visibles := make([]medio.Soporte, 0, len(soportes))
	for _, s := range soportes {
		if s.Activo || conUso[s.ID] {
			visibles = append(visibles, s)
		}
	}
	sort.Slice(visibles, func(i, j int) bool { return visibles[i].ID < visibles[j].ID })

	var dias []Dia
	for f := desde; !f.After(hasta); f = f.AddDate(0, 0, 1) {
		fecha := f.Format("2006-01-02")
		d := Dia{Fecha: fecha, Soportes: make([]EstadoSoporte, 0, len(visibles))}
		for _, s := range visibles {
			e := EstadoSoporte{Planificadas: []uint{}, Consumidas: []uint{}}
			if u, ok := uso[llave{fecha, s.ID}]; ok {
				e = *u
			}
			e.SoporteID, e.Soporte, e.MedioID = s.ID, s.Nombre, s.MedioID
			switch {
			case len(e.Consumidas) > 0:
				e.Estado = Ocupado
			case len(e.Planificadas) > 0:
				e.Estado = Planificado
			default:
				e.Estado = Disponible
			}
			d.Soportes = append(d.Soportes, e)
		}
		dias = append(dias, d)
	}
	return dias, nil
}
