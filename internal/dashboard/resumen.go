package dashboard

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/AgenciaMedios/api-agencia/internal/orden"
	"github.com/AgenciaMedios/api-agencia/internal/rentabilidad"
	"github.com/AgenciaMedios/api-agencia/internal/utils"
)

const (
	PorDia     = "dia"
	PorSemana  = "semana"
	PorCliente = "cliente"
)

var ErrAgrupacion = errors.New("agrupar debe ser dia, semana o cliente")

type Bucket struct {
	Clave    string `json:"clave"`
	Etiqueta string `json:"etiqueta,omitempty"`
	Ordenes  int    `json:"ordenes"`
	rentabilidad.Resultado
}

type Resumen struct {
	Desde                 string                 `json:"desde"`
	Hasta                 string                 `json:"hasta"`
	Agrupar               string                 `json:"agrupar"`
	Buckets               []Bucket               `json:"buckets"`
	Ordenes               int                    `json:"ordenes"`
	Total                 rentabilidad.Resultado `json:"total"`
	OportunidadesAbiertas int64                  `json:"oportunidadesAbiertas"`
	GeneradoEn            time.Time              `json:"generadoEn"`
}

// ClaveSemana devuelve la semana ISO de t, vista en utils.Zona, como "YYYY-Www".
func ClaveSemana(t time.Time) string {
	y, w := t.In(utils.Zona).ISOWeek()
	return fmt.Sprintf("%d-W%02d", y, w)
}

func clave(o orden.Orden, modo string) string {
	switch modo {
	case PorSemana:
		return ClaveSemana(o.FechaEmision)
	case PorCliente:
		return strconv.FormatUint(uint64(o.ClienteID), 10)
	default:
		return o.FechaEmision.In(utils.Zona).Format(utils.LayoutFecha)
	}
}

// Agrupar suma los detalles por bucket. ordenes y detalles van en el mismo orden.
// Solo cuentan órdenes Emitida.
func Agrupar(ordenes []orden.Orden, detalles []rentabilidad.DetalleOrden, modo string) ([]Bucket, error) {
	switch modo {
	case PorDia, PorSemana, PorCliente:
	default:
		return nil, ErrAgrupacion
	}
	if len(ordenes) != len(detalles) {
		return nil, fmt.Errorf("dashboard: %d órdenes y %d detalles", len(ordenes), len(detalles))
	}

	idx := map[string]int{}
	buckets := []Bucket{}
	for i, o := range ordenes {
		if o.Estado != orden.EstadoEmitida {
			continue
		}
		k := clave(o, modo)
		pos, ok := idx[k]
		if !ok {
			pos = len(buckets)
			idx[k] = pos
			buckets = append(buckets, Bucket{Clave: k})
		}
		buckets[pos].Ordenes++
		buckets[pos].Resultado = buckets[pos].Resultado.Sumar(detalles[i].Total)
	}

	sort.Slice(buckets, func(i, j int) bool {
		if modo == PorCliente {
			a, _ := strconv.ParseUint(buckets[i].Clave, 10, 64)
			b, _ := strconv.ParseUint(buckets[j].Clave, 10, 64)
			return a < b
		}
		return buckets[i].Clave < buckets[j].Clave
	})
	return buckets, nil
}

func totalizar(buckets []Bucket) (int, rentabilidad.Resultado) {
	var n int
	var total rentabilidad.Resultado
	for _, b := range buckets {
		n += b.Ordenes
		total = total.Sumar(b.Resultado)
	}
	return n, total
}
