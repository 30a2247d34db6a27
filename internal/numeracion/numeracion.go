// Package numeracion arma y parsea los números de orden con formato ORD-YYYY-NNN-V.
package numeracion

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

var (
	patron = regexp.MustCompile(`^ORD-(\d{4})-(\d{3,})-(\d+)$`)

	ErrFormato = errors.New("número de orden con formato inválido")
)

type Numero struct {
	Anio        int `json:"anio"`
	Correlativo int `json:"correlativo"`
	Version     int `json:"version"`
}

func (n Numero) String() string {
	return Formatear(n.Anio, n.Correlativo, n.Version)
}

// Formatear rellena el correlativo a tres dígitos; sobre 999 crece sin truncar.
func Formatear(anio, correlativo, version int) string {
	return fmt.Sprintf("ORD-%04d-%03d-%d", anio, correlativo, version)
}

func Parsear(s string) (Numero, error) {
	m := patron.FindStringSubmatch(s)
	if m == nil {
		return Numero{}, fmt.Errorf("%w: %q", ErrFormato, s)
	}
	anio, _ := strconv.Atoi(m[1])
	correlativo, err := strconv.Atoi(m[2])
	if err != nil {
		return Numero{}, fmt.Errorf("%w: %q", ErrFormato, s)
	}
	version, err := strconv.Atoi(m[3])
	if err != nil {
		return Numero{}, fmt.Errorf("%w: %q", ErrFormato, s)
	}
	return Numero{Anio: anio, Correlativo: correlativo, Version: version}, nil
}

// Siguiente calcula el número de una orden nueva a partir del último emitido.
// Si ultimo no se puede leer o es de otro año, parte de nuevo en 001.
func Siguiente(ultimo string, anio int) Numero {
	n, err := Parsear(ultimo)
	if err != nil || n.Anio != anio {
		return Numero{Anio: anio, Correlativo: 1, Version: 1}
	}
	return Numero{Anio: anio, Correlativo: n.Correlativo + 1, Version: 1}
}

func NuevaVersion(n Numero) Numero {
	n.Version++
	return n
}
