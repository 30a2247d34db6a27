package dashboard

import (
	"fmt"
	"io"

	"github.com/AgenciaMedios/api-agencia/internal/rentabilidad"
	"github.com/xuri/excelize/v2"
)

const hoja = "Rentabilidad"

var encabezados = []string{
	"Clave", "Etiqueta", "Órdenes", "Precio", "Costo", "Comisión",
	"Bonificación", "Markup", "Rentabilidad neta", "Porcentaje",
}

func fila(f *excelize.File, n int, clave, etiqueta string, ordenes int, r rentabilidad.Resultado) error {
	valores := []any{
		clave, etiqueta, ordenes,
		r.Precio.InexactFloat64(), r.Costo.InexactFloat64(), r.Comision.InexactFloat64(),
		r.Bonificacion.InexactFloat64(), r.Markup.InexactFloat64(),
		r.RentabilidadNeta.InexactFloat64(), r.Porcentaje.InexactFloat64(),
	}
	celda, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	return f.SetSheetRow(hoja, celda, &valores)
}

// EscribirExcel vuelca el resumen como planilla: encabezado, un bucket por fila y
// una fila final de totales.
func EscribirExcel(w io.Writer, res *Resumen) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", hoja); err != nil {
		return err
	}
	if err := f.SetSheetRow(hoja, "A1", &encabezados); err != nil {
		return err
	}
	for i, b := range res.Buckets {
		if err := fila(f, i+2, b.Clave, b.Etiqueta, b.Ordenes, b.Resultado); err != nil {
			return err
		}
	}
	if err := fila(f, len(res.Buckets)+2, "Total", fmt.Sprintf("%s a %s", res.Desde, res.Hasta), res.Ordenes, res.Total); err != nil {
		return err
	}
	return f.Write(w)
}
