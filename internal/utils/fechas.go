package utils

import "time"

// Zona es la zona horaria en que se interpretan las fechas de calendario
// (vigencias, rangos de consulta, días del dashboard y del calendario).
var Zona = time.UTC

// Dia devuelve la medianoche, en Zona, del día al que pertenece t.
func Dia(t time.Time) time.Time {
	y, m, d := t.In(Zona).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, Zona)
}

// FinDelDia es el primer instante del día siguiente; sirve como cota exclusiva.
func FinDelDia(t time.Time) time.Time {
	return Dia(t).AddDate(0, 0, 1)
}

// EnVigencia compara por día calendario: desde y hasta se incluyen completos.
// hasta nulo es abierto.
func EnVigencia(fecha, desde time.Time, hasta *time.Time) bool {
	if fecha.Before(Dia(desde)) {
		return false
	}
	return hasta == nil || fecha.Before(FinDelDia(*hasta))
}
