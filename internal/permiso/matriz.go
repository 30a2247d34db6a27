package permiso

import "sort"

// FilaMatriz es un permiso con el estado de asignación para cada perfil.
type FilaMatriz struct {
	Codigo      string          `json:"codigo"`
	Modulo      string          `json:"modulo"`
	Descripcion string          `json:"descripcion"`
	Perfiles    map[string]bool `json:"perfiles"`
}

// Matriz es la vista permisos × perfiles que muestra la pantalla de roles.
type Matriz struct {
	Perfiles []string     `json:"perfiles"`
	Filas    []FilaMatriz `json:"filas"`
}

// ConstruirMatriz arma la matriz ordenada por módulo y código.
func ConstruirMatriz(permisos []Permiso, perfiles []Perfil) Matriz {
	nombres := make([]string, 0, len(perfiles))
	asignados := make(map[string]map[string]bool, len(perfiles))
	for _, pf := range perfiles {
		nombres = append(nombres, pf.Nombre)
		set := make(map[string]bool, len(pf.Permisos))
		for _, p := range pf.Permisos {
			set[p.Codigo] = true
		}
		asignados[pf.Nombre] = set
	}
	sort.Strings(nombres)

	ordenados := append([]Permiso(nil), permisos...)
	sort.Slice(ordenados, func(i, j int) bool {
		if ordenados[i].Modulo != ordenados[j].Modulo {
			return ordenados[i].Modulo < ordenados[j].Modulo
		}
		return ordenados[i].Codigo < ordenados[j].Codigo
	})

	filas := make([]FilaMatriz, 0, len(ordenados))
	for _, p := range ordenados {
		fila := FilaMatriz{
			Codigo:      p.Codigo,
			Modulo:      p.Modulo,
			Descripcion: p.Descripcion,
			Perfiles:    make(map[string]bool, len(nombres)),
		}
		for _, n := range nombres {
			fila.Perfiles[n] = asignados[n][p.Codigo]
		}
		filas = append(filas, fila)
	}
	return Matriz{Perfiles: nombres, Filas: filas}
}
