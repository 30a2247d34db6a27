package permiso

import (
	"strings"

	"gorm.io/gorm"
)

const (
	ClientesVer          = "clientes.ver"
	ClientesEditar       = "clientes.editar"
	CampanasVer          = "campanas.ver"
	CampanasEditar       = "campanas.editar"
	PlanesVer            = "planes.ver"
	PlanesEditar         = "planes.editar"
	OrdenesVer           = "ordenes.ver"
	OrdenesCrear         = "ordenes.crear"
	OrdenesAnular        = "ordenes.anular"
	ProveedoresVer       = "proveedores.ver"
	ProveedoresEditar    = "proveedores.editar"
	MediosVer            = "medios.ver"
	MediosEditar         = "medios.editar"
	ContratosVer         = "contratos.ver"
	ContratosEditar      = "contratos.editar"
	ComisionesEditar     = "comisiones.editar"
	BonificacionesEditar = "bonificaciones.editar"
	RentabilidadVer      = "rentabilidad.ver"
	CalendarioVer        = "calendario.ver"
	PerfilesEditar       = "perfiles.editar"
)

var descripciones = map[string]string{
	ClientesVer:          "Ver clientes",
	ClientesEditar:       "Crear, editar y eliminar clientes",
	CampanasVer:          "Ver campañas",
	CampanasEditar:       "Crear, editar y eliminar campañas",
	PlanesVer:            "Ver planes y alternativas",
	PlanesEditar:         "Editar planes y alternativas",
	OrdenesVer:           "Ver órdenes de compra",
	OrdenesCrear:         "Emitir órdenes y nuevas versiones",
	OrdenesAnular:        "Anular órdenes",
	ProveedoresVer:       "Ver proveedores",
	ProveedoresEditar:    "Editar proveedores",
	MediosVer:            "Ver medios y soportes",
	MediosEditar:         "Editar medios y soportes",
	ContratosVer:         "Ver contratos",
	ContratosEditar:      "Editar contratos",
	ComisionesEditar:     "Configurar comisiones",
	BonificacionesEditar: "Configurar bonificaciones de medios",
	RentabilidadVer:      "Ver rentabilidad y oportunidades",
	CalendarioVer:        "Ver calendario de disponibilidad",
	PerfilesEditar:       "Administrar perfiles y permisos",
}

const PerfilAdministrador = "Administrador"

// Catalogo retorna todos los permisos conocidos.
func Catalogo() []Permiso {
	out := make([]Permiso, 0, len(descripciones))
	for codigo, desc := range descripciones {
		modulo, _, _ := strings.Cut(codigo, ".")
		out = append(out, Permiso{Codigo: codigo, Modulo: modulo, Descripcion: desc})
	}
	return out
}

// Sembrar inserta los permisos que falten y asegura el perfil Administrador con todos ellos.
// Es idempotente.
func Sembrar(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var todos []Permiso
		for _, p := range Catalogo() {
			p := p
			if err := tx.Where(Permiso{Codigo: p.Codigo}).
				Attrs(Permiso{Modulo: p.Modulo, Descripcion: p.Descripcion}).
				FirstOrCreate(&p).Error; err != nil {
				return err
			}
			todos = append(todos, p)
		}

		admin := Perfil{Nombre: PerfilAdministrador}
		if err := tx.Where(Perfil{Nombre: PerfilAdministrador}).
			Attrs(Perfil{Descripcion: "Acceso completo"}).
			FirstOrCreate(&admin).Error; err != nil {
			return err
		}
		return tx.Model(&admin).Association("Permisos").Replace(todos)
	})
}
