package permiso

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AgenciaMedios/api-agencia/internal/auth"
	"github.com/AgenciaMedios/api-agencia/internal/config"
	"github.com/AgenciaMedios/api-agencia/internal/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Logger     *logrus.Logger
}

func NewHandler(db *gorm.DB, logger *logrus.Logger) *Handler {
	return &Handler{DB: db, Repository: NewRepository(), Logger: logger}
}

type crearPerfilRequest struct {
	Nombre      string `json:"nombre" validate:"required,max=100"`
	Descripcion string `json:"descripcion" validate:"max=255"`
	PermisoIDs  []uint `json:"permisoIds"`
}

type asignarPermisosRequest struct {
	PermisoIDs []uint `json:"permisoIds"`
}

// GET /permisos
func (h *Handler) ListarPermisos(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repository.ListarPermisos(h.DB.WithContext(r.Context()))
	if err != nil {
		config.LogError(h.Logger, "permiso", "ListarPermisos", "select", nil, err)
		http.Error(w, "Error al listar permisos", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

// GET /perfiles
func (h *Handler) ListarPerfiles(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repository.ListarPerfiles(h.DB.WithContext(r.Context()))
	if err != nil {
		config.LogError(h.Logger, "permiso", "ListarPerfiles", "select", nil, err)
		http.Error(w, "Error al listar perfiles", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

// POST /perfiles
func (h *Handler) CrearPerfil(w http.ResponseWriter, r *http.Request) {
	var req crearPerfilRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	if err := utils.Validar(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	db := h.DB.WithContext(r.Context())
	p := Perfil{Nombre: req.Nombre, Descripcion: req.Descripcion}
	if err := h.Repository.CrearPerfil(db, &p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			http.Error(w, "Ya existe un perfil con ese nombre", http.StatusConflict)
			return
		}
		config.LogError(h.Logger, "permiso", "CrearPerfil", "insert", req, err)
		http.Error(w, "Error al crear perfil", http.StatusInternalServerError)
		return
	}
	if len(req.PermisoIDs) > 0 {
		actualizado, err := h.Repository.AsignarPermisos(db, p.ID, req.PermisoIDs)
		if err != nil {
			config.LogError(h.Logger, "permiso", "CrearPerfil", "asignar", req, err)
			http.Error(w, "Error al asignar permisos", http.StatusInternalServerError)
			return
		}
		p = *actualizado
	}
	utils.WriteJSON(w, http.StatusCreated, p)
}

// PUT /perfiles/{id}/permisos
func (h *Handler) AsignarPermisos(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	var req asignarPermisosRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	p, err := h.Repository.AsignarPermisos(h.DB.WithContext(r.Context()), id, req.PermisoIDs)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Perfil no encontrado", http.StatusNotFound)
			return
		}
		config.LogError(h.Logger, "permiso", "AsignarPermisos", "replace", req, err)
		http.Error(w, "Error al asignar permisos", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}

// GET /permisos/matriz
func (h *Handler) Matriz(w http.ResponseWriter, r *http.Request) {
	db := h.DB.WithContext(r.Context())
	permisos, err := h.Repository.ListarPermisos(db)
	if err != nil {
		config.LogError(h.Logger, "permiso", "Matriz", "permisos", nil, err)
		http.Error(w, "Error al armar matriz", http.StatusInternalServerError)
		return
	}
	perfiles, err := h.Repository.ListarPerfiles(db)
	if err != nil {
		config.LogError(h.Logger, "permiso", "Matriz", "perfiles", nil, err)
		http.Error(w, "Error al armar matriz", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, ConstruirMatriz(permisos, perfiles))
}

// GET /usuarios/me/permisos
func (h *Handler) MisPermisos(w http.ResponseWriter, r *http.Request) {
	id := auth.IdentidadDe(r.Context())
	db := h.DB.WithContext(r.Context())

	var codigos []string
	var err error
	if id.IsAdmin {
		var todos []Permiso
		todos, err = h.Repository.ListarPermisos(db)
		for _, p := range todos {
			codigos = append(codigos, p.Codigo)
		}
	} else if id.PerfilID != 0 {
		codigos, err = h.Repository.CodigosDePerfil(db, id.PerfilID)
	}
	if err != nil {
		config.LogError(h.Logger, "permiso", "MisPermisos", "select", id, err)
		http.Error(w, "Error al obtener permisos", http.StatusInternalServerError)
		return
	}
	if codigos == nil {
		codigos = []string{}
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"isAdmin":  id.IsAdmin,
		"permisos": codigos,
	})
}
