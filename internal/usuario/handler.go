package usuario

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

// Handler encapsula DB y repository
type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Logger     *logrus.Logger
}

func NewHandler(db *gorm.DB, logger *logrus.Logger) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
		Logger:     logger,
	}
}

// Login emite un access token para credenciales válidas
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	if err := utils.Validar(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	u, err := h.Repository.BuscarPorEmail(h.DB.WithContext(r.Context()), req.Email)
	if err != nil || !u.Activo || !utils.VerificarClave(u.Password, req.Password) {
		http.Error(w, "credenciales inválidas", http.StatusUnauthorized)
		return
	}

	token, err := auth.GenerateAccessToken(u.ID, u.PerfilID, u.IsAdmin)
	if err != nil {
		config.LogError(h.Logger, "usuario", "Login", "token", u.ID, err)
		http.Error(w, "error al generar token", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(auth.AccessTTL.Seconds()),
	})
}

// CrearUsuario da de alta un usuario (solo admin). Sin password se genera una temporal.
func (h *Handler) CrearUsuario(w http.ResponseWriter, r *http.Request) {
	var req CrearUsuarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	if err := utils.Validar(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	clave, temporal := req.Password, ""
	if clave == "" {
		var err error
		if clave, err = utils.GenerarClaveTemporal(); err != nil {
			http.Error(w, "error al generar clave", http.StatusInternalServerError)
			return
		}
		temporal = clave
	}
	hash, err := utils.HashClave(clave)
	if err != nil {
		http.Error(w, "error al procesar clave", http.StatusInternalServerError)
		return
	}

	u := Usuario{
		Nombre:   req.Nombre,
		Apellido: req.Apellido,
		Email:    req.Email,
		Password: hash,
		PerfilID: req.PerfilID,
		IsAdmin:  req.IsAdmin,
		Activo:   true,
	}
	if err := h.Repository.Salvar(h.DB.WithContext(r.Context()), &u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			http.Error(w, "ya existe un usuario con ese email", http.StatusConflict)
			return
		}
		config.LogError(h.Logger, "usuario", "CrearUsuario", "insert", req.Email, err)
		http.Error(w, "error al guardar usuario", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, CrearUsuarioResponse{Usuario: u, ClaveTemporal: temporal})
}

// ListarUsuarios retorna todos los usuarios (solo admin)
func (h *Handler) ListarUsuarios(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repository.ListarTodos(h.DB.WithContext(r.Context()))
	if err != nil {
		config.LogError(h.Logger, "usuario", "ListarUsuarios", "select", nil, err)
		http.Error(w, "error al listar usuarios", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

// Me retorna el usuario autenticado
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id := auth.IdentidadDe(r.Context())
	u, err := h.Repository.BuscarPorID(h.DB.WithContext(r.Context()), id.UserID)
	if err != nil {
		http.Error(w, "usuario no encontrado", http.StatusNotFound)
		return
	}
	utils.WriteJSON(w, http.StatusOK, u)
}

// BuscarPorID: un usuario común solo puede verse a sí mismo
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idPermitido(w, r)
	if !ok {
		return
	}
	u, err := h.Repository.BuscarPorID(h.DB.WithContext(r.Context()), id)
	if err != nil {
		http.Error(w, "usuario no encontrado", http.StatusNotFound)
		return
	}
	utils.WriteJSON(w, http.StatusOK, u)
}

// ActualizarUsuario altera datos; perfil, admin y activo solo los cambia un admin
func (h *Handler) ActualizarUsuario(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idPermitido(w, r)
	if !ok {
		return
	}
	var req ActualizarUsuarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	if err := utils.Validar(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	db := h.DB.WithContext(r.Context())
	u, err := h.Repository.BuscarPorID(db, id)
	if err != nil {
		http.Error(w, "usuario no encontrado", http.StatusNotFound)
		return
	}
	u.Nombre = req.Nombre
	u.Apellido = req.Apellido
	u.Email = req.Email
	if req.Password != "" {
		if u.Password, err = utils.HashClave(req.Password); err != nil {
			http.Error(w, "error al procesar clave", http.StatusInternalServerError)
			return
		}
	}
	if auth.IdentidadDe(r.Context()).IsAdmin {
		if req.PerfilID != nil {
			u.PerfilID = *req.PerfilID
		}
		if req.IsAdmin != nil {
			u.IsAdmin = *req.IsAdmin
		}
		if req.Activo != nil {
			u.Activo = *req.Activo
		}
	}

	if err := h.Repository.Salvar(db, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			http.Error(w, "ya existe un usuario con ese email", http.StatusConflict)
			return
		}
		config.LogError(h.Logger, "usuario", "ActualizarUsuario", "update", id, err)
		http.Error(w, "error al actualizar usuario", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, u)
}

// EliminarUsuario remueve un usuario (solo admin)
func (h *Handler) EliminarUsuario(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	if err := h.Repository.Eliminar(h.DB.WithContext(r.Context()), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "usuario no encontrado", http.StatusNotFound)
			return
		}
		config.LogError(h.Logger, "usuario", "EliminarUsuario", "delete", id, err)
		http.Error(w, "error al eliminar usuario", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) idPermitido(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return 0, false
	}
	yo := auth.IdentidadDe(r.Context())
	if !yo.IsAdmin && yo.UserID != id {
		http.Error(w, "acceso denegado", http.StatusForbidden)
		return 0, false
	}
	return id, true
}
