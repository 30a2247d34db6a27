package usuario

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type CrearUsuarioRequest struct {
	Nombre   string `json:"nombre" validate:"required,max=100"`
	Apellido string `json:"apellido" validate:"max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"omitempty,min=8"`
	PerfilID uint   `json:"perfilId"`
	IsAdmin  bool   `json:"isAdmin"`
}

// CrearUsuarioResponse incluye la clave temporal cuando no se envió una.
type CrearUsuarioResponse struct {
	Usuario
	ClaveTemporal string `json:"claveTemporal,omitempty"`
}

type ActualizarUsuarioRequest struct {
	Nombre   string `json:"nombre" validate:"required,max=100"`
	Apellido string `json:"apellido" validate:"max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"omitempty,min=8"`
	PerfilID *uint  `json:"perfilId"`
	IsAdmin  *bool  `json:"isAdmin"`
	Activo   *bool  `json:"activo"`
}
