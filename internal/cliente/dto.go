package cliente

type ClienteRequest struct {
	Nombre      string `json:"nombre" validate:"required,max=150"`
	RazonSocial string `json:"razonSocial" validate:"max=200"`
	RUT         string `json:"rut" validate:"required,max=20"`
	Email       string `json:"email" validate:"omitempty,email"`
	Telefono    string `json:"telefono" validate:"max=30"`
	Direccion   string `json:"direccion"`
	Activo      *bool  `json:"activo"`
}

func (req ClienteRequest) aplicar(c *Cliente) {
	c.Nombre = req.Nombre
	c.RazonSocial = req.RazonSocial
	c.RUT = req.RUT
	c.Email = req.Email
	c.Telefono = req.Telefono
	c.Direccion = req.Direccion
	if req.Activo != nil {
		c.Activo = *req.Activo
	}
}
