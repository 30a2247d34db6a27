package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validar revisa las etiquetas `validate` de un DTO y devuelve un error legible.
func Validar(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("campo '%s' inválido (%s)", fe.Field(), fe.Tag()))
	}
	return errors.New(strings.Join(msgs, "; "))
}
