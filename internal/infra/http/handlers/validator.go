package handlers

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/gfduarte/funil-crm/internal/entity"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterValidation("niche", func(fl validator.FieldLevel) bool {
		return entity.IsValidNiche(entity.Niche(fl.Field().String()))
	})
	v.RegisterValidation("stage", func(fl validator.FieldLevel) bool {
		return entity.IsValidStage(entity.Stage(fl.Field().String()))
	})

	return v
}

// validationMessage achata os erros do validator numa mensagem só,
// legível pro formulário.
func validationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return "dados inválidos"
	}

	var parts []string
	for _, verr := range verrs {
		field := strings.ToLower(verr.Field())
		switch verr.Tag() {
		case "required":
			parts = append(parts, field+" é obrigatório")
		case "niche":
			parts = append(parts, field+" não é um nicho válido")
		case "stage":
			parts = append(parts, field+" não é uma etapa válida")
		case "max":
			parts = append(parts, field+" excede o tamanho máximo")
		default:
			parts = append(parts, field+" é inválido")
		}
	}
	return strings.Join(parts, "; ")
}
