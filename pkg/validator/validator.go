package validator

import "github.com/go-playground/validator/v10"

// ErrorResponse describe un campo que falló la validación.
type ErrorResponse struct {
	FailedField string `json:"field"`
	Tag         string `json:"tag"`
	Value       string `json:"value,omitempty"`
}

var validate = validator.New()

// ValidateStruct valida los tags `validate` del struct y devuelve la lista
// de campos fallidos (vacía si todo pasa).
func ValidateStruct(data any) []*ErrorResponse {
	var errs []*ErrorResponse
	if err := validate.Struct(data); err != nil {
		for _, ve := range err.(validator.ValidationErrors) {
			errs = append(errs, &ErrorResponse{
				FailedField: ve.StructNamespace(),
				Tag:         ve.Tag(),
				Value:       ve.Param(),
			})
		}
	}
	return errs
}
