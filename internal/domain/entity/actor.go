package entity

// Actor identifica quién ejecuta una operación (para auditoría). Lo provee el
// caller (middleware HTTP); si falta, se usa la identidad de sistema.
type Actor struct {
	ID   string
	Name string
}

// SystemActor es la identidad por defecto cuando el caller no aporta una.
var SystemActor = Actor{ID: "system", Name: "system"}

// IsZero indica si el actor está vacío.
func (a Actor) IsZero() bool {
	return a.ID == "" && a.Name == ""
}
