package auth

import "restaurante-backend/internal/models"

// Action es la operación que el caller intenta ejecutar sobre un recurso.
type Action string

const (
	ActionList     Action = "list"
	ActionRetrieve Action = "retrieve"
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
)

// requiredGroup mapea acción -> grupo requerido. Cadena vacía significa que
// basta con estar autenticado. Solo eliminar exige ser administrador.
var requiredGroup = map[Action]string{
	ActionList:     "",
	ActionRetrieve: "",
	ActionCreate:   "",
	ActionUpdate:   "",
	ActionDelete:   models.GrupoAdministradores,
}

// IsAdministrador trata al superusuario como miembro de "Administradores".
func IsAdministrador(u *models.User) bool {
	return u != nil && (u.IsSuperuser || u.InGroup(models.GrupoAdministradores))
}

// Authorize decide allow/deny para un caller y una acción. Sin caller, o con
// una acción desconocida, siempre deniega.
func Authorize(u *models.User, action Action) bool {
	if u == nil {
		return false
	}
	group, known := requiredGroup[action]
	if !known {
		return false
	}
	if group == "" {
		return true
	}
	return u.IsSuperuser || u.InGroup(group)
}

// IsSelfOrAdmin permite el acceso al propio usuario o a un administrador.
func IsSelfOrAdmin(u *models.User, targetID uint) bool {
	if u == nil {
		return false
	}
	if u.ID == targetID {
		return true
	}
	return IsAdministrador(u)
}
