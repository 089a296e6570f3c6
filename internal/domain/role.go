package domain

type Role string

const (
	RoleClient     Role = "client"
	RoleFreelancer Role = "freelancer"
	RoleStaff      Role = "staff"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleClient, RoleFreelancer, RoleStaff:
		return Role(s), true
	}
	return "", false
}

// Actor - аутентифицированный пользователь, от имени которого выполняется операция
type Actor struct {
	UserID string
	Email  string
	Roles  []Role
}

// SystemActor используется фоновыми задачами (истечение контрактов, сверка платежей)
var SystemActor = Actor{UserID: "system", Roles: []Role{RoleStaff}}

func (a Actor) HasRole(role Role) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (a Actor) IsStaff() bool {
	return a.HasRole(RoleStaff)
}
