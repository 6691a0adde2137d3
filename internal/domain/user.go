package domain

// Roles the restricted user-creation form may grant.
const (
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

type NewUser struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Audit
}
