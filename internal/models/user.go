package models

// Role classifies a signed-in user.
const (
	RoleStudent = "STUDENT"
	RoleAdmin   = "ADMIN"
)

// Identity describes the user established by a sign-in. It is built once from
// the decoded credential claims and never mutated for the lifetime of the
// session.
type Identity struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhotoURL string `json:"photo_url,omitempty"`
	Role     string `json:"role"`
}
