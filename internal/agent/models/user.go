package models

type Role string

const (
	RoleAdmin       Role = "admin"
	RoleFieldWorker Role = "field_worker"
)

// UserProfile is the session principal: fetched from the remote store at
// session start and mirrored locally for offline reads. The mirror is
// read-only, it is never written back to the remote.
type UserProfile struct {
	UID             string `json:"uid"`
	Email           string `json:"email"`
	FullName        string `json:"full_name"`
	Role            Role   `json:"role"`
	GroupAssignment string `json:"group_assignment"`
	IsActive        bool   `json:"is_active"`
}
