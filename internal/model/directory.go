package model

// Project statuses as exposed by the projects endpoint.
const (
	ProjectActive   = "active"
	ProjectArchived = "archived"
)

// User represents a team member who can receive reports and notifications.
type User struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	BasecampUserID string `json:"basecamp_user_id"`
}

// Project represents a Basecamp project a campaign can belong to.
type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
}
