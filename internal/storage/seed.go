package storage

import "github.com/brieflab/brief-analyzer/internal/model"

// DefaultUsers returns the directory seeded into an empty backend so the
// writer/designer drop-downs work out of the box.
func DefaultUsers() []model.User {
	return []model.User{
		{ID: "u-1", Name: "Alice Moran", Email: "alice@agency.example", BasecampUserID: "49581201"},
		{ID: "u-2", Name: "Ben Castillo", Email: "ben@agency.example", BasecampUserID: "49581202"},
		{ID: "u-3", Name: "Priya Nair", Email: "priya@agency.example", BasecampUserID: "49581203"},
	}
}

// DefaultProjects returns the projects seeded into an empty backend.
func DefaultProjects() []model.Project {
	return []model.Project{
		{ID: "p-1", Name: "Brand Website Redesign", Description: "TechCorp Solutions site refresh", Status: model.ProjectActive},
		{ID: "p-2", Name: "Spring Campaign", Description: "Seasonal multi-channel push", Status: model.ProjectActive},
		{ID: "p-3", Name: "Legacy Newsletter", Description: "Retired mailing program", Status: model.ProjectArchived},
	}
}
