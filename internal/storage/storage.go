package storage

import (
	"context"
	"errors"

	"github.com/brieflab/brief-analyzer/internal/model"
)

var (
	// ErrBriefExists is returned when a document with the same content hash
	// has already been analyzed.
	ErrBriefExists = errors.New("brief already analyzed")

	// ErrBriefNotFound is returned when no brief matches the requested ID.
	ErrBriefNotFound = errors.New("brief not found")
)

// BriefStorage persists briefs, their analysis artifacts and the team
// directory used for report routing.
type BriefStorage interface {
	SaveBrief(ctx context.Context, brief *model.Brief) error
	GetBrief(ctx context.Context, id string) (*model.Brief, error)
	GetBriefByHash(ctx context.Context, contentHash string) (*model.Brief, error)
	UpdateBrief(ctx context.Context, brief *model.Brief) error

	ListProjects(ctx context.Context) ([]model.Project, error)
	ListUsers(ctx context.Context) ([]model.User, error)

	// Stats returns the number of analyzed briefs and generated reports.
	Stats(ctx context.Context) (int, int, error)
}
