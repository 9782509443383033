package memory

import (
	"context"
	"sync"
	"time"

	"github.com/brieflab/brief-analyzer/internal/model"
	"github.com/brieflab/brief-analyzer/internal/storage"
)

// Storage implements in-memory BriefStorage for testing and development.
type Storage struct {
	briefs   map[string]*model.Brief
	byHash   map[string]string
	users    []model.User
	projects []model.Project
	mutex    sync.RWMutex
}

// NewStorage creates a new in-memory storage seeded with the default
// team directory.
func NewStorage() *Storage {
	return &Storage{
		briefs:   make(map[string]*model.Brief),
		byHash:   make(map[string]string),
		users:    storage.DefaultUsers(),
		projects: storage.DefaultProjects(),
	}
}

// SaveBrief stores a new brief, rejecting duplicates by content hash.
func (s *Storage) SaveBrief(ctx context.Context, brief *model.Brief) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.byHash[brief.ContentHash]; exists {
		return storage.ErrBriefExists
	}

	now := time.Now()
	brief.CreatedAt = now
	brief.UpdatedAt = now

	clone := *brief
	s.briefs[brief.ID] = &clone
	s.byHash[brief.ContentHash] = brief.ID
	return nil
}

// GetBrief retrieves a brief by its ID.
func (s *Storage) GetBrief(ctx context.Context, id string) (*model.Brief, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	brief, found := s.briefs[id]
	if !found {
		return nil, storage.ErrBriefNotFound
	}

	clone := *brief
	return &clone, nil
}

// GetBriefByHash retrieves a brief by the content hash of its document.
func (s *Storage) GetBriefByHash(ctx context.Context, contentHash string) (*model.Brief, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	id, found := s.byHash[contentHash]
	if !found {
		return nil, storage.ErrBriefNotFound
	}

	clone := *s.briefs[id]
	return &clone, nil
}

// UpdateBrief replaces the stored state of an existing brief.
func (s *Storage) UpdateBrief(ctx context.Context, brief *model.Brief) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	existing, found := s.briefs[brief.ID]
	if !found {
		return storage.ErrBriefNotFound
	}

	brief.CreatedAt = existing.CreatedAt
	brief.UpdatedAt = time.Now()

	clone := *brief
	s.briefs[brief.ID] = &clone
	return nil
}

// ListProjects returns all projects.
func (s *Storage) ListProjects(ctx context.Context) ([]model.Project, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	result := make([]model.Project, len(s.projects))
	copy(result, s.projects)
	return result, nil
}

// ListUsers returns all team members.
func (s *Storage) ListUsers(ctx context.Context) ([]model.User, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	result := make([]model.User, len(s.users))
	copy(result, s.users)
	return result, nil
}

// Stats returns the number of briefs and generated reports.
func (s *Storage) Stats(ctx context.Context) (int, int, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	reports := 0
	for _, brief := range s.briefs {
		if brief.ContentWriterReport != "" {
			reports++
		}
		if brief.DesignerReport != "" {
			reports++
		}
	}

	return len(s.briefs), reports, nil
}
