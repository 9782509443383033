package file

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/brieflab/brief-analyzer/internal/model"
	"github.com/brieflab/brief-analyzer/internal/storage"
)

// Storage implements BriefStorage backed by an append-only JSONL file.
// The latest record for a brief ID wins on reload, so updates are plain
// appends.
type Storage struct {
	filePath    string
	briefs      map[string]*model.Brief
	byHash      map[string]string
	users       []model.User
	projects    []model.Project
	mu          sync.RWMutex
	fileWriteMu sync.Mutex
}

// NewStorage creates a file-backed storage at the provided path.
func NewStorage(filePath string) (*Storage, error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	s := &Storage{
		filePath: filePath,
		briefs:   make(map[string]*model.Brief),
		byHash:   make(map[string]string),
		users:    storage.DefaultUsers(),
		projects: storage.DefaultProjects(),
	}

	if err := s.loadFromFile(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Storage) loadFromFile() error {
	file, err := os.OpenFile(s.filePath, os.O_RDONLY|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		var brief model.Brief
		if err := json.Unmarshal([]byte(line), &brief); err != nil {
			return fmt.Errorf("failed to unmarshal record: %w", err)
		}

		s.briefs[brief.ID] = &brief
		s.byHash[brief.ContentHash] = brief.ID
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}

	return nil
}

func (s *Storage) appendRecord(brief *model.Brief) error {
	s.fileWriteMu.Lock()
	defer s.fileWriteMu.Unlock()

	file, err := os.OpenFile(s.filePath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file for writing: %w", err)
	}
	defer file.Close()

	data, err := json.Marshal(brief)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	if _, err := file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}

	return nil
}

// SaveBrief stores a new brief, rejecting duplicates by content hash.
func (s *Storage) SaveBrief(ctx context.Context, brief *model.Brief) error {
	s.mu.Lock()
	if _, exists := s.byHash[brief.ContentHash]; exists {
		s.mu.Unlock()
		return storage.ErrBriefExists
	}

	now := time.Now()
	brief.CreatedAt = now
	brief.UpdatedAt = now

	clone := *brief
	s.briefs[brief.ID] = &clone
	s.byHash[brief.ContentHash] = brief.ID
	s.mu.Unlock()

	return s.appendRecord(&clone)
}

// GetBrief retrieves a brief by its ID.
func (s *Storage) GetBrief(ctx context.Context, id string) (*model.Brief, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	brief, found := s.briefs[id]
	if !found {
		return nil, storage.ErrBriefNotFound
	}

	clone := *brief
	return &clone, nil
}

// GetBriefByHash retrieves a brief by the content hash of its document.
func (s *Storage) GetBriefByHash(ctx context.Context, contentHash string) (*model.Brief, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, found := s.byHash[contentHash]
	if !found {
		return nil, storage.ErrBriefNotFound
	}

	clone := *s.briefs[id]
	return &clone, nil
}

// UpdateBrief replaces the stored state of an existing brief and appends
// the new record to the log.
func (s *Storage) UpdateBrief(ctx context.Context, brief *model.Brief) error {
	s.mu.Lock()
	existing, found := s.briefs[brief.ID]
	if !found {
		s.mu.Unlock()
		return storage.ErrBriefNotFound
	}

	brief.CreatedAt = existing.CreatedAt
	brief.UpdatedAt = time.Now()

	clone := *brief
	s.briefs[brief.ID] = &clone
	s.mu.Unlock()

	return s.appendRecord(&clone)
}

// ListProjects returns all projects.
func (s *Storage) ListProjects(ctx context.Context) ([]model.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.Project, len(s.projects))
	copy(result, s.projects)
	return result, nil
}

// ListUsers returns all team members.
func (s *Storage) ListUsers(ctx context.Context) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.User, len(s.users))
	copy(result, s.users)
	return result, nil
}

// Stats returns the number of briefs and generated reports.
func (s *Storage) Stats(ctx context.Context) (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

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
