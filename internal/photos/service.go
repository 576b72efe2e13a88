// Package photos reads video projects out of the Photos media database.
package photos

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	cache "github.com/Code-Hex/go-generics-cache"
	"github.com/heimdex/msve-edl/internal/db"
	"github.com/heimdex/msve-edl/internal/export"
)

var ErrProjectNotFound = errors.New("project not found")

// ProjectStore is what the CLI and HTTP layers need from the database.
type ProjectStore interface {
	ListProjects(ctx context.Context) ([]string, error)
	GetProject(ctx context.Context, name string) (*export.Project, error)
}

type Service struct {
	repo     Repository
	logger   *slog.Logger
	projects *cache.Cache[string, *export.Project]
	ttl      time.Duration

	// mu orders cache fills against Purge. A fill is dropped when gen moved
	// while its lookup was in flight.
	mu  sync.Mutex
	gen uint64
}

type Option func(*Service)

// WithCacheTTL keeps parsed projects for ttl. A zero ttl disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.ttl = ttl
	}
}

func NewService(repo Repository, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{repo: repo, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	if s.ttl > 0 {
		s.projects = cache.New[string, *export.Project]()
	}
	return s
}

// ListProjects returns all project names in case-insensitive order.
func (s *Service) ListProjects(ctx context.Context) ([]string, error) {
	names, err := s.repo.ListAlbumNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	sort.SliceStable(names, func(i, j int) bool {
		return db.CompareNoCase(names[i], names[j]) < 0
	})
	return names, nil
}

// GetProject loads and parses the named project. Unknown names yield an
// error wrapping ErrProjectNotFound; bad timeline data yields a
// *export.MalformedProjectError.
func (s *Service) GetProject(ctx context.Context, name string) (*export.Project, error) {
	var gen uint64
	if s.projects != nil {
		if p, ok := s.projects.Get(name); ok {
			return p, nil
		}
		gen = s.generation()
	}

	rec, err := s.repo.GetProjectState(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load project %q: %w", name, err)
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, name)
	}
	if !rec.RpmState.Valid || rec.RpmState.String == "" {
		return nil, &export.MalformedProjectError{Project: name, Reason: "project state is empty"}
	}

	p, err := ParseProject(name, rec.RpmState.String)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("failed to parse project", "project", name, "error", err)
		}
		return nil, err
	}

	if s.logger != nil {
		s.logger.Debug("loaded project", "project", name, "entries", len(p.Entries))
	}
	if s.projects != nil {
		s.fill(gen, name, p)
	}
	return p, nil
}

func (s *Service) generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

func (s *Service) fill(gen uint64, name string, p *export.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	s.projects.Set(name, p, cache.WithExpiration(s.ttl))
}

// Purge drops every cached project so the next lookup rereads the database.
func (s *Service) Purge() {
	if s.projects == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	for _, name := range s.projects.Keys() {
		s.projects.Delete(name)
	}
}
