package jobs

import (
	"context"
	"log/slog"

	"jobmate/jobs-service/internal/sqlbuilder"
)

// Channels the Service publishes on after a successful mutation.
const (
	EventJobCreated = "EVENT_JOB_CREATED"
	EventJobUpdated = "EVENT_JOB_UPDATED"
	EventJobRemoved = "EVENT_JOB_REMOVED"
)

// Store is implemented by *Repository.
type Store interface {
	Create(ctx context.Context, nj NewJob) (*Job, error)
	FindAll(ctx context.Context) ([]Job, error)
	Filter(ctx context.Context, filter sqlbuilder.Fields) ([]Job, error)
	Get(ctx context.Context, title string) (*Job, error)
	Update(ctx context.Context, title string, data sqlbuilder.Fields) (*Job, error)
	Remove(ctx context.Context, title string) error
}

// Publisher is implemented by events.RedisPublisher.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload any) error
}

// Service validates caller payloads, runs them against the Store and
// announces mutations. It has no dependency on net/http or gRPC.
type Service struct {
	store  Store
	events Publisher
}

// NewService returns a configured Service.
func NewService(store Store, events Publisher) *Service {
	return &Service{store: store, events: events}
}

// Create validates payload and stores a new job.
func (s *Service) Create(ctx context.Context, payload sqlbuilder.Fields) (*Job, error) {
	nj, err := ParseNewJob(payload)
	if err != nil {
		return nil, err
	}

	j, err := s.store.Create(ctx, nj)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, EventJobCreated, map[string]any{"type": EventJobCreated, "job": j})
	return j, nil
}

// List returns all jobs, or those matching filter when it has any entries.
func (s *Service) List(ctx context.Context, filter sqlbuilder.Fields) ([]Job, error) {
	if len(filter) == 0 {
		return s.store.FindAll(ctx)
	}

	f, err := ParseFilter(filter)
	if err != nil {
		return nil, err
	}
	return s.store.Filter(ctx, f)
}

// Get returns a single job by title.
func (s *Service) Get(ctx context.Context, title string) (*Job, error) {
	return s.store.Get(ctx, title)
}

// Update validates payload and applies it to the job named title.
func (s *Service) Update(ctx context.Context, title string, payload sqlbuilder.Fields) (*Job, error) {
	data, err := ParseUpdate(payload)
	if err != nil {
		return nil, err
	}

	j, err := s.store.Update(ctx, title, data)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, EventJobUpdated, map[string]any{
		"type":    EventJobUpdated,
		"title":   title,
		"changed": data.Names(),
		"job":     j,
	})
	return j, nil
}

// Remove deletes the job named title.
func (s *Service) Remove(ctx context.Context, title string) error {
	if err := s.store.Remove(ctx, title); err != nil {
		return err
	}

	s.publish(ctx, EventJobRemoved, map[string]any{"type": EventJobRemoved, "title": title})
	return nil
}

// publish is best-effort: the mutation already succeeded.
func (s *Service) publish(ctx context.Context, channel string, payload any) {
	if err := s.events.Publish(ctx, channel, payload); err != nil {
		slog.Warn("publish job event failed", "channel", channel, "err", err)
	}
}
