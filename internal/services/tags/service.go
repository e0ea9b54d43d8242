package tags

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"noteful/internal/services/events"
	"noteful/internal/utils/sanitize"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// now is truncated to milliseconds, the precision MongoDB stores.
var now = func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }

// Service handles tags business logic
type Service struct {
	repo Repository
	bus  events.Bus
	log  *slog.Logger
}

// NewService creates a new tags service
func NewService(repo Repository, bus events.Bus, log *slog.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// List returns every tag ordered by name.
func (s *Service) List(ctx context.Context) ([]*Tag, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error(ErrListTags.Error(), "error", err)
		return nil, ErrListTags
	}
	if list == nil {
		list = []*Tag{}
	}
	return list, nil
}

// Get returns the tag with id or ErrTagNotFound.
func (s *Service) Get(ctx context.Context, id bson.ObjectID) (*Tag, error) {
	tag, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrTagNotFound) {
			return nil, ErrTagNotFound
		}
		s.log.Error(ErrGetTag.Error(), "error", err, "tag_id", id.Hex())
		return nil, ErrGetTag
	}
	return tag, nil
}

// Create stores a new tag.
func (s *Service) Create(ctx context.Context, req CreateTagRequest) (*Tag, error) {
	name := sanitize.Line(req.Name)
	if name == "" {
		return nil, ErrMissingName
	}

	ts := now()
	tag := &Tag{
		ID:        bson.NewObjectID(),
		Name:      name,
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	if err := s.repo.Create(ctx, tag); err != nil {
		if errors.Is(err, ErrDuplicateName) {
			return nil, ErrDuplicateName
		}
		s.log.Error(ErrCreateTag.Error(), "error", err)
		return nil, ErrCreateTag
	}

	s.bus.Broadcast(ctx, events.Created(events.ResourceTag, tag.ID.Hex(), tag))
	return tag, nil
}

// Update renames the tag with id.
func (s *Service) Update(ctx context.Context, id bson.ObjectID, req UpdateTagRequest) (*Tag, error) {
	name := sanitize.Line(req.Name)
	if name == "" {
		return nil, ErrMissingName
	}

	tag, err := s.repo.UpdateName(ctx, id, name, now())
	if err != nil {
		switch {
		case errors.Is(err, ErrTagNotFound):
			s.log.Info("tag not found for update", "tag_id", id.Hex())
			return nil, ErrTagNotFound
		case errors.Is(err, ErrDuplicateName):
			return nil, ErrDuplicateName
		}
		s.log.Error(ErrUpdateTag.Error(), "error", err, "tag_id", id.Hex())
		return nil, ErrUpdateTag
	}

	s.bus.Broadcast(ctx, events.Updated(events.ResourceTag, tag.ID.Hex(), tag))
	return tag, nil
}

// Delete removes the tag and its references from notes.
func (s *Service) Delete(ctx context.Context, id bson.ObjectID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrTagNotFound) {
			s.log.Info("tag not found for delete", "tag_id", id.Hex())
			return ErrTagNotFound
		}
		s.log.Error(ErrDeleteTag.Error(), "error", err, "tag_id", id.Hex())
		return ErrDeleteTag
	}

	s.bus.Broadcast(ctx, events.Deleted(events.ResourceTag, id.Hex()))
	return nil
}
