package folders

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

// Service handles folders business logic
type Service struct {
	repo Repository
	bus  events.Bus
	log  *slog.Logger
}

// NewService creates a new folders service
func NewService(repo Repository, bus events.Bus, log *slog.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// List returns every folder ordered by name.
func (s *Service) List(ctx context.Context) ([]*Folder, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error(ErrListFolders.Error(), "error", err)
		return nil, ErrListFolders
	}
	if list == nil {
		list = []*Folder{}
	}
	return list, nil
}

// Get returns the folder with id or ErrFolderNotFound.
func (s *Service) Get(ctx context.Context, id bson.ObjectID) (*Folder, error) {
	folder, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrFolderNotFound) {
			return nil, ErrFolderNotFound
		}
		s.log.Error(ErrGetFolder.Error(), "error", err, "folder_id", id.Hex())
		return nil, ErrGetFolder
	}
	return folder, nil
}

// Create stores a new folder.
func (s *Service) Create(ctx context.Context, req CreateFolderRequest) (*Folder, error) {
	name := sanitize.Line(req.Name)
	if name == "" {
		return nil, ErrMissingName
	}

	ts := now()
	folder := &Folder{
		ID:        bson.NewObjectID(),
		Name:      name,
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	if err := s.repo.Create(ctx, folder); err != nil {
		if errors.Is(err, ErrDuplicateName) {
			return nil, ErrDuplicateName
		}
		s.log.Error(ErrCreateFolder.Error(), "error", err)
		return nil, ErrCreateFolder
	}

	s.bus.Broadcast(ctx, events.Created(events.ResourceFolder, folder.ID.Hex(), folder))
	return folder, nil
}

// Update renames the folder with id.
func (s *Service) Update(ctx context.Context, id bson.ObjectID, req UpdateFolderRequest) (*Folder, error) {
	name := sanitize.Line(req.Name)
	if name == "" {
		return nil, ErrMissingName
	}

	folder, err := s.repo.UpdateName(ctx, id, name, now())
	if err != nil {
		switch {
		case errors.Is(err, ErrFolderNotFound):
			s.log.Info("folder not found for update", "folder_id", id.Hex())
			return nil, ErrFolderNotFound
		case errors.Is(err, ErrDuplicateName):
			return nil, ErrDuplicateName
		}
		s.log.Error(ErrUpdateFolder.Error(), "error", err, "folder_id", id.Hex())
		return nil, ErrUpdateFolder
	}

	s.bus.Broadcast(ctx, events.Updated(events.ResourceFolder, folder.ID.Hex(), folder))
	return folder, nil
}

// Delete removes the folder and detaches its notes.
func (s *Service) Delete(ctx context.Context, id bson.ObjectID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrFolderNotFound) {
			s.log.Info("folder not found for delete", "folder_id", id.Hex())
			return ErrFolderNotFound
		}
		s.log.Error(ErrDeleteFolder.Error(), "error", err, "folder_id", id.Hex())
		return ErrDeleteFolder
	}

	s.bus.Broadcast(ctx, events.Deleted(events.ResourceFolder, id.Hex()))
	return nil
}
