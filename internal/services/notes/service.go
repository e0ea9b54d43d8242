package notes

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

// Service handles notes business logic
type Service struct {
	repo Repository
	refs References
	bus  events.Bus
	log  *slog.Logger
}

// NewService creates a new notes service
func NewService(repo Repository, refs References, bus events.Bus, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		refs: refs,
		bus:  bus,
		log:  log,
	}
}

// List returns the notes matching req, most recently updated first.
func (s *Service) List(ctx context.Context, req ListNotesRequest) ([]*Note, error) {
	f := Filter{SearchTerm: req.SearchTerm}

	if req.FolderID != "" {
		id, err := bson.ObjectIDFromHex(req.FolderID)
		if err != nil {
			return nil, ErrInvalidFolderID
		}
		f.FolderID = &id
	}
	if req.TagID != "" {
		id, err := bson.ObjectIDFromHex(req.TagID)
		if err != nil {
			return nil, ErrInvalidTagID
		}
		f.TagID = &id
	}

	list, err := s.repo.List(ctx, f)
	if err != nil {
		s.log.Error(ErrListNotes.Error(), "error", err)
		return nil, ErrListNotes
	}
	if list == nil {
		return []*Note{}, nil
	}
	for _, n := range list {
		normalize(n)
	}
	return list, nil
}

// Get returns the note with id or ErrNoteNotFound.
func (s *Service) Get(ctx context.Context, id bson.ObjectID) (*Note, error) {
	note, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNoteNotFound) {
			return nil, ErrNoteNotFound
		}
		s.log.Error(ErrGetNote.Error(), "error", err, "note_id", id.Hex())
		return nil, ErrGetNote
	}
	return normalize(note), nil
}

// Create stores a new note after checking that its folder and tags exist.
func (s *Service) Create(ctx context.Context, req CreateNoteRequest) (*Note, error) {
	title := sanitize.Line(req.Title)
	if title == "" {
		return nil, ErrMissingTitle
	}

	folderID, err := parseFolderID(req.FolderID)
	if err != nil {
		return nil, err
	}
	tagIDs, err := parseTagIDs(req.Tags)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, folderID, tagIDs); err != nil {
		return nil, s.mask(err, ErrCreateNote)
	}

	ts := now()
	note := &Note{
		ID:        bson.NewObjectID(),
		Title:     title,
		Content:   sanitize.Text(req.Content),
		FolderID:  folderID,
		Tags:      tagIDs,
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	if err := s.repo.Create(ctx, note); err != nil {
		s.log.Error(ErrCreateNote.Error(), "error", err)
		return nil, ErrCreateNote
	}

	s.bus.Broadcast(ctx, events.Created(events.ResourceNote, note.ID.Hex(), note))
	return note, nil
}

// Update applies the supplied fields of req to the note with id.
func (s *Service) Update(ctx context.Context, id bson.ObjectID, req UpdateNoteRequest) (*Note, error) {
	patch := Patch{UpdatedAt: now()}

	if req.Title != nil {
		title := sanitize.Line(*req.Title)
		if title == "" {
			return nil, ErrMissingTitle
		}
		patch.Title = &title
	}
	if req.Content != nil {
		content := sanitize.Text(*req.Content)
		patch.Content = &content
	}
	if req.FolderID != nil {
		folderID, err := parseFolderID(*req.FolderID)
		if err != nil {
			return nil, err
		}
		patch.FolderID = folderID
		patch.ClearFolder = folderID == nil
	}
	if req.Tags != nil {
		tagIDs, err := parseTagIDs(*req.Tags)
		if err != nil {
			return nil, err
		}
		patch.Tags = &tagIDs
	}

	var tagIDs []bson.ObjectID
	if patch.Tags != nil {
		tagIDs = *patch.Tags
	}
	if err := s.checkReferences(ctx, patch.FolderID, tagIDs); err != nil {
		return nil, s.mask(err, ErrUpdateNote)
	}

	note, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, ErrNoteNotFound) {
			s.log.Info("note not found for update", "note_id", id.Hex())
			return nil, ErrNoteNotFound
		}
		s.log.Error(ErrUpdateNote.Error(), "error", err, "note_id", id.Hex())
		return nil, ErrUpdateNote
	}

	normalize(note)
	s.bus.Broadcast(ctx, events.Updated(events.ResourceNote, note.ID.Hex(), note))
	return note, nil
}

// Delete removes the note with id.
func (s *Service) Delete(ctx context.Context, id bson.ObjectID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNoteNotFound) {
			s.log.Info("note not found for delete", "note_id", id.Hex())
			return ErrNoteNotFound
		}
		s.log.Error(ErrDeleteNote.Error(), "error", err, "note_id", id.Hex())
		return ErrDeleteNote
	}

	s.bus.Broadcast(ctx, events.Deleted(events.ResourceNote, id.Hex()))
	return nil
}

func (s *Service) checkReferences(ctx context.Context, folderID *bson.ObjectID, tagIDs []bson.ObjectID) error {
	if folderID != nil {
		ok, err := s.refs.FolderExists(ctx, *folderID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUnknownFolder
		}
	}
	if len(tagIDs) > 0 {
		n, err := s.refs.CountTags(ctx, tagIDs)
		if err != nil {
			return err
		}
		if n != int64(len(tagIDs)) {
			return ErrUnknownTag
		}
	}
	return nil
}

// mask passes reference errors through and replaces store failures with op.
func (s *Service) mask(err, op error) error {
	if errors.Is(err, ErrUnknownFolder) || errors.Is(err, ErrUnknownTag) {
		return err
	}
	s.log.Error("failed to check note references", "error", err)
	return op
}

// parseFolderID returns nil for an empty id.
func parseFolderID(hex string) (*bson.ObjectID, error) {
	if hex == "" {
		return nil, nil
	}
	id, err := bson.ObjectIDFromHex(hex)
	if err != nil {
		return nil, ErrInvalidFolderID
	}
	return &id, nil
}

// parseTagIDs keeps the first occurrence of each id and never returns nil.
func parseTagIDs(hexes []string) ([]bson.ObjectID, error) {
	ids := make([]bson.ObjectID, 0, len(hexes))
	seen := make(map[bson.ObjectID]struct{}, len(hexes))
	for _, h := range hexes {
		id, err := bson.ObjectIDFromHex(h)
		if err != nil {
			return nil, ErrInvalidTagID
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func normalize(n *Note) *Note {
	if n.Tags == nil {
		n.Tags = []bson.ObjectID{}
	}
	return n
}
