package events

import "context"

// Type is the kind of change an Event reports.
type Type string

// Event types
const (
	TypeCreated Type = "created"
	TypeUpdated Type = "updated"
	TypeDeleted Type = "deleted"
)

// Resource names carried by events.
const (
	ResourceNote   = "note"
	ResourceFolder = "folder"
	ResourceTag    = "tag"
)

// Event describes a change to a note, folder or tag. Data holds the
// entity after the change; it is nil for deletions.
type Event struct {
	Type     Type   `json:"type" example:"created"`
	Resource string `json:"resource" example:"tag"`
	ID       string `json:"id" example:"222222222222222222222200"`
	Data     any    `json:"data,omitempty"`
}

// Bus is implemented by anything services can publish events to.
type Bus interface {
	Broadcast(ctx context.Context, ev Event)
}

// Created builds a "created" event for resource.
func Created(resource, id string, data any) Event {
	return Event{Type: TypeCreated, Resource: resource, ID: id, Data: data}
}

// Updated builds an "updated" event for resource.
func Updated(resource, id string, data any) Event {
	return Event{Type: TypeUpdated, Resource: resource, ID: id, Data: data}
}

// Deleted builds a "deleted" event for resource.
func Deleted(resource, id string) Event {
	return Event{Type: TypeDeleted, Resource: resource, ID: id}
}
