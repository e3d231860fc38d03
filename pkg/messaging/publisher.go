// Package messaging defines the event publishing contract used by the services.
package messaging

import (
	"context"
)

// Subjects of product events. All of them live under ProductsSubjectPrefix.
const (
	ProductsSubjectPrefix          = "products."
	ProductCreatedSubject          = ProductsSubjectPrefix + "created"
	ProductInventoryUpdatedSubject = ProductsSubjectPrefix + "inventory.updated"
)

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher drops every event. Used when event publishing is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
