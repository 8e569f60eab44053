package messaging

import (
	"context"

	"github.com/ascribe/spool-engine/internal/domain"
)

// Publisher defines the interface for publishing notifications to message queue
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishNotification publishes an ownership notification to the message broker
	PublishNotification(ctx context.Context, notification *domain.OwnershipNotification) error
	// Close closes the connection
	Close()
}
