package sweeper

import "context"

// Sweeper is a long-running maintenance loop. Implementations tick on an
// interval until canceled.
//
//go:generate mockgen -source=sweeper.go -destination=../mocks/sweeper.go -package=mocks -mock_names=Sweeper=MockSweeper
type Sweeper interface {
	// Start runs the loop. It blocks until the context is canceled or
	// Stop is called.
	Start(ctx context.Context) error

	// Stop shuts the loop down, waiting for in-flight work.
	Stop(ctx context.Context) error

	// Name identifies the sweeper in logs.
	Name() string
}
