package publish

import (
	"context"

	"github.com/specialistvlad/releasegrid/internal/orchestrator"
)

// Multi runs publishers in order and stops at the first failure.
type Multi []orchestrator.Publisher

// Publish implements orchestrator.Publisher.
func (m Multi) Publish(ctx context.Context, r orchestrator.Release) error {
	for _, p := range m {
		if err := p.Publish(ctx, r); err != nil {
			return err
		}
	}
	return nil
}
