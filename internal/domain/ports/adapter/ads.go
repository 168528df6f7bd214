package adapter

import (
	"context"

	"telegram-miniapp-gate/internal/domain/model"
)

// AdPresenter is the advertisement boundary. Present shows one
// interstitial and returns when it completes or fails. A missing
// underlying SDK must be tolerated as a no-op, not an error.
type AdPresenter interface {
	Present(ctx context.Context, req model.AdRequest) error
}
