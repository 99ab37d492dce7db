package usecase

import (
	"context"
	"errors"

	"github.com/xavierca1/residence-leads/internal/entity"
)

// Notifiers fans one lead out to every channel. All channels are tried; the
// errors are joined.
type Notifiers []LeadNotifier

func (n Notifiers) NotifyLeadCreated(ctx context.Context, lead *entity.Lead) error {
	var errs []error
	for _, notifier := range n {
		if err := notifier.NotifyLeadCreated(ctx, lead); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
