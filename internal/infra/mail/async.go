package mail

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xavierca1/residence-leads/internal/entity"
	"github.com/xavierca1/residence-leads/internal/usecase"
)

const defaultSendTimeout = 30 * time.Second

// AsyncNotifier sends in the background so SMTP latency never reaches the
// intake response. Used when no message broker is configured.
type AsyncNotifier struct {
	next    usecase.LeadNotifier
	log     logrus.FieldLogger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewAsyncNotifier(next usecase.LeadNotifier, log logrus.FieldLogger) *AsyncNotifier {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &AsyncNotifier{next: next, log: log, timeout: defaultSendTimeout}
}

func (n *AsyncNotifier) NotifyLeadCreated(ctx context.Context, lead *entity.Lead) error {
	snapshot := *lead

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
		defer cancel()

		if err := n.next.NotifyLeadCreated(sendCtx, &snapshot); err != nil {
			n.log.WithError(err).WithField("lead_id", snapshot.ID).Error("lead notification failed")
			return
		}
		n.log.WithField("lead_id", snapshot.ID).Info("lead notification sent")
	}()
	return nil
}

// Wait blocks until in-flight notifications finish.
func (n *AsyncNotifier) Wait() {
	n.wg.Wait()
}
