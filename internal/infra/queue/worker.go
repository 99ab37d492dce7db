package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
	"github.com/xavierca1/residence-leads/internal/usecase"
)

type consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

// Worker drains lead.created events into a downstream notifier (mail).
type Worker struct {
	Channel  consumer
	Notifier usecase.LeadNotifier
	Log      logrus.FieldLogger
}

func NewWorker(ch consumer, notifier usecase.LeadNotifier, log logrus.FieldLogger) *Worker {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Worker{Channel: ch, Notifier: notifier, Log: log}
}

// Start blocks until ctx is cancelled or the delivery channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	w.Log.WithField("queue", queueName).Info("lead notification worker started")

	for {
		select {
		case <-ctx.Done():
			w.Log.Info("lead notification worker stopped")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			w.handle(ctx, d)
		}
	}
}

type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	w.process(ctx, d.Body, &d)
}

// process never requeues; failed messages go to the DLQ.
func (w *Worker) process(ctx context.Context, body []byte, ack acknowledger) {
	var event LeadCreatedEvent
	if err := json.Unmarshal(body, &event); err != nil || event.Lead == nil {
		w.Log.WithError(err).Warn("malformed lead event, dead-lettering")
		ack.Nack(false, false)
		return
	}

	log := w.Log.WithField("lead_id", event.LeadID)
	if err := w.Notifier.NotifyLeadCreated(ctx, event.Lead); err != nil {
		log.WithError(err).Error("lead notification failed")
		ack.Nack(false, false)
		return
	}

	log.Info("lead notification sent")
	ack.Ack(false)
}
