package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/leadsync/internal/entity"
)

var errMalformedEvent = errors.New("malformed sync event")

// SyncNotifier recebe cada evento consumido (ex.: relatório por e-mail).
type SyncNotifier interface {
	SendSyncReport(ctx context.Context, event entity.SyncEvent) error
}

type channelConsumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel  channelConsumer
	Notifier SyncNotifier
}

func NewWorker(ch channelConsumer, notifier SyncNotifier) *Worker {
	return &Worker{
		Channel:  ch,
		Notifier: notifier,
	}
}

// Start consome até o ctx ser cancelado ou o canal fechar. Ack manual.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	log.Printf(" [*] Worker rodando e aguardando na fila '%s'", queueName)
	for {
		select {
		case <-ctx.Done():
			log.Println("🛑 [WORKER] Encerrando consumidor")
			return nil
		case d, ok := <-msgs:
			if !ok {
				log.Println("⚠️ [WORKER] Canal de entregas fechado")
				return nil
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	log.Printf("📥 [WORKER] Mensagem recebida do RabbitMQ")

	if err := w.process(ctx, d.Body); err != nil {
		log.Printf("❌ [WORKER] %v", err)
		// sem requeue: a mensagem vai para a DLQ
		if nackErr := d.Nack(false, false); nackErr != nil {
			log.Printf("⚠️ [WORKER] Nack falhou: %v", nackErr)
		}
		return
	}

	if err := d.Ack(false); err != nil {
		log.Printf("⚠️ [WORKER] Ack falhou: %v", err)
	}
}

func (w *Worker) process(ctx context.Context, body []byte) error {
	var event entity.SyncEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%w: %v", errMalformedEvent, err)
	}
	if event.UserID == "" || event.Status == "" {
		return fmt.Errorf("%w: user_id and status are required", errMalformedEvent)
	}

	log.Printf("⚙️ [WORKER] Evento de sync %s para usuário %s (%d linhas)", event.Status, event.UserID, event.RowsSynced)

	if w.Notifier == nil {
		return nil
	}
	if err := w.Notifier.SendSyncReport(ctx, event); err != nil {
		return fmt.Errorf("erro ao notificar sync do usuário %s: %w", event.UserID, err)
	}

	log.Printf("✅ [WORKER] Evento do usuário %s processado", event.UserID)
	return nil
}
