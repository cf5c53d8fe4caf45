package events

import (
	"time"

	"github.com/IBM/sarama"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/bookgrove/catalog-service/pkg/kafka"
)

const (
	BookCreated  = "book.created"
	BookDeleted  = "book.deleted"
	BookBorrowed = "book.borrowed"
	BookReturned = "book.returned"
)

var marshal = jsoniter.ConfigCompatibleWithStandardLibrary.Marshal

type Event struct {
	Type       string    `json:"type"`
	BookID     string    `json:"bookId"`
	BorrowerID string    `json:"borrowerId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher emits catalog events best-effort: failures are logged and never
// fail the operation that produced them. A nil Publisher is a valid no-op.
type Publisher struct {
	producer sarama.SyncProducer
	log      *zap.Logger
}

func NewPublisher(producer sarama.SyncProducer, log *zap.Logger) *Publisher {
	return &Publisher{
		producer: producer,
		log:      log.Named("events"),
	}
}

func (p *Publisher) Publish(eventType, bookID, borrowerID string) {
	if p == nil || p.producer == nil {
		return
	}
	payload, err := marshal(Event{
		Type:       eventType,
		BookID:     bookID,
		BorrowerID: borrowerID,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		p.log.Error("marshal event", zap.Error(err))
		return
	}
	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: kafka.CatalogTopic,
		Key:   sarama.StringEncoder(bookID),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		p.log.Error("publish event",
			zap.String("type", eventType),
			zap.String("bookId", bookID),
			zap.Error(err))
	}
}
