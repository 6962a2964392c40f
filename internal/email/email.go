package email

import (
	"context"

	"github.com/Domenick1991/travelbook/internal/kafka"
	"go.uber.org/zap"
)

type Sender struct {
	log *zap.Logger
}

func NewSender(log *zap.Logger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	s.log.Info("send email",
		zap.String("to", event.UserEmail),
		zap.String("event", event.Type),
		zap.String("reference", event.Reference),
		zap.Int64("ticket_id", event.TicketID),
		zap.Int("seats", event.NumberOfSeats),
	)
	return nil
}
