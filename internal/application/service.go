// Package application wires the engine's use cases over the message store:
// sending, ingesting external snapshots, aggregation views and receipt
// acknowledgments.
package application

import (
	"github.com/casedesk/caseline/internal/delivery"
	"github.com/casedesk/caseline/internal/events"
	"github.com/casedesk/caseline/internal/store"
)

type Service struct {
	store     store.MessageStore
	tracker   *delivery.Tracker
	publisher events.Publisher
}

func New(s store.MessageStore, t *delivery.Tracker, pub events.Publisher) *Service {
	return &Service{
		store:     s,
		tracker:   t,
		publisher: pub,
	}
}
