// Package events holds the contract shared by booking and rule events so the
// outbox can encode them without knowing either aggregate.
package events

import "time"

// DomainEvent is a fact recorded after the engine commits a mutation.
type DomainEvent interface {
	// EventName is the dotted name used as the CloudEvents type prefix,
	// e.g. "booking.created".
	EventName() string
	// AggregateID is the booking id for booking events and the property id
	// for rule events; the relay uses it as the Kafka key.
	AggregateID() string
	// OccurredAt is the commit time in UTC.
	OccurredAt() time.Time
}
