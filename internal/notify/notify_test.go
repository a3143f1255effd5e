package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/tripplanner/internal/models"
	"github.com/dharmasatrya/tripplanner/pkg/currency"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func planned() ItineraryPlanned {
	it := &models.Itinerary{
		ID:          "ITN1A2B3C4D",
		Status:      models.StatusComplete,
		Destination: models.Destination{City: "Dubai"},
		StartDate:   models.NewDate(2025, time.May, 9),
		EndDate:     models.NewDate(2025, time.May, 14),
		Travelers:   2,
		TotalCost:   currency.FromMajor(3736, "USD"),
		References: []models.BookingReference{{
			Category: models.CategoryOutboundFlight,
			ItemID:   "qr702-2025-05-09-economy",
			Code:     "OF0123456789",
			Status:   models.ReferenceConfirmed,
			Amount:   currency.FromMajor(620, "USD"),
		}},
	}
	return NewItineraryPlanned(it, "traveler@example.com", time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC))
}

func TestNewItineraryPlanned(t *testing.T) {
	e := planned()

	assert.Equal(t, EventItineraryPlanned, e.Type)
	assert.Equal(t, "ITN1A2B3C4D", e.ItineraryID)
	assert.Equal(t, "traveler@example.com", e.ContactEmail)
	assert.Equal(t, "Dubai", e.Destination)
	assert.Len(t, e.References, 1)
	assert.Empty(t, e.Omitted)
}

func TestKafkaPublisher_KeysByItinerary(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w, topic: "itineraries"}

	require.NoError(t, p.Publish(context.Background(), planned()))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "ITN1A2B3C4D", string(msg.Key))
	assert.Equal(t, "event-type", msg.Headers[0].Key)
	assert.Equal(t, EventItineraryPlanned, string(msg.Headers[0].Value))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "traveler@example.com", decoded["contact_email"])
	assert.Equal(t, "2025-05-09", decoded["start_date"])
}

func TestKafkaPublisher_WrapsWriteErrors(t *testing.T) {
	broker := errors.New("broker down")
	p := &KafkaPublisher{writer: &fakeWriter{err: broker}, topic: "itineraries"}

	err := p.Publish(context.Background(), planned())
	assert.ErrorIs(t, err, broker)
	assert.Contains(t, err.Error(), "itineraries")
}

func TestKafkaPublisher_Close(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w, topic: "itineraries"}

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNewKafkaPublisher(t *testing.T) {
	p := NewKafkaPublisher(KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "itineraries"})
	assert.Equal(t, "itineraries", p.Topic())

	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, 10*time.Millisecond, w.BatchTimeout)
	assert.NoError(t, p.Close())
}

func TestNoOpPublisher(t *testing.T) {
	p := NewNoOpPublisher()
	assert.NoError(t, p.Publish(context.Background(), planned()))
	assert.NoError(t, p.Close())
}
