package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const bookingQueueName = "booking.confirmed"

// BookingStore is the slice of the seat repository the consumer needs: a
// conditional stamp that refuses rows already booked or no longer held by
// the owner.
type BookingStore interface {
	ConfirmBooking(ctx context.Context, tripID, ownerID, bookingID int64, seatNumbers []string) (int64, error)
}

// StartBookingConsumer connects to RabbitMQ, declares the booking.confirmed
// queue (durable), and starts consuming messages. Each message marks the
// named seats as booked for the owner that held them. The function runs a
// reconnect loop with backoff and keeps running indefinitely; processing
// errors are logged and the offending message is rejected without requeue
// so a poison message cannot wedge the queue.
func StartBookingConsumer(store BookingStore) {
	url := brokerURL()

	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("booking-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn, store); err != nil {
			log.Printf("booking-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
			continue
		}
	}
}

func consumeLoop(conn *amqp.Connection, store BookingStore) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("booking-consumer: set QoS failed: %v", err)
	}

	_, err = ch.QueueDeclare(bookingQueueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	deliveries, err := ch.Consume(bookingQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	for d := range deliveries {
		if err := handleBookingConfirmed(d.Body, store); err != nil {
			log.Printf("booking-consumer: %v", err)
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return fmt.Errorf("delivery channel closed")
}

// handleBookingConfirmed applies one confirmation message.  A confirmation
// for seats the owner no longer holds (the lease expired and someone else
// took them) is logged rather than retried: the booking service owns
// compensation for that race.
func handleBookingConfirmed(body []byte, store BookingStore) error {
	var evt BookingConfirmedEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		return fmt.Errorf("unmarshal booking.confirmed: %w", err)
	}
	if evt.BookingID == 0 || evt.TripID == 0 || len(evt.Seats) == 0 {
		return fmt.Errorf("booking.confirmed event %s missing fields", evt.EventID)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stamped, err := store.ConfirmBooking(ctx, evt.TripID, evt.OwnerID, evt.BookingID, evt.Seats)
	if err != nil {
		return fmt.Errorf("confirm booking %d: %w", evt.BookingID, err)
	}
	if stamped != int64(len(evt.Seats)) {
		log.Printf("booking-consumer: booking %d confirmed %d of %d seats (hold lost on the rest)",
			evt.BookingID, stamped, len(evt.Seats))
	} else {
		log.Printf("booking-consumer: booking %d confirmed on trip %d (%d seats)",
			evt.BookingID, evt.TripID, stamped)
	}
	return nil
}
