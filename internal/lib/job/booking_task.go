package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TaskBookingReceived is the job type name stored in Redis.
	TaskBookingReceived = "email:booking_received"
)

// BookingReceivedPayload is the JSON payload of the booking-received task.
//
// It carries only what the email shows; the booking itself lives on the
// remote customer record.
type BookingReceivedPayload struct {
	CustomerID   string `json:"customer_id"`
	To           string `json:"to"`
	FirstName    string `json:"first_name"`
	Service      string `json:"service,omitempty"`
	DateRequest  string `json:"date_request,omitempty"`
	TimeRequest  string `json:"time_request,omitempty"`
	Participants string `json:"participants,omitempty"`
	StaffEmail   string `json:"staff_email,omitempty"`
}

// NewBookingReceivedTask constructs an Asynq task for the booking-received email.
//
//   - MaxRetry(3): retry up to 3 times on failure
//   - Queue("default"): send into the "default" queue
//   - Timeout(30s): kill the task if the handler runs longer than 30 seconds
func NewBookingReceivedTask(p BookingReceivedPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskBookingReceived,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30*time.Second),
	), nil
}
