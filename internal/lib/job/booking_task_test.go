package job

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBookingReceivedTask(t *testing.T) {
	p := BookingReceivedPayload{
		CustomerID:   "gid://shopify/Customer/7001",
		To:           "anna@example.com",
		FirstName:    "Anna",
		Service:      "Sunbed & umbrella",
		Participants: "2",
	}

	task, err := NewBookingReceivedTask(p)
	require.NoError(t, err)

	assert.Equal(t, TaskBookingReceived, task.Type())

	var got BookingReceivedPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &got))
	assert.Equal(t, p, got)

}
