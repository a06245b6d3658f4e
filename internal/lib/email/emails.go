package email

import "context"

// BookingReceived is the data shown in the booking-received email.
type BookingReceived struct {
	To           string
	FirstName    string
	Service      string
	DateRequest  string
	TimeRequest  string
	Participants string
	StaffEmail   string
}

// Data returns the template variables. Keys must match booking_received.html.
func (b BookingReceived) Data() map[string]string {
	return map[string]string{
		"FirstName":    b.FirstName,
		"Service":      b.Service,
		"DateRequest":  b.DateRequest,
		"TimeRequest":  b.TimeRequest,
		"Participants": b.Participants,
	}
}

// SendBookingReceivedEmail confirms to the customer that the booking request
// arrived, with the staff address in blind copy.
func (c *Client) SendBookingReceivedEmail(ctx context.Context, b BookingReceived) error {
	return c.SendEmail(
		ctx,
		b.To,
		b.StaffEmail,
		"We received your booking request",
		TemplateBookingReceived,
		b.Data(),
	)
}
