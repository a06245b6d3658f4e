package email

// Template is a string-based enum naming email templates.
type Template string

const (
	// TemplateBookingReceived corresponds to templates/emails/booking_received.html
	TemplateBookingReceived Template = "booking_received"
)
