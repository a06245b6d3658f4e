package email

// PreviewData contains sample template data for local preview and tests.
//
//	PreviewData[TemplateBookingReceived]["FirstName"] == "Anna"
var PreviewData = map[Template]map[string]string{
	TemplateBookingReceived: BookingReceived{
		FirstName:    "Anna",
		Service:      "Sunbed & umbrella",
		DateRequest:  "2024-12-25",
		TimeRequest:  "10:00",
		Participants: "2",
	}.Data(),
}
