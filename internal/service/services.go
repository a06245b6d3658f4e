// Package service contains the business logic.
//
// It sits between the handler layer and the remote customer platform. It
// receives validated bookings from the handler, maps them onto remote calls,
// and decides what happens when a step fails.
package service

import (
	"github.com/sarabibeach/booking-intake/internal/lib/job"
	"github.com/sarabibeach/booking-intake/internal/server"
)

type Services struct {
	Intake *IntakeService
	Job    *job.JobService
}

func NewServices(s *server.Server) (*Services, error) {
	var notifier Notifier
	if s.Job != nil && s.Config.Notifications.Enabled {
		notifier = s.Job
	}

	return &Services{
		Intake: NewIntakeService(s.Shopify, s.Config, notifier),
		Job:    s.Job,
	}, nil
}
