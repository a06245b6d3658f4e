// Package lib acts as a library for modules that do not fit strictly into
// other layers.
//
// It contains shared utilities (contact-data normalization), background job
// processing (Redis/Asynq), the Resend email client and dependency health
// probes.
package lib
