package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func NewServiceLogger(service string) zerolog.Logger {
	return log.With().Str("service", service).Logger()
}

func WithEvent(base zerolog.Logger, eventID, location string) zerolog.Logger {
	return base.With().Str("event_id", eventID).Str("location", location).Logger()
}
