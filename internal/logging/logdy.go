package logging

import (
	"fmt"
	"io"
	"strconv"

	"github.com/rs/zerolog/log"

	"camsentry/internal/config"

	"github.com/logdyhq/logdy-core/logdy"
)

type logdyWriter struct {
	ui logdy.Logdy
}

func (w *logdyWriter) Write(p []byte) (n int, err error) {
	// Forward raw line to Logdy UI
	w.ui.LogString(string(p))
	return len(p), nil
}

// StartLogdy starts the embedded Logdy web UI and returns a writer that
// tees log lines into it.
func StartLogdy(cfg *config.Config) (io.Writer, error) {
	port := strconv.Itoa(cfg.LogdyPort)
	ui := logdy.InitializeLogdy(logdy.Config{
		ServerIp:   cfg.LogdyHost,
		ServerPort: port,
	}, nil)

	log.Info().Str("url", fmt.Sprintf("http://%s:%s", cfg.LogdyHost, port)).Msg("Logdy UI available")
	return &logdyWriter{ui: ui}, nil
}
