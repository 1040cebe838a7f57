package inkboard

import (
	"log/slog"

	"github.com/esimov/inkboard/internal/logger"
)

// SetLogger sets the logger used by every inkboard package. The packages are
// silent until a logger is set; passing nil silences them again.
func SetLogger(l *slog.Logger) {
	logger.Set(l)
}

// Logger returns the logger in use.
func Logger() *slog.Logger {
	return logger.L()
}
