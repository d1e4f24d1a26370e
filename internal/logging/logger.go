package logging

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
)

func InitLogger(w io.Writer, level slog.Level) {
	handler := tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  level <= slog.LevelDebug,
	})

	slog.SetDefault(slog.New(handler))
}
