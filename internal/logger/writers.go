package logger

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// WriterStrategy wraps a raw output in the encoding of one log format
type WriterStrategy interface {
	CreateWriter(out io.Writer) io.Writer
}

// JSONWriterStrategy emits zerolog's native JSON lines
type JSONWriterStrategy struct{}

// CreateWriter returns out unchanged
func (s *JSONWriterStrategy) CreateWriter(out io.Writer) io.Writer {
	return out
}

// ConsoleWriterStrategy emits human readable, optionally colored lines
type ConsoleWriterStrategy struct {
	NoColor bool
}

// CreateWriter wraps out in a zerolog.ConsoleWriter
func (s *ConsoleWriterStrategy) CreateWriter(out io.Writer) io.Writer {
	return zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    s.NoColor,
		TimeFormat: time.RFC3339,
	}
}

// TextWriterStrategy emits plain "time | LEVEL | message key=value" lines
type TextWriterStrategy struct{}

// CreateWriter wraps out in an uncolored ConsoleWriter with pipe separators
func (s *TextWriterStrategy) CreateWriter(out io.Writer) io.Writer {
	return zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    true,
		TimeFormat: "2006-01-02 15:04:05",
		PartsOrder: []string{
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
			zerolog.MessageFieldName,
		},
		FormatLevel: func(i interface{}) string {
			return fmt.Sprintf("| %-5s |", strings.ToUpper(fmt.Sprint(i)))
		},
	}
}
