// Package logging centralizes the coordinator's zerolog setup: every
// component gets a named, timestamped logger carrying the same structured
// field keys so a room's log lines can be grep'd across the actor,
// session, and admission layers.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	RoomIDKey     string = "roomID"
	PlayerIDKey   string = "playerID"
	HandNumberKey string = "handNo"
	SeatKey       string = "seat"
	FrameTypeKey  string = "frameType"
)

func getEnableColorLog() string {
	v := os.Getenv("COLORIZE_LOG")
	if v == "" {
		return "true"
	}
	return v
}

func IsColorLoggingEnabled() bool {
	return getEnableColorLog() == "1" || strings.ToLower(getEnableColorLog()) == "true"
}

// GetZeroLogger returns a timestamped logger named `name`, writing to out
// (os.Stdout if nil).
func GetZeroLogger(name string, out io.Writer) *zerolog.Logger {
	if out == nil {
		out = os.Stdout
	}
	noColor := !IsColorLoggingEnabled()
	output := zerolog.ConsoleWriter{Out: out, NoColor: noColor, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Str("logger", name).Logger()
	return &logger
}
