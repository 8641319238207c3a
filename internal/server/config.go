package server

import (
	"github.com/auriti-labs/geo-optimizer/internal/app"
	"github.com/auriti-labs/geo-optimizer/internal/logging"
)

// DefaultListenAddr is where `geo web` listens unless told otherwise.
const DefaultListenAddr = "127.0.0.1:8000"

type Config struct {
	// ListenAddr is the HTTP listen address for the web server.
	ListenAddr string

	// AppConfig configures the Application the server creates. Nil means
	// app.DefaultConfig().
	AppConfig *app.Config

	Logger logging.Logger
}
