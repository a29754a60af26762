package model

import (
	"context"
	"net"
)

// ListenNetwork is the network both API servers listen on.
const ListenNetwork = "tcp"

// SecurityLayer opens listeners for a server, either plain or TLS wrapped.
type SecurityLayer interface {
	Listen(network, addr string) (net.Listener, error)
}

// Server is one of the API servers run by main. Start blocks until the
// server stops; Stop drains it within ctx.
type Server interface {
	Start(securityLayer SecurityLayer) error
	Stop(ctx context.Context) error
	Address() string
}
