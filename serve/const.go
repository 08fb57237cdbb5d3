package serve

import (
	"time"
)

const (
	SocketCodeUnknownProtocol = 3000
	SocketCodeExcessTraffic   = 3001
	SocketCodeBadRequest      = 3002

	helloTimeout = time.Second * 10 // how long to allow for initial handshake
)
