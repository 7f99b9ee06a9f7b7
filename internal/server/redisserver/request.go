package redisserver

// Request is a decoded client command. The set of implementations is closed:
// Ping, Echo, Set, Get, Keys, ConfigGet and Unknown.
type Request interface {
	// Name returns the upper-case command name used for logging and metrics.
	Name() string

	isRequest()
}

// Ping is PING.
type Ping struct{}

// Echo is ECHO <message>.
type Echo struct {
	Message string
}

// Set is SET <key> <value> [PX <milliseconds>].
type Set struct {
	Key   string
	Value string
	// ExpiryMS is the relative expiry in milliseconds. Only meaningful when HasExpiry is set.
	ExpiryMS  uint64
	HasExpiry bool
}

// Get is GET <key>.
type Get struct {
	Key string
}

// Keys is KEYS <pattern>.
type Keys struct {
	Pattern string
}

// ConfigGet is CONFIG GET <parameter>.
type ConfigGet struct {
	Parameter string
}

// Unknown is a well-framed request naming an unsupported command or using an
// unsupported arity.
type Unknown struct {
	Command string
}

func (Ping) Name() string      { return "PING" }
func (Echo) Name() string      { return "ECHO" }
func (Set) Name() string       { return "SET" }
func (Get) Name() string       { return "GET" }
func (Keys) Name() string      { return "KEYS" }
func (ConfigGet) Name() string { return "CONFIG" }
func (Unknown) Name() string   { return "UNKNOWN" }

func (Ping) isRequest()      {}
func (Echo) isRequest()      {}
func (Set) isRequest()       {}
func (Get) isRequest()       {}
func (Keys) isRequest()      {}
func (ConfigGet) isRequest() {}
func (Unknown) isRequest()   {}
