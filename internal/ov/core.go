package ov

import (
	"fmt"
	"time"

	"github.com/23skdu/arbalest/internal/logger"
	"github.com/23skdu/arbalest/internal/metrics"
)

var log = logger.Component("ov")

// Core is one initialized instance of the native inference runtime: loaded
// plugins and the device registry. Everything derived from it (networks,
// compiled networks, requests) is only valid while the Core is open.
type Core struct {
	h      coreHandle
	closed bool
}

// NewCore initializes the engine runtime. pluginsPath points at a plugin
// registry file; the empty string selects the engine's default discovery.
func NewCore(pluginsPath string) (*Core, error) {
	h, st := bridgeCoreCreate(pluginsPath)
	if err := statusErr("core_create", st); err != nil {
		return nil, err
	}
	log.Debug("engine core created", "plugins", pluginsPath)
	return &Core{h: h}, nil
}

// Close releases the runtime handle. Idempotent.
func (c *Core) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	bridgeCoreFree(c.h)
	c.h = nil
	return nil
}

// ReadNetwork loads a model from its topology/weights file pair into a
// mutable, pre-compilation Network.
func (c *Core) ReadNetwork(xmlPath, binPath string) (*Network, error) {
	if c.closed {
		return nil, fmt.Errorf("ov: core: %w", ErrClosed)
	}
	h, st := bridgeReadNetwork(c.h, xmlPath, binPath)
	if err := statusErr("read_network", st); err != nil {
		return nil, err
	}
	metrics.RecordNetworkLoaded()
	log.Info("network read", "topology", xmlPath, "weights", binPath)
	return &Network{h: h}, nil
}

// LoadNetwork compiles the network for the named device. On success the
// Network is consumed: its native handle moves into the compiled form and
// all further calls on it fail with ErrConsumed. On failure the Network
// stays usable.
func (c *Core) LoadNetwork(n *Network, device string) (*ExecutableNetwork, error) {
	if c.closed {
		return nil, fmt.Errorf("ov: core: %w", ErrClosed)
	}
	if err := n.guard(); err != nil {
		return nil, err
	}
	start := time.Now()
	h, st := bridgeLoadNetwork(c.h, n.h, device)
	if err := statusErr("load_network", st); err != nil {
		return nil, err
	}
	n.consumed = true
	n.h = nil
	metrics.RecordCompile(device, time.Since(start))
	log.Info("network compiled", "device", device, "duration", time.Since(start))
	return &ExecutableNetwork{h: h, device: device}, nil
}
