// Package netx provides the connectivity probe the sync core depends on.
// The probe is injected rather than read from a global so the core stays
// testable without a real network stack.
package netx

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/surveysync/internal/logging"
)

// Pinger is any collaborator that can answer a cheap reachability check.
// The remote document store satisfies this.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Probe reports current connectivity and notifies on regained connectivity.
// There is deliberately no offline event: the core only reacts to coming
// back online or to explicit write-time checks.
type Probe interface {
	IsOnline() bool
	OnRegainConnectivity(fn func())
}

// PingProbe derives connectivity from periodic pings against the remote.
// The offline->online edge fires all registered callbacks.
type PingProbe struct {
	pinger      Pinger
	pingTimeout time.Duration
	log         logging.Logger

	online atomic.Bool

	mu        sync.Mutex
	callbacks []func()
}

func NewPingProbe(pinger Pinger, pingTimeout time.Duration, log logging.Logger) *PingProbe {
	return &PingProbe{pinger: pinger, pingTimeout: pingTimeout, log: log}
}

func (p *PingProbe) IsOnline() bool {
	return p.online.Load()
}

func (p *PingProbe) OnRegainConnectivity(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.callbacks = append(p.callbacks, fn)
}

// SetOnline updates the connectivity flag and fires the regain callbacks
// when the state changes from offline to online.
func (p *PingProbe) SetOnline(online bool) {
	was := p.online.Swap(online)
	if was == online {
		return
	}

	if online {
		p.log.Info(context.Background(), "switched to online mode")
		p.mu.Lock()
		callbacks := make([]func(), len(p.callbacks))
		copy(callbacks, p.callbacks)
		p.mu.Unlock()
		for _, fn := range callbacks {
			fn()
		}
	} else {
		p.log.Info(context.Background(), "switched to offline mode")
	}
}

// Watch probes reachability on the given interval until ctx is cancelled.
func (p *PingProbe) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(context.Background(), p.pingTimeout)
			err := p.pinger.Ping(pingCtx)
			cancel()
			p.SetOnline(err == nil)
		case <-ctx.Done():
			return
		}
	}
}
