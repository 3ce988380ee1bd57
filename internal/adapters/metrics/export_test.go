package metrics

import (
	"context"
	"net"
)

// ServeListener exposes serve for tests that need an ephemeral port.
func (p *Prometheus) ServeListener(ctx context.Context, ln net.Listener) error {
	return p.serve(ctx, ln)
}
