package contextual

import (
	"context"

	"github.com/archsetup/arch-setup-utils/internal/system"
)

// hostKey is used to set and retrieve context held values for Host.
var hostKey = struct{}{}

// WithHost extends the context to provide a Host.
func WithHost(ctx context.Context, host *system.Host) context.Context {
	return context.WithValue(ctx, hostKey, host)
}

// Host fetches the scanned system Host provided in ctx.
func Host(ctx context.Context) *system.Host {
	if val := ctx.Value(hostKey); val != nil {
		if v, ok := val.(*system.Host); ok {
			return v
		}
		panic("incoherent context")
	}

	return nil
}
