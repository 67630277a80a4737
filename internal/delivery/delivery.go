// Package delivery defines the long-running servers the application exposes.
package delivery

import "context"

// Delivery is a server started once the fx graph is built. Serve blocks
// until the server stops.
type Delivery interface {
	Serve(ctx context.Context) error
}
