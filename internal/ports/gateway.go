package ports

import (
	"context"
	"encoding/json"
)

// Gateway is the single choke point for calls to the remote task
// service. Implementations attach the current credential, rewrite task
// endpoints into the user-scoped namespace, and classify failures into
// the domain error taxonomy.
//
// A nil RawMessage with a nil error means the service answered with an
// empty body (204 or zero content-length).
type Gateway interface {
	Request(ctx context.Context, method, endpoint string, body any) (json.RawMessage, error)
}
