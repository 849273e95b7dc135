package gate

import "context"

// Policy defines authorization rules for a resource type.
// U is the user/subject type (e.g. uint for userID).
type Policy[U any] interface {
	// Can returns true if user is authorized to perform action on resource.
	// For list/create, resource may be nil (context-only check).
	Can(ctx context.Context, user U, action Action, resource any) bool
}

// PolicyFunc adapts a function to the Policy interface.
type PolicyFunc[U any] func(ctx context.Context, user U, action Action, resource any) bool

func (f PolicyFunc[U]) Can(ctx context.Context, user U, action Action, resource any) bool {
	return f(ctx, user, action, resource)
}
