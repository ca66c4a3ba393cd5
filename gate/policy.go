package gate

import "context"

// Policy holds the fine-grained rules for one resource type.
// U is the subject type. The profile check has already passed when Can runs,
// so a policy only has to decide about this subject and this resource.
type Policy[U any] interface {
	// Can returns true if subject may perform action on resource.
	// resource is nil for collection access.
	Can(ctx context.Context, subject U, action Action, resource any) bool
}

