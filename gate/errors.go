package gate

import "errors"

// Sentinel errors returned by Gate.Authorize.
var (
	// ErrUnauthenticated is returned for the zero-value subject.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrUnauthorized is returned when the subject's profile lacks the permission.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotOwner is returned when the profile allows the action but the
	// resource policy rejects this particular subject.
	ErrNotOwner = errors.New("unauthorized: ownership check failed")
	// ErrNoPolicyDefined is returned for a resource type nobody registered.
	ErrNoPolicyDefined = errors.New("no policy defined for resource")
)

// IsDenied reports whether err is any of the authorization denials.
func IsDenied(err error) bool {
	return errors.Is(err, ErrUnauthenticated) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrNotOwner) ||
		errors.Is(err, ErrNoPolicyDefined)
}
