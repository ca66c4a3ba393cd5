package policy

import "github.com/diewo77/epic-crm/gate"

// Ownable is implemented by records that have an owning identity.
// GetUserID returns 0 when the record is unowned.
type Ownable interface {
	GetUserID() uint
}

// OwnerRef is a bare owner id, used as the gate target when only the owner is
// known (e.g. the client's sales contact on event creation).
type OwnerRef uint

func (o OwnerRef) GetUserID() uint { return uint(o) }

// ownerOf returns the owner of resource. ok is false for collection access
// (nil resource). Resources that are not Ownable report owner 0, which no
// requester matches.
func ownerOf(resource any) (owner uint, ok bool) {
	if resource == nil {
		return 0, false
	}
	if o, isOwnable := resource.(Ownable); isOwnable {
		return o.GetUserID(), true
	}
	return 0, true
}

// isOwner is the ownership-equality gate. An unowned record has no owner to match.
func isOwner(r Requester, owner uint) bool {
	return owner != 0 && owner == r.ID
}

// collectionAction reports whether action is allowed without a target.
func collectionAction(action gate.Action) bool {
	switch action {
	case gate.ActionList, gate.ActionCreate, gate.ActionAssign:
		return true
	}
	return false
}

// readAction is list for a nil target, view otherwise.
func readAction(target Ownable) gate.Action {
	if target == nil {
		return gate.ActionList
	}
	return gate.ActionView
}
