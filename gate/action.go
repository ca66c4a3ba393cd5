package gate

// Action describes the kind of operation a subject wants to perform.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionList   Action = "list"
	// ActionAssign covers bulk reassignment of ownership (rebalancing).
	ActionAssign Action = "assign"
)

// Actions lists every action, in a stable order.
func Actions() []Action {
	return []Action{ActionList, ActionView, ActionCreate, ActionUpdate, ActionDelete, ActionAssign}
}
