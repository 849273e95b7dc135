package gate

// Action describes the kind of operation a user wants to perform.
type Action string

const (
	ActionView       Action = "view"
	ActionCreate     Action = "create"
	ActionUpdate     Action = "update"
	ActionDelete     Action = "delete"
	ActionList       Action = "list"
	ActionTransition Action = "transition"
)
