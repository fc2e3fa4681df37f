package network

type Action string

const (
	ActionView          Action = "view"
	ActionUpdate        Action = "update"
	ActionDelete        Action = "delete"
	ActionRemoveMember  Action = "remove_member"
	ActionReviewRequest Action = "review_request"
	ActionInvite        Action = "invite"
	ActionLeave         Action = "leave"
	ActionJoin          Action = "join"
	ActionRequestJoin   Action = "request_join"
)

// Can decides whether an actor holding role on network may perform action.
// It has no side effects and does not look at capacity; capacity is checked
// by the membership operations under the network lock.
func Can(role Role, action Action, network Network) bool {
	switch action {
	case ActionUpdate, ActionDelete:
		return role == RoleCreator && !network.Protected()
	case ActionRemoveMember, ActionReviewRequest:
		return role == RoleCreator
	case ActionInvite, ActionView:
		return role == RoleCreator || role == RoleMember
	case ActionLeave:
		return role == RoleMember
	case ActionJoin, ActionRequestJoin:
		return role == RoleNone && network.IsActive
	default:
		return false
	}
}
