package network

import "testing"

func TestCanMatrix(t *testing.T) {
	regular := Network{ID: "net-1", IsActive: true}
	protected := Network{ID: "net-2", IsActive: true, IsDefault: true}

	tests := []struct {
		role    Role
		action  Action
		network Network
		want    bool
	}{
		{RoleCreator, ActionUpdate, regular, true},
		{RoleCreator, ActionDelete, regular, true},
		{RoleCreator, ActionUpdate, protected, false},
		{RoleCreator, ActionDelete, protected, false},
		{RoleMember, ActionUpdate, regular, false},
		{RoleMember, ActionDelete, regular, false},
		{RoleNone, ActionDelete, regular, false},

		{RoleCreator, ActionRemoveMember, regular, true},
		{RoleCreator, ActionRemoveMember, protected, true},
		{RoleMember, ActionRemoveMember, regular, false},
		{RoleCreator, ActionReviewRequest, regular, true},
		{RoleMember, ActionReviewRequest, regular, false},

		{RoleCreator, ActionInvite, regular, true},
		{RoleMember, ActionInvite, protected, true},
		{RoleNone, ActionInvite, regular, false},

		{RoleMember, ActionLeave, regular, true},
		{RoleCreator, ActionLeave, regular, false},
		{RoleNone, ActionLeave, regular, false},

		{RoleNone, ActionJoin, regular, true},
		{RoleNone, ActionRequestJoin, protected, true},
		{RoleMember, ActionJoin, regular, false},
		{RoleCreator, ActionRequestJoin, regular, false},
		{RoleNone, ActionJoin, Network{ID: "gone"}, false},

		{RoleMember, ActionView, regular, true},
		{RoleNone, ActionView, regular, false},
		{RoleCreator, Action("unknown"), regular, false},
	}

	for _, tc := range tests {
		if got := Can(tc.role, tc.action, tc.network); got != tc.want {
			t.Fatalf("Can(%q, %q, default=%v): expected %v, got %v", tc.role, tc.action, tc.network.IsDefault, tc.want, got)
		}
	}
}
