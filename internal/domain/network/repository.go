package network

import (
	"context"
	"time"
)

// Repository is the persistence contract of the network domain. Lookups of
// missing rows return the bare ErrNotFound (or ErrInvalidCode/ErrNotAMember
// where noted); the service attaches ids before handing them to callers.
type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	// LockNetwork loads an active network and holds a write lock on it until
	// the surrounding transaction ends. Mutations touching a network's
	// membership set must call it first.
	LockNetwork(ctx context.Context, networkID string) (*Network, error)
	GetNetwork(ctx context.Context, networkID string) (*Network, error)
	// GetNetworkByCode returns ErrInvalidCode when no active network uses code.
	GetNetworkByCode(ctx context.Context, code string) (*Network, error)
	CreateNetwork(ctx context.Context, network *Network) error
	UpdateNetwork(ctx context.Context, networkID, name string, description *string) error
	DeactivateNetwork(ctx context.Context, networkID string) error
	IsCodeTaken(ctx context.Context, code string) (bool, error)
	ListCreatedNetworks(ctx context.Context, userID string) ([]Network, error)
	ListJoinedNetworks(ctx context.Context, userID string) ([]Network, error)
	HasDefaultNetwork(ctx context.Context, userID string) (bool, error)

	// GetMember returns ErrNotAMember unless an active membership exists.
	GetMember(ctx context.Context, networkID, userID string) (*NetworkMember, error)
	ListMembers(ctx context.Context, networkID string) ([]NetworkMember, error)
	// SaveMember inserts the membership or reactivates the existing row for
	// the same (network, user) pair.
	SaveMember(ctx context.Context, member *NetworkMember) error
	DeactivateMember(ctx context.Context, networkID, userID string) error
	DeleteMembersByNetwork(ctx context.Context, networkID string) error
	CountMembers(ctx context.Context, networkID string) (int64, error)

	CreateInvitation(ctx context.Context, invitation *NetworkInvitation) error
	GetInvitation(ctx context.Context, invitationID string) (*NetworkInvitation, error)
	// FindPendingInvitation returns the pending row for the pair regardless
	// of expiry, or nil when there is none. With both fields set it matches
	// rows addressed to invitee.UserID and phone-only rows for invitee.Phone.
	FindPendingInvitation(ctx context.Context, networkID string, invitee Invitee) (*NetworkInvitation, error)
	UpdateInvitationStatus(ctx context.Context, invitationID string, status InvitationStatus, respondedAt *time.Time) error
	// ClaimInvitation records userID as the invitee of a phone-only row.
	ClaimInvitation(ctx context.Context, invitationID, userID string) error
	ListInvitationsForUser(ctx context.Context, userID, phone string, now time.Time) ([]NetworkInvitation, error)
	ListPendingInvitations(ctx context.Context, networkID string, now time.Time) ([]NetworkInvitation, error)
	CountPendingInvitations(ctx context.Context, networkID string, now time.Time) (int64, error)
	DeleteInvitationsByNetwork(ctx context.Context, networkID string) error

	CreateRequest(ctx context.Context, request *NetworkRequest) error
	GetRequest(ctx context.Context, requestID string) (*NetworkRequest, error)
	// FindPendingRequest returns nil when the requester has no pending row.
	FindPendingRequest(ctx context.Context, networkID, requesterID string) (*NetworkRequest, error)
	UpdateRequestStatus(ctx context.Context, requestID string, status RequestStatus, reviewerID string, reviewedAt time.Time) error
	ListPendingRequests(ctx context.Context, networkID string) ([]NetworkRequest, error)
	CountPendingRequests(ctx context.Context, networkID string) (int64, error)
	DeleteRequestsByNetwork(ctx context.Context, networkID string) error
}

// Directory maps between phone numbers and registered users.
type Directory interface {
	UserIDByPhone(ctx context.Context, phone string) (string, bool, error)
	PhoneByUserID(ctx context.Context, userID string) (string, bool, error)
}
