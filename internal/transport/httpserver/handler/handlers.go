package handler

import (
	"context"

	networkdomain "deprem-network-go/internal/domain/network"
	"deprem-network-go/pkg/logger"
)

type NetworkService interface {
	CreateNetwork(ctx context.Context, ownerID string, params networkdomain.CreateParams) (*networkdomain.Network, error)
	ProvisionDefaults(ctx context.Context, ownerID string) ([]networkdomain.Network, error)
	GetNetwork(ctx context.Context, actorID, networkID string) (*networkdomain.Network, error)
	UpdateNetwork(ctx context.Context, actorID, networkID string, params networkdomain.UpdateParams) (*networkdomain.Network, error)
	DeleteNetwork(ctx context.Context, actorID, networkID string) error
	ListMembers(ctx context.Context, actorID, networkID string) ([]networkdomain.NetworkMember, error)

	JoinByCode(ctx context.Context, userID, code string) (*networkdomain.NetworkMember, error)
	LeaveNetwork(ctx context.Context, userID, networkID string) error
	RemoveMember(ctx context.Context, actorID, networkID, targetID string) error

	Invite(ctx context.Context, actorID, networkID string, invitee networkdomain.Invitee, message *string) (*networkdomain.NetworkInvitation, error)
	RespondToInvitation(ctx context.Context, actor networkdomain.Actor, invitationID string, accept bool) (*networkdomain.NetworkInvitation, error)
	CancelInvitation(ctx context.Context, actorID, invitationID string) (*networkdomain.NetworkInvitation, error)
	ListMyInvitations(ctx context.Context, actor networkdomain.Actor) ([]networkdomain.NetworkInvitation, error)
	ListNetworkInvitations(ctx context.Context, actorID, networkID string) ([]networkdomain.NetworkInvitation, error)

	RequestToJoin(ctx context.Context, userID, networkID string, message *string) (*networkdomain.NetworkRequest, error)
	RespondToRequest(ctx context.Context, actorID, requestID string, approve bool) (*networkdomain.NetworkRequest, error)
	ListNetworkRequests(ctx context.Context, actorID, networkID string) ([]networkdomain.NetworkRequest, error)

	ListMyNetworks(ctx context.Context, userID string) (*networkdomain.MyNetworks, error)
	NetworkOverview(ctx context.Context, actorID, networkID string) (*networkdomain.Overview, error)
}

type Handlers struct {
	Networks NetworkService
	log      logger.Logger
}

func New(networks NetworkService, log logger.Logger) *Handlers {
	return &Handlers{
		Networks: networks,
		log:      log,
	}
}
