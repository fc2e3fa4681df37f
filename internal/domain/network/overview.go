package network

import "context"

// ListMyNetworks splits the user's active networks into the ones they
// created and the ones they joined as a member.
func (s *Service) ListMyNetworks(ctx context.Context, userID string) (*MyNetworks, error) {
	created, err := s.repo.ListCreatedNetworks(ctx, userID)
	if err != nil {
		return nil, err
	}
	joined, err := s.repo.ListJoinedNetworks(ctx, userID)
	if err != nil {
		return nil, err
	}

	if created == nil {
		created = []Network{}
	}
	if joined == nil {
		joined = []Network{}
	}
	return &MyNetworks{Created: created, Joined: joined}, nil
}

// NetworkOverview reads the counters straight from the repository so the
// result always reflects committed state.
func (s *Service) NetworkOverview(ctx context.Context, actorID, networkID string) (*Overview, error) {
	if _, err := s.GetNetwork(ctx, actorID, networkID); err != nil {
		return nil, err
	}

	members, err := s.repo.CountMembers(ctx, networkID)
	if err != nil {
		return nil, err
	}
	invitations, err := s.repo.CountPendingInvitations(ctx, networkID, s.now().UTC())
	if err != nil {
		return nil, err
	}
	requests, err := s.repo.CountPendingRequests(ctx, networkID)
	if err != nil {
		return nil, err
	}

	return &Overview{
		NetworkID:          networkID,
		MemberCount:        members,
		PendingInvitations: invitations,
		PendingRequests:    requests,
	}, nil
}
