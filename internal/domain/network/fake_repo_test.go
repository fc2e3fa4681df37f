package network

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"
)

type memberKey struct {
	networkID string
	userID    string
}

// fakeNetworkRepo serializes every transaction behind one mutex and rolls
// the maps back when fn fails, mirroring what a database transaction gives
// the service.
type fakeNetworkRepo struct {
	mu sync.Mutex

	networks    map[string]*Network
	members     map[memberKey]*NetworkMember
	invitations map[string]*NetworkInvitation
	requests    map[string]*NetworkRequest

	takenCodes map[string]bool
	// racedCodes pass IsCodeTaken but fail on insert, as when a concurrent
	// create commits the same code first.
	racedCodes map[string]bool
}

func newFakeNetworkRepo() *fakeNetworkRepo {
	return &fakeNetworkRepo{
		networks:    make(map[string]*Network),
		members:     make(map[memberKey]*NetworkMember),
		invitations: make(map[string]*NetworkInvitation),
		requests:    make(map[string]*NetworkRequest),
		takenCodes:  make(map[string]bool),
		racedCodes:  make(map[string]bool),
	}
}

func (r *fakeNetworkRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	networks := make(map[string]*Network, len(r.networks))
	for id, network := range r.networks {
		copied := *network
		networks[id] = &copied
	}
	members := make(map[memberKey]*NetworkMember, len(r.members))
	for key, member := range r.members {
		copied := *member
		members[key] = &copied
	}
	invitations := make(map[string]*NetworkInvitation, len(r.invitations))
	for id, invitation := range r.invitations {
		copied := *invitation
		invitations[id] = &copied
	}
	requests := make(map[string]*NetworkRequest, len(r.requests))
	for id, request := range r.requests {
		copied := *request
		requests[id] = &copied
	}

	if err := fn(r); err != nil {
		r.networks = networks
		r.members = members
		r.invitations = invitations
		r.requests = requests
		return err
	}
	return nil
}

func (r *fakeNetworkRepo) addNetwork(network Network, memberIDs ...string) *Network {
	if network.MaxMembers == 0 {
		network.MaxMembers = 50
	}
	network.IsActive = true
	r.networks[network.ID] = &network
	r.members[memberKey{network.ID, network.CreatorID}] = &NetworkMember{
		NetworkID: network.ID,
		UserID:    network.CreatorID,
		Role:      RoleCreator,
		IsActive:  true,
	}
	for _, userID := range memberIDs {
		r.members[memberKey{network.ID, userID}] = &NetworkMember{
			NetworkID: network.ID,
			UserID:    userID,
			Role:      RoleMember,
			IsActive:  true,
		}
	}
	return r.networks[network.ID]
}

func (r *fakeNetworkRepo) activeMembers(networkID string) []NetworkMember {
	result := make([]NetworkMember, 0)
	for _, member := range r.members {
		if member.NetworkID == networkID && member.IsActive {
			result = append(result, *member)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result
}

func (r *fakeNetworkRepo) LockNetwork(ctx context.Context, networkID string) (*Network, error) {
	return r.GetNetwork(ctx, networkID)
}

func (r *fakeNetworkRepo) GetNetwork(ctx context.Context, networkID string) (*Network, error) {
	network, ok := r.networks[networkID]
	if !ok || !network.IsActive {
		return nil, ErrNotFound
	}
	copied := *network
	return &copied, nil
}

func (r *fakeNetworkRepo) GetNetworkByCode(ctx context.Context, code string) (*Network, error) {
	for _, network := range r.networks {
		if network.IsActive && network.Code == code {
			copied := *network
			return &copied, nil
		}
	}
	return nil, ErrInvalidCode
}

func (r *fakeNetworkRepo) CreateNetwork(ctx context.Context, network *Network) error {
	if r.racedCodes[network.Code] {
		return ErrCodeTaken
	}
	for _, existing := range r.networks {
		if existing.IsActive && existing.Code == network.Code {
			return ErrCodeTaken
		}
	}
	copied := *network
	r.networks[network.ID] = &copied
	return nil
}

func (r *fakeNetworkRepo) UpdateNetwork(ctx context.Context, networkID, name string, description *string) error {
	network, ok := r.networks[networkID]
	if !ok {
		return ErrNotFound
	}
	network.Name = name
	network.Description = description
	return nil
}

func (r *fakeNetworkRepo) DeactivateNetwork(ctx context.Context, networkID string) error {
	network, ok := r.networks[networkID]
	if !ok {
		return ErrNotFound
	}
	network.IsActive = false
	return nil
}

func (r *fakeNetworkRepo) IsCodeTaken(ctx context.Context, code string) (bool, error) {
	if r.takenCodes[code] {
		return true, nil
	}
	for _, network := range r.networks {
		if network.IsActive && network.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeNetworkRepo) ListCreatedNetworks(ctx context.Context, userID string) ([]Network, error) {
	result := make([]Network, 0)
	for _, network := range r.networks {
		if network.IsActive && network.CreatorID == userID {
			result = append(result, *network)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *fakeNetworkRepo) ListJoinedNetworks(ctx context.Context, userID string) ([]Network, error) {
	result := make([]Network, 0)
	for key, member := range r.members {
		if key.userID != userID || !member.IsActive || member.Role != RoleMember {
			continue
		}
		network, ok := r.networks[key.networkID]
		if ok && network.IsActive {
			result = append(result, *network)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *fakeNetworkRepo) HasDefaultNetwork(ctx context.Context, userID string) (bool, error) {
	for _, network := range r.networks {
		if network.IsActive && network.IsDefault && network.CreatorID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeNetworkRepo) GetMember(ctx context.Context, networkID, userID string) (*NetworkMember, error) {
	member, ok := r.members[memberKey{networkID, userID}]
	if !ok || !member.IsActive {
		return nil, ErrNotAMember
	}
	copied := *member
	return &copied, nil
}

func (r *fakeNetworkRepo) ListMembers(ctx context.Context, networkID string) ([]NetworkMember, error) {
	return r.activeMembers(networkID), nil
}

func (r *fakeNetworkRepo) SaveMember(ctx context.Context, member *NetworkMember) error {
	copied := *member
	r.members[memberKey{member.NetworkID, member.UserID}] = &copied
	return nil
}

func (r *fakeNetworkRepo) DeactivateMember(ctx context.Context, networkID, userID string) error {
	member, ok := r.members[memberKey{networkID, userID}]
	if ok {
		member.IsActive = false
	}
	return nil
}

func (r *fakeNetworkRepo) DeleteMembersByNetwork(ctx context.Context, networkID string) error {
	for key := range r.members {
		if key.networkID == networkID {
			delete(r.members, key)
		}
	}
	return nil
}

func (r *fakeNetworkRepo) CountMembers(ctx context.Context, networkID string) (int64, error) {
	return int64(len(r.activeMembers(networkID))), nil
}

func (r *fakeNetworkRepo) CreateInvitation(ctx context.Context, invitation *NetworkInvitation) error {
	copied := *invitation
	r.invitations[invitation.ID] = &copied
	return nil
}

func (r *fakeNetworkRepo) GetInvitation(ctx context.Context, invitationID string) (*NetworkInvitation, error) {
	invitation, ok := r.invitations[invitationID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *invitation
	return &copied, nil
}

func (r *fakeNetworkRepo) FindPendingInvitation(ctx context.Context, networkID string, invitee Invitee) (*NetworkInvitation, error) {
	for _, invitation := range r.invitations {
		if invitation.NetworkID != networkID || invitation.Status != InvitationPending {
			continue
		}
		byID := invitee.UserID != "" && invitation.InviteeID != nil && *invitation.InviteeID == invitee.UserID
		byPhone := invitee.Phone != "" && invitation.InviteeID == nil &&
			invitation.InvitedPhone != nil && *invitation.InvitedPhone == invitee.Phone
		if byID || byPhone {
			copied := *invitation
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeNetworkRepo) UpdateInvitationStatus(ctx context.Context, invitationID string, status InvitationStatus, respondedAt *time.Time) error {
	invitation, ok := r.invitations[invitationID]
	if !ok {
		return ErrNotFound
	}
	invitation.Status = status
	invitation.RespondedAt = respondedAt
	return nil
}

func (r *fakeNetworkRepo) ClaimInvitation(ctx context.Context, invitationID, userID string) error {
	invitation, ok := r.invitations[invitationID]
	if !ok {
		return ErrNotFound
	}
	if invitation.InviteeID == nil {
		invitation.InviteeID = &userID
	}
	return nil
}

func (r *fakeNetworkRepo) ListInvitationsForUser(ctx context.Context, userID, phone string, now time.Time) ([]NetworkInvitation, error) {
	result := make([]NetworkInvitation, 0)
	for _, invitation := range r.invitations {
		if invitation.Pending(now) && invitation.AddressedTo(userID, phone) {
			result = append(result, *invitation)
		}
	}
	return result, nil
}

func (r *fakeNetworkRepo) ListPendingInvitations(ctx context.Context, networkID string, now time.Time) ([]NetworkInvitation, error) {
	result := make([]NetworkInvitation, 0)
	for _, invitation := range r.invitations {
		if invitation.NetworkID == networkID && invitation.Pending(now) {
			result = append(result, *invitation)
		}
	}
	return result, nil
}

func (r *fakeNetworkRepo) CountPendingInvitations(ctx context.Context, networkID string, now time.Time) (int64, error) {
	invitations, _ := r.ListPendingInvitations(ctx, networkID, now)
	return int64(len(invitations)), nil
}

func (r *fakeNetworkRepo) DeleteInvitationsByNetwork(ctx context.Context, networkID string) error {
	for id, invitation := range r.invitations {
		if invitation.NetworkID == networkID {
			delete(r.invitations, id)
		}
	}
	return nil
}

func (r *fakeNetworkRepo) CreateRequest(ctx context.Context, request *NetworkRequest) error {
	copied := *request
	r.requests[request.ID] = &copied
	return nil
}

func (r *fakeNetworkRepo) GetRequest(ctx context.Context, requestID string) (*NetworkRequest, error) {
	request, ok := r.requests[requestID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *request
	return &copied, nil
}

func (r *fakeNetworkRepo) FindPendingRequest(ctx context.Context, networkID, requesterID string) (*NetworkRequest, error) {
	for _, request := range r.requests {
		if request.NetworkID == networkID && request.RequesterID == requesterID && request.Status == RequestPending {
			copied := *request
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeNetworkRepo) UpdateRequestStatus(ctx context.Context, requestID string, status RequestStatus, reviewerID string, reviewedAt time.Time) error {
	request, ok := r.requests[requestID]
	if !ok {
		return ErrNotFound
	}
	request.Status = status
	request.ReviewerID = &reviewerID
	request.ReviewedAt = &reviewedAt
	return nil
}

func (r *fakeNetworkRepo) ListPendingRequests(ctx context.Context, networkID string) ([]NetworkRequest, error) {
	result := make([]NetworkRequest, 0)
	for _, request := range r.requests {
		if request.NetworkID == networkID && request.Status == RequestPending {
			result = append(result, *request)
		}
	}
	return result, nil
}

func (r *fakeNetworkRepo) CountPendingRequests(ctx context.Context, networkID string) (int64, error) {
	requests, _ := r.ListPendingRequests(ctx, networkID)
	return int64(len(requests)), nil
}

func (r *fakeNetworkRepo) DeleteRequestsByNetwork(ctx context.Context, networkID string) error {
	for id, request := range r.requests {
		if request.NetworkID == networkID {
			delete(r.requests, id)
		}
	}
	return nil
}

type fakeDirectory map[string]string

func (d fakeDirectory) UserIDByPhone(ctx context.Context, phone string) (string, bool, error) {
	userID, ok := d[phone]
	return userID, ok, nil
}

func (d fakeDirectory) PhoneByUserID(ctx context.Context, userID string) (string, bool, error) {
	for phone, id := range d {
		if id == userID {
			return phone, true, nil
		}
	}
	return "", false, nil
}

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(repo *fakeNetworkRepo) *Service {
	svc := NewService(repo, fakeDirectory{}, Config{})
	svc.now = func() time.Time { return testNow }
	counter := 0
	svc.newID = func() string {
		counter++
		return "id-" + strconv.Itoa(counter)
	}
	return svc
}
