package network

import (
	"context"
	"errors"
	"time"

	networkdomain "deprem-network-go/internal/domain/network"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	uniqueViolation     = "23505"
	activeCodeIndexName = "uq_networks_active_code"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(networkdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) LockNetwork(ctx context.Context, networkID string) (*networkdomain.Network, error) {
	if !validID(networkID) {
		return nil, networkdomain.ErrNotFound
	}
	var network networkdomain.Network
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND is_active = ?", networkID, true).
		First(&network).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, networkdomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &network, nil
}

func (r *PostgresRepository) GetNetwork(ctx context.Context, networkID string) (*networkdomain.Network, error) {
	if !validID(networkID) {
		return nil, networkdomain.ErrNotFound
	}
	var network networkdomain.Network
	err := r.db.WithContext(ctx).Where("id = ? AND is_active = ?", networkID, true).First(&network).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, networkdomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &network, nil
}

func (r *PostgresRepository) GetNetworkByCode(ctx context.Context, code string) (*networkdomain.Network, error) {
	var network networkdomain.Network
	err := r.db.WithContext(ctx).Where("code = ? AND is_active = ?", code, true).First(&network).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, networkdomain.ErrInvalidCode
	}
	if err != nil {
		return nil, err
	}
	return &network, nil
}

// CreateNetwork inserts under a savepoint when called inside a transaction,
// so losing the code to a concurrent create leaves the transaction usable
// for the next attempt.
func (r *PostgresRepository) CreateNetwork(ctx context.Context, network *networkdomain.Network) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(network).Error
	})
	if isCodeConflict(err) {
		return networkdomain.ErrCodeTaken
	}
	return err
}

func (r *PostgresRepository) UpdateNetwork(ctx context.Context, networkID, name string, description *string) error {
	return r.db.WithContext(ctx).Model(&networkdomain.Network{}).
		Where("id = ?", networkID).
		Updates(map[string]interface{}{
			"name":        name,
			"description": description,
			"updated_at":  time.Now().UTC(),
		}).Error
}

func (r *PostgresRepository) DeactivateNetwork(ctx context.Context, networkID string) error {
	return r.db.WithContext(ctx).Model(&networkdomain.Network{}).
		Where("id = ?", networkID).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *PostgresRepository) IsCodeTaken(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&networkdomain.Network{}).
		Where("code = ? AND is_active = ?", code, true).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) ListCreatedNetworks(ctx context.Context, userID string) ([]networkdomain.Network, error) {
	var networks []networkdomain.Network
	if err := r.db.WithContext(ctx).
		Where("creator_id = ? AND is_active = ?", userID, true).
		Order("created_at asc").
		Find(&networks).Error; err != nil {
		return nil, err
	}
	return networks, nil
}

func (r *PostgresRepository) ListJoinedNetworks(ctx context.Context, userID string) ([]networkdomain.Network, error) {
	var networks []networkdomain.Network
	if err := r.db.WithContext(ctx).
		Table("networks").
		Select("networks.*").
		Joins("join network_members on network_members.network_id = networks.id").
		Where("network_members.user_id = ? AND network_members.role = ? AND network_members.is_active = ? AND networks.is_active = ?",
			userID, networkdomain.RoleMember, true, true).
		Order("network_members.joined_at asc").
		Find(&networks).Error; err != nil {
		return nil, err
	}
	return networks, nil
}

func (r *PostgresRepository) HasDefaultNetwork(ctx context.Context, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&networkdomain.Network{}).
		Where("creator_id = ? AND is_default = ? AND is_active = ?", userID, true, true).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) GetMember(ctx context.Context, networkID, userID string) (*networkdomain.NetworkMember, error) {
	if !validID(networkID) {
		return nil, networkdomain.ErrNotAMember
	}
	var member networkdomain.NetworkMember
	err := r.db.WithContext(ctx).
		Where("network_id = ? AND user_id = ? AND is_active = ?", networkID, userID, true).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, networkdomain.ErrNotAMember
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) ListMembers(ctx context.Context, networkID string) ([]networkdomain.NetworkMember, error) {
	var members []networkdomain.NetworkMember
	if err := r.db.WithContext(ctx).
		Where("network_id = ? AND is_active = ?", networkID, true).
		Order("joined_at asc").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *PostgresRepository) SaveMember(ctx context.Context, member *networkdomain.NetworkMember) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "network_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"role", "is_active", "joined_at"}),
		}).
		Create(member).Error
}

func (r *PostgresRepository) DeactivateMember(ctx context.Context, networkID, userID string) error {
	return r.db.WithContext(ctx).Model(&networkdomain.NetworkMember{}).
		Where("network_id = ? AND user_id = ?", networkID, userID).
		Update("is_active", false).Error
}

func (r *PostgresRepository) DeleteMembersByNetwork(ctx context.Context, networkID string) error {
	return r.db.WithContext(ctx).Where("network_id = ?", networkID).Delete(&networkdomain.NetworkMember{}).Error
}

func (r *PostgresRepository) CountMembers(ctx context.Context, networkID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&networkdomain.NetworkMember{}).
		Where("network_id = ? AND is_active = ?", networkID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) CreateInvitation(ctx context.Context, invitation *networkdomain.NetworkInvitation) error {
	return r.db.WithContext(ctx).Create(invitation).Error
}

func (r *PostgresRepository) GetInvitation(ctx context.Context, invitationID string) (*networkdomain.NetworkInvitation, error) {
	if !validID(invitationID) {
		return nil, networkdomain.ErrNotFound
	}
	var invitation networkdomain.NetworkInvitation
	err := r.db.WithContext(ctx).Where("id = ?", invitationID).First(&invitation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, networkdomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

func (r *PostgresRepository) FindPendingInvitation(ctx context.Context, networkID string, invitee networkdomain.Invitee) (*networkdomain.NetworkInvitation, error) {
	query := r.db.WithContext(ctx).
		Where("network_id = ? AND status = ?", networkID, networkdomain.InvitationPending)

	switch {
	case invitee.UserID != "" && invitee.Phone != "":
		query = query.Where("(invitee_id = ? OR (invitee_id IS NULL AND invited_phone = ?))", invitee.UserID, invitee.Phone)
	case invitee.UserID != "":
		query = query.Where("invitee_id = ?", invitee.UserID)
	case invitee.Phone != "":
		query = query.Where("invitee_id IS NULL AND invited_phone = ?", invitee.Phone)
	default:
		return nil, nil
	}

	var invitations []networkdomain.NetworkInvitation
	if err := query.Order("created_at desc").Limit(1).Find(&invitations).Error; err != nil {
		return nil, err
	}
	if len(invitations) == 0 {
		return nil, nil
	}
	return &invitations[0], nil
}

func (r *PostgresRepository) UpdateInvitationStatus(ctx context.Context, invitationID string, status networkdomain.InvitationStatus, respondedAt *time.Time) error {
	return r.db.WithContext(ctx).Model(&networkdomain.NetworkInvitation{}).
		Where("id = ?", invitationID).
		Updates(map[string]interface{}{
			"status":       status,
			"responded_at": respondedAt,
			"updated_at":   time.Now().UTC(),
		}).Error
}

func (r *PostgresRepository) ClaimInvitation(ctx context.Context, invitationID, userID string) error {
	return r.db.WithContext(ctx).Model(&networkdomain.NetworkInvitation{}).
		Where("id = ? AND invitee_id IS NULL", invitationID).
		Updates(map[string]interface{}{
			"invitee_id": userID,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *PostgresRepository) ListInvitationsForUser(ctx context.Context, userID, phone string, now time.Time) ([]networkdomain.NetworkInvitation, error) {
	query := r.db.WithContext(ctx).
		Where("status = ? AND expires_at > ?", networkdomain.InvitationPending, now)
	if phone != "" {
		query = query.Where("(invitee_id = ? OR (invitee_id IS NULL AND invited_phone = ?))", userID, phone)
	} else {
		query = query.Where("invitee_id = ?", userID)
	}

	var invitations []networkdomain.NetworkInvitation
	if err := query.Order("created_at desc").Find(&invitations).Error; err != nil {
		return nil, err
	}
	return invitations, nil
}

func (r *PostgresRepository) ListPendingInvitations(ctx context.Context, networkID string, now time.Time) ([]networkdomain.NetworkInvitation, error) {
	var invitations []networkdomain.NetworkInvitation
	if err := r.db.WithContext(ctx).
		Where("network_id = ? AND status = ? AND expires_at > ?", networkID, networkdomain.InvitationPending, now).
		Order("created_at desc").
		Find(&invitations).Error; err != nil {
		return nil, err
	}
	return invitations, nil
}

func (r *PostgresRepository) CountPendingInvitations(ctx context.Context, networkID string, now time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&networkdomain.NetworkInvitation{}).
		Where("network_id = ? AND status = ? AND expires_at > ?", networkID, networkdomain.InvitationPending, now).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) DeleteInvitationsByNetwork(ctx context.Context, networkID string) error {
	return r.db.WithContext(ctx).Where("network_id = ?", networkID).Delete(&networkdomain.NetworkInvitation{}).Error
}

func (r *PostgresRepository) CreateRequest(ctx context.Context, request *networkdomain.NetworkRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *PostgresRepository) GetRequest(ctx context.Context, requestID string) (*networkdomain.NetworkRequest, error) {
	if !validID(requestID) {
		return nil, networkdomain.ErrNotFound
	}
	var request networkdomain.NetworkRequest
	err := r.db.WithContext(ctx).Where("id = ?", requestID).First(&request).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, networkdomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *PostgresRepository) FindPendingRequest(ctx context.Context, networkID, requesterID string) (*networkdomain.NetworkRequest, error) {
	var requests []networkdomain.NetworkRequest
	if err := r.db.WithContext(ctx).
		Where("network_id = ? AND requester_id = ? AND status = ?", networkID, requesterID, networkdomain.RequestPending).
		Limit(1).
		Find(&requests).Error; err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return nil, nil
	}
	return &requests[0], nil
}

func (r *PostgresRepository) UpdateRequestStatus(ctx context.Context, requestID string, status networkdomain.RequestStatus, reviewerID string, reviewedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&networkdomain.NetworkRequest{}).
		Where("id = ?", requestID).
		Updates(map[string]interface{}{
			"status":      status,
			"reviewer_id": reviewerID,
			"reviewed_at": reviewedAt,
			"updated_at":  time.Now().UTC(),
		}).Error
}

func (r *PostgresRepository) ListPendingRequests(ctx context.Context, networkID string) ([]networkdomain.NetworkRequest, error) {
	var requests []networkdomain.NetworkRequest
	if err := r.db.WithContext(ctx).
		Where("network_id = ? AND status = ?", networkID, networkdomain.RequestPending).
		Order("created_at asc").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *PostgresRepository) CountPendingRequests(ctx context.Context, networkID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&networkdomain.NetworkRequest{}).
		Where("network_id = ? AND status = ?", networkID, networkdomain.RequestPending).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) DeleteRequestsByNetwork(ctx context.Context, networkID string) error {
	return r.db.WithContext(ctx).Where("network_id = ?", networkID).Delete(&networkdomain.NetworkRequest{}).Error
}

// Ids are UUID columns; Postgres rejects any other text outright instead of
// matching nothing.
func validID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

func isCodeConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == uniqueViolation && pgErr.ConstraintName == activeCodeIndexName
}
