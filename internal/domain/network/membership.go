package network

import (
	"context"
	"errors"
	"strconv"
)

func (s *Service) JoinByCode(ctx context.Context, userID, code string) (*NetworkMember, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, newError(ErrInvalidCode)
	}

	var result NetworkMember
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		found, err := tx.GetNetworkByCode(ctx, code)
		if err != nil {
			return withContext(err, "code", code)
		}

		network, err := tx.LockNetwork(ctx, found.ID)
		if errors.Is(err, ErrNotFound) {
			return newError(ErrInvalidCode, "code", code)
		}
		if err != nil {
			return err
		}

		member, err := s.admitMember(ctx, tx, network, userID)
		if err != nil {
			return err
		}
		result = *member
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (s *Service) LeaveNetwork(ctx context.Context, userID, networkID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		network, err := tx.LockNetwork(ctx, networkID)
		if err != nil {
			return withContext(err, "network_id", networkID)
		}
		role, err := roleOf(ctx, tx, networkID, userID)
		if err != nil {
			return err
		}
		if role == RoleNone {
			return newError(ErrNotAMember, "network_id", networkID, "user_id", userID)
		}
		if !Can(role, ActionLeave, *network) {
			return newError(ErrCreatorCannotLeave, "network_id", networkID, "user_id", userID)
		}
		return tx.DeactivateMember(ctx, networkID, userID)
	})
}

func (s *Service) RemoveMember(ctx context.Context, actorID, networkID, targetID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		network, err := tx.LockNetwork(ctx, networkID)
		if err != nil {
			return withContext(err, "network_id", networkID)
		}
		role, err := roleOf(ctx, tx, networkID, actorID)
		if err != nil {
			return err
		}
		if !Can(role, ActionRemoveMember, *network) {
			return newError(ErrUnauthorized, "network_id", networkID, "user_id", actorID)
		}
		if targetID == network.CreatorID {
			return newError(ErrCannotRemoveCreator, "network_id", networkID, "user_id", targetID)
		}
		if _, err := tx.GetMember(ctx, networkID, targetID); err != nil {
			return withContext(err, "network_id", networkID, "user_id", targetID)
		}
		return tx.DeactivateMember(ctx, networkID, targetID)
	})
}

// admitMember adds userID as a plain member. The caller must hold the
// network lock so the capacity check and the insert commit together.
func (s *Service) admitMember(ctx context.Context, tx Repository, network *Network, userID string) (*NetworkMember, error) {
	role, err := roleOf(ctx, tx, network.ID, userID)
	if err != nil {
		return nil, err
	}
	if !Can(role, ActionJoin, *network) {
		return nil, newError(ErrAlreadyMember, "network_id", network.ID, "user_id", userID)
	}

	count, err := tx.CountMembers(ctx, network.ID)
	if err != nil {
		return nil, err
	}
	if count >= int64(network.MaxMembers) {
		return nil, newError(ErrNetworkFull, "network_id", network.ID, "max_members", strconv.Itoa(network.MaxMembers))
	}

	member := NetworkMember{
		NetworkID: network.ID,
		UserID:    userID,
		Role:      RoleMember,
		IsActive:  true,
		JoinedAt:  s.now().UTC(),
	}
	if err := tx.SaveMember(ctx, &member); err != nil {
		return nil, err
	}
	return &member, nil
}
