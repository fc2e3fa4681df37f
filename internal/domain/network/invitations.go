package network

import (
	"context"
	"strings"

	userdomain "deprem-network-go/internal/domain/user"
)

func (s *Service) Invite(ctx context.Context, actorID, networkID string, invitee Invitee, message *string) (*NetworkInvitation, error) {
	invitee, err := s.resolveInvitee(ctx, invitee)
	if err != nil {
		return nil, err
	}
	message, err = normalizeMessage(message)
	if err != nil {
		return nil, err
	}

	var result NetworkInvitation
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		network, err := tx.LockNetwork(ctx, networkID)
		if err != nil {
			return withContext(err, "network_id", networkID)
		}
		role, err := roleOf(ctx, tx, networkID, actorID)
		if err != nil {
			return err
		}
		if !Can(role, ActionInvite, *network) {
			return newError(ErrUnauthorized, "network_id", networkID, "user_id", actorID)
		}

		if invitee.UserID != "" {
			inviteeRole, err := roleOf(ctx, tx, networkID, invitee.UserID)
			if err != nil {
				return err
			}
			if inviteeRole != RoleNone {
				return newError(ErrAlreadyMember, "network_id", networkID, "user_id", invitee.UserID)
			}
		}

		now := s.now().UTC()
		existing, err := tx.FindPendingInvitation(ctx, networkID, invitee)
		if err != nil {
			return err
		}
		if existing != nil {
			if existing.Pending(now) {
				return newError(ErrDuplicatePendingInvitation, "network_id", networkID, "invitation_id", existing.ID)
			}
			// Stale rows still hold the pending slot for the pair.
			if err := tx.UpdateInvitationStatus(ctx, existing.ID, InvitationCancelled, nil); err != nil {
				return err
			}
		}

		invitation := NetworkInvitation{
			ID:        s.newID(),
			NetworkID: networkID,
			InviterID: actorID,
			Status:    InvitationPending,
			Message:   message,
			ExpiresAt: now.Add(s.cfg.InvitationTTL),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if invitee.UserID != "" {
			id := invitee.UserID
			invitation.InviteeID = &id
		}
		if invitee.Phone != "" {
			phone := invitee.Phone
			invitation.InvitedPhone = &phone
		}
		if err := tx.CreateInvitation(ctx, &invitation); err != nil {
			return err
		}

		result = invitation
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// RespondToInvitation accepts or rejects a pending invitation addressed to
// actor. Accepting admits the actor under the same capacity rule as
// JoinByCode.
func (s *Service) RespondToInvitation(ctx context.Context, actor Actor, invitationID string, accept bool) (*NetworkInvitation, error) {
	phone := userdomain.NormalizePhone(actor.Phone)

	var result NetworkInvitation
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		invitation, err := tx.GetInvitation(ctx, invitationID)
		if err != nil {
			return withContext(err, "invitation_id", invitationID)
		}
		if !invitation.AddressedTo(actor.UserID, phone) {
			return newError(ErrNotInvitee, "invitation_id", invitationID, "user_id", actor.UserID)
		}

		network, err := tx.LockNetwork(ctx, invitation.NetworkID)
		if err != nil {
			return withContext(err, "network_id", invitation.NetworkID)
		}
		invitation, err = tx.GetInvitation(ctx, invitationID)
		if err != nil {
			return withContext(err, "invitation_id", invitationID)
		}

		now := s.now().UTC()
		if !invitation.Pending(now) {
			return newError(ErrInvitationNotPending, "invitation_id", invitationID, "status", string(invitation.Status))
		}

		status := InvitationRejected
		if accept {
			if _, err := s.admitMember(ctx, tx, network, actor.UserID); err != nil {
				return err
			}
			status = InvitationAccepted
		}
		if err := tx.UpdateInvitationStatus(ctx, invitationID, status, &now); err != nil {
			return err
		}
		if invitation.InviteeID == nil {
			if err := tx.ClaimInvitation(ctx, invitationID, actor.UserID); err != nil {
				return err
			}
			id := actor.UserID
			invitation.InviteeID = &id
		}

		invitation.Status = status
		invitation.RespondedAt = &now
		result = *invitation
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (s *Service) CancelInvitation(ctx context.Context, actorID, invitationID string) (*NetworkInvitation, error) {
	var result NetworkInvitation
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		invitation, err := tx.GetInvitation(ctx, invitationID)
		if err != nil {
			return withContext(err, "invitation_id", invitationID)
		}
		if invitation.InviterID != actorID {
			return newError(ErrNotInviter, "invitation_id", invitationID, "user_id", actorID)
		}

		if _, err := tx.LockNetwork(ctx, invitation.NetworkID); err != nil {
			return withContext(err, "network_id", invitation.NetworkID)
		}
		invitation, err = tx.GetInvitation(ctx, invitationID)
		if err != nil {
			return withContext(err, "invitation_id", invitationID)
		}

		now := s.now().UTC()
		if !invitation.Pending(now) {
			return newError(ErrInvitationNotPending, "invitation_id", invitationID, "status", string(invitation.Status))
		}
		if err := tx.UpdateInvitationStatus(ctx, invitationID, InvitationCancelled, &now); err != nil {
			return err
		}

		invitation.Status = InvitationCancelled
		invitation.RespondedAt = &now
		result = *invitation
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// ListMyInvitations returns the pending, unexpired invitations addressed to
// actor by user id or by phone.
func (s *Service) ListMyInvitations(ctx context.Context, actor Actor) ([]NetworkInvitation, error) {
	return s.repo.ListInvitationsForUser(ctx, actor.UserID, userdomain.NormalizePhone(actor.Phone), s.now().UTC())
}

func (s *Service) ListNetworkInvitations(ctx context.Context, actorID, networkID string) ([]NetworkInvitation, error) {
	if _, err := s.GetNetwork(ctx, actorID, networkID); err != nil {
		return nil, err
	}
	return s.repo.ListPendingInvitations(ctx, networkID, s.now().UTC())
}

func (s *Service) resolveInvitee(ctx context.Context, invitee Invitee) (Invitee, error) {
	invitee.UserID = strings.TrimSpace(invitee.UserID)
	invitee.Phone = userdomain.NormalizePhone(invitee.Phone)
	if invitee.UserID == "" && invitee.Phone == "" {
		return invitee, newError(ErrInvalidInput, "field", "invitee")
	}

	if s.directory == nil {
		return invitee, nil
	}

	// Fill the other half so duplicate checks see rows sent to either.
	switch {
	case invitee.UserID == "":
		userID, ok, err := s.directory.UserIDByPhone(ctx, invitee.Phone)
		if err != nil {
			return invitee, err
		}
		if ok {
			invitee.UserID = userID
		}
	case invitee.Phone == "":
		phone, ok, err := s.directory.PhoneByUserID(ctx, invitee.UserID)
		if err != nil {
			return invitee, err
		}
		if ok {
			invitee.Phone = userdomain.NormalizePhone(phone)
		}
	}

	return invitee, nil
}
