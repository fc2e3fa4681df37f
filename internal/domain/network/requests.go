package network

import "context"

func (s *Service) RequestToJoin(ctx context.Context, userID, networkID string, message *string) (*NetworkRequest, error) {
	message, err := normalizeMessage(message)
	if err != nil {
		return nil, err
	}

	var result NetworkRequest
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		network, err := tx.LockNetwork(ctx, networkID)
		if err != nil {
			return withContext(err, "network_id", networkID)
		}
		role, err := roleOf(ctx, tx, networkID, userID)
		if err != nil {
			return err
		}
		if !Can(role, ActionRequestJoin, *network) {
			return newError(ErrAlreadyMember, "network_id", networkID, "user_id", userID)
		}

		existing, err := tx.FindPendingRequest(ctx, networkID, userID)
		if err != nil {
			return err
		}
		if existing != nil {
			return newError(ErrDuplicatePendingRequest, "network_id", networkID, "request_id", existing.ID)
		}

		now := s.now().UTC()
		request := NetworkRequest{
			ID:          s.newID(),
			NetworkID:   networkID,
			RequesterID: userID,
			Status:      RequestPending,
			Message:     message,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.CreateRequest(ctx, &request); err != nil {
			return err
		}

		result = request
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// RespondToRequest lets the network creator approve or reject a pending
// join request. Approval admits the requester subject to capacity.
func (s *Service) RespondToRequest(ctx context.Context, actorID, requestID string, approve bool) (*NetworkRequest, error) {
	var result NetworkRequest
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		request, err := tx.GetRequest(ctx, requestID)
		if err != nil {
			return withContext(err, "request_id", requestID)
		}

		network, err := tx.LockNetwork(ctx, request.NetworkID)
		if err != nil {
			return withContext(err, "network_id", request.NetworkID)
		}
		request, err = tx.GetRequest(ctx, requestID)
		if err != nil {
			return withContext(err, "request_id", requestID)
		}

		role, err := roleOf(ctx, tx, network.ID, actorID)
		if err != nil {
			return err
		}
		if !Can(role, ActionReviewRequest, *network) {
			return newError(ErrUnauthorized, "network_id", network.ID, "user_id", actorID)
		}
		if request.Status != RequestPending {
			return newError(ErrRequestNotPending, "request_id", requestID, "status", string(request.Status))
		}

		status := RequestRejected
		if approve {
			if _, err := s.admitMember(ctx, tx, network, request.RequesterID); err != nil {
				return err
			}
			status = RequestApproved
		}

		now := s.now().UTC()
		if err := tx.UpdateRequestStatus(ctx, requestID, status, actorID, now); err != nil {
			return err
		}

		reviewer := actorID
		request.Status = status
		request.ReviewerID = &reviewer
		request.ReviewedAt = &now
		result = *request
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (s *Service) ListNetworkRequests(ctx context.Context, actorID, networkID string) ([]NetworkRequest, error) {
	network, err := s.repo.GetNetwork(ctx, networkID)
	if err != nil {
		return nil, withContext(err, "network_id", networkID)
	}
	role, err := roleOf(ctx, s.repo, networkID, actorID)
	if err != nil {
		return nil, err
	}
	if !Can(role, ActionReviewRequest, *network) {
		return nil, newError(ErrUnauthorized, "network_id", networkID, "user_id", actorID)
	}
	return s.repo.ListPendingRequests(ctx, networkID)
}
