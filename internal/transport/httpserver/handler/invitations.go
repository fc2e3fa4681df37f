package handler

import (
	"net/http"
	"time"

	networkdomain "deprem-network-go/internal/domain/network"
)

type createInvitationRequest struct {
	UserID  string  `json:"user_id"`
	Phone   string  `json:"phone"`
	Message *string `json:"message"`
}

type respondInvitationRequest struct {
	Accept *bool `json:"accept"`
}

type invitationResponse struct {
	ID           string     `json:"id"`
	NetworkID    string     `json:"network_id"`
	InviterID    string     `json:"inviter_id"`
	InviteeID    *string    `json:"invitee_id"`
	InvitedPhone *string    `json:"invited_phone"`
	Status       string     `json:"status"`
	Message      *string    `json:"message"`
	ExpiresAt    time.Time  `json:"expires_at"`
	RespondedAt  *time.Time `json:"responded_at"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (h *Handlers) CreateInvitation(w http.ResponseWriter, r *http.Request) {
	var req createInvitationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	networkID := pathParam(r, "network_id")

	invitee := networkdomain.Invitee{UserID: req.UserID, Phone: req.Phone}
	result, err := h.Networks.Invite(r.Context(), user.ID, networkID, invitee, req.Message)
	if err != nil {
		h.writeNetworkError(w, r, "invitations.create", err, "network_id", networkID)
		return
	}

	writeJSON(w, http.StatusCreated, toInvitationResponse(*result))
}

func (h *Handlers) ListNetworkInvitations(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	networkID := pathParam(r, "network_id")

	invitations, err := h.Networks.ListNetworkInvitations(r.Context(), user.ID, networkID)
	if err != nil {
		h.writeNetworkError(w, r, "invitations.list_network", err, "network_id", networkID)
		return
	}

	writeJSON(w, http.StatusOK, toInvitationResponses(invitations))
}

func (h *Handlers) ListMyInvitations(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	invitations, err := h.Networks.ListMyInvitations(r.Context(), actorOf(user))
	if err != nil {
		h.writeNetworkError(w, r, "invitations.list_mine", err)
		return
	}

	writeJSON(w, http.StatusOK, toInvitationResponses(invitations))
}

func (h *Handlers) RespondToInvitation(w http.ResponseWriter, r *http.Request) {
	var req respondInvitationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.Accept == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "accept is required")
		return
	}

	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	invitationID := pathParam(r, "invitation_id")

	result, err := h.Networks.RespondToInvitation(r.Context(), actorOf(user), invitationID, *req.Accept)
	if err != nil {
		h.writeNetworkError(w, r, "invitations.respond", err, "invitation_id", invitationID)
		return
	}

	writeJSON(w, http.StatusOK, toInvitationResponse(*result))
}

func (h *Handlers) CancelInvitation(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	invitationID := pathParam(r, "invitation_id")

	result, err := h.Networks.CancelInvitation(r.Context(), user.ID, invitationID)
	if err != nil {
		h.writeNetworkError(w, r, "invitations.cancel", err, "invitation_id", invitationID)
		return
	}

	writeJSON(w, http.StatusOK, toInvitationResponse(*result))
}

func toInvitationResponse(invitation networkdomain.NetworkInvitation) invitationResponse {
	return invitationResponse{
		ID:           invitation.ID,
		NetworkID:    invitation.NetworkID,
		InviterID:    invitation.InviterID,
		InviteeID:    invitation.InviteeID,
		InvitedPhone: invitation.InvitedPhone,
		Status:       string(invitation.Status),
		Message:      invitation.Message,
		ExpiresAt:    invitation.ExpiresAt,
		RespondedAt:  invitation.RespondedAt,
		CreatedAt:    invitation.CreatedAt,
	}
}

func toInvitationResponses(invitations []networkdomain.NetworkInvitation) []invitationResponse {
	response := make([]invitationResponse, 0, len(invitations))
	for _, invitation := range invitations {
		response = append(response, toInvitationResponse(invitation))
	}
	return response
}
