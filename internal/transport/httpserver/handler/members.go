package handler

import (
	"net/http"
	"time"

	networkdomain "deprem-network-go/internal/domain/network"
)

type memberResponse struct {
	NetworkID string    `json:"network_id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	JoinedAt  time.Time `json:"joined_at"`
}

func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	networkID := pathParam(r, "network_id")

	members, err := h.Networks.ListMembers(r.Context(), user.ID, networkID)
	if err != nil {
		h.writeNetworkError(w, r, "networks.list_members", err, "network_id", networkID)
		return
	}

	response := make([]memberResponse, 0, len(members))
	for _, member := range members {
		response = append(response, toMemberResponse(member))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) RemoveMember(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	networkID := pathParam(r, "network_id")
	targetID := pathParam(r, "user_id")
	if targetID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "user_id is required")
		return
	}

	if err := h.Networks.RemoveMember(r.Context(), user.ID, networkID, targetID); err != nil {
		h.writeNetworkError(w, r, "networks.remove_member", err, "network_id", networkID, "target_id", targetID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toMemberResponse(member networkdomain.NetworkMember) memberResponse {
	return memberResponse{
		NetworkID: member.NetworkID,
		UserID:    member.UserID,
		Role:      string(member.Role),
		JoinedAt:  member.JoinedAt,
	}
}
