package handler

import (
	"net/http"
	"time"

	networkdomain "deprem-network-go/internal/domain/network"
)

type createNetworkRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	MaxMembers  *int    `json:"max_members"`
}

type updateNetworkRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type joinNetworkRequest struct {
	Code string `json:"code"`
}

type networkResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatorID   string    `json:"creator_id"`
	Code        string    `json:"code"`
	MaxMembers  int       `json:"max_members"`
	IsActive    bool      `json:"is_active"`
	IsDefault   bool      `json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type myNetworksResponse struct {
	Created []networkResponse `json:"created"`
	Joined  []networkResponse `json:"joined"`
}

type overviewResponse struct {
	NetworkID          string `json:"network_id"`
	MemberCount        int64  `json:"member_count"`
	PendingInvitations int64  `json:"pending_invitations"`
	PendingRequests    int64  `json:"pending_requests"`
}

func (h *Handlers) ListMyNetworks(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	result, err := h.Networks.ListMyNetworks(r.Context(), user.ID)
	if err != nil {
		h.writeNetworkError(w, r, "networks.list", err)
		return
	}

	writeJSON(w, http.StatusOK, myNetworksResponse{
		Created: toNetworkResponses(result.Created),
		Joined:  toNetworkResponses(result.Joined),
	})
}

func (h *Handlers) CreateNetwork(w http.ResponseWriter, r *http.Request) {
	var req createNetworkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	params := networkdomain.CreateParams{Name: req.Name, Description: req.Description}
	if req.MaxMembers != nil {
		if *req.MaxMembers <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_request", "max_members must be positive")
			return
		}
		params.MaxMembers = *req.MaxMembers
	}

	result, err := h.Networks.CreateNetwork(r.Context(), user.ID, params)
	if err != nil {
		h.writeNetworkError(w, r, "networks.create", err)
		return
	}

	writeJSON(w, http.StatusCreated, toNetworkResponse(*result))
}

func (h *Handlers) ProvisionDefaultNetworks(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	result, err := h.Networks.ProvisionDefaults(r.Context(), user.ID)
	if err != nil {
		h.writeNetworkError(w, r, "networks.provision_defaults", err)
		return
	}

	writeJSON(w, http.StatusOK, toNetworkResponses(result))
}

func (h *Handlers) GetNetwork(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	networkID := pathParam(r, "network_id")

	result, err := h.Networks.GetNetwork(r.Context(), user.ID, networkID)
	if err != nil {
		h.writeNetworkError(w, r, "networks.get", err, "network_id", networkID)
		return
	}

	writeJSON(w, http.StatusOK, toNetworkResponse(*result))
}

func (h *Handlers) UpdateNetwork(w http.ResponseWriter, r *http.Request) {
	var req updateNetworkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.Name == nil && req.Description == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "name or description is required")
		return
	}

	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	networkID := pathParam(r, "network_id")

	result, err := h.Networks.UpdateNetwork(r.Context(), user.ID, networkID, networkdomain.UpdateParams{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.writeNetworkError(w, r, "networks.update", err, "network_id", networkID)
		return
	}

	writeJSON(w, http.StatusOK, toNetworkResponse(*result))
}

func (h *Handlers) DeleteNetwork(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	networkID := pathParam(r, "network_id")

	if err := h.Networks.DeleteNetwork(r.Context(), user.ID, networkID); err != nil {
		h.writeNetworkError(w, r, "networks.delete", err, "network_id", networkID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) JoinNetwork(w http.ResponseWriter, r *http.Request) {
	var req joinNetworkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	code := networkdomain.NormalizeCode(req.Code)
	if code == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "code is required")
		return
	}

	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	member, err := h.Networks.JoinByCode(r.Context(), user.ID, code)
	if err != nil {
		h.writeNetworkError(w, r, "networks.join", err, "code", code)
		return
	}

	writeJSON(w, http.StatusOK, toMemberResponse(*member))
}

func (h *Handlers) LeaveNetwork(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	networkID := pathParam(r, "network_id")

	if err := h.Networks.LeaveNetwork(r.Context(), user.ID, networkID); err != nil {
		h.writeNetworkError(w, r, "networks.leave", err, "network_id", networkID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) NetworkOverview(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	networkID := pathParam(r, "network_id")

	result, err := h.Networks.NetworkOverview(r.Context(), user.ID, networkID)
	if err != nil {
		h.writeNetworkError(w, r, "networks.overview", err, "network_id", networkID)
		return
	}

	writeJSON(w, http.StatusOK, overviewResponse{
		NetworkID:          result.NetworkID,
		MemberCount:        result.MemberCount,
		PendingInvitations: result.PendingInvitations,
		PendingRequests:    result.PendingRequests,
	})
}

func toNetworkResponse(network networkdomain.Network) networkResponse {
	return networkResponse{
		ID:          network.ID,
		Name:        network.Name,
		Description: network.Description,
		CreatorID:   network.CreatorID,
		Code:        network.Code,
		MaxMembers:  network.MaxMembers,
		IsActive:    network.IsActive,
		IsDefault:   network.IsDefault,
		CreatedAt:   network.CreatedAt,
		UpdatedAt:   network.UpdatedAt,
	}
}

func toNetworkResponses(networks []networkdomain.Network) []networkResponse {
	response := make([]networkResponse, 0, len(networks))
	for _, network := range networks {
		response = append(response, toNetworkResponse(network))
	}
	return response
}
