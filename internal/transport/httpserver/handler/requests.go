package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	networkdomain "deprem-network-go/internal/domain/network"
)

type createJoinRequestRequest struct {
	Message *string `json:"message"`
}

type respondJoinRequestRequest struct {
	Approve *bool `json:"approve"`
}

type joinRequestResponse struct {
	ID          string     `json:"id"`
	NetworkID   string     `json:"network_id"`
	RequesterID string     `json:"requester_id"`
	Status      string     `json:"status"`
	Message     *string    `json:"message"`
	ReviewerID  *string    `json:"reviewer_id"`
	ReviewedAt  *time.Time `json:"reviewed_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (h *Handlers) CreateJoinRequest(w http.ResponseWriter, r *http.Request) {
	var req createJoinRequestRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	networkID := pathParam(r, "network_id")

	result, err := h.Networks.RequestToJoin(r.Context(), user.ID, networkID, req.Message)
	if err != nil {
		h.writeNetworkError(w, r, "requests.create", err, "network_id", networkID)
		return
	}

	writeJSON(w, http.StatusCreated, toJoinRequestResponse(*result))
}

func (h *Handlers) ListJoinRequests(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	networkID := pathParam(r, "network_id")

	requests, err := h.Networks.ListNetworkRequests(r.Context(), user.ID, networkID)
	if err != nil {
		h.writeNetworkError(w, r, "requests.list", err, "network_id", networkID)
		return
	}

	response := make([]joinRequestResponse, 0, len(requests))
	for _, request := range requests {
		response = append(response, toJoinRequestResponse(request))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) RespondToJoinRequest(w http.ResponseWriter, r *http.Request) {
	var req respondJoinRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.Approve == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "approve is required")
		return
	}

	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	requestID := pathParam(r, "request_id")

	result, err := h.Networks.RespondToRequest(r.Context(), user.ID, requestID, *req.Approve)
	if err != nil {
		h.writeNetworkError(w, r, "requests.respond", err, "request_id", requestID)
		return
	}

	writeJSON(w, http.StatusOK, toJoinRequestResponse(*result))
}

func toJoinRequestResponse(request networkdomain.NetworkRequest) joinRequestResponse {
	return joinRequestResponse{
		ID:          request.ID,
		NetworkID:   request.NetworkID,
		RequesterID: request.RequesterID,
		Status:      string(request.Status),
		Message:     request.Message,
		ReviewerID:  request.ReviewerID,
		ReviewedAt:  request.ReviewedAt,
		CreatedAt:   request.CreatedAt,
	}
}
