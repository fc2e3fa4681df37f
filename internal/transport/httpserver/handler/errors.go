package handler

import (
	"net/http"

	networkdomain "deprem-network-go/internal/domain/network"
	"deprem-network-go/pkg/logger"
)

type errorMapping struct {
	status int
	code   string
}

var networkErrorMappings = map[error]errorMapping{
	networkdomain.ErrInvalidName:                {status: http.StatusBadRequest, code: "invalid_name"},
	networkdomain.ErrInvalidInput:               {status: http.StatusBadRequest, code: "invalid_request"},
	networkdomain.ErrProtectedNetwork:           {status: http.StatusForbidden, code: "protected_network"},
	networkdomain.ErrUnauthorized:               {status: http.StatusForbidden, code: "forbidden"},
	networkdomain.ErrNotFound:                   {status: http.StatusNotFound, code: "not_found"},
	networkdomain.ErrInvalidCode:                {status: http.StatusNotFound, code: "invalid_code"},
	networkdomain.ErrAlreadyMember:              {status: http.StatusConflict, code: "already_member"},
	networkdomain.ErrNetworkFull:                {status: http.StatusConflict, code: "network_full"},
	networkdomain.ErrNotAMember:                 {status: http.StatusNotFound, code: "not_a_member"},
	networkdomain.ErrCreatorCannotLeave:         {status: http.StatusConflict, code: "creator_cannot_leave"},
	networkdomain.ErrCannotRemoveCreator:        {status: http.StatusConflict, code: "cannot_remove_creator"},
	networkdomain.ErrNotInvitee:                 {status: http.StatusForbidden, code: "not_invitee"},
	networkdomain.ErrNotInviter:                 {status: http.StatusForbidden, code: "not_inviter"},
	networkdomain.ErrDuplicatePendingInvitation: {status: http.StatusConflict, code: "duplicate_pending_invitation"},
	networkdomain.ErrDuplicatePendingRequest:    {status: http.StatusConflict, code: "duplicate_pending_request"},
	networkdomain.ErrInvitationNotPending:       {status: http.StatusConflict, code: "invitation_not_pending"},
	networkdomain.ErrRequestNotPending:          {status: http.StatusConflict, code: "request_not_pending"},
	networkdomain.ErrCodeSpaceExhausted:         {status: http.StatusServiceUnavailable, code: "code_space_exhausted"},
}

// writeNetworkError maps a service error to its HTTP status and code. Known
// kinds are business errors; anything else is logged as internal and hidden
// behind a generic 500. Records go to the request logger, which already
// carries the request and user ids.
func (h *Handlers) writeNetworkError(w http.ResponseWriter, r *http.Request, op string, err error, args ...any) {
	log := logger.FromContext(r.Context(), h.log)

	kind := networkdomain.KindOf(err)
	mapping, ok := networkErrorMappings[kind]
	if !ok {
		log.InternalError(op+": failed", err, args...)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	if kind == networkdomain.ErrCodeSpaceExhausted {
		log.Critical(op+": join code space exhausted", append([]any{"err", err}, args...)...)
	} else {
		log.BusinessError(op+": "+mapping.code, err, args...)
	}
	writeErrorDetails(w, mapping.status, mapping.code, kind.Error(), networkdomain.ContextOf(err))
}
