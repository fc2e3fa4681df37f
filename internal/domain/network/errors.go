package network

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrInvalidName                = errors.New("invalid network name")
	ErrInvalidInput               = errors.New("invalid input")
	ErrProtectedNetwork           = errors.New("default network cannot be modified")
	ErrUnauthorized               = errors.New("actor lacks required role")
	ErrNotFound                   = errors.New("not found")
	ErrInvalidCode                = errors.New("invalid join code")
	ErrAlreadyMember              = errors.New("already a member")
	ErrNetworkFull                = errors.New("network is full")
	ErrNotAMember                 = errors.New("not a member")
	ErrCreatorCannotLeave         = errors.New("creator cannot leave network")
	ErrCannotRemoveCreator        = errors.New("cannot remove network creator")
	ErrNotInvitee                 = errors.New("invitation is addressed to someone else")
	ErrNotInviter                 = errors.New("only the inviter can cancel an invitation")
	ErrDuplicatePendingInvitation = errors.New("pending invitation already exists")
	ErrDuplicatePendingRequest    = errors.New("pending join request already exists")
	ErrInvitationNotPending       = errors.New("invitation is not pending")
	ErrRequestNotPending          = errors.New("join request is not pending")
	ErrCodeSpaceExhausted         = errors.New("join code space exhausted")
)

// ErrCodeTaken is returned by Repository.CreateNetwork when another active
// network claimed the code after it was checked. The service draws a new
// code; callers never see it.
var ErrCodeTaken = errors.New("join code already in use")

var kinds = []error{
	ErrInvalidName,
	ErrInvalidInput,
	ErrProtectedNetwork,
	ErrUnauthorized,
	ErrNotFound,
	ErrInvalidCode,
	ErrAlreadyMember,
	ErrNetworkFull,
	ErrNotAMember,
	ErrCreatorCannotLeave,
	ErrCannotRemoveCreator,
	ErrNotInvitee,
	ErrNotInviter,
	ErrDuplicatePendingInvitation,
	ErrDuplicatePendingRequest,
	ErrInvitationNotPending,
	ErrRequestNotPending,
	ErrCodeSpaceExhausted,
}

// Error carries one of the sentinel kinds above together with the ids the
// failure refers to. errors.Is(err, ErrNetworkFull) matches through it.
type Error struct {
	Kind    error
	Context map[string]string
}

func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Kind.Error()
	}

	keys := make([]string, 0, len(e.Context))
	for key := range e.Context {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var builder strings.Builder
	builder.WriteString(e.Kind.Error())
	for i, key := range keys {
		if i == 0 {
			builder.WriteString(": ")
		} else {
			builder.WriteString(" ")
		}
		builder.WriteString(key)
		builder.WriteString("=")
		builder.WriteString(e.Context[key])
	}
	return builder.String()
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// LogFields returns the context as sorted key/value pairs for structured
// logging.
func (e *Error) LogFields() []any {
	keys := make([]string, 0, len(e.Context))
	for key := range e.Context {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fields := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		fields = append(fields, key, e.Context[key])
	}
	return fields
}

// KindOf returns the sentinel kind of err, or nil when err is not a
// network domain error.
func KindOf(err error) error {
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// ContextOf returns the machine-readable context attached to err.
func ContextOf(err error) map[string]string {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Context
	}
	return nil
}

func newError(kind error, kv ...string) error {
	ctx := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] == "" {
			continue
		}
		ctx[kv[i]] = kv[i+1]
	}
	return &Error{Kind: kind, Context: ctx}
}

// withContext attaches ids to a bare sentinel returned by the repository.
// Infrastructure errors and already annotated errors pass through.
func withContext(err error, kv ...string) error {
	if err == nil {
		return nil
	}
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return err
	}
	for _, kind := range kinds {
		if err == kind {
			return newError(kind, kv...)
		}
	}
	return err
}
