package network

import (
	"strings"
	"time"
)

type Role string

const (
	RoleCreator Role = "creator"
	RoleMember  Role = "member"
	RoleNone    Role = ""
)

type InvitationStatus string

const (
	InvitationPending   InvitationStatus = "pending"
	InvitationAccepted  InvitationStatus = "accepted"
	InvitationRejected  InvitationStatus = "rejected"
	InvitationCancelled InvitationStatus = "cancelled"
)

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

type Network struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"size:50;not null"`
	Description *string   `gorm:"size:200"`
	CreatorID   string    `gorm:"not null;index"`
	Code        string    `gorm:"size:8;not null"`
	MaxMembers  int       `gorm:"not null"`
	IsActive    bool      `gorm:"not null"`
	IsDefault   bool      `gorm:"not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// Protected reports whether the network is one of the provisioned
// family/friends networks that nobody may rename or delete.
func (n Network) Protected() bool {
	return n.IsDefault
}

type NetworkMember struct {
	NetworkID string    `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"primaryKey"`
	Role      Role      `gorm:"type:varchar(16);not null"`
	IsActive  bool      `gorm:"not null"`
	JoinedAt  time.Time `gorm:"not null"`
}

type NetworkInvitation struct {
	ID           string           `gorm:"type:uuid;primaryKey"`
	NetworkID    string           `gorm:"type:uuid;not null;index"`
	InviterID    string           `gorm:"not null"`
	InviteeID    *string          `gorm:"index"`
	InvitedPhone *string          `gorm:"size:32"`
	Status       InvitationStatus `gorm:"type:varchar(16);not null"`
	Message      *string          `gorm:"size:500"`
	ExpiresAt    time.Time        `gorm:"not null"`
	RespondedAt  *time.Time
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// Pending reports whether the invitation can still be answered at now.
func (i NetworkInvitation) Pending(now time.Time) bool {
	return i.Status == InvitationPending && now.Before(i.ExpiresAt)
}

// AddressedTo matches the invitee by user id, or by phone for invitations
// sent before the invitee had an account.
func (i NetworkInvitation) AddressedTo(userID, phone string) bool {
	if i.InviteeID != nil {
		return *i.InviteeID == userID
	}
	if i.InvitedPhone == nil || phone == "" {
		return false
	}
	return *i.InvitedPhone == phone
}

type NetworkRequest struct {
	ID          string        `gorm:"type:uuid;primaryKey"`
	NetworkID   string        `gorm:"type:uuid;not null;index"`
	RequesterID string        `gorm:"not null;index"`
	Status      RequestStatus `gorm:"type:varchar(16);not null"`
	Message     *string       `gorm:"size:500"`
	ReviewerID  *string
	ReviewedAt  *time.Time
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// Invitee identifies who an invitation is addressed to. Callers set one of
// the fields; the service fills the other from the directory when the user
// has a profile.
type Invitee struct {
	UserID string
	Phone  string
}

// Actor is the authenticated caller as supplied by the identity provider.
type Actor struct {
	UserID string
	Phone  string
}

type MyNetworks struct {
	Created []Network
	Joined  []Network
}

type Overview struct {
	NetworkID          string
	MemberCount        int64
	PendingInvitations int64
	PendingRequests    int64
}

type CreateParams struct {
	Name        string
	Description *string
	MaxMembers  int
}

type UpdateParams struct {
	Name        *string
	Description *string
}

func optionalText(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
