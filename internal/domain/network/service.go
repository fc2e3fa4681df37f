package network

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	maxNameLength        = 50
	maxDescriptionLength = 200
	maxMessageLength     = 500
	maxNetworkCapacity   = 500
	defaultMaxMembers    = 50
	defaultInvitationTTL = 7 * 24 * time.Hour
)

// Names of the networks provisioned for every new user. Both classify as
// default networks.
var defaultNetworkNames = []string{"Ailem", "Arkadaşlarım"}

type Config struct {
	DefaultMaxMembers int
	InvitationTTL     time.Duration
	CodeLength        int
	CodeAttempts      int
}

type Service struct {
	repo      Repository
	directory Directory
	cfg       Config
	now       func() time.Time
	newID     func() string
	newCode   codeSource
}

func NewService(repo Repository, directory Directory, cfg Config) *Service {
	if cfg.DefaultMaxMembers <= 0 || cfg.DefaultMaxMembers > maxNetworkCapacity {
		cfg.DefaultMaxMembers = defaultMaxMembers
	}
	if cfg.InvitationTTL <= 0 {
		cfg.InvitationTTL = defaultInvitationTTL
	}
	if cfg.CodeLength < 6 || cfg.CodeLength > 8 {
		cfg.CodeLength = defaultJoinCodeLength
	}
	if cfg.CodeAttempts <= 0 {
		cfg.CodeAttempts = defaultJoinCodeAttempts
	}

	return &Service{
		repo:      repo,
		directory: directory,
		cfg:       cfg,
		now:       time.Now,
		newID:     uuid.NewString,
		newCode:   generateCode,
	}
}

func (s *Service) CreateNetwork(ctx context.Context, ownerID string, params CreateParams) (*Network, error) {
	name, err := normalizeName(params.Name)
	if err != nil {
		return nil, err
	}
	description, err := normalizeDescription(params.Description)
	if err != nil {
		return nil, err
	}

	maxMembers := params.MaxMembers
	if maxMembers == 0 {
		maxMembers = s.cfg.DefaultMaxMembers
	}
	if maxMembers < 1 || maxMembers > maxNetworkCapacity {
		return nil, newError(ErrInvalidInput, "field", "max_members", "value", strconv.Itoa(params.MaxMembers))
	}

	var result Network
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		created, err := s.createNetwork(ctx, tx, ownerID, name, description, maxMembers)
		if err != nil {
			return err
		}
		result = *created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// ProvisionDefaults creates the family and friends networks for ownerID
// unless the user already owns a default network, and returns the default
// networks the user owns afterwards.
func (s *Service) ProvisionDefaults(ctx context.Context, ownerID string) ([]Network, error) {
	var result []Network
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		exists, err := tx.HasDefaultNetwork(ctx, ownerID)
		if err != nil {
			return err
		}
		if !exists {
			for _, name := range defaultNetworkNames {
				if _, err := s.createNetwork(ctx, tx, ownerID, name, nil, s.cfg.DefaultMaxMembers); err != nil {
					return err
				}
			}
		}

		created, err := tx.ListCreatedNetworks(ctx, ownerID)
		if err != nil {
			return err
		}
		for _, network := range created {
			if network.Protected() {
				result = append(result, network)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *Service) GetNetwork(ctx context.Context, actorID, networkID string) (*Network, error) {
	network, err := s.repo.GetNetwork(ctx, networkID)
	if err != nil {
		return nil, withContext(err, "network_id", networkID)
	}
	role, err := roleOf(ctx, s.repo, networkID, actorID)
	if err != nil {
		return nil, err
	}
	if !Can(role, ActionView, *network) {
		return nil, newError(ErrNotFound, "network_id", networkID)
	}
	return network, nil
}

func (s *Service) UpdateNetwork(ctx context.Context, actorID, networkID string, params UpdateParams) (*Network, error) {
	var result Network
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		network, err := tx.LockNetwork(ctx, networkID)
		if err != nil {
			return withContext(err, "network_id", networkID)
		}
		if network.Protected() {
			return newError(ErrProtectedNetwork, "network_id", networkID)
		}
		role, err := roleOf(ctx, tx, networkID, actorID)
		if err != nil {
			return err
		}
		if !Can(role, ActionUpdate, *network) {
			return newError(ErrUnauthorized, "network_id", networkID, "user_id", actorID)
		}

		name := network.Name
		if params.Name != nil {
			name, err = normalizeName(*params.Name)
			if err != nil {
				return err
			}
		}
		description := network.Description
		if params.Description != nil {
			description, err = normalizeDescription(params.Description)
			if err != nil {
				return err
			}
		}

		if err := tx.UpdateNetwork(ctx, networkID, name, description); err != nil {
			return err
		}

		network.Name = name
		network.Description = description
		network.UpdatedAt = s.now().UTC()
		result = *network
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// DeleteNetwork removes the network together with every membership,
// invitation and request referencing it. A second call for the same id
// fails with ErrNotFound.
func (s *Service) DeleteNetwork(ctx context.Context, actorID, networkID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		network, err := tx.LockNetwork(ctx, networkID)
		if err != nil {
			return withContext(err, "network_id", networkID)
		}
		if network.Protected() {
			return newError(ErrProtectedNetwork, "network_id", networkID)
		}
		role, err := roleOf(ctx, tx, networkID, actorID)
		if err != nil {
			return err
		}
		if !Can(role, ActionDelete, *network) {
			return newError(ErrUnauthorized, "network_id", networkID, "user_id", actorID)
		}

		if err := tx.DeleteRequestsByNetwork(ctx, networkID); err != nil {
			return err
		}
		if err := tx.DeleteInvitationsByNetwork(ctx, networkID); err != nil {
			return err
		}
		if err := tx.DeleteMembersByNetwork(ctx, networkID); err != nil {
			return err
		}
		return tx.DeactivateNetwork(ctx, networkID)
	})
}

func (s *Service) ListMembers(ctx context.Context, actorID, networkID string) ([]NetworkMember, error) {
	if _, err := s.GetNetwork(ctx, actorID, networkID); err != nil {
		return nil, err
	}
	return s.repo.ListMembers(ctx, networkID)
}

func (s *Service) createNetwork(ctx context.Context, tx Repository, ownerID, name string, description *string, maxMembers int) (*Network, error) {
	now := s.now().UTC()
	network := Network{
		ID:          s.newID(),
		Name:        name,
		Description: description,
		CreatorID:   ownerID,
		MaxMembers:  maxMembers,
		IsActive:    true,
		IsDefault:   IsDefaultName(name),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := generateUniqueCode(ctx, tx, s.newCode, s.cfg.CodeLength, s.cfg.CodeAttempts, func(code string) error {
		network.Code = code
		return tx.CreateNetwork(ctx, &network)
	})
	if err != nil {
		if errors.Is(err, ErrCodeSpaceExhausted) {
			return nil, newError(ErrCodeSpaceExhausted, "attempts", strconv.Itoa(s.cfg.CodeAttempts))
		}
		return nil, err
	}

	member := NetworkMember{
		NetworkID: network.ID,
		UserID:    ownerID,
		Role:      RoleCreator,
		IsActive:  true,
		JoinedAt:  now,
	}
	if err := tx.SaveMember(ctx, &member); err != nil {
		return nil, err
	}

	return &network, nil
}

func roleOf(ctx context.Context, repo Repository, networkID, userID string) (Role, error) {
	member, err := repo.GetMember(ctx, networkID, userID)
	if errors.Is(err, ErrNotAMember) {
		return RoleNone, nil
	}
	if err != nil {
		return RoleNone, err
	}
	return member.Role, nil
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return "", newError(ErrInvalidName, "length", strconv.Itoa(utf8.RuneCountInString(name)))
	}
	return name, nil
}

func normalizeDescription(description *string) (*string, error) {
	description = optionalText(description)
	if description != nil && utf8.RuneCountInString(*description) > maxDescriptionLength {
		return nil, newError(ErrInvalidInput, "field", "description")
	}
	return description, nil
}

func normalizeMessage(message *string) (*string, error) {
	message = optionalText(message)
	if message != nil && utf8.RuneCountInString(*message) > maxMessageLength {
		return nil, newError(ErrInvalidInput, "field", "message")
	}
	return message, nil
}
