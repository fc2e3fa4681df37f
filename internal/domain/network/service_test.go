package network

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func strPtr(value string) *string {
	return &value
}

func TestCreateNetworkSuccess(t *testing.T) {
	repo := newFakeNetworkRepo()
	svc := newTestService(repo)

	result, err := svc.CreateNetwork(context.Background(), "user-1", CreateParams{
		Name:        "  Komşular  ",
		Description: strPtr("  apartman  "),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Name != "Komşular" {
		t.Fatalf("expected name trimmed, got %q", result.Name)
	}
	if result.Description == nil || *result.Description != "apartman" {
		t.Fatalf("expected description trimmed, got %v", result.Description)
	}
	if result.CreatorID != "user-1" {
		t.Fatalf("expected creator user-1, got %q", result.CreatorID)
	}
	if result.MaxMembers != 50 {
		t.Fatalf("expected default max members 50, got %d", result.MaxMembers)
	}
	if len(result.Code) != 6 {
		t.Fatalf("expected code length 6, got %q", result.Code)
	}
	if result.IsDefault {
		t.Fatalf("expected regular network")
	}

	member, err := repo.GetMember(context.Background(), result.ID, "user-1")
	if err != nil {
		t.Fatalf("expected creator membership, got %v", err)
	}
	if member.Role != RoleCreator {
		t.Fatalf("expected creator role, got %q", member.Role)
	}
}

func TestCreateNetworkInvalidName(t *testing.T) {
	svc := newTestService(newFakeNetworkRepo())

	for _, name := range []string{"", "   ", strings.Repeat("ş", 51)} {
		_, err := svc.CreateNetwork(context.Background(), "user-1", CreateParams{Name: name})
		if !errors.Is(err, ErrInvalidName) {
			t.Fatalf("expected ErrInvalidName for %q, got %v", name, err)
		}
	}

	if _, err := svc.CreateNetwork(context.Background(), "user-1", CreateParams{Name: strings.Repeat("ş", 50)}); err != nil {
		t.Fatalf("expected 50 rune name to be accepted, got %v", err)
	}
}

func TestCreateNetworkInvalidInput(t *testing.T) {
	svc := newTestService(newFakeNetworkRepo())

	_, err := svc.CreateNetwork(context.Background(), "user-1", CreateParams{Name: "Work", Description: strPtr(strings.Repeat("x", 201))})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for description, got %v", err)
	}

	_, err = svc.CreateNetwork(context.Background(), "user-1", CreateParams{Name: "Work", MaxMembers: -1})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for max members, got %v", err)
	}
}

func TestCreateNetworkCodeSpaceExhausted(t *testing.T) {
	repo := newFakeNetworkRepo()
	repo.takenCodes["AAAAAA"] = true
	svc := newTestService(repo)
	svc.newCode = func(int) (string, error) { return "AAAAAA", nil }

	_, err := svc.CreateNetwork(context.Background(), "user-1", CreateParams{Name: "Work"})
	if !errors.Is(err, ErrCodeSpaceExhausted) {
		t.Fatalf("expected ErrCodeSpaceExhausted, got %v", err)
	}
	if len(repo.networks) != 0 || len(repo.members) != 0 {
		t.Fatalf("expected nothing persisted, got %d networks %d members", len(repo.networks), len(repo.members))
	}
}

func TestCreateNetworkRetriesCodeClaimedConcurrently(t *testing.T) {
	repo := newFakeNetworkRepo()
	repo.racedCodes["AAAAAA"] = true
	svc := newTestService(repo)
	codes := []string{"AAAAAA", "CCCCCC"}
	svc.newCode = func(int) (string, error) {
		code := codes[0]
		codes = codes[1:]
		return code, nil
	}

	network, err := svc.CreateNetwork(context.Background(), "user-1", CreateParams{Name: "Work"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if network.Code != "CCCCCC" {
		t.Fatalf("expected second code, got %q", network.Code)
	}
	if len(repo.networks) != 1 || repo.networks[network.ID].Code != "CCCCCC" {
		t.Fatalf("expected one stored network with CCCCCC, got %+v", repo.networks)
	}
}

func TestCreateNetworkRacedCodesExhaustAttempts(t *testing.T) {
	repo := newFakeNetworkRepo()
	repo.racedCodes["AAAAAA"] = true
	svc := newTestService(repo)
	svc.cfg.CodeAttempts = 3
	svc.newCode = func(int) (string, error) { return "AAAAAA", nil }

	_, err := svc.CreateNetwork(context.Background(), "user-1", CreateParams{Name: "Work"})
	if !errors.Is(err, ErrCodeSpaceExhausted) {
		t.Fatalf("expected ErrCodeSpaceExhausted, got %v", err)
	}
	if got := ContextOf(err)["attempts"]; got != "3" {
		t.Fatalf("expected attempts=3 in context, got %q", got)
	}
}

func TestCreateDefaultNetworkIsProtected(t *testing.T) {
	repo := newFakeNetworkRepo()
	svc := newTestService(repo)

	network, err := svc.CreateNetwork(context.Background(), "user-a", CreateParams{Name: "Aile Ağım", MaxMembers: 50})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !network.IsDefault {
		t.Fatalf("expected network classified as default")
	}

	_, err = svc.UpdateNetwork(context.Background(), "user-a", network.ID, UpdateParams{Description: strPtr("yeni")})
	if !errors.Is(err, ErrProtectedNetwork) {
		t.Fatalf("expected ErrProtectedNetwork, got %v", err)
	}
}

func TestDefaultNetworkRejectsMutationFromAnyActor(t *testing.T) {
	repo := newFakeNetworkRepo()
	repo.addNetwork(Network{ID: "net-1", Name: "Ailem", CreatorID: "owner", Code: "ZXCVBN", IsDefault: true}, "member")
	svc := newTestService(repo)

	for _, actor := range []string{"owner", "member", "stranger"} {
		if _, err := svc.UpdateNetwork(context.Background(), actor, "net-1", UpdateParams{Name: strPtr("Yeni")}); !errors.Is(err, ErrProtectedNetwork) {
			t.Fatalf("update by %s: expected ErrProtectedNetwork, got %v", actor, err)
		}
		if err := svc.DeleteNetwork(context.Background(), actor, "net-1"); !errors.Is(err, ErrProtectedNetwork) {
			t.Fatalf("delete by %s: expected ErrProtectedNetwork, got %v", actor, err)
		}
	}
	if repo.networks["net-1"].Name != "Ailem" || !repo.networks["net-1"].IsActive {
		t.Fatalf("expected default network untouched, got %+v", repo.networks["net-1"])
	}
}

func TestUpdateNetworkPartial(t *testing.T) {
	repo := newFakeNetworkRepo()
	repo.addNetwork(Network{ID: "net-1", Name: "Work", Description: strPtr("office"), CreatorID: "owner", Code: "ZXCVBN"})
	svc := newTestService(repo)

	result, err := svc.UpdateNetwork(context.Background(), "owner", "net-1", UpdateParams{Name: strPtr(" Site ")})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Name != "Site" {
		t.Fatalf("expected name Site, got %q", result.Name)
	}
	if result.Description == nil || *result.Description != "office" {
		t.Fatalf("expected description kept, got %v", result.Description)
	}

	result, err = svc.UpdateNetwork(context.Background(), "owner", "net-1", UpdateParams{Description: strPtr("")})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Description != nil || repo.networks["net-1"].Description != nil {
		t.Fatalf("expected description cleared, got %v", result.Description)
	}
	if repo.networks["net-1"].Code != "ZXCVBN" {
		t.Fatalf("expected code unchanged, got %q", repo.networks["net-1"].Code)
	}
}

func TestUpdateNetworkErrors(t *testing.T) {
	repo := newFakeNetworkRepo()
	repo.addNetwork(Network{ID: "net-1", Name: "Work", CreatorID: "owner", Code: "ZXCVBN"}, "member")
	svc := newTestService(repo)

	if _, err := svc.UpdateNetwork(context.Background(), "member", "net-1", UpdateParams{Name: strPtr("X")}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := svc.UpdateNetwork(context.Background(), "owner", "net-1", UpdateParams{Name: strPtr(" ")}); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
	if _, err := svc.UpdateNetwork(context.Background(), "owner", "missing", UpdateParams{Name: strPtr("X")}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if repo.networks["net-1"].Name != "Work" {
		t.Fatalf("expected name unchanged, got %q", repo.networks["net-1"].Name)
	}
}

func TestDeleteNetworkCascades(t *testing.T) {
	repo := newFakeNetworkRepo()
	repo.addNetwork(Network{ID: "net-1", Name: "Work", CreatorID: "owner", Code: "ZXCVBN"}, "member")
	repo.addNetwork(Network{ID: "net-2", Name: "Other", CreatorID: "owner", Code: "QWERTY"}, "member")
	repo.invitations["inv-1"] = &NetworkInvitation{ID: "inv-1", NetworkID: "net-1", InviterID: "owner", InviteeID: strPtr("x"), Status: InvitationPending, ExpiresAt: testNow.Add(defaultInvitationTTL)}
	repo.requests["req-1"] = &NetworkRequest{ID: "req-1", NetworkID: "net-1", RequesterID: "y", Status: RequestPending}
	repo.requests["req-2"] = &NetworkRequest{ID: "req-2", NetworkID: "net-2", RequesterID: "y", Status: RequestPending}
	svc := newTestService(repo)

	if err := svc.DeleteNetwork(context.Background(), "member", "net-1"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	if err := svc.DeleteNetwork(context.Background(), "owner", "net-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(repo.activeMembers("net-1")) != 0 {
		t.Fatalf("expected memberships removed")
	}
	if _, ok := repo.invitations["inv-1"]; ok {
		t.Fatalf("expected invitations removed")
	}
	if _, ok := repo.requests["req-1"]; ok {
		t.Fatalf("expected requests removed")
	}
	if _, ok := repo.requests["req-2"]; !ok {
		t.Fatalf("expected other network's requests kept")
	}
	if len(repo.activeMembers("net-2")) != 2 {
		t.Fatalf("expected other network's members kept")
	}

	if err := svc.DeleteNetwork(context.Background(), "owner", "net-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestDeleteNetworkReleasesCode(t *testing.T) {
	repo := newFakeNetworkRepo()
	repo.addNetwork(Network{ID: "net-1", Name: "Work", CreatorID: "owner", Code: "ZXCVBN"})
	svc := newTestService(repo)

	if err := svc.DeleteNetwork(context.Background(), "owner", "net-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := svc.JoinByCode(context.Background(), "user-2", "ZXCVBN"); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode for deleted network, got %v", err)
	}
	taken, _ := repo.IsCodeTaken(context.Background(), "ZXCVBN")
	if taken {
		t.Fatalf("expected code released")
	}
}

func TestProvisionDefaults(t *testing.T) {
	repo := newFakeNetworkRepo()
	svc := newTestService(repo)

	defaults, err := svc.ProvisionDefaults(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(defaults) != 2 {
		t.Fatalf("expected 2 default networks, got %d", len(defaults))
	}
	for _, network := range defaults {
		if !network.IsDefault {
			t.Fatalf("expected %q to be default", network.Name)
		}
	}

	again, err := svc.ProvisionDefaults(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(again) != 2 || len(repo.networks) != 2 {
		t.Fatalf("expected provisioning to be idempotent, got %d returned %d stored", len(again), len(repo.networks))
	}
}

func TestGetNetworkRequiresMembership(t *testing.T) {
	repo := newFakeNetworkRepo()
	repo.addNetwork(Network{ID: "net-1", Name: "Work", CreatorID: "owner", Code: "ZXCVBN"}, "member")
	svc := newTestService(repo)

	if _, err := svc.GetNetwork(context.Background(), "member", "net-1"); err != nil {
		t.Fatalf("expected member to see network, got %v", err)
	}
	_, err := svc.GetNetwork(context.Background(), "stranger", "net-1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for non-member, got %v", err)
	}
	if _, ok := ContextOf(err)["user_id"]; ok {
		t.Fatalf("expected no caller id in not-found context, got %v", ContextOf(err))
	}
	if _, err := svc.ListMembers(context.Background(), "stranger", "net-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound listing members as non-member, got %v", err)
	}
	members, err := svc.ListMembers(context.Background(), "owner", "net-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
}
