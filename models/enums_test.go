package models

import "testing"

func TestRoleIdRoundTrip(t *testing.T) {
	for _, id := range []int{RoleIdAdmin, RoleIdViewer, RoleIdOffice} {
		role, err := RoleFromId(id)
		if err != nil {
			t.Fatalf("RoleFromId(%d): %v", id, err)
		}
		if role.Id() != id {
			t.Fatalf("role %s maps back to id %d, want %d", role, role.Id(), id)
		}
	}
}

func TestRoleFromIdRejectsUnknownIds(t *testing.T) {
	for _, id := range []int{0, 4, -1, 99} {
		if _, err := RoleFromId(id); err == nil {
			t.Fatalf("RoleFromId(%d) accepted an unknown id", id)
		}
	}
}

func TestFundRequestStatusValid(t *testing.T) {
	valid := []FundRequestStatus{
		FundRequestStatusPending,
		FundRequestStatusApproved,
		FundRequestStatusRejected,
		FundRequestStatusTransferred,
	}
	for _, s := range valid {
		if !s.Valid() {
			t.Fatalf("status %q should be valid", s)
		}
	}
	for _, s := range []FundRequestStatus{"", "Pending", "cancelled"} {
		if s.Valid() {
			t.Fatalf("status %q should be invalid", s)
		}
	}
}

func TestFundRequestStatusTerminal(t *testing.T) {
	if FundRequestStatusPending.Terminal() || FundRequestStatusApproved.Terminal() {
		t.Fatalf("pending and approved must allow further transitions")
	}
	if !FundRequestStatusRejected.Terminal() || !FundRequestStatusTransferred.Terminal() {
		t.Fatalf("rejected and transferred must be terminal")
	}
}
