package models

import (
	"errors"
)

// Role is the closed set of caller roles. The identity collaborator issues
// numeric role ids (1=Admin, 2=Viewer, 3=Office); they are mapped onto this
// enum at the boundary and never used as raw ints inside the core.
type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleViewer Role = "Viewer"
	RoleOffice Role = "Office"
)

const (
	RoleIdAdmin  = 1
	RoleIdViewer = 2
	RoleIdOffice = 3
)

func RoleFromId(id int) (Role, error) {
	switch id {
	case RoleIdAdmin:
		return RoleAdmin, nil
	case RoleIdViewer:
		return RoleViewer, nil
	case RoleIdOffice:
		return RoleOffice, nil
	}
	return "", errors.New("invalid role id")
}

func (r Role) Id() int {
	switch r {
	case RoleAdmin:
		return RoleIdAdmin
	case RoleViewer:
		return RoleIdViewer
	case RoleOffice:
		return RoleIdOffice
	}
	return 0
}

type FundRequestStatus string

const (
	FundRequestStatusPending     FundRequestStatus = "pending"
	FundRequestStatusApproved    FundRequestStatus = "approved"
	FundRequestStatusRejected    FundRequestStatus = "rejected"
	FundRequestStatusTransferred FundRequestStatus = "transferred"
)

func (s FundRequestStatus) Valid() bool {
	switch s {
	case FundRequestStatusPending, FundRequestStatusApproved,
		FundRequestStatusRejected, FundRequestStatusTransferred:
		return true
	}
	return false
}

// Terminal reports whether no further transition may leave s. A transferred
// request is fully consumed; a rejected request stays rejected. Approved is
// not terminal: the transfer workflow consumes it.
func (s FundRequestStatus) Terminal() bool {
	return s == FundRequestStatusRejected || s == FundRequestStatusTransferred
}
