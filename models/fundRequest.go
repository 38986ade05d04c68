package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/budget_backend/config"
	"bitbucket.org/mmdatafocus/budget_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FundRequest lifecycle: pending -> approved -> transferred, or
// pending -> rejected. Transitions are conditional updates on the current
// status so a request can never be re-approved, flipped after the fact, or
// transferred twice.
type FundRequest struct {
	ID         int               `gorm:"primary_key" json:"id"`
	OfficeId   int               `gorm:"index;not null" json:"office_id"`
	Amount     decimal.Decimal   `gorm:"type:decimal(20,4);not null" json:"amount"`
	Purpose    string            `gorm:"type:text;not null" json:"purpose"`
	FiscalYear string            `gorm:"size:20;not null" json:"fiscal_year"`
	Heading    string            `gorm:"size:100;not null" json:"heading"`
	Status     FundRequestStatus `gorm:"type:enum('pending','approved','rejected','transferred');default:pending;index" json:"status"`
	CreatedAt  time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewFundRequest struct {
	OfficeId   int             `json:"office_id" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Purpose    string          `json:"purpose" binding:"required"`
	FiscalYear string          `json:"fiscal_year" binding:"required,fiscalyear"`
	Heading    string          `json:"heading" binding:"required"`
}

type FundRequestWithOffice struct {
	FundRequest
	OfficeName string `json:"office_name"`
	Location   string `json:"location"`
}

func CreateFundRequest(ctx context.Context, role Role, input *NewFundRequest) (*FundRequest, error) {
	if role != RoleOffice {
		return nil, utils.AuthorizationError("only Office users can request funds")
	}
	if input.OfficeId == 0 || input.Purpose == "" || input.FiscalYear == "" || input.Heading == "" {
		return nil, utils.ValidationError("all fields are required")
	}
	if !input.Amount.IsPositive() {
		return nil, utils.ValidationError("amount must be greater than zero")
	}
	if err := utils.ValidateResourceId[Office](ctx, input.OfficeId); err != nil {
		if errors.Is(err, utils.ErrorRecordNotFound) {
			return nil, utils.NotFoundError("office %d", input.OfficeId)
		}
		return nil, err
	}

	request := FundRequest{
		OfficeId:   input.OfficeId,
		Amount:     input.Amount,
		Purpose:    input.Purpose,
		FiscalYear: input.FiscalYear,
		Heading:    input.Heading,
		Status:     FundRequestStatusPending,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func ListFundRequestsByStatus(ctx context.Context, role Role, status FundRequestStatus) ([]FundRequestWithOffice, error) {
	if role != RoleAdmin {
		return nil, utils.AuthorizationError("only Admins can view %s requests", status)
	}
	if !status.Valid() {
		return nil, utils.ValidationError("invalid status %q", status)
	}

	var requests []FundRequestWithOffice
	db := config.GetDB()
	err := db.WithContext(ctx).Model(&FundRequest{}).
		Select("fund_requests.*, offices.name AS office_name, offices.location").
		Joins("JOIN offices ON fund_requests.office_id = offices.id").
		Where("fund_requests.status = ?", status).
		Order("fund_requests.id").
		Scan(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// SetFundRequestStatus moves a pending request to approved or rejected.
// The transition is a conditional update: zero affected rows means either the
// id does not exist (NotFound) or the request already left pending (Conflict).
func SetFundRequestStatus(ctx context.Context, role Role, id int, status FundRequestStatus) error {
	if role != RoleAdmin {
		return utils.AuthorizationError("only Admins can %s requests", verbFor(status))
	}
	if status != FundRequestStatusApproved && status != FundRequestStatusRejected {
		return utils.ValidationError("status must be approved or rejected, got %q", status)
	}

	db := config.GetDB()
	result := db.WithContext(ctx).Model(&FundRequest{}).
		Where("id = ? AND status = ?", id, FundRequestStatusPending).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var current FundRequest
		if err := db.WithContext(ctx).Take(&current, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFoundError("fund request %d", id)
			}
			return err
		}
		return utils.ConflictError("fund request %d is %s, not pending", id, current.Status)
	}
	return nil
}

func verbFor(status FundRequestStatus) string {
	if status == FundRequestStatusRejected {
		return "reject"
	}
	return "approve"
}

// BulkApproveFundRequests approves every pending request and returns the
// affected count. Re-running with nothing pending affects zero rows.
func BulkApproveFundRequests(ctx context.Context, role Role) (int64, error) {
	if role != RoleAdmin {
		return 0, utils.AuthorizationError("only Admins can bulk approve requests")
	}

	db := config.GetDB()
	result := db.WithContext(ctx).Model(&FundRequest{}).
		Where("status = ?", FundRequestStatusPending).
		Update("status", FundRequestStatusApproved)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// GetFundRequestForTransfer loads a request FOR UPDATE inside the transfer
// transaction so its status cannot change underneath the workflow.
func GetFundRequestForTransfer(tx *gorm.DB, id int) (*FundRequest, error) {
	var request FundRequest
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Take(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundError("fund request %d", id)
		}
		return nil, err
	}
	return &request, nil
}

// ConsumeApprovedFundRequest transitions approved -> transferred as part of
// the transfer transaction. Zero affected rows means the request was not in
// the approved state at commit time, so the transfer must abort.
func ConsumeApprovedFundRequest(tx *gorm.DB, id int) error {
	result := tx.Model(&FundRequest{}).
		Where("id = ? AND status = ?", id, FundRequestStatusApproved).
		Update("status", FundRequestStatusTransferred)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ConflictError("fund request %d is not approved", id)
	}
	return nil
}
