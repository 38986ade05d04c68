package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/budget_backend/config"
	"bitbucket.org/mmdatafocus/budget_backend/models"
	"bitbucket.org/mmdatafocus/budget_backend/utils"
	"github.com/bsm/redislock"
	"github.com/sirupsen/logrus"
)

const salaryHeading = "Salaries"

type SalaryRequestInput struct {
	OfficeId   int    `json:"office_id" binding:"required"`
	FiscalYear string `json:"fiscal_year" binding:"required,fiscalyear"`
	Month      string `json:"month" binding:"required"`
}

// ProcessMonthlySalaryRequest sums the office's salary liability and files a
// pending fund request for it, at most once per (office, month, fiscal year).
// The duplicate check is an absence check with no row to lock, so it is
// serialized with a distributed lock instead.
func ProcessMonthlySalaryRequest(ctx context.Context, logger *logrus.Logger, role models.Role, input *SalaryRequestInput) (*models.FundRequest, error) {
	if role != models.RoleOffice {
		return nil, utils.AuthorizationError("only Office users can request salary fund")
	}
	if input.OfficeId == 0 || input.FiscalYear == "" || input.Month == "" {
		return nil, utils.ValidationError("all fields are required")
	}

	totalSalary, err := models.GetOfficeSalaryTotal(ctx, input.OfficeId)
	if err != nil {
		config.LogError(logger, "salaryWorkflow.go", "ProcessMonthlySalaryRequest", "GetOfficeSalaryTotal", input.OfficeId, err)
		return nil, err
	}
	if !totalSalary.IsPositive() {
		return nil, utils.ValidationError("no employees found for office %d", input.OfficeId)
	}

	purpose := fmt.Sprintf("Monthly Salary for %s", input.Month)

	lockKey := fmt.Sprintf("salaryRequest:%d:%s:%s", input.OfficeId, input.FiscalYear, input.Month)
	if locker := config.GetRedisLock(); locker != nil {
		lock, err := locker.Obtain(ctx, lockKey, 10*time.Second, &redislock.Options{
			RetryStrategy: redislock.LinearBackoff(100 * time.Millisecond),
		})
		if err != nil {
			if errors.Is(err, redislock.ErrNotObtained) {
				return nil, utils.ConflictError("salary fund request already in progress")
			}
			config.LogError(logger, "salaryWorkflow.go", "ProcessMonthlySalaryRequest", "ObtainLock", lockKey, err)
			return nil, err
		}
		defer lock.Release(ctx)
	}

	count, err := utils.ResourceCountWhere[models.FundRequest](ctx,
		"office_id = ? AND purpose = ? AND heading = ? AND fiscal_year = ?",
		input.OfficeId, purpose, salaryHeading, input.FiscalYear)
	if err != nil {
		config.LogError(logger, "salaryWorkflow.go", "ProcessMonthlySalaryRequest", "CountExistingRequests", input, err)
		return nil, err
	}
	if count > 0 {
		return nil, utils.ConflictError("salary fund request already exists for this month")
	}

	return models.CreateFundRequest(ctx, role, &models.NewFundRequest{
		OfficeId:   input.OfficeId,
		Amount:     totalSalary,
		Purpose:    purpose,
		FiscalYear: input.FiscalYear,
		Heading:    salaryHeading,
	})
}
