package workflow

import (
	"context"
	"errors"
	"testing"

	"bitbucket.org/mmdatafocus/budget_backend/config"
	"bitbucket.org/mmdatafocus/budget_backend/models"
	"bitbucket.org/mmdatafocus/budget_backend/utils"
	"github.com/shopspring/decimal"
)

// The guard paths below reject before touching the database, so these tests
// run without one.

func TestProcessFundTransferRequiresAdmin(t *testing.T) {
	for _, role := range []models.Role{models.RoleViewer, models.RoleOffice} {
		_, err := ProcessFundTransfer(context.Background(), config.GetLogger(), role, 1)
		if !errors.Is(err, utils.ErrorAuthorization) {
			t.Fatalf("role %s: expected authorization error, got %v", role, err)
		}
	}
}

func TestProcessSpendRequiresOfficeRole(t *testing.T) {
	input := &SpendInput{
		OfficeId:    1,
		Heading:     "Stationery",
		FiscalYear:  "2025",
		Amount:      decimal.NewFromInt(100),
		Description: "printer paper",
	}
	for _, role := range []models.Role{models.RoleAdmin, models.RoleViewer} {
		_, err := ProcessSpend(context.Background(), config.GetLogger(), role, input)
		if !errors.Is(err, utils.ErrorAuthorization) {
			t.Fatalf("role %s: expected authorization error, got %v", role, err)
		}
	}
}

func TestProcessSpendValidatesInput(t *testing.T) {
	cases := []struct {
		name  string
		input SpendInput
	}{
		{"missing office", SpendInput{Heading: "Stationery", FiscalYear: "2025", Amount: decimal.NewFromInt(100), Description: "paper"}},
		{"missing heading", SpendInput{OfficeId: 1, FiscalYear: "2025", Amount: decimal.NewFromInt(100), Description: "paper"}},
		{"missing description", SpendInput{OfficeId: 1, Heading: "Stationery", FiscalYear: "2025", Amount: decimal.NewFromInt(100)}},
		{"zero amount", SpendInput{OfficeId: 1, Heading: "Stationery", FiscalYear: "2025", Description: "paper"}},
		{"negative amount", SpendInput{OfficeId: 1, Heading: "Stationery", FiscalYear: "2025", Amount: decimal.NewFromInt(-5), Description: "paper"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ProcessSpend(context.Background(), config.GetLogger(), models.RoleOffice, &tc.input)
			if !errors.Is(err, utils.ErrorValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestProcessMonthlySalaryRequestGuards(t *testing.T) {
	input := &SalaryRequestInput{OfficeId: 1, FiscalYear: "2025", Month: "January"}

	_, err := ProcessMonthlySalaryRequest(context.Background(), config.GetLogger(), models.RoleAdmin, input)
	if !errors.Is(err, utils.ErrorAuthorization) {
		t.Fatalf("expected authorization error for Admin, got %v", err)
	}

	_, err = ProcessMonthlySalaryRequest(context.Background(), config.GetLogger(), models.RoleOffice,
		&SalaryRequestInput{OfficeId: 1, FiscalYear: "2025"})
	if !errors.Is(err, utils.ErrorValidation) {
		t.Fatalf("expected validation error for missing month, got %v", err)
	}
}
