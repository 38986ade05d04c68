package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/budget_backend/config"
	"github.com/shopspring/decimal"
)

type EmployeeTier struct {
	ID            int             `gorm:"primary_key" json:"id"`
	Name          string          `gorm:"size:100;not null" json:"name" binding:"required"`
	MonthlySalary decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"monthly_salary"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type Employee struct {
	ID        int       `gorm:"primary_key" json:"id"`
	OfficeId  int       `gorm:"index;not null" json:"office_id" binding:"required"`
	TierId    int       `gorm:"index;not null" json:"tier_id" binding:"required"`
	Name      string    `gorm:"size:255;not null" json:"name" binding:"required"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// GetOfficeSalaryTotal sums the monthly tier rates of every employee in the
// office. Zero means no employees.
func GetOfficeSalaryTotal(ctx context.Context, officeId int) (decimal.Decimal, error) {
	var total decimal.Decimal
	db := config.GetDB()
	err := db.WithContext(ctx).Model(&Employee{}).
		Select("COALESCE(SUM(employee_tiers.monthly_salary), 0)").
		Joins("JOIN employee_tiers ON employees.tier_id = employee_tiers.id").
		Where("employees.office_id = ?", officeId).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
