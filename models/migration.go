package models

import (
	"log"

	"bitbucket.org/mmdatafocus/budget_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&User{},
		&Ministry{}, &Office{},
		&Budget{},
		&FundRequest{}, &Transfer{},
		&OfficeFund{}, &Expenditure{},
		&EmployeeTier{}, &Employee{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
