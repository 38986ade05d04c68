package workflow

import (
	"fmt"

	"gorm.io/gorm"
)

// AcquireLedgerPostingLock serializes postings against one ledger key across
// instances using MySQL advisory locks.
// NOTE: GET_LOCK is connection-scoped, so this must be called on the same
// transaction handle that performs the posting.
func AcquireLedgerPostingLock(tx *gorm.DB, key string) error {
	lockName := fmt.Sprintf("ledger:%s", key)
	var ok int
	if err := tx.Raw("SELECT GET_LOCK(?, 30)", lockName).Scan(&ok).Error; err != nil {
		return err
	}
	if ok != 1 {
		return fmt.Errorf("could not acquire posting lock for %s", key)
	}
	return nil
}

func ReleaseLedgerPostingLock(tx *gorm.DB, key string) {
	lockName := fmt.Sprintf("ledger:%s", key)
	var _ok int
	_ = tx.Raw("SELECT RELEASE_LOCK(?)", lockName).Scan(&_ok).Error
}
