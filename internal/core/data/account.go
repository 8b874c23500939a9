package data

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Account is a login created or updated from this launcher on one server.
type Account struct {
	ID                uint64 `gorm:"primaryKey"`
	Username          string `gorm:"not null; uniqueIndex:idx_account_server"`
	Server            string `gorm:"not null; uniqueIndex:idx_account_server"`
	RegisteredAt      time.Time
	PasswordChangedAt time.Time
}

// FindAccount returns the account registered as username on server, or nil if
// there is no match.
func FindAccount(db *gorm.DB, username, server string) (*Account, error) {
	var account Account
	err := db.Where("username = ? AND server = ?", username, server).First(&account).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &account, nil
}

// FindAccountsByUsername returns every server the username is known on.
func FindAccountsByUsername(db *gorm.DB, username string) ([]Account, error) {
	var accounts []Account
	err := db.Where("username = ?", username).Order("server").Find(&accounts).Error
	return accounts, err
}

// FindAccounts returns every known account ordered by server and username.
func FindAccounts(db *gorm.DB) ([]Account, error) {
	var accounts []Account
	err := db.Order("server").Order("username").Find(&accounts).Error
	return accounts, err
}

// RecordRegistration notes that username was registered on server at the
// given time.
func RecordRegistration(db *gorm.DB, username, server string, at time.Time) error {
	return upsertAccount(db, username, server, func(a *Account) {
		a.RegisteredAt = at
	})
}

// RecordPasswordChange notes that the password of username on server was
// changed at the given time. Accounts registered elsewhere are added.
func RecordPasswordChange(db *gorm.DB, username, server string, at time.Time) error {
	return upsertAccount(db, username, server, func(a *Account) {
		a.PasswordChangedAt = at
	})
}

func upsertAccount(db *gorm.DB, username, server string, update func(*Account)) error {
	return db.Transaction(func(tx *gorm.DB) error {
		account, err := FindAccount(tx, username, server)
		if err != nil {
			return err
		}
		if account == nil {
			account = &Account{Username: username, Server: server}
		}
		update(account)
		return tx.Save(account).Error
	})
}

// DeleteAccount removes an Account record from the database.
func DeleteAccount(db *gorm.DB, account *Account) error {
	return db.Delete(account).Error
}
