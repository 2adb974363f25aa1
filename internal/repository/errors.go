package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

var (
	ErrTransactionNotFound = errors.New("TRANSACTION_NOT_FOUND")
	ErrPaymentNotFound     = errors.New("PAYMENT_NOT_FOUND")
	ErrExtensionNotFound   = errors.New("EXTENSION_NOT_FOUND")
	ErrVersionConflict     = errors.New("VERSION_CONFLICT")
	ErrDuplicate           = errors.New("DUPLICATE_ENTRY")
)

const mysqlDuplicateEntry = 1062

func mapWriteError(err error) error {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		return ErrDuplicate
	}
	return err
}
