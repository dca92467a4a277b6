package constant

import (
	"errors"
)

var (
	ErrEntityNotFound               = errors.New("0001")
	ErrUserNotFound                 = errors.New("0002")
	ErrUserAlreadyExists            = errors.New("0003")
	ErrTransferNotFound             = errors.New("0004")
	ErrInsufficientBalance          = errors.New("0005")
	ErrInvalidTransferState         = errors.New("0006")
	ErrCancellationWindowExpired    = errors.New("0007")
	ErrSameAccountTransfer          = errors.New("0008")
	ErrInvalidAmount                = errors.New("0009")
	ErrBadRequest                   = errors.New("0010")
	ErrUnexpectedFieldsInTheRequest = errors.New("0011")
	ErrInternalServer               = errors.New("0012")
	ErrInvalidPathParameter         = errors.New("0013")
	ErrCreditFailed                 = errors.New("0014")
	ErrInvalidQueryParameter        = errors.New("0015")
	ErrMessageBrokerUnavailable     = errors.New("0016")
)
