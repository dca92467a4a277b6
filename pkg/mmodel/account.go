package mmodel

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateAccountInput is a struct design to encapsulate request create payload data.
type CreateAccountInput struct {
	UserID         string          `json:"userId" validate:"required,min=3,max=50"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
}

// Account is a struct designed to encapsulate a user account payload.
type Account struct {
	UserID    string          `json:"userId"`
	Balance   decimal.Decimal `json:"balance"`
	Version   int64           `json:"-"`
	CreatedAt time.Time       `json:"createdAt"`
}

// BalanceView is the read projection returned by the balance endpoint and held by the cache.
type BalanceView struct {
	UserID  string          `json:"userId"`
	Balance decimal.Decimal `json:"balance"`
}

// CachedBalance is the msgpack-encoded shape stored in the cache. The balance is kept
// as its canonical string form so the codec stays independent of decimal internals.
type CachedBalance struct {
	UserID  string `msgpack:"userId"`
	Balance string `msgpack:"balance"`
	Version int64  `msgpack:"version"`
}

// ToView converts the cached shape back into the API projection.
func (c *CachedBalance) ToView() (*BalanceView, error) {
	balance, err := decimal.NewFromString(c.Balance)
	if err != nil {
		return nil, err
	}

	return &BalanceView{
		UserID:  c.UserID,
		Balance: balance,
	}, nil
}

// NewCachedBalance builds the cacheable shape from an account row.
func NewCachedBalance(acc *Account) *CachedBalance {
	return &CachedBalance{
		UserID:  acc.UserID,
		Balance: acc.Balance.StringFixed(2),
		Version: acc.Version,
	}
}
