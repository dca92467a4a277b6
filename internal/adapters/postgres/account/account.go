package account

import (
	"time"

	"github.com/openledgerhq/transfer-engine/pkg/mmodel"
	"github.com/shopspring/decimal"
)

// AccountPostgreSQLModel represents the user_account table layout.
type AccountPostgreSQLModel struct {
	UserID    string
	Balance   decimal.Decimal
	Version   int64
	CreatedAt time.Time
}

// ToEntity converts an AccountPostgreSQLModel to entity mmodel.Account.
func (a *AccountPostgreSQLModel) ToEntity() *mmodel.Account {
	return &mmodel.Account{
		UserID:    a.UserID,
		Balance:   a.Balance,
		Version:   a.Version,
		CreatedAt: a.CreatedAt,
	}
}

// FromEntity converts an entity mmodel.Account to AccountPostgreSQLModel.
func (a *AccountPostgreSQLModel) FromEntity(acc *mmodel.Account) {
	a.UserID = acc.UserID
	a.Balance = acc.Balance
	a.Version = acc.Version
	a.CreatedAt = acc.CreatedAt
}
