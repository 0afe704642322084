package proceeds

import (
	"time"

	"github.com/mintbay/goapi/base/ctx"
	"github.com/mintbay/goapi/domain"
)

// Proceeds is the withdrawable balance owed to an account from sales,
// auction wins and bid refunds. Balances only grow until the owner pulls
// the whole amount out.
type Proceeds struct {
	Address   domain.Address `json:"address" bson:"address"`
	Balance   domain.Amount  `json:"balance" bson:"balance"`
	UpdatedAt time.Time      `json:"updatedAt" bson:"updatedAt"`
}

// Withdrawal is the audit record of one completed pull-payment
type Withdrawal struct {
	Address     domain.Address `json:"address" bson:"address"`
	Amount      domain.Amount  `json:"amount" bson:"amount"`
	WithdrawnAt time.Time      `json:"withdrawnAt" bson:"withdrawnAt"`
}

type Repo interface {
	Get(c ctx.Ctx, address domain.Address) (*Proceeds, error)
	// Credit atomically increments the balance, creating the ledger entry
	// on first credit
	Credit(c ctx.Ctx, address domain.Address, amount domain.Amount) (*Proceeds, error)
	// Zero clears the balance only while it still equals `expect`, so a
	// concurrent credit is never lost. Returns domain.ErrConflict when the
	// guard misses.
	Zero(c ctx.Ctx, address domain.Address, expect domain.Amount) error
	InsertWithdrawal(c ctx.Ctx, withdrawal *Withdrawal) error
	GetWithdrawals(c ctx.Ctx, address domain.Address) ([]*Withdrawal, error)
}

type Usecase interface {
	GetBalance(c ctx.Ctx, address domain.Address) (*Proceeds, error)
	Credit(c ctx.Ctx, address domain.Address, amount domain.Amount) error
	// Withdraw clears the ledger entry before paying out and returns the
	// amount issued
	Withdraw(c ctx.Ctx, address domain.Address) (domain.Amount, error)
	GetWithdrawals(c ctx.Ctx, address domain.Address) ([]*Withdrawal, error)
}
