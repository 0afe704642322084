package usecase

import (
	"time"

	"github.com/mintbay/goapi/base/ctx"
	"github.com/mintbay/goapi/base/log"
	"github.com/mintbay/goapi/domain"
	"github.com/mintbay/goapi/domain/proceeds"
)

// withdrawRetries bounds the optimistic retry loop when a credit lands
// between reading and zeroing the balance
const withdrawRetries = 3

type impl struct {
	repo proceeds.Repo
}

// New creates proceeds usecase
func New(repo proceeds.Repo) proceeds.Usecase {
	return &impl{repo: repo}
}

func (im *impl) GetBalance(c ctx.Ctx, address domain.Address) (*proceeds.Proceeds, error) {
	return im.repo.Get(c, address)
}

func (im *impl) Credit(c ctx.Ctx, address domain.Address, amount domain.Amount) error {
	if !amount.IsPositive() {
		return domain.ErrInvalidAmountFormat
	}
	if _, err := im.repo.Credit(c, address, amount); err != nil {
		c.WithFields(log.Fields{
			"address": address,
			"amount":  amount.String(),
			"err":     err,
		}).Error("repo.Credit failed")
		return err
	}
	return nil
}

// Withdraw clears the whole balance before issuing anything, so a reentrant
// call observes an empty ledger entry instead of paying twice.
func (im *impl) Withdraw(c ctx.Ctx, address domain.Address) (domain.Amount, error) {
	c = ctx.WithValue(c, "address", address)

	for attempt := 0; attempt < withdrawRetries; attempt++ {
		entry, err := im.repo.Get(c, address)
		if err != nil {
			return domain.ZeroAmount, err
		}
		if entry.Balance.IsZero() {
			return domain.ZeroAmount, domain.ErrNothingToWithdraw
		}

		if err := im.repo.Zero(c, address, entry.Balance); err == domain.ErrConflict {
			continue
		} else if err != nil {
			return domain.ZeroAmount, err
		}

		withdrawal := &proceeds.Withdrawal{
			Address:     address.ToLower(),
			Amount:      entry.Balance,
			WithdrawnAt: time.Now(),
		}
		if err := im.repo.InsertWithdrawal(c, withdrawal); err != nil {
			// the payout record is an audit trail, the funds are already
			// released
			c.WithField("err", err).Error("InsertWithdrawal failed")
		}
		return entry.Balance, nil
	}
	return domain.ZeroAmount, domain.ErrConflict
}

func (im *impl) GetWithdrawals(c ctx.Ctx, address domain.Address) ([]*proceeds.Withdrawal, error) {
	return im.repo.GetWithdrawals(c, address)
}
