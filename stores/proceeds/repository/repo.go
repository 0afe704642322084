package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/mintbay/goapi/base/ctx"
	"github.com/mintbay/goapi/base/log"
	"github.com/mintbay/goapi/domain"
	"github.com/mintbay/goapi/domain/proceeds"
	"github.com/mintbay/goapi/service/query"
)

type impl struct {
	query query.Mongo
}

// New creates new proceeds repo
func New(query query.Mongo) proceeds.Repo {
	return &impl{query: query}
}

func (im *impl) Get(c ctx.Ctx, address domain.Address) (*proceeds.Proceeds, error) {
	res := &proceeds.Proceeds{}
	err := im.query.FindOne(c, domain.TableProceeds, bson.M{"address": address.ToLower()}, res)
	if err == query.ErrNotFound {
		// an account that never sold anything has a zero ledger entry
		return &proceeds.Proceeds{Address: address.ToLower(), Balance: domain.ZeroAmount}, nil
	} else if err != nil {
		c.WithFields(log.Fields{
			"address": address,
			"err":     err,
		}).Error("find proceeds failed")
		return nil, err
	}
	return res, nil
}

func (im *impl) Credit(c ctx.Ctx, address domain.Address, amount domain.Amount) (*proceeds.Proceeds, error) {
	res := &proceeds.Proceeds{}
	if err := im.query.Increment(c, domain.TableProceeds, bson.M{"address": address.ToLower()}, res, "balance", amount); err != nil {
		c.WithFields(log.Fields{
			"address": address,
			"amount":  amount.String(),
			"err":     err,
		}).Error("increment balance failed")
		return nil, err
	}
	return res, nil
}

func (im *impl) Zero(c ctx.Ctx, address domain.Address, expect domain.Amount) error {
	selector := bson.M{"address": address.ToLower(), "balance": expect}
	update := bson.M{"balance": domain.ZeroAmount, "updatedAt": time.Now()}
	err := im.query.Patch(c, domain.TableProceeds, selector, update)
	if err == query.ErrNotFound {
		// balance moved since it was read, caller has to retry
		return domain.ErrConflict
	} else if err != nil {
		c.WithFields(log.Fields{
			"address": address,
			"err":     err,
		}).Error("zero balance failed")
		return err
	}
	return nil
}

func (im *impl) InsertWithdrawal(c ctx.Ctx, withdrawal *proceeds.Withdrawal) error {
	withdrawal.Address = withdrawal.Address.ToLower()
	if err := im.query.Insert(c, domain.TableWithdrawals, withdrawal); err != nil {
		c.WithFields(log.Fields{
			"address": withdrawal.Address,
			"err":     err,
		}).Error("insert withdrawal failed")
		return err
	}
	return nil
}

func (im *impl) GetWithdrawals(c ctx.Ctx, address domain.Address) ([]*proceeds.Withdrawal, error) {
	withdrawals := []*proceeds.Withdrawal{}
	if err := im.query.Search(c, domain.TableWithdrawals, 0, 0, "-withdrawnAt", bson.M{"address": address.ToLower()}, &withdrawals); err != nil {
		c.WithFields(log.Fields{
			"address": address,
			"err":     err,
		}).Error("search withdrawals failed")
		return nil, err
	}
	return withdrawals, nil
}
