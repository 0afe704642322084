package usecase

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mintbay/goapi/base/ctx"
	"github.com/mintbay/goapi/base/ethereum"
	"github.com/mintbay/goapi/base/log"
	"github.com/mintbay/goapi/base/ptr"
	"github.com/mintbay/goapi/domain"
	"github.com/mintbay/goapi/domain/account"
)

const (
	nonceRange   = int32(9999999)
	invalidNonce = int32(-1)
)

type AccountUseCaseCfg struct {
	Repo account.Repo
	// SignatureMsg is the template of the message wallets sign, it has to
	// contain one %d verb for the nonce
	SignatureMsg string
}

type impl struct {
	repo         account.Repo
	signatureMsg string
}

// New creates account usecase
func New(cfg *AccountUseCaseCfg) account.Usecase {
	return &impl{
		repo:         cfg.Repo,
		signatureMsg: cfg.SignatureMsg,
	}
}

func (im *impl) Get(c ctx.Ctx, address domain.Address) (*account.Account, error) {
	return im.repo.Get(c, address)
}

func (im *impl) GetOrCreate(c ctx.Ctx, address domain.Address) (*account.Account, error) {
	a, err := im.repo.Get(c, address)
	if err == domain.ErrNotFound {
		return im.create(c, address)
	} else if err != nil {
		c.WithFields(log.Fields{
			"address": address,
			"err":     err,
		}).Error("repo.Get failed")
		return nil, err
	}
	return a, nil
}

func (im *impl) create(c ctx.Ctx, address domain.Address) (*account.Account, error) {
	now := time.Now()
	a := &account.Account{
		Address:   address.ToLower(),
		Nonce:     invalidNonce,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := im.repo.Insert(c, a); err != nil {
		c.WithField("err", err).Error("repo.Insert failed")
		return nil, err
	}
	return a, nil
}

func (im *impl) Update(c ctx.Ctx, address domain.Address, updater *account.Updater) (*account.Account, error) {
	updater.UpdatedAt = time.Now()
	if err := im.repo.Update(c, address, updater); err != nil {
		c.WithField("err", err).Error("repo.Update failed")
		return nil, err
	}
	return im.repo.Get(c, address)
}

func (im *impl) GetNonce(c ctx.Ctx, address domain.Address) (int32, error) {
	if _, err := im.GetOrCreate(c, address); err != nil {
		return invalidNonce, err
	}

	nonce := rand.Int31n(nonceRange)
	if _, err := im.Update(c, address, &account.Updater{Nonce: ptr.Int32(nonce)}); err != nil {
		return invalidNonce, err
	}
	return nonce, nil
}

func (im *impl) ValidateSignature(c ctx.Ctx, address domain.Address, signature string) error {
	a, err := im.repo.Get(c, address)
	if err != nil {
		return err
	}
	if a.Nonce == invalidNonce {
		return domain.ErrInvalidSignature
	}

	msg := []byte(fmt.Sprintf(im.signatureMsg, a.Nonce))
	valid, err := ethereum.ValidateMsgSignature(msg, signature, string(address))
	if err != nil {
		c.WithFields(log.Fields{
			"address": address,
			"err":     err,
		}).Error("ValidateMsgSignature failed")
		return domain.ErrInvalidSignature
	}
	if !valid {
		return domain.ErrInvalidSignature
	}

	// burn the nonce so a captured signature cannot be replayed
	if _, err := im.Update(c, address, &account.Updater{Nonce: ptr.Int32(invalidNonce)}); err != nil {
		return err
	}
	return nil
}
