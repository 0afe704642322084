package usecase

import (
	"time"

	"github.com/mintbay/goapi/base/ctx"
	"github.com/mintbay/goapi/base/log"
	"github.com/mintbay/goapi/domain"
	"github.com/mintbay/goapi/domain/nftitem"
)

type impl struct {
	repo nftitem.Repo
}

// New creates nft item usecase
func New(repo nftitem.Repo) nftitem.Usecase {
	return &impl{repo: repo}
}

func (im *impl) Mint(c ctx.Ctx, creator domain.Address, tokenUri string) (*nftitem.NftItem, error) {
	c = ctx.WithValues(c, map[string]interface{}{
		"creator":  creator,
		"tokenUri": tokenUri,
	})

	tokenId, err := im.repo.NextTokenId(c)
	if err != nil {
		c.WithField("err", err).Error("repo.NextTokenId failed")
		return nil, err
	}

	now := time.Now()
	item := &nftitem.NftItem{
		TokenId:   tokenId,
		Owner:     creator.ToLower(),
		Creator:   creator.ToLower(),
		TokenUri:  tokenUri,
		Status:    domain.SaleStatusCreated,
		MintedAt:  now,
		UpdatedAt: now,
	}
	if err := im.repo.Insert(c, item); err != nil {
		c.WithFields(log.Fields{
			"tokenId": tokenId,
			"err":     err,
		}).Error("repo.Insert failed")
		return nil, err
	}
	return item, nil
}

func (im *impl) Get(c ctx.Ctx, tokenId domain.TokenId) (*nftitem.NftItem, error) {
	return im.repo.FindOne(c, tokenId)
}

func (im *impl) GetItems(c ctx.Ctx, opts ...nftitem.FindAllOptions) ([]*nftitem.NftItem, error) {
	return im.repo.FindAll(c, opts...)
}

func (im *impl) GetUserItems(c ctx.Ctx, owner domain.Address) ([]*nftitem.NftItem, error) {
	return im.repo.FindAll(c, nftitem.WithOwner(owner))
}

func (im *impl) GetCurrentTokenId(c ctx.Ctx) (domain.TokenId, error) {
	return im.repo.CurrentTokenId(c)
}

func (im *impl) Transfer(c ctx.Ctx, caller, to domain.Address, tokenId domain.TokenId) error {
	c = ctx.WithValues(c, map[string]interface{}{
		"tokenId": tokenId,
		"caller":  caller,
		"to":      to,
	})

	item, err := im.repo.FindOne(c, tokenId)
	if err != nil {
		return err
	}
	if !item.Owner.Equals(caller) {
		return domain.ErrNotOwner
	}
	if item.Status.InCustody() {
		return domain.ErrTokenEscrowed
	}

	// guard the patch on the status we read: the read may have come from the
	// cache, and the token could have been escrowed since
	if err := im.repo.PatchWithStatus(c, tokenId, item.Status, &nftitem.Updater{
		Owner:     to.ToLowerPtr(),
		UpdatedAt: time.Now(),
	}); err != nil {
		if err == domain.ErrInvalidTransition {
			return domain.ErrTokenEscrowed
		}
		c.WithField("err", err).Error("repo.PatchWithStatus failed")
		return err
	}
	return nil
}
