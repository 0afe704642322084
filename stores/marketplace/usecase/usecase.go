package usecase

import (
	"time"

	"github.com/mintbay/goapi/base/ctx"
	"github.com/mintbay/goapi/base/log"
	"github.com/mintbay/goapi/domain"
	"github.com/mintbay/goapi/domain/marketplace"
	"github.com/mintbay/goapi/domain/nftitem"
	"github.com/mintbay/goapi/domain/proceeds"
	"github.com/mintbay/goapi/service/query"
)

type MarketplaceUseCaseCfg struct {
	ListingRepo marketplace.Repo
	ItemRepo    nftitem.Repo
	ProceedsUC  proceeds.Usecase
	Query       query.Mongo
}

type impl struct {
	listings marketplace.Repo
	items    nftitem.Repo
	proceeds proceeds.Usecase
	query    query.Mongo
}

// New creates marketplace usecase
func New(cfg *MarketplaceUseCaseCfg) marketplace.Usecase {
	return &impl{
		listings: cfg.ListingRepo,
		items:    cfg.ItemRepo,
		proceeds: cfg.ProceedsUC,
		query:    cfg.Query,
	}
}

// guardListable checks every listing precondition against the current item
// state. The status guard is re-checked by the conditional item patch, so a
// racing operation loses with ErrInvalidTransition instead of corrupting
// state.
func (im *impl) guardListable(c ctx.Ctx, caller domain.Address, tokenId domain.TokenId) (*nftitem.NftItem, error) {
	item, err := im.items.FindOne(c, tokenId)
	if err != nil {
		return nil, err
	}
	if !item.Owner.Equals(caller) {
		return nil, domain.ErrNotOwner
	}
	switch item.Status {
	case domain.SaleStatusListed:
		return nil, domain.ErrAlreadyListed
	case domain.SaleStatusOnAuction:
		return nil, domain.ErrAlreadyOnAuction
	}
	return item, nil
}

func (im *impl) List(c ctx.Ctx, caller domain.Address, tokenId domain.TokenId, price domain.Amount) (*marketplace.Listing, error) {
	c = ctx.WithValues(c, map[string]interface{}{
		"tokenId": tokenId,
		"caller":  caller,
		"price":   price.String(),
	})

	if !price.IsPositive() {
		return nil, domain.ErrInvalidPrice
	}

	item, err := im.guardListable(c, caller, tokenId)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	listing := &marketplace.Listing{
		TokenId:   tokenId,
		Seller:    caller.ToLower(),
		Price:     price,
		ListedAt:  now,
		UpdatedAt: now,
	}

	err = im.query.RunWithTransaction(c, func(c ctx.Ctx) error {
		if err := im.items.PatchWithStatus(c, tokenId, item.Status, &nftitem.Updater{
			Status:    domain.SaleStatusListed.Ptr(),
			UpdatedAt: now,
		}); err != nil {
			return err
		}
		return im.listings.Insert(c, listing)
	})
	if err != nil {
		c.WithField("err", err).Error("list failed")
		return nil, err
	}
	return listing, nil
}

func (im *impl) Cancel(c ctx.Ctx, caller domain.Address, tokenId domain.TokenId) error {
	c = ctx.WithValues(c, map[string]interface{}{
		"tokenId": tokenId,
		"caller":  caller,
	})

	listing, err := im.listings.FindOne(c, tokenId)
	if err != nil {
		return err
	}
	if !listing.Seller.Equals(caller) {
		return domain.ErrNotOwner
	}

	// release escrow back to the seller before removing the offer
	return im.query.RunWithTransaction(c, func(c ctx.Ctx) error {
		if err := im.items.PatchWithStatus(c, tokenId, domain.SaleStatusListed, &nftitem.Updater{
			Status:    domain.SaleStatusCreated.Ptr(),
			UpdatedAt: time.Now(),
		}); err != nil {
			return err
		}
		return im.listings.Remove(c, tokenId)
	})
}

func (im *impl) Update(c ctx.Ctx, caller domain.Address, tokenId domain.TokenId, newPrice domain.Amount) (*marketplace.Listing, error) {
	c = ctx.WithValues(c, map[string]interface{}{
		"tokenId":  tokenId,
		"caller":   caller,
		"newPrice": newPrice.String(),
	})

	if !newPrice.IsPositive() {
		return nil, domain.ErrInvalidPrice
	}

	listing, err := im.listings.FindOne(c, tokenId)
	if err != nil {
		return nil, err
	}
	if !listing.Seller.Equals(caller) {
		return nil, domain.ErrNotOwner
	}

	if err := im.listings.Patch(c, tokenId, &marketplace.Updater{
		Price:     &newPrice,
		UpdatedAt: time.Now(),
	}); err != nil {
		c.WithField("err", err).Error("listings.Patch failed")
		return nil, err
	}
	return im.listings.FindOne(c, tokenId)
}

func (im *impl) Buy(c ctx.Ctx, caller domain.Address, tokenId domain.TokenId, payment domain.Amount) error {
	c = ctx.WithValues(c, map[string]interface{}{
		"tokenId": tokenId,
		"caller":  caller,
		"payment": payment.String(),
	})

	listing, err := im.listings.FindOne(c, tokenId)
	if err != nil {
		return err
	}
	if !payment.Equals(listing.Price) {
		return domain.ErrInsufficientPayment
	}

	// internal state first: clear the listing and hand over the token, then
	// credit the seller. The whole transition is all-or-nothing. The removal
	// is guarded on the price the payment was checked against, so a
	// concurrent price update aborts the buy instead of selling at the
	// stale price.
	err = im.query.RunWithTransaction(c, func(c ctx.Ctx) error {
		if err := im.items.PatchWithStatus(c, tokenId, domain.SaleStatusListed, &nftitem.Updater{
			Owner:     caller.ToLowerPtr(),
			Status:    domain.SaleStatusBought.Ptr(),
			UpdatedAt: time.Now(),
		}); err != nil {
			return err
		}
		if err := im.listings.RemoveWithPrice(c, tokenId, listing.Price); err != nil {
			return err
		}
		return im.proceeds.Credit(c, listing.Seller, payment)
	})
	if err != nil {
		c.WithFields(log.Fields{
			"seller": listing.Seller,
			"err":    err,
		}).Error("buy failed")
		return err
	}
	return nil
}

func (im *impl) GetListing(c ctx.Ctx, tokenId domain.TokenId) (*marketplace.Listing, error) {
	return im.listings.FindOne(c, tokenId)
}

func (im *impl) GetListings(c ctx.Ctx, opts ...marketplace.FindAllOptions) ([]*marketplace.Listing, error) {
	return im.listings.FindAll(c, opts...)
}
