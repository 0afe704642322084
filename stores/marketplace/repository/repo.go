package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/mintbay/goapi/base/ctx"
	"github.com/mintbay/goapi/base/database/mongoclient"
	"github.com/mintbay/goapi/base/log"
	"github.com/mintbay/goapi/domain"
	"github.com/mintbay/goapi/domain/marketplace"
	"github.com/mintbay/goapi/service/query"
)

type impl struct {
	query query.Mongo
}

// New creates new listing repo
func New(query query.Mongo) marketplace.Repo {
	return &impl{query: query}
}

func (im *impl) FindOne(c ctx.Ctx, tokenId domain.TokenId) (*marketplace.Listing, error) {
	listing := &marketplace.Listing{}
	err := im.query.FindOne(c, domain.TableListings, bson.M{"tokenId": tokenId}, listing)
	if err == query.ErrNotFound {
		return nil, domain.ErrNotListed
	} else if err != nil {
		c.WithFields(log.Fields{
			"tokenId": tokenId,
			"err":     err,
		}).Error("find listing failed")
		return nil, err
	}
	return listing, nil
}

func (im *impl) FindAll(c ctx.Ctx, opts ...marketplace.FindAllOptions) ([]*marketplace.Listing, error) {
	o := marketplace.GetFindAllOptions(opts...)

	selector := bson.M{}
	if o.Seller != nil {
		selector["seller"] = *o.Seller
	}

	offset := 0
	limit := 0
	if o.Offset != nil {
		offset = int(*o.Offset)
	}
	if o.Limit != nil {
		limit = int(*o.Limit)
	}

	listings := []*marketplace.Listing{}
	if err := im.query.Search(c, domain.TableListings, offset, limit, "tokenId", selector, &listings); err != nil {
		c.WithField("err", err).Error("search listings failed")
		return nil, err
	}
	return listings, nil
}

func (im *impl) Insert(c ctx.Ctx, listing *marketplace.Listing) error {
	listing.Seller = listing.Seller.ToLower()
	if err := im.query.Insert(c, domain.TableListings, listing); err != nil {
		if err == query.ErrDuplicateKey {
			return domain.ErrAlreadyListed
		}
		c.WithFields(log.Fields{
			"tokenId": listing.TokenId,
			"err":     err,
		}).Error("insert listing failed")
		return err
	}
	return nil
}

func (im *impl) Patch(c ctx.Ctx, tokenId domain.TokenId, updater *marketplace.Updater) error {
	updaterBson, err := mongoclient.MakeBsonM(updater)
	if err != nil {
		c.WithFields(log.Fields{
			"tokenId": tokenId,
			"err":     err,
		}).Error("make bsonM failed")
		return err
	}
	if err := im.query.Patch(c, domain.TableListings, bson.M{"tokenId": tokenId}, updaterBson); err != nil {
		if err == query.ErrNotFound {
			return domain.ErrNotListed
		}
		c.WithFields(log.Fields{
			"tokenId": tokenId,
			"err":     err,
		}).Error("patch listing failed")
		return err
	}
	return nil
}

func (im *impl) Remove(c ctx.Ctx, tokenId domain.TokenId) error {
	err := im.query.Remove(c, domain.TableListings, bson.M{"tokenId": tokenId})
	if err == query.ErrNotFound {
		return domain.ErrNotListed
	} else if err != nil {
		c.WithFields(log.Fields{
			"tokenId": tokenId,
			"err":     err,
		}).Error("remove listing failed")
		return err
	}
	return nil
}

func (im *impl) RemoveWithPrice(c ctx.Ctx, tokenId domain.TokenId, price domain.Amount) error {
	err := im.query.Remove(c, domain.TableListings, bson.M{"tokenId": tokenId, "price": price})
	if err == query.ErrNotFound {
		// the listing moved to another price (or is gone) underneath us
		return domain.ErrConflict
	} else if err != nil {
		c.WithFields(log.Fields{
			"tokenId": tokenId,
			"price":   price.String(),
			"err":     err,
		}).Error("remove listing failed")
		return err
	}
	return nil
}
