package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/mintbay/goapi/base/ctx"
	"github.com/mintbay/goapi/base/log"
	"github.com/mintbay/goapi/domain"
	"github.com/mintbay/goapi/domain/auction"
	"github.com/mintbay/goapi/service/query"
)

type impl struct {
	query query.Mongo
}

// New creates new auction repo
func New(query query.Mongo) auction.Repo {
	return &impl{query: query}
}

func (im *impl) FindOne(c ctx.Ctx, tokenId domain.TokenId) (*auction.Auction, error) {
	a := &auction.Auction{}
	err := im.query.FindOne(c, domain.TableAuctions, bson.M{"tokenId": tokenId, "settled": false}, a)
	if err == query.ErrNotFound {
		return nil, domain.ErrAuctionNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"tokenId": tokenId,
			"err":     err,
		}).Error("find auction failed")
		return nil, err
	}
	return a, nil
}

func (im *impl) FindAll(c ctx.Ctx, opts ...auction.FindAllOptions) ([]*auction.Auction, error) {
	o := auction.GetFindAllOptions(opts...)

	selector := bson.M{}
	if o.Seller != nil {
		selector["seller"] = *o.Seller
	}
	if o.Settled != nil {
		selector["settled"] = *o.Settled
	}
	if o.EndedBefore != nil {
		selector["endTime"] = bson.M{"$lte": *o.EndedBefore}
	}

	offset := 0
	limit := 0
	if o.Offset != nil {
		offset = int(*o.Offset)
	}
	if o.Limit != nil {
		limit = int(*o.Limit)
	}

	auctions := []*auction.Auction{}
	if err := im.query.Search(c, domain.TableAuctions, offset, limit, "endTime", selector, &auctions); err != nil {
		c.WithField("err", err).Error("search auctions failed")
		return nil, err
	}
	return auctions, nil
}

func (im *impl) Insert(c ctx.Ctx, a *auction.Auction) error {
	a.Seller = a.Seller.ToLower()
	if a.Bids == nil {
		a.Bids = []auction.Bid{}
	}
	if err := im.query.Insert(c, domain.TableAuctions, a); err != nil {
		if err == query.ErrDuplicateKey {
			return domain.ErrAlreadyOnAuction
		}
		c.WithFields(log.Fields{
			"tokenId": a.TokenId,
			"err":     err,
		}).Error("insert auction failed")
		return err
	}
	return nil
}

func (im *impl) AppendBid(c ctx.Ctx, tokenId domain.TokenId, prevHighest *auction.Bid, bid *auction.Bid) error {
	bid.Bidder = bid.Bidder.ToLower()

	selector := bson.M{"tokenId": tokenId, "settled": false}
	if prevHighest == nil {
		selector["highestBid"] = nil
	} else {
		selector["highestBid.bidder"] = prevHighest.Bidder
		selector["highestBid.amount"] = prevHighest.Amount
	}

	update := bson.M{
		"$push": bson.M{"bids": bid},
		"$set":  bson.M{"highestBid": bid},
	}

	err := im.query.CustomPatch(c, domain.TableAuctions, selector, update, false)
	if err == query.ErrNotFound {
		// the highest bid moved underneath this bidder
		return domain.ErrInvalidBid
	} else if err != nil {
		c.WithFields(log.Fields{
			"tokenId": tokenId,
			"bidder":  bid.Bidder,
			"err":     err,
		}).Error("append bid failed")
		return err
	}
	return nil
}

func (im *impl) MarkSettled(c ctx.Ctx, tokenId domain.TokenId, settledAt time.Time, winner *domain.Address) error {
	set := bson.M{"settled": true, "settledAt": settledAt}
	if winner != nil {
		set["winner"] = winner.ToLower()
	}

	err := im.query.CustomPatch(c, domain.TableAuctions, bson.M{"tokenId": tokenId, "settled": false}, bson.M{"$set": set}, false)
	if err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"tokenId": tokenId,
			"err":     err,
		}).Error("mark settled failed")
		return err
	}
	return nil
}
