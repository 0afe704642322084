package usecase

import (
	"time"

	"github.com/viney-shih/goroutines"

	"github.com/mintbay/goapi/base/ctx"
	"github.com/mintbay/goapi/base/log"
	"github.com/mintbay/goapi/base/metrics"
	"github.com/mintbay/goapi/domain"
	"github.com/mintbay/goapi/domain/auction"
	"github.com/mintbay/goapi/domain/nftitem"
	"github.com/mintbay/goapi/domain/proceeds"
	"github.com/mintbay/goapi/service/query"
)

const settlementWorkers = 8

type AuctionUseCaseCfg struct {
	AuctionRepo auction.Repo
	ItemRepo    nftitem.Repo
	ProceedsUC  proceeds.Usecase
	Query       query.Mongo
	// Now overrides the clock, defaults to time.Now
	Now func() time.Time
}

type impl struct {
	auctions auction.Repo
	items    nftitem.Repo
	proceeds proceeds.Usecase
	query    query.Mongo
	now      func() time.Time
	met      metrics.Service
}

// New creates auction usecase
func New(cfg *AuctionUseCaseCfg) auction.Usecase {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &impl{
		auctions: cfg.AuctionRepo,
		items:    cfg.ItemRepo,
		proceeds: cfg.ProceedsUC,
		query:    cfg.Query,
		now:      now,
		met:      metrics.New("auction"),
	}
}

func (im *impl) Start(c ctx.Ctx, caller domain.Address, tokenId domain.TokenId, reservePrice domain.Amount, endTime time.Time) (*auction.Auction, error) {
	c = ctx.WithValues(c, map[string]interface{}{
		"tokenId":      tokenId,
		"caller":       caller,
		"reservePrice": reservePrice.String(),
		"endTime":      endTime,
	})

	if !reservePrice.IsPositive() {
		return nil, domain.ErrInvalidPrice
	}

	now := im.now()
	if !endTime.After(now) {
		return nil, domain.ErrInvalidEndTime
	}

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

	a := &auction.Auction{
		TokenId:      tokenId,
		Seller:       caller.ToLower(),
		ReservePrice: reservePrice,
		StartedAt:    now,
		EndTime:      endTime,
		Bids:         []auction.Bid{},
	}

	err = im.query.RunWithTransaction(c, func(c ctx.Ctx) error {
		if err := im.items.PatchWithStatus(c, tokenId, item.Status, &nftitem.Updater{
			Status:    domain.SaleStatusOnAuction.Ptr(),
			UpdatedAt: now,
		}); err != nil {
			return err
		}
		return im.auctions.Insert(c, a)
	})
	if err != nil {
		c.WithField("err", err).Error("start auction failed")
		return nil, err
	}
	return a, nil
}

func (im *impl) PlaceBid(c ctx.Ctx, caller domain.Address, tokenId domain.TokenId, amount domain.Amount) (*auction.Auction, error) {
	c = ctx.WithValues(c, map[string]interface{}{
		"tokenId": tokenId,
		"caller":  caller,
		"amount":  amount.String(),
	})

	a, err := im.auctions.FindOne(c, tokenId)
	if err != nil {
		return nil, err
	}
	if !im.now().Before(a.EndTime) {
		return nil, domain.ErrInvalidBid
	}

	// the first bid has to meet the reserve, every later one has to beat
	// the standing highest
	if a.HighestBid == nil {
		if amount.Cmp(a.ReservePrice) < 0 {
			return nil, domain.ErrInvalidBid
		}
	} else if amount.Cmp(a.HighestBid.Amount) <= 0 {
		return nil, domain.ErrInvalidBid
	}

	bid := &auction.Bid{
		Bidder: caller.ToLower(),
		Amount: amount,
		BidAt:  im.now(),
	}
	if err := im.auctions.AppendBid(c, tokenId, a.HighestBid, bid); err != nil {
		c.WithField("err", err).Error("auctions.AppendBid failed")
		return nil, err
	}
	return im.auctions.FindOne(c, tokenId)
}

func (im *impl) GetAuction(c ctx.Ctx, tokenId domain.TokenId) (*auction.Auction, error) {
	return im.auctions.FindOne(c, tokenId)
}

func (im *impl) GetAuctions(c ctx.Ctx, opts ...auction.FindAllOptions) ([]*auction.Auction, error) {
	return im.auctions.FindAll(c, opts...)
}

func (im *impl) CheckUpkeep(c ctx.Ctx, now time.Time) ([]domain.TokenId, error) {
	expired, err := im.auctions.FindAll(c,
		auction.WithSettled(false),
		auction.WithEndedBefore(now),
	)
	if err != nil {
		c.WithField("err", err).Error("auctions.FindAll failed")
		return nil, err
	}

	tokenIds := make([]domain.TokenId, 0, len(expired))
	for _, a := range expired {
		tokenIds = append(tokenIds, a.TokenId)
	}
	return tokenIds, nil
}

func (im *impl) PerformUpkeep(c ctx.Ctx, tokenIds []domain.TokenId, now time.Time) ([]auction.SettlementResult, error) {
	if len(tokenIds) == 0 {
		return nil, nil
	}

	b := goroutines.NewBatch(settlementWorkers, goroutines.WithBatchSize(len(tokenIds)))
	defer b.Close()
	for _, tokenId := range tokenIds {
		tokenId := tokenId
		b.Queue(func() (interface{}, error) {
			// settlement failures stay inside the result so one bad
			// token cannot abort the batch
			return im.settle(c, tokenId, now), nil
		})
	}
	b.QueueComplete()

	results := make([]auction.SettlementResult, 0, len(tokenIds))
	for ret := range b.Results() {
		res := ret.Value().(auction.SettlementResult)
		if res.Err != nil {
			im.met.BumpSum("settle.err", 1)
			c.WithFields(log.Fields{
				"tokenId": res.TokenId,
				"err":     res.Err,
			}).Error("settlement failed")
		} else {
			im.met.BumpSum("settle.done", 1)
		}
		results = append(results, res)
	}
	return results, nil
}

func (im *impl) settle(c ctx.Ctx, tokenId domain.TokenId, now time.Time) auction.SettlementResult {
	res := auction.SettlementResult{TokenId: tokenId}

	a, err := im.auctions.FindOne(c, tokenId)
	if err != nil {
		res.Err = err
		return res
	}
	if a.EndTime.After(now) {
		res.Err = domain.ErrAuctionNotEnded
		return res
	}

	res.Err = im.query.RunWithTransaction(c, func(c ctx.Ctx) error {
		if a.HighestBid == nil {
			// no bids, hand the token back to the seller
			if err := im.auctions.MarkSettled(c, tokenId, now, nil); err != nil {
				return err
			}
			return im.items.PatchWithStatus(c, tokenId, domain.SaleStatusOnAuction, &nftitem.Updater{
				Status:    domain.SaleStatusCreated.Ptr(),
				UpdatedAt: now,
			})
		}

		winner := a.HighestBid.Bidder
		if err := im.auctions.MarkSettled(c, tokenId, now, &winner); err != nil {
			return err
		}
		if err := im.items.PatchWithStatus(c, tokenId, domain.SaleStatusOnAuction, &nftitem.Updater{
			Owner:     winner.ToLowerPtr(),
			Status:    domain.SaleStatusBought.Ptr(),
			UpdatedAt: now,
		}); err != nil {
			return err
		}
		if err := im.proceeds.Credit(c, a.Seller, a.HighestBid.Amount); err != nil {
			return err
		}
		return im.refundLosers(c, a)
	})
	if res.Err == nil && a.HighestBid != nil {
		res.Winner = a.HighestBid.Bidder.ToLowerPtr()
	}
	return res
}

// refundLosers credits every escrowed bid back to its bidder through the
// proceeds ledger, except the winning amount. A bidder who raised their own
// bid gets all of their earlier amounts back too.
func (im *impl) refundLosers(c ctx.Ctx, a *auction.Auction) error {
	winner := a.HighestBid.Bidder.ToLower()
	refunds := map[domain.Address]domain.Amount{}
	order := []domain.Address{}

	for _, bid := range a.Bids {
		bidder := bid.Bidder.ToLower()
		amount := bid.Amount
		if bidder == winner && amount.Equals(a.HighestBid.Amount) {
			continue
		}
		if _, ok := refunds[bidder]; !ok {
			order = append(order, bidder)
		}
		refunds[bidder] = refunds[bidder].Add(amount)
	}

	for _, bidder := range order {
		if err := im.proceeds.Credit(c, bidder, refunds[bidder]); err != nil {
			c.WithFields(log.Fields{
				"bidder": bidder,
				"amount": refunds[bidder].String(),
				"err":    err,
			}).Error("refund credit failed")
			return err
		}
	}
	return nil
}
