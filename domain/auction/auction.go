package auction

import (
	"time"

	"github.com/mintbay/goapi/base/ctx"
	"github.com/mintbay/goapi/domain"
)

// Bid is one accepted bid. Funds stay escrowed until settlement; losing
// bidders are refunded through the proceeds ledger, never pushed back.
type Bid struct {
	Bidder domain.Address `json:"bidder" bson:"bidder"`
	Amount domain.Amount  `json:"amount" bson:"amount"`
	BidAt  time.Time      `json:"bidAt" bson:"bidAt"`
}

// Auction is a time-boxed ascending-bid sale for one token
type Auction struct {
	TokenId      domain.TokenId `json:"tokenId" bson:"tokenId"`
	Seller       domain.Address `json:"seller" bson:"seller"`
	ReservePrice domain.Amount  `json:"reservePrice" bson:"reservePrice"`
	StartedAt    time.Time      `json:"startedAt" bson:"startedAt"`
	EndTime      time.Time      `json:"endTime" bson:"endTime"`
	Bids         []Bid          `json:"bids" bson:"bids"`
	HighestBid   *Bid           `json:"highestBid" bson:"highestBid"`
	Settled      bool           `json:"settled" bson:"settled"`
	SettledAt    *time.Time     `json:"settledAt" bson:"settledAt,omitempty"`
	Winner       *domain.Address `json:"winner" bson:"winner,omitempty"`
}

// SettlementResult reports the outcome of one token's settlement inside an
// upkeep batch. Failures are isolated per token.
type SettlementResult struct {
	TokenId domain.TokenId  `json:"tokenId"`
	Winner  *domain.Address `json:"winner"`
	Err     error           `json:"-"`
}

type findAllOptions struct {
	Offset  *int32
	Limit   *int32
	Seller  *domain.Address
	Settled *bool
	// EndedBefore selects auctions whose end time has elapsed at the
	// given instant
	EndedBefore *time.Time
}

type FindAllOptions func(*findAllOptions)

func GetFindAllOptions(opts ...FindAllOptions) findAllOptions {
	res := findAllOptions{}
	for _, opt := range opts {
		opt(&res)
	}
	return res
}

func WithPagination(offset int32, limit int32) FindAllOptions {
	return func(options *findAllOptions) {
		options.Offset = &offset
		options.Limit = &limit
	}
}

func WithSeller(seller domain.Address) FindAllOptions {
	return func(options *findAllOptions) {
		options.Seller = seller.ToLowerPtr()
	}
}

func WithSettled(settled bool) FindAllOptions {
	return func(options *findAllOptions) {
		options.Settled = &settled
	}
}

func WithEndedBefore(t time.Time) FindAllOptions {
	return func(options *findAllOptions) {
		options.EndedBefore = &t
	}
}

type Repo interface {
	FindOne(c ctx.Ctx, tokenId domain.TokenId) (*Auction, error)
	FindAll(c ctx.Ctx, opts ...FindAllOptions) ([]*Auction, error)
	Insert(c ctx.Ctx, auction *Auction) error
	// AppendBid atomically appends the bid and promotes it to highest,
	// guarded on the currently observed highest bid so concurrent bids
	// cannot both win. Returns domain.ErrInvalidBid when the guard misses.
	AppendBid(c ctx.Ctx, tokenId domain.TokenId, prevHighest *Bid, bid *Bid) error
	// MarkSettled flips the unsettled auction to settled exactly once.
	// Returns domain.ErrNotFound when already settled.
	MarkSettled(c ctx.Ctx, tokenId domain.TokenId, settledAt time.Time, winner *domain.Address) error
}

type Usecase interface {
	Start(c ctx.Ctx, caller domain.Address, tokenId domain.TokenId, reservePrice domain.Amount, endTime time.Time) (*Auction, error)
	PlaceBid(c ctx.Ctx, caller domain.Address, tokenId domain.TokenId, amount domain.Amount) (*Auction, error)
	GetAuction(c ctx.Ctx, tokenId domain.TokenId) (*Auction, error)
	GetAuctions(c ctx.Ctx, opts ...FindAllOptions) ([]*Auction, error)
	// CheckUpkeep returns the token ids of expired, unsettled auctions
	CheckUpkeep(c ctx.Ctx, now time.Time) ([]domain.TokenId, error)
	// PerformUpkeep settles every eligible token independently; one
	// token's failure never aborts the rest of the batch
	PerformUpkeep(c ctx.Ctx, tokenIds []domain.TokenId, now time.Time) ([]SettlementResult, error)
}
