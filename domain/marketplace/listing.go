package marketplace

import (
	"time"

	"github.com/mintbay/goapi/base/ctx"
	"github.com/mintbay/goapi/domain"
)

// Listing is a fixed-price sale offer for one token. At most one listing
// exists per token and never alongside an active auction.
type Listing struct {
	TokenId   domain.TokenId `json:"tokenId" bson:"tokenId"`
	Seller    domain.Address `json:"seller" bson:"seller"`
	Price     domain.Amount  `json:"price" bson:"price"`
	ListedAt  time.Time      `json:"listedAt" bson:"listedAt"`
	UpdatedAt time.Time      `json:"updatedAt" bson:"updatedAt"`
}

type Updater struct {
	Price     *domain.Amount `bson:"price,omitempty"`
	UpdatedAt time.Time      `bson:"updatedAt,omitempty"`
}

type findAllOptions struct {
	Offset *int32
	Limit  *int32
	Seller *domain.Address
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

type Repo interface {
	FindOne(c ctx.Ctx, tokenId domain.TokenId) (*Listing, error)
	FindAll(c ctx.Ctx, opts ...FindAllOptions) ([]*Listing, error)
	Insert(c ctx.Ctx, listing *Listing) error
	Patch(c ctx.Ctx, tokenId domain.TokenId, updater *Updater) error
	Remove(c ctx.Ctx, tokenId domain.TokenId) error
	// RemoveWithPrice removes the listing only while it is still offered at
	// `price`. Returns domain.ErrConflict when the guard misses, so a buy
	// racing a price update loses instead of settling at the stale price.
	RemoveWithPrice(c ctx.Ctx, tokenId domain.TokenId, price domain.Amount) error
}

type Usecase interface {
	List(c ctx.Ctx, caller domain.Address, tokenId domain.TokenId, price domain.Amount) (*Listing, error)
	Cancel(c ctx.Ctx, caller domain.Address, tokenId domain.TokenId) error
	Update(c ctx.Ctx, caller domain.Address, tokenId domain.TokenId, newPrice domain.Amount) (*Listing, error)
	Buy(c ctx.Ctx, caller domain.Address, tokenId domain.TokenId, payment domain.Amount) error
	GetListing(c ctx.Ctx, tokenId domain.TokenId) (*Listing, error)
	GetListings(c ctx.Ctx, opts ...FindAllOptions) ([]*Listing, error)
}
