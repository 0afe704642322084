package nftitem

import (
	"time"

	"github.com/mintbay/goapi/base/ctx"
	"github.com/mintbay/goapi/domain"
)

// NftItem is one minted token in the registry
type NftItem struct {
	TokenId   domain.TokenId    `json:"tokenId" bson:"tokenId"`
	Owner     domain.Address    `json:"owner" bson:"owner"`
	Creator   domain.Address    `json:"creator" bson:"creator"`
	TokenUri  string            `json:"tokenUri" bson:"tokenUri"`
	Status    domain.SaleStatus `json:"status" bson:"status"`
	MintedAt  time.Time         `json:"mintedAt" bson:"mintedAt"`
	UpdatedAt time.Time         `json:"updatedAt" bson:"updatedAt"`
}

// Updater patches mutable item fields
type Updater struct {
	Owner     *domain.Address    `bson:"owner,omitempty"`
	Status    *domain.SaleStatus `bson:"status,omitempty"`
	UpdatedAt time.Time          `bson:"updatedAt,omitempty"`
}

type findAllOptions struct {
	SortBy  *string
	SortDir *domain.SortDir
	Offset  *int32
	Limit   *int32
	Owner   *domain.Address
	Status  *domain.SaleStatus
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

func WithSort(sortBy string, sortDir domain.SortDir) FindAllOptions {
	return func(options *findAllOptions) {
		options.SortBy = &sortBy
		options.SortDir = &sortDir
	}
}

func WithOwner(owner domain.Address) FindAllOptions {
	return func(options *findAllOptions) {
		options.Owner = owner.ToLowerPtr()
	}
}

func WithStatus(status domain.SaleStatus) FindAllOptions {
	return func(options *findAllOptions) {
		options.Status = &status
	}
}

type Repo interface {
	FindOne(c ctx.Ctx, tokenId domain.TokenId) (*NftItem, error)
	FindAll(c ctx.Ctx, opts ...FindAllOptions) ([]*NftItem, error)
	Count(c ctx.Ctx, opts ...FindAllOptions) (int, error)
	Insert(c ctx.Ctx, item *NftItem) error
	// PatchWithStatus applies the updater only while the item is still in
	// `expect` status. Returns domain.ErrInvalidTransition when the guard
	// does not match, which makes status transitions all-or-nothing.
	PatchWithStatus(c ctx.Ctx, tokenId domain.TokenId, expect domain.SaleStatus, updater *Updater) error
	// NextTokenId atomically reserves the next sequential token id
	NextTokenId(c ctx.Ctx) (domain.TokenId, error)
	// CurrentTokenId returns the id the next mint would be assigned
	CurrentTokenId(c ctx.Ctx) (domain.TokenId, error)
}

type Usecase interface {
	Mint(c ctx.Ctx, creator domain.Address, tokenUri string) (*NftItem, error)
	Get(c ctx.Ctx, tokenId domain.TokenId) (*NftItem, error)
	GetItems(c ctx.Ctx, opts ...FindAllOptions) ([]*NftItem, error)
	GetUserItems(c ctx.Ctx, owner domain.Address) ([]*NftItem, error)
	GetCurrentTokenId(c ctx.Ctx) (domain.TokenId, error)
	// Transfer moves ownership; it fails while the token is escrowed by an
	// active listing or auction
	Transfer(c ctx.Ctx, caller, to domain.Address, tokenId domain.TokenId) error
}
