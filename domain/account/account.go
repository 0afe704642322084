package account

import (
	"time"

	"github.com/mintbay/goapi/base/ctx"
	"github.com/mintbay/goapi/domain"
)

// Account is user's account stored in database
type Account struct {
	Address   domain.Address `bson:"address" json:"address"`
	Alias     string         `bson:"alias" json:"alias"`
	Nonce     int32          `bson:"nonce" json:"-"`
	CreatedAt time.Time      `bson:"createdAt,omitempty" json:"createdAtMs,omitempty"`
	UpdatedAt time.Time      `bson:"updatedAt,omitempty" json:"updatedAtMs,omitempty"`
}

// Updater to update account info
type Updater struct {
	Alias     *string   `json:"alias" bson:"alias,omitempty"`
	Nonce     *int32    `json:"-" bson:"nonce,omitempty"`
	UpdatedAt time.Time `json:"-" bson:"updatedAt,omitempty"`
}

type Repo interface {
	Get(c ctx.Ctx, address domain.Address) (*Account, error)
	Insert(c ctx.Ctx, account *Account) error
	Update(c ctx.Ctx, address domain.Address, updater *Updater) error
}

type Usecase interface {
	Get(c ctx.Ctx, address domain.Address) (*Account, error)
	GetOrCreate(c ctx.Ctx, address domain.Address) (*Account, error)
	Update(c ctx.Ctx, address domain.Address, updater *Updater) (*Account, error)
	// GetNonce rotates and returns the random nonce embedded in the message
	// the wallet must sign
	GetNonce(c ctx.Ctx, address domain.Address) (int32, error)
	// ValidateSignature recovers the signer of the nonce message and
	// invalidates the nonce on success
	ValidateSignature(c ctx.Ctx, address domain.Address, signature string) error
}
