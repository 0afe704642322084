package domain

import "errors"

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("Internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrConflict will throw if the current action already exists
	ErrConflict = errors.New("Your Item already exist")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("Given Param is not valid")

	// marketplace precondition failures, one reason code per violated rule
	ErrTokenNotFound       = errors.New("token does not exist")
	ErrNotOwner            = errors.New("caller is not the token owner")
	ErrAlreadyListed       = errors.New("token is already listed")
	ErrAlreadyOnAuction    = errors.New("token is already on auction")
	ErrNotListed           = errors.New("token is not listed")
	ErrInvalidPrice        = errors.New("price must be strictly positive")
	ErrInvalidEndTime      = errors.New("auction end time must be in the future")
	ErrInsufficientPayment = errors.New("payment does not match the listed price")
	ErrInvalidBid          = errors.New("bid must exceed the current highest bid")
	ErrAuctionNotFound     = errors.New("token is not on auction")
	ErrAuctionNotEnded     = errors.New("auction has not ended yet")
	ErrNothingToWithdraw   = errors.New("no proceeds to withdraw")
	ErrTokenEscrowed       = errors.New("token is in marketplace custody")
	ErrInvalidAmountFormat = errors.New("invalid amount format")
	ErrInvalidTransition   = errors.New("invalid sale status transition")

	// request error
	ErrInvalidAddress   = errors.New("Invalid address")
	ErrInvalidSignature = errors.New("Invalid signature")
)
