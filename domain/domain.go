package domain

import (
	"strings"
)

// Table is a mongo collection name
type Table string

const (
	TableItems       Table = "items"
	TableListings    Table = "listings"
	TableAuctions    Table = "auctions"
	TableProceeds    Table = "proceeds"
	TableWithdrawals Table = "withdrawals"
	TableAccounts    Table = "accounts"
	TableCounters    Table = "counters"
)

type SortDir int8

const (
	SortDirAsc  = 1
	SortDirDesc = -1
)

// TokenId is the sequential identifier assigned at mint time, starting from 0
type TokenId int64

type Address string

const EmptyAddress = Address("0x0000000000000000000000000000000000000000")

func (a Address) ToLower() Address {
	return Address(strings.ToLower(string(a)))
}

func (a Address) ToLowerPtr() *Address {
	res := a.ToLower()
	return &res
}

func (a Address) ToLowerStr() string {
	return strings.ToLower(string(a))
}

func (a Address) IsEmpty() bool {
	return len(a) == 0
}

func (a Address) Equals(b Address) bool {
	return a.ToLowerStr() == b.ToLowerStr()
}
