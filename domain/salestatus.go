package domain

// SaleStatus is the lifecycle state of a token. A token is in exactly one
// state at a time; Listed and OnAuction are mutually exclusive by
// construction.
type SaleStatus string

const (
	SaleStatusCreated   SaleStatus = "created"
	SaleStatusListed    SaleStatus = "listed"
	SaleStatusOnAuction SaleStatus = "onauction"
	SaleStatusBought    SaleStatus = "bought"
)

// saleStatusTransitions is the closed transition table. Anything not listed
// here is rejected with ErrInvalidTransition.
var saleStatusTransitions = map[SaleStatus][]SaleStatus{
	SaleStatusCreated:   {SaleStatusListed, SaleStatusOnAuction},
	SaleStatusListed:    {SaleStatusCreated, SaleStatusBought},
	SaleStatusOnAuction: {SaleStatusCreated, SaleStatusBought},
	SaleStatusBought:    {SaleStatusListed, SaleStatusOnAuction},
}

func (s SaleStatus) Ptr() *SaleStatus {
	return &s
}

func (s SaleStatus) Valid() bool {
	_, ok := saleStatusTransitions[s]
	return ok
}

func (s SaleStatus) CanTransitionTo(to SaleStatus) bool {
	for _, next := range saleStatusTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// InCustody reports whether the marketplace escrows the token in this state,
// which blocks direct owner transfers.
func (s SaleStatus) InCustody() bool {
	return s == SaleStatusListed || s == SaleStatusOnAuction
}
