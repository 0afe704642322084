package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSaleStatusTransitions(t *testing.T) {
	allowed := []struct {
		from, to SaleStatus
	}{
		{SaleStatusCreated, SaleStatusListed},
		{SaleStatusCreated, SaleStatusOnAuction},
		{SaleStatusListed, SaleStatusCreated},
		{SaleStatusListed, SaleStatusBought},
		{SaleStatusOnAuction, SaleStatusCreated},
		{SaleStatusOnAuction, SaleStatusBought},
		{SaleStatusBought, SaleStatusListed},
		{SaleStatusBought, SaleStatusOnAuction},
	}
	for _, tc := range allowed {
		assert.True(t, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}

	denied := []struct {
		from, to SaleStatus
	}{
		{SaleStatusCreated, SaleStatusBought},
		{SaleStatusCreated, SaleStatusCreated},
		{SaleStatusListed, SaleStatusOnAuction},
		{SaleStatusOnAuction, SaleStatusListed},
		{SaleStatusBought, SaleStatusCreated},
	}
	for _, tc := range denied {
		assert.False(t, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestSaleStatusValid(t *testing.T) {
	assert.True(t, SaleStatusCreated.Valid())
	assert.True(t, SaleStatusListed.Valid())
	assert.True(t, SaleStatusOnAuction.Valid())
	assert.True(t, SaleStatusBought.Valid())
	assert.False(t, SaleStatus("burned").Valid())
}

func TestSaleStatusInCustody(t *testing.T) {
	assert.False(t, SaleStatusCreated.InCustody())
	assert.True(t, SaleStatusListed.InCustody())
	assert.True(t, SaleStatusOnAuction.InCustody())
	assert.False(t, SaleStatusBought.InCustody())
}
