package domain

import (
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
	"golang.org/x/xerrors"
)

// Amount is a nonnegative integer amount denominated in the smallest
// indivisible unit of the marketplace currency. It is persisted as bson
// Decimal128 so mongo can `$inc` and compare balances natively, and rendered
// as a plain decimal string over json.
type Amount struct {
	d decimal.Decimal
}

var ZeroAmount = Amount{}

// ParseAmount rejects negative, fractional and malformed values
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, ErrInvalidAmountFormat
	}
	if d.IsNegative() {
		return Amount{}, ErrInvalidAmountFormat
	}
	if !d.Equal(d.Truncate(0)) {
		return Amount{}, ErrInvalidAmountFormat
	}
	return Amount{d}, nil
}

// MustAmount panics on malformed input. Use for literals only.
func MustAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) String() string {
	return a.d.String()
}

func (a Amount) Decimal() decimal.Decimal {
	return a.d
}

func (a Amount) IsZero() bool {
	return a.d.IsZero()
}

func (a Amount) IsPositive() bool {
	return a.d.IsPositive()
}

func (a Amount) Cmp(b Amount) int {
	return a.d.Cmp(b.d)
}

func (a Amount) Equals(b Amount) bool {
	return a.d.Equal(b.d)
}

func (a Amount) Add(b Amount) Amount {
	return Amount{a.d.Add(b.d)}
}

func (a Amount) Sub(b Amount) Amount {
	return Amount{a.d.Sub(b.d)}
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.d.String() + `"`), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func (a Amount) MarshalBSONValue() (bsontype.Type, []byte, error) {
	d128, err := primitive.ParseDecimal128(a.d.String())
	if err != nil {
		return bsontype.Null, nil, xerrors.Errorf("parse decimal128: %w", err)
	}
	return bsontype.Decimal128, bsoncore.AppendDecimal128(nil, d128), nil
}

func (a *Amount) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null:
		*a = ZeroAmount
		return nil
	case bsontype.Decimal128:
		d128, _, ok := bsoncore.ReadDecimal128(data)
		if !ok {
			return xerrors.New("malformed decimal128 value")
		}
		d, err := decimal.NewFromString(d128.String())
		if err != nil {
			return xerrors.Errorf("decode decimal128: %w", err)
		}
		*a = Amount{d}
		return nil
	default:
		return xerrors.Errorf("cannot decode %v into an amount", t)
	}
}
