package feevote

import (
	"errors"
	"fmt"
)

var ErrUnknownParameter = errors.New("unknown fee parameter")

// Parameter is one of the three fee settings validators vote on.
type Parameter int

const (
	BaseFee Parameter = iota
	ReserveBase
	ReserveIncrement
)

// Parameters lists every fee parameter in display order.
var Parameters = [3]Parameter{BaseFee, ReserveBase, ReserveIncrement}

const (
	UnitDrops = "drops"
	UnitXRP   = "XRP"
)

// Key is the identifier used by the registry feed and the JSON API.
func (p Parameter) Key() string {
	switch p {
	case BaseFee:
		return "base_fee"
	case ReserveBase:
		return "reserve_base"
	case ReserveIncrement:
		return "reserve_inc"
	}
	return fmt.Sprintf("parameter(%d)", int(p))
}

func (p Parameter) Label() string {
	switch p {
	case BaseFee:
		return "Base Fee"
	case ReserveBase:
		return "Base Reserve"
	case ReserveIncrement:
		return "Increment Reserve"
	}
	return p.Key()
}

// Unit is the unit values of this parameter are displayed in.
func (p Parameter) Unit() string {
	if p == BaseFee {
		return UnitDrops
	}
	return UnitXRP
}

func (p Parameter) String() string {
	return p.Key()
}

func (p Parameter) Valid() bool {
	return p >= BaseFee && p <= ReserveIncrement
}

func ParseParameter(key string) (Parameter, error) {
	for _, p := range Parameters {
		if p.Key() == key {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownParameter, key)
}

func (p Parameter) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownParameter, int(p))
	}
	return []byte(p.Key()), nil
}

func (p *Parameter) UnmarshalText(text []byte) error {
	parsed, err := ParseParameter(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParamSet holds one value per fee parameter.
// It is a fixed record rather than a map so that every parameter is always present.
type ParamSet[T any] struct {
	BaseFee          T `json:"base_fee"`
	ReserveBase      T `json:"reserve_base"`
	ReserveIncrement T `json:"reserve_inc"`
}

func (s ParamSet[T]) Get(p Parameter) T {
	switch p {
	case BaseFee:
		return s.BaseFee
	case ReserveBase:
		return s.ReserveBase
	case ReserveIncrement:
		return s.ReserveIncrement
	}
	panic(fmt.Sprintf("feevote: %s", p))
}

func (s *ParamSet[T]) Set(p Parameter, value T) {
	switch p {
	case BaseFee:
		s.BaseFee = value
	case ReserveBase:
		s.ReserveBase = value
	case ReserveIncrement:
		s.ReserveIncrement = value
	default:
		panic(fmt.Sprintf("feevote: %s", p))
	}
}

// MapParams builds a new set by applying fn to each parameter of s.
func MapParams[T any, U any](s ParamSet[T], fn func(p Parameter, value T) U) ParamSet[U] {
	var out ParamSet[U]
	for _, p := range Parameters {
		out.Set(p, fn(p, s.Get(p)))
	}
	return out
}
