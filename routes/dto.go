package routes

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Int decodes from a JSON number or a numeric string; form inputs arrive
// as strings. An empty string decodes as 0.
type Int int64

func (n *Int) UnmarshalJSON(b []byte) error {
	f, err := flexibleNumber(b)
	if err != nil {
		return err
	}
	if f != math.Trunc(f) {
		return fmt.Errorf("%v is not a whole number", f)
	}
	*n = Int(f)
	return nil
}

// Money decodes a price from a JSON number or a numeric string, rounded
// to cents. Unlike Int an empty string is an error.
type Money struct {
	decimal.Decimal
}

var errNotAmount = errors.New("price is not a number")

func (m *Money) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	s := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return errNotAmount
	}
	m.Decimal = d.Round(2)
	return nil
}

// moneyValue lets validator compare Money with numeric tags.
func moneyValue(v reflect.Value) interface{} {
	return v.Interface().(Money).InexactFloat64()
}

func flexibleNumber(b []byte) (float64, error) {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return 0, nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return 0, err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, fmt.Errorf("%q is not a number", s)
		}
		return f, nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return 0, err
	}
	return f, nil
}

type nameBody struct {
	Name string `json:"name" validate:"required"`
}

type productBody struct {
	Name       string `json:"name" validate:"required"`
	CategoryID *Int   `json:"cat_id" validate:"omitempty,gte=0"`
	Price      *Money `json:"price" validate:"omitempty,gte=0"`
}

type shopBody struct {
	Name   string `json:"name" validate:"required"`
	UserID Int    `json:"userId" validate:"required,gt=0"`
}

type loginBody struct {
	UserID Int `json:"userId" validate:"required,gt=0"`
}

// movementBody is the create and update payload of an inventory movement.
type movementBody struct {
	ShopID    Int    `json:"shopId" validate:"required,gt=0"`
	VendorID  Int    `json:"vendorId" validate:"required,gt=0"`
	ProductID Int    `json:"productId" validate:"required,gt=0"`
	Type      string `json:"type" validate:"required,oneof=IN OUT"`
	Quantity  Int    `json:"quantity" validate:"required,gt=0"`
	Price     *Money `json:"price" validate:"required,gte=0"`
}
