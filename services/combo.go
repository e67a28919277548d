package services

import (
	"sort"
	"strconv"
	"strings"

	"github.com/QuangMinh07/BE-NOM-sub000/entity"
)

// Combo is one add-on selection: a food, its quantity per unit and its unit price.
type Combo struct {
	FoodID   uint
	Quantity int
	Price    int64
}

// ComboSet is an order-independent collection of combos.
type ComboSet []Combo

func NewComboSet(items []Combo) ComboSet {
	s := make(ComboSet, len(items))
	copy(s, items)
	sort.Slice(s, func(i, j int) bool {
		if s[i].FoodID != s[j].FoodID {
			return s[i].FoodID < s[j].FoodID
		}
		if s[i].Quantity != s[j].Quantity {
			return s[i].Quantity < s[j].Quantity
		}
		return s[i].Price < s[j].Price
	})
	return s
}

func comboSetOf(combos []entity.CartCombo) ComboSet {
	items := make([]Combo, 0, len(combos))
	for _, c := range combos {
		items = append(items, Combo{FoodID: c.FoodID, Quantity: c.Quantity, Price: c.Price})
	}
	return NewComboSet(items)
}

// Key is the canonical identity of the set: equal sets have equal keys.
func (s ComboSet) Key() string {
	return s.key(true)
}

// ShapeKey ignores prices, so selections made before a price change still match.
func (s ComboSet) ShapeKey() string {
	return s.key(false)
}

func (s ComboSet) key(withPrice bool) string {
	sorted := NewComboSet(s)
	parts := make([]string, 0, len(sorted))
	for _, c := range sorted {
		p := strconv.FormatUint(uint64(c.FoodID), 10) + "x" + strconv.Itoa(c.Quantity)
		if withPrice {
			p += "@" + strconv.FormatInt(c.Price, 10)
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, ";")
}

func (s ComboSet) Equal(o ComboSet) bool {
	return s.Key() == o.Key()
}

func (s ComboSet) toCartCombos(foods map[uint]entity.Food) []entity.CartCombo {
	out := make([]entity.CartCombo, 0, len(s))
	for _, c := range NewComboSet(s) {
		out = append(out, entity.CartCombo{
			FoodID:   c.FoodID,
			Food:     foods[c.FoodID],
			Quantity: c.Quantity,
			Price:    c.Price,
		})
	}
	return out
}
