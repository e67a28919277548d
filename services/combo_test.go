package services

import "testing"

func TestComboSetKeyIgnoresOrder(t *testing.T) {
	a := NewComboSet([]Combo{{FoodID: 2, Quantity: 1, Price: 5000}, {FoodID: 1, Quantity: 2, Price: 3000}})
	b := NewComboSet([]Combo{{FoodID: 1, Quantity: 2, Price: 3000}, {FoodID: 2, Quantity: 1, Price: 5000}})
	if !a.Equal(b) {
		t.Fatalf("%q != %q", a.Key(), b.Key())
	}
	if a.Key() != "1x2@3000;2x1@5000" {
		t.Fatalf("key = %q", a.Key())
	}
}

func TestComboSetShapeKeyIgnoresPrice(t *testing.T) {
	a := NewComboSet([]Combo{{FoodID: 1, Quantity: 1, Price: 5000}})
	b := NewComboSet([]Combo{{FoodID: 1, Quantity: 1, Price: 6000}})
	if a.Equal(b) {
		t.Fatal("different prices must not be equal")
	}
	if a.ShapeKey() != b.ShapeKey() {
		t.Fatalf("shape %q != %q", a.ShapeKey(), b.ShapeKey())
	}
	if (ComboSet{}).Key() != "" {
		t.Fatal("empty set key must be empty")
	}
}

func TestNewComboSetCopies(t *testing.T) {
	in := []Combo{{FoodID: 2}, {FoodID: 1}}
	_ = NewComboSet(in)
	if in[0].FoodID != 2 {
		t.Fatal("input was reordered")
	}
}
