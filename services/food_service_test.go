package services

import (
	"errors"
	"testing"

	"github.com/QuangMinh07/BE-NOM-sub000/entity"
)

func TestFoodCRUD(t *testing.T) {
	f := newFixture(t)
	svc := NewFoodService(f.db, f.foods, f.stores)
	owner := Actor{UserID: f.seller.ID, Role: entity.RoleSeller}
	stranger := Actor{UserID: f.customer.ID, Role: entity.RoleSeller}

	if _, err := svc.Create(stranger, &FoodIn{StoreID: f.store.ID, FoodName: "Nem", Price: 20000}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign create: %v", err)
	}
	if _, err := svc.Create(owner, &FoodIn{StoreID: f.store.ID, FoodName: "Nem", Price: 20000, IsDiscounted: true, DiscountedPrice: 25000}); !errors.Is(err, ErrValidation) {
		t.Fatalf("discount above price: %v", err)
	}

	food, err := svc.Create(owner, &FoodIn{StoreID: f.store.ID, FoodName: " Nem ", Price: 20000})
	if err != nil {
		t.Fatal(err)
	}
	if food.FoodName != "Nem" || !food.IsAvailable {
		t.Fatalf("food = %+v", food)
	}

	price, discounted, on := int64(30000), int64(25000), true
	food, err = svc.Update(owner, food.ID, &FoodUpdateIn{Price: &price, DiscountedPrice: &discounted, IsDiscounted: &on})
	if err != nil {
		t.Fatal(err)
	}
	if food.UnitPrice() != 25000 {
		t.Fatalf("unit price = %d", food.UnitPrice())
	}

	food, err = svc.SetAvailability(owner, food.ID, false)
	if err != nil {
		t.Fatal(err)
	}
	if food.IsAvailable {
		t.Fatal("still available")
	}

	food, err = svc.SetSellingTimes(owner, food.ID, &SellingTimesIn{SellingTimes: []SellingTimeIn{
		{Weekday: 1, FromTime: "10:00", ToTime: "13:00"},
		{Weekday: 1, FromTime: "17:00", ToTime: "21:00"},
	}})
	if err != nil {
		t.Fatal(err)
	}
	if len(food.SellingTimes) != 2 {
		t.Fatalf("selling times = %+v", food.SellingTimes)
	}

	if err := svc.Delete(stranger, food.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign delete: %v", err)
	}
	if err := svc.Delete(owner, food.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Get(food.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get deleted: %v", err)
	}
}

func TestFoodGroups(t *testing.T) {
	f := newFixture(t)
	svc := NewFoodService(f.db, f.foods, f.stores)
	owner := Actor{UserID: f.seller.ID, Role: entity.RoleSeller}

	group, err := svc.CreateGroup(owner, &FoodGroupIn{StoreID: f.store.ID, GroupName: "Mon chinh"})
	if err != nil {
		t.Fatal(err)
	}
	gid := group.ID
	if _, err := svc.Update(owner, f.pho.ID, &FoodUpdateIn{FoodGroupID: &gid}); err != nil {
		t.Fatal(err)
	}

	other := &entity.Store{UserID: f.seller.ID, StoreName: "Com Tam"}
	f.must(f.stores.Create(other))
	if _, err := svc.Create(owner, &FoodIn{StoreID: other.ID, FoodGroupID: &gid, FoodName: "Suon", Price: 30000}); !errors.Is(err, ErrValidation) {
		t.Fatalf("group from another store: %v", err)
	}

	if _, err := svc.RenameGroup(owner, gid, "Mains"); err != nil {
		t.Fatal(err)
	}
	groups, err := svc.ListGroups(f.store.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 1 || groups[0].GroupName != "Mains" || len(groups[0].Foods) != 1 {
		t.Fatalf("groups = %+v", groups)
	}

	if err := svc.DeleteGroup(owner, gid); err != nil {
		t.Fatal(err)
	}
	pho, err := svc.Get(f.pho.ID)
	if err != nil {
		t.Fatal(err)
	}
	if pho.FoodGroupID != nil {
		t.Fatal("food still attached to deleted group")
	}
}
