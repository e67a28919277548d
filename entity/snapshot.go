package entity

// CartSnapshot freezes a cart's content at payment and order time.
type CartSnapshot struct {
	CartID     uint           `json:"cartId"`
	StoreID    uint           `json:"storeId"`
	Items      []SnapshotItem `json:"items"`
	TotalPrice int64          `json:"totalPrice"`

	DeliveryAddress string `json:"deliveryAddress"`
	ReceiverName    string `json:"receiverName"`
	ReceiverPhone   string `json:"receiverPhone"`
	Description     string `json:"description"`
}

type SnapshotItem struct {
	FoodID     uint            `json:"foodId"`
	FoodName   string          `json:"foodName"`
	Quantity   int             `json:"quantity"`
	Price      int64           `json:"price"`
	TotalPrice int64           `json:"totalPrice"`
	Combos     []SnapshotCombo `json:"combos,omitempty"`
}

type SnapshotCombo struct {
	FoodID     uint   `json:"foodId"`
	FoodName   string `json:"foodName"`
	Quantity   int    `json:"quantity"`
	Price      int64  `json:"price"`
	TotalPrice int64  `json:"totalPrice"`
}

// NewCartSnapshot copies c. Food names are taken from preloaded Food relations.
func NewCartSnapshot(c *Cart) CartSnapshot {
	s := CartSnapshot{
		CartID:          c.ID,
		StoreID:         c.StoreID,
		TotalPrice:      c.TotalPrice,
		DeliveryAddress: c.DeliveryAddress,
		ReceiverName:    c.ReceiverName,
		ReceiverPhone:   c.ReceiverPhone,
		Description:     c.Description,
		Items:           make([]SnapshotItem, 0, len(c.Items)),
	}
	for _, it := range c.Items {
		si := SnapshotItem{
			FoodID:     it.FoodID,
			FoodName:   it.Food.FoodName,
			Quantity:   it.Quantity,
			Price:      it.Price,
			TotalPrice: it.TotalPrice,
		}
		for _, cb := range it.Combos {
			si.Combos = append(si.Combos, SnapshotCombo{
				FoodID:     cb.FoodID,
				FoodName:   cb.Food.FoodName,
				Quantity:   cb.Quantity,
				Price:      cb.Price,
				TotalPrice: cb.TotalPrice,
			})
		}
		s.Items = append(s.Items, si)
	}
	return s
}
