package bootstrap

import (
	"github.com/sportshop/storefront/internal/domain"
	"github.com/sportshop/storefront/internal/money"
)

// defaultCatalog is the seeded product set. Upserted on every startup so
// a fresh database serves the storefront immediately.
func defaultCatalog() []domain.Product {
	return []domain.Product{
		product("prod_1", "ProRun Running Shoes", "Shoes", "Lightweight cushioned shoes for long-distance running.", "8500.00"),
		product("prod_2", "SmartBand 5 Fitness Tracker", "Gadgets", "Tracks activity and heart rate around the clock.", "3200.00"),
		product("prod_3", "DryFit Training T-Shirt", "Apparel", "Wicks moisture and keeps you comfortable.", "2500.00"),
		product("prod_4", "Water Bottle 750ml", "Accessories", "Ergonomic BPA-free bottle.", "990.00"),
		product("prod_5", "TrailGrip Hiking Boots", "Shoes", "Waterproof boots with aggressive tread.", "11200.00"),
		product("prod_6", "PulseMax Heart Rate Monitor", "Gadgets", "Chest-strap monitor with broadcast mode.", "4700.00"),
		product("prod_7", "FlexFit Running Shorts", "Apparel", "Four-way stretch with a zip pocket.", "1800.00"),
		product("prod_8", "GripPro Yoga Mat", "Accessories", "Non-slip 6mm mat with carry strap.", "2100.00"),
	}
}

func product(id, name, category, description, price string) domain.Product {
	p, err := money.Parse(price)
	if err != nil {
		panic("invalid seed price for " + id + ": " + err.Error())
	}
	return domain.Product{ProductID: id, Name: name, Category: category, Description: description, Price: p}
}
