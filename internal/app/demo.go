package app

import (
	"coopledger/internal/core/types"
	"coopledger/internal/domain/inventory"
	"coopledger/internal/domain/members"
	"coopledger/internal/infrastructure/storage/memory"
)

// DemoMembers is the sample membership used by cmd/seed and the in-memory server.
func DemoMembers() []members.Member {
	return []members.Member{
		{Name: "Somchai Prasert", Occupation: "farmer", ShareCount: 10},
		{Name: "Malee Wongsa", Occupation: "weaver", ShareCount: 5},
		{Name: "Anan Chaiyo", Occupation: "fisher", ShareCount: 3},
		{Name: "Ploy Siriwan", Occupation: "shopkeeper", ShareCount: 0},
	}
}

// DemoProducts is the sample stock used by cmd/seed and the in-memory server.
func DemoProducts() []inventory.Product {
	return []inventory.Product{
		{Name: "Mango", Category: "fruit", MemberName: "Somchai Prasert", Unit: "kg", Price: types.MustMoney("20"), Quantity: 50},
		{Name: "Jasmine Rice", Category: "grain", MemberName: "Somchai Prasert", Unit: "bag", Price: types.MustMoney("150"), Quantity: 20},
		{Name: "Silk Scarf", Category: "textile", MemberName: "Malee Wongsa", Unit: "piece", Price: types.MustMoney("250"), Quantity: 12},
		{Name: "Dried Fish", Category: "seafood", MemberName: "Anan Chaiyo", Unit: "pack", Price: types.MustMoney("45.50"), Quantity: 30},
	}
}

// SeedMemory loads the demo data into store.
func SeedMemory(store *memory.Store) {
	for _, m := range DemoMembers() {
		store.AddMember(m)
	}
	for _, p := range DemoProducts() {
		store.AddProduct(p)
	}
}
