package boxorder

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

type fakeCatalog struct {
	products map[uint]*CatalogProduct
	variants map[uint]*CatalogVariant
	terms    map[string]string
	failOn   uint
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		products: map[uint]*CatalogProduct{
			1: {ID: 1, Name: "Kuih Lapis", Price: decimal.NewFromInt(10), Purchasable: true, InStock: true},
			2: {ID: 2, Name: "Baju Kurung", Price: decimal.NewFromInt(80), Purchasable: true, IsVariable: true, InStock: true},
			3: {ID: 3, Name: "Archived Tote", Price: decimal.NewFromInt(15), Purchasable: false},
			4: {ID: 4, Name: "Air Sirap", Price: decimal.RequireFromString("3.50"), Purchasable: true, InStock: true},
		},
		variants: map[uint]*CatalogVariant{
			21: {ID: 21, ParentID: 2, Name: "Baju Kurung - Red, M", Price: decimal.NewFromInt(85), Purchasable: true,
				Attributes: []VariantAttribute{{Name: "pa_color", Value: "red"}, {Name: "pa_size", Value: "extra_large"}}},
			22: {ID: 22, ParentID: 2, Name: "Baju Kurung - Blue", Price: decimal.NewFromInt(80), Purchasable: true},
			23: {ID: 23, ParentID: 2, Name: "Baju Kurung", Price: decimal.NewFromInt(80), Purchasable: true},
			24: {ID: 24, ParentID: 2, Name: "Baju Kurung - Green", Price: decimal.NewFromInt(80), Purchasable: false},
			41: {ID: 41, ParentID: 4, Name: "Air Sirap - Large", Price: decimal.NewFromInt(5), Purchasable: true},
		},
		terms: map[string]string{
			"pa_color|red": "Merah",
		},
	}
}

func (f *fakeCatalog) GetProduct(_ context.Context, id uint) (*CatalogProduct, error) {
	if f.failOn != 0 && f.failOn == id {
		return nil, errors.New("catalog offline")
	}
	product, ok := f.products[id]
	if !ok {
		return nil, nil
	}
	copied := *product
	return &copied, nil
}

func (f *fakeCatalog) GetVariant(_ context.Context, id uint) (*CatalogVariant, error) {
	variant, ok := f.variants[id]
	if !ok {
		return nil, nil
	}
	copied := *variant
	return &copied, nil
}

func (f *fakeCatalog) ResolveAttributeTerm(_ context.Context, attribute, slug string) (string, bool, error) {
	name, ok := f.terms[attribute+"|"+slug]
	return name, ok, nil
}

func item(productID uint, qty int) BoxItem {
	return BoxItem{ProductID: productID, ProductName: "P", Quantity: qty, UnitPrice: decimal.NewFromInt(10)}
}
