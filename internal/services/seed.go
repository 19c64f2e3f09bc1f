package services

import "context"

func ptr[T any](v T) *T { return &v }

var demoCatalog = []ProductInput{
	{Name: "Game Boy Color", Description: "Handheld console", Category: "Retro Gaming Consoles", Price: ptr(129.99), Stock: ptr(8)},
	{Name: "NES Console", Description: "Classic 8-bit console", Category: "Retro Gaming Consoles", Price: ptr(199.00), Stock: ptr(5)},
	{Name: "Super Nintendo (SNES) Console", Description: "Classic 16-bit console with controller. Tested and cleaned.", Category: "Retro Gaming Consoles", Price: ptr(199.00), Stock: ptr(7)},
	{Name: "Philco 1939", Description: "Vintage vacuum tube radio", Category: "Vintage Radios", Price: ptr(349.50), Stock: ptr(2)},
	{Name: "Zenith Royal 500 Transistor Radio", Description: "Iconic vintage pocket radio. Works with 9V battery.", Category: "Vintage Radios", Price: ptr(89.00), Stock: ptr(0)},
}

// SeedDemo fills an empty catalog with demo products and returns how many
// were inserted. A non-empty catalog is left untouched.
func (s *CatalogService) SeedDemo(ctx context.Context) (int, error) {
	existing, err := s.Products.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	for i, in := range demoCatalog {
		if _, err := s.Create(ctx, in); err != nil {
			return i, err
		}
	}
	return len(demoCatalog), nil
}
