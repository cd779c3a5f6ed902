package services

import (
	"fmt"

	apperrors "github.com/Phaham/BoogieBites/errors"
	"github.com/Phaham/BoogieBites/models"
)

// NormalizeCart validates raw cart entries and shapes them into
// gateway-agnostic checkout lines. Prices stay in the smallest currency
// unit; a violating entry fails the whole request.
func NormalizeCart(items []models.CartItem) ([]models.CheckoutLine, error) {
	if len(items) == 0 {
		return nil, apperrors.Validation("cart must contain at least one item", nil)
	}

	lines := make([]models.CheckoutLine, 0, len(items))
	for i, item := range items {
		if item.Name == "" {
			return nil, apperrors.Validation(fmt.Sprintf("item %d: name is required", i), nil)
		}
		if item.Image == "" {
			return nil, apperrors.Validation(fmt.Sprintf("item %d: image is required", i), nil)
		}
		if item.Price < 0 {
			return nil, apperrors.Validation(fmt.Sprintf("item %d: price must not be negative", i), nil)
		}
		if item.Quantity < 1 {
			return nil, apperrors.Validation(fmt.Sprintf("item %d: quantity must be at least 1", i), nil)
		}
		lines = append(lines, models.CheckoutLine{
			Name:       item.Name,
			Image:      item.Image,
			UnitAmount: item.Price,
			Quantity:   item.Quantity,
		})
	}
	return lines, nil
}
