package billing

import (
	"github.com/bizhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LineItemInput is the raw input for a line item before validation
type LineItemInput struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

type builtItem struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal
}

// buildItems validates inputs and computes per-line amounts plus the subtotal
func buildItems(items []LineItemInput) ([]builtItem, decimal.Decimal, error) {
	built := make([]builtItem, 0, len(items))
	subtotal := decimal.Zero

	for _, item := range items {
		if item.Description == "" {
			return nil, decimal.Zero, shared.NewDomainError("INVALID_ITEMS", "Line item description cannot be empty")
		}
		if len(item.Description) > 500 {
			return nil, decimal.Zero, shared.NewDomainError("INVALID_ITEMS", "Line item description cannot exceed 500 characters")
		}
		if !item.Quantity.IsPositive() {
			return nil, decimal.Zero, shared.NewDomainError("INVALID_ITEMS", "Line item quantity must be positive")
		}
		if item.UnitPrice.IsNegative() {
			return nil, decimal.Zero, shared.NewDomainError("INVALID_ITEMS", "Line item unit price cannot be negative")
		}

		amount := item.Quantity.Mul(item.UnitPrice).Round(2)
		built = append(built, builtItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      amount,
		})
		subtotal = subtotal.Add(amount)
	}

	return built, subtotal, nil
}

func validateDocumentNumber(number string) error {
	if number == "" {
		return shared.NewDomainError("INVALID_NUMBER", "Document number cannot be empty")
	}
	if len(number) > 50 {
		return shared.NewDomainError("INVALID_NUMBER", "Document number cannot exceed 50 characters")
	}
	return nil
}

func validateTaxRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
	}
	if rate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot exceed 100 percent")
	}
	return nil
}
