package handlers

import "fmt"

type promoUpdateInput struct {
	Price        *int64
	PromoEnabled *bool
	PromoPrice   *int64
}

type promoUpdateResult struct {
	Price           int64
	PromoEnabled    bool
	PromoPrice      int64
	SetPromoEnabled bool
	SetPromoPrice   bool
}

func isItemOnPromo(price int64, promoEnabled bool, promoPrice int64) bool {
	return promoEnabled && promoPrice > 0 && promoPrice < price
}

// effectiveItemPrice is the unit price charged at checkout: the promo price
// when an active promo undercuts the list price, the list price otherwise.
func effectiveItemPrice(price int64, promoEnabled bool, promoPrice int64) int64 {
	if isItemOnPromo(price, promoEnabled, promoPrice) {
		return promoPrice
	}
	return price
}

func validatePromoFields(price int64, promoEnabled bool, promoPrice int64, promoPriceSet bool) error {
	if !promoEnabled {
		return nil
	}
	if !promoPriceSet {
		return fmt.Errorf("promoPrice is required when promoEnabled is true")
	}
	if promoPrice <= 0 {
		return fmt.Errorf("promoPrice must be greater than 0")
	}
	if promoPrice >= price {
		return fmt.Errorf("promoPrice must be less than price")
	}
	return nil
}

func resolvePromoUpdate(existingPrice int64, existingPromoEnabled bool, existingPromoPrice int64, input promoUpdateInput) (promoUpdateResult, error) {
	result := promoUpdateResult{
		Price:        existingPrice,
		PromoEnabled: existingPromoEnabled,
		PromoPrice:   existingPromoPrice,
	}

	if input.Price != nil {
		result.Price = *input.Price
	}

	promoPriceSetForValidation := existingPromoPrice > 0

	if input.PromoEnabled != nil {
		result.PromoEnabled = *input.PromoEnabled
		result.SetPromoEnabled = true
		if !*input.PromoEnabled {
			result.PromoPrice = 0
			result.SetPromoPrice = true
			promoPriceSetForValidation = false
		}
	}

	if input.PromoPrice != nil {
		result.PromoPrice = *input.PromoPrice
		result.SetPromoPrice = true
		promoPriceSetForValidation = true
	}

	if err := validatePromoFields(result.Price, result.PromoEnabled, result.PromoPrice, promoPriceSetForValidation); err != nil {
		return promoUpdateResult{}, err
	}

	return result, nil
}
