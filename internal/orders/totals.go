package orders

import (
	"github.com/davidnier/storefront-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// TotalsOptions controls how the totals engine treats tax.
type TotalsOptions struct {
	// DefaultRate is the flat rate applied to every taxable line on each
	// recompute.
	DefaultRate decimal.Decimal
	// InclusivePricing means catalog prices already contain tax, so the
	// tax total is carved out of line totals instead of added on top.
	InclusivePricing bool
	// TaxShipping applies DefaultRate to the shipping charge as well.
	TaxShipping bool
}

var one = decimal.NewFromInt(1)

// RecomputeTotals rebuilds every derived money field on the order from its
// items. The configured rate is stamped onto each taxable line, so a rate
// change reaches an order the next time it is recomputed and not before.
// Line totals are rounded to cents before they are summed, so the order
// totals always equal the sum of the stored lines, and the grand total is
// always subtotal - discount + tax + shipping.
func RecomputeTotals(order *models.Order, opts TotalsOptions) {
	subtotal := decimal.Zero
	taxTotal := decimal.Zero

	for i := range order.Items {
		item := &order.Items[i]
		item.LineTotal = item.UnitPrice.Mul(item.Quantity).Round(2)

		rate := decimal.Zero
		if item.IsTaxable {
			rate = opts.DefaultRate
		}
		item.TaxRate = rate
		item.TaxAmount = taxOn(item.LineTotal, rate, opts.InclusivePricing)

		subtotal = subtotal.Add(item.LineTotal)
		taxTotal = taxTotal.Add(item.TaxAmount)
	}

	if opts.TaxShipping {
		taxTotal = taxTotal.Add(taxOn(order.ShippingTotal, opts.DefaultRate, opts.InclusivePricing))
	}

	order.Subtotal = subtotal
	order.TaxTotal = taxTotal
	order.GrandTotal = subtotal.
		Sub(order.DiscountTotal).
		Add(taxTotal).
		Add(order.ShippingTotal)
}

func taxOn(amount, rate decimal.Decimal, inclusive bool) decimal.Decimal {
	if rate.Sign() <= 0 || amount.IsZero() {
		return decimal.Zero
	}
	if inclusive {
		return amount.Sub(amount.Div(one.Add(rate)).Round(2))
	}
	return amount.Mul(rate).Round(2)
}
