package credit

import (
	"context"
	"strings"

	"github.com/Veraticus/finance-flex/internal/common"
	"github.com/Veraticus/finance-flex/internal/model"
	"github.com/Veraticus/finance-flex/internal/service"
	"github.com/Veraticus/finance-flex/internal/storage"
	"github.com/shopspring/decimal"
)

// PurchaseRequest describes an installment purchase.
type PurchaseRequest struct {
	PurchaseDate      model.Day
	TotalAmount       decimal.Decimal
	CardID            string
	Description       string
	Category          string
	InstallmentsCount int
}

// RecordPurchase charges a purchase to a card and schedules its installments.
// Installment i falls due on the first day of the i-th month after the
// purchase month, the first one in the purchase month itself.
func (e *Engine) RecordPurchase(ctx context.Context, req PurchaseRequest) (*model.CreditCardPurchase, error) {
	if req.InstallmentsCount < 1 {
		return nil, common.Validationf("installments must be at least 1, got %d", req.InstallmentsCount)
	}
	if !req.TotalAmount.IsPositive() {
		return nil, common.Validationf("total amount must be greater than zero")
	}

	purchaseDate := req.PurchaseDate
	if !purchaseDate.IsSet() {
		purchaseDate = model.NewDay(e.now())
	}

	installments := Schedule(req.TotalAmount, req.InstallmentsCount, purchaseDate, e.policy.AbsorbRemainder)
	purchase := model.CreditCardPurchase{
		ID:                e.newID(),
		CardID:            req.CardID,
		Description:       strings.TrimSpace(req.Description),
		Category:          req.Category,
		TotalAmount:       req.TotalAmount,
		InstallmentsCount: req.InstallmentsCount,
		InstallmentValue:  installments[0].Amount,
		PurchaseDate:      purchaseDate,
		FirstDueDate:      installments[0].DueDate,
		Installments:      installments,
	}

	err := e.store.Update(ctx, func(w service.Writer) error {
		cards, err := storage.Load[model.CreditCard](ctx, w, service.CollectionCreditCards)
		if err != nil {
			return err
		}
		i := findCard(cards, req.CardID)
		if i < 0 {
			return common.Referencef("card %q does not exist", req.CardID)
		}

		purchases, err := storage.Load[model.CreditCardPurchase](ctx, w, service.CollectionCreditCardPurchases)
		if err != nil {
			return err
		}

		if e.policy.EnforceLimit {
			available := cards[i].Limit.Sub(exposure(purchases, req.CardID))
			if req.TotalAmount.GreaterThan(available) {
				return common.InsufficientFundsf("card %q has %s available, purchase is %s",
					cards[i].Name, available.StringFixed(2), req.TotalAmount.StringFixed(2))
			}
		}

		purchases = append(purchases, purchase)
		return storage.Save(ctx, w, service.CollectionCreditCardPurchases, purchases)
	})
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

// Schedule splits total into count monthly installments. With absorb set,
// amounts are rounded to cents and the last installment takes the remainder
// so that they always add up to total; otherwise every installment is the
// plain quotient.
func Schedule(total decimal.Decimal, count int, purchaseDate model.Day, absorb bool) []model.Installment {
	n := decimal.NewFromInt(int64(count))
	value := total.Div(n)
	if absorb {
		value = value.Round(2)
	}

	installments := make([]model.Installment, count)
	allocated := decimal.Zero
	for i := range installments {
		amount := value
		if absorb && i == count-1 {
			amount = total.Sub(allocated)
		}
		allocated = allocated.Add(amount)
		installments[i] = model.Installment{
			Number:  i + 1,
			DueDate: purchaseDate.FirstOfMonthAfter(i),
			Amount:  amount,
		}
	}
	return installments
}

// MarkInstallmentPaid flags one installment of a purchase as paid, removing
// it from the card's exposure.
func (e *Engine) MarkInstallmentPaid(ctx context.Context, purchaseID string, number int) (*model.CreditCardPurchase, error) {
	var updated model.CreditCardPurchase
	err := e.store.Update(ctx, func(w service.Writer) error {
		purchases, err := storage.Load[model.CreditCardPurchase](ctx, w, service.CollectionCreditCardPurchases)
		if err != nil {
			return err
		}
		i := findPurchase(purchases, purchaseID)
		if i < 0 {
			return common.NotFoundf("purchase %q", purchaseID)
		}
		p := &purchases[i]

		j := findInstallment(p.Installments, number)
		if j < 0 {
			return common.Validationf("purchase %q has no installment %d", purchaseID, number)
		}
		if p.Installments[j].Paid {
			return common.Validationf("installment %d of %q is already paid", number, p.Description)
		}
		p.Installments[j].Paid = true
		p.InstallmentsPaid = countPaid(p.Installments)

		updated = *p
		return storage.Save(ctx, w, service.CollectionCreditCardPurchases, purchases)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func findPurchase(purchases []model.CreditCardPurchase, id string) int {
	for i := range purchases {
		if purchases[i].ID == id {
			return i
		}
	}
	return -1
}

func findInstallment(installments []model.Installment, number int) int {
	for i := range installments {
		if installments[i].Number == number {
			return i
		}
	}
	return -1
}

func countPaid(installments []model.Installment) int {
	n := 0
	for _, inst := range installments {
		if inst.Paid {
			n++
		}
	}
	return n
}
