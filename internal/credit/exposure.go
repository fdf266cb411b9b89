package credit

import (
	"context"
	"time"

	"github.com/Veraticus/finance-flex/internal/common"
	"github.com/Veraticus/finance-flex/internal/model"
	"github.com/Veraticus/finance-flex/internal/service"
	"github.com/Veraticus/finance-flex/internal/storage"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CardStatus summarizes a card's credit line.
type CardStatus struct {
	Exposure  decimal.Decimal
	Available decimal.Decimal
	// Utilization is exposure as a percentage of the limit, capped at 100.
	Utilization decimal.Decimal
	Card        model.CreditCard
}

// Status computes the status of a card from its purchases.
func Status(card model.CreditCard, purchases []model.CreditCardPurchase) CardStatus {
	out := exposure(purchases, card.ID)
	status := CardStatus{
		Card:      card,
		Exposure:  out,
		Available: card.Limit.Sub(out),
	}
	if card.Limit.IsPositive() {
		status.Utilization = decimal.Min(out.Div(card.Limit).Mul(hundred), hundred).Round(2)
	}
	return status
}

// OutstandingExposure returns the sum of unpaid installments across the card's purchases.
func (e *Engine) OutstandingExposure(ctx context.Context, cardID string) (decimal.Decimal, error) {
	status, err := e.CardStatus(ctx, cardID)
	if err != nil {
		return decimal.Zero, err
	}
	return status.Exposure, nil
}

// AvailableLimit returns the limit minus exposure. It goes negative when
// purchases exceed the limit.
func (e *Engine) AvailableLimit(ctx context.Context, cardID string) (decimal.Decimal, error) {
	status, err := e.CardStatus(ctx, cardID)
	if err != nil {
		return decimal.Zero, err
	}
	return status.Available, nil
}

// Utilization returns the card's exposure as a percentage of its limit, capped at 100.
func (e *Engine) Utilization(ctx context.Context, cardID string) (decimal.Decimal, error) {
	status, err := e.CardStatus(ctx, cardID)
	if err != nil {
		return decimal.Zero, err
	}
	return status.Utilization, nil
}

// CardStatus returns the status of one card.
func (e *Engine) CardStatus(ctx context.Context, cardID string) (*CardStatus, error) {
	statuses, err := e.statuses(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if len(statuses) == 0 {
		return nil, common.NotFoundf("card %q", cardID)
	}
	return &statuses[0], nil
}

// CardStatuses returns the status of every card.
func (e *Engine) CardStatuses(ctx context.Context) ([]CardStatus, error) {
	return e.statuses(ctx, "")
}

func (e *Engine) statuses(ctx context.Context, cardID string) ([]CardStatus, error) {
	var result []CardStatus
	err := e.store.View(ctx, func(r service.Reader) error {
		cards, err := storage.Load[model.CreditCard](ctx, r, service.CollectionCreditCards)
		if err != nil {
			return err
		}
		purchases, err := storage.Load[model.CreditCardPurchase](ctx, r, service.CollectionCreditCardPurchases)
		if err != nil {
			return err
		}
		for _, card := range cards {
			if cardID == "" || card.ID == cardID {
				result = append(result, Status(card, purchases))
			}
		}
		return nil
	})
	return result, err
}

func exposure(purchases []model.CreditCardPurchase, cardID string) decimal.Decimal {
	total := decimal.Zero
	for _, p := range purchases {
		if p.CardID == cardID {
			total = total.Add(p.Outstanding())
		}
	}
	return total
}

// StatementLine is one installment falling due in a statement month.
type StatementLine struct {
	DueDate     model.Day
	Amount      decimal.Decimal
	PurchaseID  string
	Description string
	Category    string
	Number      int
	Count       int
	Paid        bool
}

// Statement lists a card's installments due in one month.
type Statement struct {
	Total  decimal.Decimal
	Unpaid decimal.Decimal
	Lines  []StatementLine
	Card   model.CreditCard
	Year   int
	Month  time.Month
}

// CardStatement returns the installments of a card that fall due in the given month.
func (e *Engine) CardStatement(ctx context.Context, cardID string, year int, month time.Month) (*Statement, error) {
	statement := &Statement{Year: year, Month: month, Total: decimal.Zero, Unpaid: decimal.Zero}
	err := e.store.View(ctx, func(r service.Reader) error {
		cards, err := storage.Load[model.CreditCard](ctx, r, service.CollectionCreditCards)
		if err != nil {
			return err
		}
		i := findCard(cards, cardID)
		if i < 0 {
			return common.NotFoundf("card %q", cardID)
		}
		statement.Card = cards[i]

		purchases, err := storage.Load[model.CreditCardPurchase](ctx, r, service.CollectionCreditCardPurchases)
		if err != nil {
			return err
		}
		for _, p := range purchases {
			if p.CardID != cardID {
				continue
			}
			for _, inst := range p.Installments {
				if inst.DueDate.Year() != year || inst.DueDate.Month() != month {
					continue
				}
				statement.Lines = append(statement.Lines, StatementLine{
					PurchaseID:  p.ID,
					Description: p.Description,
					Category:    p.Category,
					Number:      inst.Number,
					Count:       p.InstallmentsCount,
					DueDate:     inst.DueDate,
					Amount:      inst.Amount,
					Paid:        inst.Paid,
				})
				statement.Total = statement.Total.Add(inst.Amount)
				if !inst.Paid {
					statement.Unpaid = statement.Unpaid.Add(inst.Amount)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return statement, nil
}
