// Package credit tracks credit cards and their installment purchases.
// Card exposure is independent of account balances: a purchase never moves
// money in the ledger.
package credit

import (
	"context"
	"strings"
	"time"

	"github.com/Veraticus/finance-flex/internal/common"
	"github.com/Veraticus/finance-flex/internal/model"
	"github.com/Veraticus/finance-flex/internal/service"
	"github.com/Veraticus/finance-flex/internal/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultColor is used for cards created without a color.
const DefaultColor = "#8A05BE"

// Engine manages credit cards and purchases.
type Engine struct {
	store  service.Store
	now    func() time.Time
	newID  func() string
	policy service.CreditPolicy
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used for creation times and undated purchases.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithIDGenerator sets the function generating card and purchase IDs.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) {
		e.newID = newID
	}
}

// New creates a credit engine over store.
func New(store service.Store, policy service.CreditPolicy, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		policy: policy,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CardRequest holds the editable fields of a card.
type CardRequest struct {
	Limit       decimal.Decimal
	Name        string
	Color       string
	DueDate     int
	ClosingDate int
}

func (r CardRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return common.Validationf("card name is required")
	}
	if !r.Limit.IsPositive() {
		return common.Validationf("card limit must be greater than zero")
	}
	if r.DueDate < 1 || r.DueDate > 31 {
		return common.Validationf("due day must be between 1 and 31, got %d", r.DueDate)
	}
	if r.ClosingDate < 1 || r.ClosingDate > 31 {
		return common.Validationf("closing day must be between 1 and 31, got %d", r.ClosingDate)
	}
	return nil
}

func (r CardRequest) apply(card *model.CreditCard) {
	card.Name = strings.TrimSpace(r.Name)
	card.Limit = r.Limit
	card.DueDate = r.DueDate
	card.ClosingDate = r.ClosingDate
	card.Color = r.Color
	if card.Color == "" {
		card.Color = DefaultColor
	}
}

// CreateCard adds a card.
func (e *Engine) CreateCard(ctx context.Context, req CardRequest) (*model.CreditCard, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	card := model.CreditCard{
		ID:        e.newID(),
		CreatedAt: e.now().UTC(),
	}
	req.apply(&card)

	err := e.store.Update(ctx, func(w service.Writer) error {
		cards, err := storage.Load[model.CreditCard](ctx, w, service.CollectionCreditCards)
		if err != nil {
			return err
		}
		cards = append(cards, card)
		return storage.Save(ctx, w, service.CollectionCreditCards, cards)
	})
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// EditCard replaces a card's editable fields. Existing purchases keep their schedules.
func (e *Engine) EditCard(ctx context.Context, id string, req CardRequest) (*model.CreditCard, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	var edited model.CreditCard
	err := e.store.Update(ctx, func(w service.Writer) error {
		cards, err := storage.Load[model.CreditCard](ctx, w, service.CollectionCreditCards)
		if err != nil {
			return err
		}
		i := findCard(cards, id)
		if i < 0 {
			return common.NotFoundf("card %q", id)
		}
		req.apply(&cards[i])
		edited = cards[i]
		return storage.Save(ctx, w, service.CollectionCreditCards, cards)
	})
	if err != nil {
		return nil, err
	}
	return &edited, nil
}

// DeleteCard removes a card and every purchase charged to it.
func (e *Engine) DeleteCard(ctx context.Context, id string) error {
	return e.store.Update(ctx, func(w service.Writer) error {
		cards, err := storage.Load[model.CreditCard](ctx, w, service.CollectionCreditCards)
		if err != nil {
			return err
		}
		i := findCard(cards, id)
		if i < 0 {
			return common.NotFoundf("card %q", id)
		}
		cards = append(cards[:i], cards[i+1:]...)
		if err := storage.Save(ctx, w, service.CollectionCreditCards, cards); err != nil {
			return err
		}

		purchases, err := storage.Load[model.CreditCardPurchase](ctx, w, service.CollectionCreditCardPurchases)
		if err != nil {
			return err
		}
		kept := purchases[:0]
		for _, p := range purchases {
			if p.CardID != id {
				kept = append(kept, p)
			}
		}
		return storage.Save(ctx, w, service.CollectionCreditCardPurchases, kept)
	})
}

// ListCards returns every card in creation order.
func (e *Engine) ListCards(ctx context.Context) ([]model.CreditCard, error) {
	var cards []model.CreditCard
	err := e.store.View(ctx, func(r service.Reader) error {
		var err error
		cards, err = storage.Load[model.CreditCard](ctx, r, service.CollectionCreditCards)
		return err
	})
	return cards, err
}

// ListPurchases returns the purchases charged to a card, or to every card
// when cardID is empty.
func (e *Engine) ListPurchases(ctx context.Context, cardID string) ([]model.CreditCardPurchase, error) {
	var result []model.CreditCardPurchase
	err := e.store.View(ctx, func(r service.Reader) error {
		purchases, err := storage.Load[model.CreditCardPurchase](ctx, r, service.CollectionCreditCardPurchases)
		if err != nil {
			return err
		}
		result = make([]model.CreditCardPurchase, 0, len(purchases))
		for _, p := range purchases {
			if cardID == "" || p.CardID == cardID {
				result = append(result, p)
			}
		}
		return nil
	})
	return result, err
}

func findCard(cards []model.CreditCard, id string) int {
	for i := range cards {
		if cards[i].ID == id {
			return i
		}
	}
	return -1
}
