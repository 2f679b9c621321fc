package cart

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/Balamathankumar/store-front/internal/domain"
	"github.com/Balamathankumar/store-front/internal/repository"
	apperrors "github.com/Balamathankumar/store-front/pkg/errors"
)

// ChangeFunc observes item-changing cart mutations. It runs synchronously
// under the store lock, so implementations must be quick and must not call
// back into the store.
type ChangeFunc func(ctx context.Context, sessionID string, state domain.CartState)

// Store holds one session's cart and applies all mutations to it. Every
// mutation recomputes the aggregates by folding over the full item collection,
// so totals can never drift from the line items. Mutations never fail: the
// in-memory state is the source of truth and persistence is write-through
// best-effort.
type Store struct {
	mu        sync.Mutex
	sessionID string
	items     []domain.LineItem
	isOpen    bool
	total     int64
	count     int

	repo      repository.SnapshotRepository
	logger    *slog.Logger
	observers []ChangeFunc
}

// NewStore creates a cart store for a session, hydrating it from the snapshot
// repository. A missing snapshot yields an empty cart; a load failure is
// logged and also yields an empty cart rather than blocking the session.
func NewStore(ctx context.Context, sessionID string, repo repository.SnapshotRepository, logger *slog.Logger) *Store {
	s := &Store{
		sessionID: sessionID,
		items:     []domain.LineItem{},
		repo:      repo,
		logger:    logger,
	}

	items, err := repo.Get(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.WarnContext(ctx, "failed to hydrate cart, starting empty",
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()),
			)
		}
	} else {
		s.items = items
	}
	s.recompute()

	return s
}

// OnChange registers an observer invoked after every item-changing mutation.
// Toggling the panel does not notify.
func (s *Store) OnChange(fn ChangeFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// State returns a copy of the published cart state.
func (s *Store) State() domain.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// AddLine adds quantity units of (product, weight) to the cart. If a line
// item with the same product and weight already exists its quantity is
// incremented in place; otherwise a new line is appended. A non-positive
// quantity is a no-op: this is an addition primitive, not a setter.
func (s *Store) AddLine(ctx context.Context, product *domain.Product, weight domain.Weight, quantity int) domain.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product == nil || quantity <= 0 {
		return s.stateLocked()
	}

	if i := domain.FindLine(s.items, product.ID, weight); i >= 0 {
		s.items[i].Quantity += quantity
	} else {
		s.items = append(s.items, domain.LineItem{
			ProductID: product.ID,
			Quantity:  quantity,
			Weight:    weight,
			Product:   product,
		})
	}

	return s.commitLocked(ctx)
}

// RemoveLine removes the line item matching (productID, weight). Absent keys
// are a no-op, not an error.
func (s *Store) RemoveLine(ctx context.Context, productID int64, weight domain.Weight) domain.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := domain.FindLine(s.items, productID, weight)
	if i < 0 {
		return s.stateLocked()
	}
	s.items = append(s.items[:i], s.items[i+1:]...)

	return s.commitLocked(ctx)
}

// SetQuantity sets the line item's quantity to exactly quantity. A value of
// zero or below removes the line; an absent key is a no-op.
func (s *Store) SetQuantity(ctx context.Context, productID int64, weight domain.Weight, quantity int) domain.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := domain.FindLine(s.items, productID, weight)
	if i < 0 {
		return s.stateLocked()
	}
	if quantity <= 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
	} else {
		s.items[i].Quantity = quantity
	}

	return s.commitLocked(ctx)
}

// ChangeWeight moves the (productID, oldWeight) line to newWeight. If a line
// already exists at the target weight the two merge: the target keeps its
// position and absorbs the source's quantity. Otherwise the source line is
// re-labelled in place. No-op when the source is absent or the weights match.
func (s *Store) ChangeWeight(ctx context.Context, productID int64, oldWeight, newWeight domain.Weight) domain.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if oldWeight == newWeight {
		return s.stateLocked()
	}
	src := domain.FindLine(s.items, productID, oldWeight)
	if src < 0 {
		return s.stateLocked()
	}

	if dst := domain.FindLine(s.items, productID, newWeight); dst >= 0 {
		s.items[dst].Quantity += s.items[src].Quantity
		s.items = append(s.items[:src], s.items[src+1:]...)
	} else {
		s.items[src].Weight = newWeight
	}

	return s.commitLocked(ctx)
}

// Clear empties the cart and deletes the persisted snapshot. The panel
// visibility flag is untouched.
func (s *Store) Clear(ctx context.Context) domain.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = []domain.LineItem{}
	s.recompute()

	if err := s.repo.Delete(ctx, s.sessionID); err != nil {
		s.logger.WarnContext(ctx, "failed to delete cart snapshot",
			slog.String("session_id", s.sessionID),
			slog.String("error", err.Error()),
		)
	}

	state := s.stateLocked()
	s.notifyLocked(ctx, state)
	return state
}

// ToggleOpen flips the cart panel visibility flag. It does not touch the
// items or aggregates and does not persist.
func (s *Store) ToggleOpen() domain.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.isOpen = !s.isOpen
	return s.stateLocked()
}

// UnitPrice resolves the unit price of product at weight. Pure delegation,
// exposed from the store for caller convenience.
func (s *Store) UnitPrice(product *domain.Product, weight domain.Weight) int64 {
	return domain.UnitPrice(product, weight)
}

// commitLocked recomputes aggregates, persists the snapshot best-effort, and
// notifies observers. Callers must hold the lock.
func (s *Store) commitLocked(ctx context.Context) domain.CartState {
	s.recompute()

	if err := s.repo.Save(ctx, s.sessionID, s.items); err != nil {
		s.logger.WarnContext(ctx, "failed to persist cart snapshot",
			slog.String("session_id", s.sessionID),
			slog.String("error", err.Error()),
		)
	}

	state := s.stateLocked()
	s.notifyLocked(ctx, state)
	return state
}

func (s *Store) recompute() {
	s.count = domain.TotalItems(s.items)
	s.total = domain.TotalAmount(s.items)
}

func (s *Store) stateLocked() domain.CartState {
	items := make([]domain.LineItem, len(s.items))
	copy(items, s.items)
	return domain.CartState{
		Items:       items,
		IsOpen:      s.isOpen,
		TotalItems:  s.count,
		TotalAmount: s.total,
	}
}

func (s *Store) notifyLocked(ctx context.Context, state domain.CartState) {
	for _, fn := range s.observers {
		fn(ctx, s.sessionID, state)
	}
}
