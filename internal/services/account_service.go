package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"timesheet/internal/core"
	"timesheet/internal/events"
	"timesheet/internal/log"
	"timesheet/internal/ports"
)

// AccountStore is the full account catalog.
type AccountStore interface {
	ports.AccountCatalog
	ports.AccountWriter
}

// AccountService manages the account catalog. Accounts referenced by a slot
// are never removed, only deactivated.
type AccountService struct {
	store  AccountStore
	slots  ports.SlotReader
	broker *events.Broker
	logger *log.Logger
}

func NewAccountService(store AccountStore, slots ports.SlotReader, broker *events.Broker, logger *log.Logger) *AccountService {
	if logger == nil {
		logger = log.Discard()
	}
	if broker == nil {
		broker = events.NewBroker(logger)
	}
	return &AccountService{
		store:  store,
		slots:  slots,
		broker: broker,
		logger: logger.WithComponent(log.ComponentAccounts),
	}
}

// List returns the whole catalog, empty on store failure.
func (s *AccountService) List(ctx context.Context) []core.Account {
	accounts, err := s.store.ListAccounts(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list accounts", log.FieldError, err)
		return []core.Account{}
	}
	if accounts == nil {
		return []core.Account{}
	}
	return accounts
}

// Active splits the active accounts into their groups.
func (s *AccountService) Active(ctx context.Context) core.GroupedAccounts {
	return core.GroupAccounts(s.List(ctx))
}

func (s *AccountService) Get(ctx context.Context, id string) (core.Account, error) {
	return s.store.GetAccount(ctx, strings.TrimSpace(id))
}

// Create adds an active account. An empty id gets a generated one.
func (s *AccountService) Create(ctx context.Context, a core.Account) (core.Account, error) {
	if strings.TrimSpace(a.ID) == "" {
		a.ID = uuid.NewString()
	}
	a.IsActive = true
	a = a.Normalize()
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}
	if _, err := s.store.GetAccount(ctx, a.ID); err == nil {
		return core.Account{}, fmt.Errorf("%w: %s", core.ErrAccountExists, a.ID)
	} else if !errors.Is(err, core.ErrAccountNotFound) {
		return core.Account{}, fmt.Errorf("check account: %w", err)
	}
	if err := s.save(ctx, a, log.OpCreate); err != nil {
		return core.Account{}, err
	}
	return a, nil
}

// Update replaces an existing account's fields.
func (s *AccountService) Update(ctx context.Context, a core.Account) (core.Account, error) {
	a = a.Normalize()
	if _, err := s.store.GetAccount(ctx, a.ID); err != nil {
		return core.Account{}, err
	}
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}
	if err := s.save(ctx, a, log.OpUpdate); err != nil {
		return core.Account{}, err
	}
	return a, nil
}

// Move puts the account in another group. The chargeable flag follows the group.
func (s *AccountService) Move(ctx context.Context, id string, group core.Group) (core.Account, error) {
	if !group.IsValid() {
		return core.Account{}, core.ErrInvalidGroup
	}
	a, err := s.store.GetAccount(ctx, id)
	if err != nil {
		return core.Account{}, err
	}
	a.Group = group
	a = a.Normalize()
	if err := s.save(ctx, a, log.OpUpdate); err != nil {
		return core.Account{}, err
	}
	return a, nil
}

// SetActive toggles whether the account is offered on the calendar.
func (s *AccountService) SetActive(ctx context.Context, id string, active bool) (core.Account, error) {
	a, err := s.store.GetAccount(ctx, id)
	if err != nil {
		return core.Account{}, err
	}
	if a.IsActive == active {
		return a, nil
	}
	a.IsActive = active
	if err := s.save(ctx, a, log.OpUpdate); err != nil {
		return core.Account{}, err
	}
	return a, nil
}

// Delete removes an unreferenced account. A referenced one is deactivated
// instead and deactivated reports true.
func (s *AccountService) Delete(ctx context.Context, id string) (deactivated bool, err error) {
	a, err := s.store.GetAccount(ctx, id)
	if err != nil {
		return false, err
	}
	refs, err := s.slots.CountSlotsForAccount(ctx, a.ID)
	if err != nil {
		return false, fmt.Errorf("count account references: %w", err)
	}
	if refs > 0 {
		a.IsActive = false
		if err := s.save(ctx, a, log.OpUpdate); err != nil {
			return false, err
		}
		s.logger.InfoContext(ctx, "Account deactivated instead of deleted",
			log.FieldAccountID, a.ID, "references", refs)
		return true, nil
	}
	if err := s.store.DeleteAccount(ctx, a.ID); err != nil {
		return false, fmt.Errorf("delete account: %w", err)
	}
	s.logger.InfoContext(ctx, "Account deleted", log.FieldAccountID, a.ID)
	s.broker.Publish(events.Event{Type: events.AccountChanged, AccountID: a.ID})
	return false, nil
}

func (s *AccountService) save(ctx context.Context, a core.Account, op string) error {
	if err := s.store.SaveAccount(ctx, a); err != nil {
		return fmt.Errorf("save account: %w", err)
	}
	s.logger.DebugContext(ctx, "Account saved", log.FieldAccountID, a.ID, log.FieldOperation, op)
	s.broker.Publish(events.Event{Type: events.AccountChanged, AccountID: a.ID})
	return nil
}
