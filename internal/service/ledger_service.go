package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"bank-ledger/internal/core/domain"
	"bank-ledger/internal/core/ports"
	"bank-ledger/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	defaultIdempotencyTTL = 24 * time.Hour
	// claimTTL bounds how long a crashed request can block its idempotency key.
	claimTTL = 30 * time.Second
)

type interestAccruer interface {
	AddInterest() (domain.Transaction, error)
}

type feeCharger interface {
	ChargeMonthlyFee() (domain.Transaction, error)
}

type roster interface {
	AddEmployee(name, id string) error
	RemoveEmployee(id string) (domain.Employee, error)
	Employees() []domain.Employee
}

// LedgerServiceImpl implements ports.LedgerService on top of an in-memory
// domain.Ledger. The ledger is authoritative; the repositories keep a
// durable copy and the cache remembers idempotent outcomes.
type LedgerServiceImpl struct {
	ledger      *domain.Ledger
	accountRepo ports.AccountRepository
	txRepo      ports.TransactionRepository
	transactor  ports.DBTransactor
	idempCache  ports.IdempotencyCache
	idempTTL    time.Duration
	log         zerolog.Logger

	// persistMu keeps account upserts in the order their snapshots were taken.
	persistMu sync.Mutex
}

// NewLedgerService creates a new LedgerServiceImpl. Persistence is enabled
// only when accountRepo, txRepo and transactor are all non-nil; idempotency
// only when idempCache is non-nil.
func NewLedgerService(
	ledger *domain.Ledger,
	accountRepo ports.AccountRepository,
	txRepo ports.TransactionRepository,
	transactor ports.DBTransactor,
	idempCache ports.IdempotencyCache,
	idempTTL time.Duration,
	log zerolog.Logger,
) *LedgerServiceImpl {
	if idempTTL <= 0 {
		idempTTL = defaultIdempotencyTTL
	}
	return &LedgerServiceImpl{
		ledger:      ledger,
		accountRepo: accountRepo,
		txRepo:      txRepo,
		transactor:  transactor,
		idempCache:  idempCache,
		idempTTL:    idempTTL,
		log:         log,
	}
}

// OpenAccount creates an account in the ledger and persists it.
func (s *LedgerServiceImpl) OpenAccount(ctx context.Context, req ports.OpenAccountRequest) (*domain.AccountSnapshot, error) {
	id, err := s.ledger.CreateAccount(req.Kind, req.Owner, req.OpeningBalance, domain.AccountParams{
		InterestRate:   req.InterestRate,
		MinimumBalance: req.MinimumBalance,
		OverdraftLimit: req.OverdraftLimit,
		MonthlyFee:     req.MonthlyFee,
		BusinessType:   req.BusinessType,
	})
	if err != nil {
		s.log.Debug().Err(err).Str("kind", req.Kind).Msg("open account rejected")
		return nil, mapDomainError(err)
	}

	acct, err := s.ledger.GetAccount(id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("reading new account %s: %w", id, err))
	}
	s.persist(ctx, acct, nil)

	snap := acct.Snapshot()
	s.log.Info().
		Str("account_id", id).
		Str("kind", string(snap.Kind)).
		Str("opening_balance", snap.Balance.String()).
		Msg("account opened")
	return &snap, nil
}

// GetAccount returns a snapshot of one account.
func (s *LedgerServiceImpl) GetAccount(_ context.Context, accountID string) (*domain.AccountSnapshot, error) {
	acct, err := s.ledger.GetAccount(accountID)
	if err != nil {
		return nil, mapDomainError(err)
	}
	snap := acct.Snapshot()
	return &snap, nil
}

// ListAccounts returns snapshots of every account ordered by ID.
func (s *LedgerServiceImpl) ListAccounts(_ context.Context) ([]domain.AccountSnapshot, error) {
	accts := s.ledger.Accounts()
	out := make([]domain.AccountSnapshot, 0, len(accts))
	for _, a := range accts {
		out = append(out, a.Snapshot())
	}
	return out, nil
}

// Summary returns ledger-wide totals.
func (s *LedgerServiceImpl) Summary(_ context.Context) (domain.LedgerSummary, error) {
	return s.ledger.Summary(), nil
}

// Deposit adds money to an account.
func (s *LedgerServiceImpl) Deposit(ctx context.Context, req ports.MovementRequest) (*ports.MovementResult, error) {
	return s.move(ctx, "deposit", req.AccountID, req.IdempotencyKey, amountFingerprint(req.Amount), func(a domain.Account) (domain.Transaction, error) {
		return a.Deposit(req.Amount)
	})
}

// Withdraw takes money out of an account under its kind's policy.
func (s *LedgerServiceImpl) Withdraw(ctx context.Context, req ports.MovementRequest) (*ports.MovementResult, error) {
	return s.move(ctx, "withdraw", req.AccountID, req.IdempotencyKey, amountFingerprint(req.Amount), func(a domain.Account) (domain.Transaction, error) {
		return a.Withdraw(req.Amount)
	})
}

// AddInterest accrues interest on a savings account.
func (s *LedgerServiceImpl) AddInterest(ctx context.Context, req ports.OperationRequest) (*ports.MovementResult, error) {
	return s.move(ctx, "interest", req.AccountID, req.IdempotencyKey, "", func(a domain.Account) (domain.Transaction, error) {
		ia, ok := a.(interestAccruer)
		if !ok {
			return domain.Transaction{}, fmt.Errorf("%w: %s accounts do not accrue interest", domain.ErrOperationNotSupported, a.Kind())
		}
		return ia.AddInterest()
	})
}

// ChargeMonthlyFee charges the monthly fee of a business account.
func (s *LedgerServiceImpl) ChargeMonthlyFee(ctx context.Context, req ports.OperationRequest) (*ports.MovementResult, error) {
	return s.move(ctx, "fee", req.AccountID, req.IdempotencyKey, "", func(a domain.Account) (domain.Transaction, error) {
		fc, ok := a.(feeCharger)
		if !ok {
			return domain.Transaction{}, fmt.Errorf("%w: %s accounts have no monthly fee", domain.ErrOperationNotSupported, a.Kind())
		}
		return fc.ChargeMonthlyFee()
	})
}

// cachedMovement is what an idempotency key remembers: the request it was
// first used with and the outcome that request produced.
type cachedMovement struct {
	Request string               `json:"request"`
	Result  ports.MovementResult `json:"result"`
}

// move runs one balance-changing operation: idempotency lookup, apply,
// persist, cache. fingerprint identifies the request body behind the key.
func (s *LedgerServiceImpl) move(
	ctx context.Context,
	op, accountID, idempotencyKey, fingerprint string,
	apply func(domain.Account) (domain.Transaction, error),
) (*ports.MovementResult, error) {
	var cacheKey string
	if idempotencyKey != "" && s.idempCache != nil {
		cacheKey = buildIdempotencyKey(op, accountID, idempotencyKey)
		if result, found, err := s.replay(ctx, cacheKey, fingerprint); found {
			return result, err
		}

		claimed, err := s.idempCache.Claim(ctx, cacheKey, claimTTL)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("key", cacheKey).Msg("idempotency claim failed, applying request")
		case !claimed:
			return nil, apperror.ErrRequestInProgress()
		default:
			defer s.release(ctx, cacheKey)
			// The previous holder may have finished between the lookup and the claim.
			if result, found, err := s.replay(ctx, cacheKey, fingerprint); found {
				return result, err
			}
		}
	}

	acct, err := s.ledger.GetAccount(accountID)
	if err != nil {
		return nil, mapDomainError(err)
	}

	txn, err := apply(acct)
	if err != nil {
		s.log.Debug().Err(err).Str("op", op).Str("account_id", accountID).Msg("operation rejected")
		return nil, mapDomainError(err)
	}

	result := &ports.MovementResult{
		AccountID:   accountID,
		Transaction: txn,
		Amount:      txn.Amount,
		Balance:     txn.ResultingBalance,
		Recorded:    txn.Recorded(),
	}

	if result.Recorded {
		s.persist(ctx, acct, &txn)
	}

	if cacheKey != "" {
		if data, err := json.Marshal(cachedMovement{Request: fingerprint, Result: *result}); err != nil {
			s.log.Warn().Err(err).Str("key", cacheKey).Msg("failed to encode idempotent result")
		} else if err := s.idempCache.Set(ctx, cacheKey, data, s.idempTTL); err != nil {
			s.log.Warn().Err(err).Str("key", cacheKey).Msg("failed to cache idempotent result")
		}
	}

	s.log.Info().
		Str("op", op).
		Str("account_id", accountID).
		Str("amount", result.Amount.String()).
		Str("balance", result.Balance.String()).
		Bool("recorded", result.Recorded).
		Msg("balance operation applied")

	return result, nil
}

func buildIdempotencyKey(op, accountID, key string) string {
	return fmt.Sprintf("%s:%s:%s", op, accountID, key)
}

func (s *LedgerServiceImpl) release(ctx context.Context, key string) {
	if err := s.idempCache.Release(context.WithoutCancel(ctx), key); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("failed to release idempotency claim")
	}
}

// replay looks key up in the cache. found is false when the request has to
// be applied; a failed lookup is logged and treated as a miss.
func (s *LedgerServiceImpl) replay(ctx context.Context, key, fingerprint string) (*ports.MovementResult, bool, error) {
	data, err := s.idempCache.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("idempotency lookup failed, applying request")
		return nil, false, nil
	}
	if data == nil {
		return nil, false, nil
	}
	result, err := decodeCachedResult(data, fingerprint)
	return result, true, err
}

func decodeCachedResult(data []byte, fingerprint string) (*ports.MovementResult, error) {
	var cached cachedMovement
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("unmarshal cached result: %w", err))
	}
	if cached.Request != fingerprint {
		return nil, apperror.ErrIdempotencyKeyReused()
	}
	return &cached.Result, nil
}

// amountFingerprint renders amount canonically (40 and 40.00 match) without
// expanding its exponent.
func amountFingerprint(amount decimal.Decimal) string {
	if amount.IsZero() {
		return "0"
	}
	digits := amount.Coefficient().String()
	trimmed := strings.TrimRight(digits, "0")
	return fmt.Sprintf("%se%d", trimmed, int(amount.Exponent())+len(digits)-len(trimmed))
}

// Activate re-opens an account for balance changes.
func (s *LedgerServiceImpl) Activate(ctx context.Context, accountID string) (*domain.AccountSnapshot, error) {
	return s.setActive(ctx, accountID, true)
}

// Deactivate freezes an account's balance.
func (s *LedgerServiceImpl) Deactivate(ctx context.Context, accountID string) (*domain.AccountSnapshot, error) {
	return s.setActive(ctx, accountID, false)
}

func (s *LedgerServiceImpl) setActive(ctx context.Context, accountID string, active bool) (*domain.AccountSnapshot, error) {
	acct, err := s.ledger.GetAccount(accountID)
	if err != nil {
		return nil, mapDomainError(err)
	}
	if active {
		acct.Activate()
	} else {
		acct.Deactivate()
	}
	s.persist(ctx, acct, nil)

	s.log.Info().Str("account_id", accountID).Bool("active", active).Msg("account status changed")
	snap := acct.Snapshot()
	return &snap, nil
}

// ListTransactions returns an account's log in insertion order.
func (s *LedgerServiceImpl) ListTransactions(_ context.Context, accountID string) ([]domain.Transaction, error) {
	acct, err := s.ledger.GetAccount(accountID)
	if err != nil {
		return nil, mapDomainError(err)
	}
	return acct.Transactions(), nil
}

// AddEmployee puts an employee on a business account's roster and returns the roster.
func (s *LedgerServiceImpl) AddEmployee(ctx context.Context, accountID string, employee domain.Employee) ([]domain.Employee, error) {
	acct, r, err := s.roster(accountID)
	if err != nil {
		return nil, err
	}
	if err := r.AddEmployee(employee.Name, employee.ID); err != nil {
		s.log.Debug().Err(err).Str("account_id", accountID).Msg("add employee rejected")
		return nil, mapDomainError(err)
	}
	s.persist(ctx, acct, nil)

	s.log.Info().Str("account_id", accountID).Str("employee_id", employee.ID).Msg("employee added")
	return r.Employees(), nil
}

// RemoveEmployee takes an employee off a business account's roster.
func (s *LedgerServiceImpl) RemoveEmployee(ctx context.Context, accountID, employeeID string) (*domain.Employee, error) {
	acct, r, err := s.roster(accountID)
	if err != nil {
		return nil, err
	}
	removed, err := r.RemoveEmployee(employeeID)
	if err != nil {
		return nil, mapDomainError(err)
	}
	s.persist(ctx, acct, nil)

	s.log.Info().Str("account_id", accountID).Str("employee_id", employeeID).Msg("employee removed")
	return &removed, nil
}

// ListEmployees returns a business account's roster.
func (s *LedgerServiceImpl) ListEmployees(_ context.Context, accountID string) ([]domain.Employee, error) {
	_, r, err := s.roster(accountID)
	if err != nil {
		return nil, err
	}
	return r.Employees(), nil
}

func (s *LedgerServiceImpl) roster(accountID string) (domain.Account, roster, error) {
	acct, err := s.ledger.GetAccount(accountID)
	if err != nil {
		return nil, nil, mapDomainError(err)
	}
	r, ok := acct.(roster)
	if !ok {
		return nil, nil, mapDomainError(fmt.Errorf("%w: %s accounts have no employees", domain.ErrOperationNotSupported, acct.Kind()))
	}
	return acct, r, nil
}

// Restore rebuilds the ledger from the durable copy. Without persistence it is a no-op.
func (s *LedgerServiceImpl) Restore(ctx context.Context) (int, error) {
	if !s.persistenceEnabled() {
		return 0, nil
	}

	snaps, err := s.accountRepo.List(ctx)
	if err != nil {
		return 0, apperror.ErrDatabaseError(fmt.Errorf("list accounts: %w", err))
	}
	for i := range snaps {
		txs, err := s.txRepo.ListByAccount(ctx, snaps[i].ID)
		if err != nil {
			return 0, apperror.ErrDatabaseError(fmt.Errorf("list transactions of %s: %w", snaps[i].ID, err))
		}
		snaps[i].Transactions = txs
		if err := snaps[i].CheckLog(); err != nil {
			s.log.Warn().Err(err).Str("account_id", snaps[i].ID).Msg("restored account has an incomplete history")
		}
	}

	if err := s.ledger.Restore(snaps); err != nil {
		return 0, apperror.InternalError(err)
	}

	s.log.Info().Int("accounts", len(snaps)).Msg("ledger restored from database")
	return len(snaps), nil
}

func (s *LedgerServiceImpl) persistenceEnabled() bool {
	return s.accountRepo != nil && s.txRepo != nil && s.transactor != nil
}

// persist writes the account (and the record just appended, if any) to the
// database. Failures are logged; the in-memory ledger has already changed.
func (s *LedgerServiceImpl) persist(ctx context.Context, acct domain.Account, txn *domain.Transaction) {
	if !s.persistenceEnabled() {
		return
	}
	ctx = context.WithoutCancel(ctx)

	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if err := s.save(ctx, acct.Snapshot(), txn); err != nil {
		s.log.Warn().Err(err).Str("account_id", acct.ID()).Msg("failed to persist account")
	}
}

func (s *LedgerServiceImpl) save(ctx context.Context, snap domain.AccountSnapshot, txn *domain.Transaction) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.accountRepo.Upsert(ctx, dbTx, snap); err != nil {
		return fmt.Errorf("upsert account: %w", err)
	}
	if txn != nil {
		if err := s.txRepo.Append(ctx, dbTx, *txn); err != nil {
			return fmt.Errorf("append transaction: %w", err)
		}
	}
	if err := dbTx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// mapDomainError turns a domain error into the matching AppError.
// The domain error stays in the chain for errors.Is.
func mapDomainError(err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return apperror.ErrInvalidAmount(err)
	case errors.Is(err, domain.ErrAccountInactive):
		return apperror.ErrAccountInactive(err)
	case errors.Is(err, domain.ErrInsufficientFunds):
		return apperror.ErrInsufficientFunds(err)
	case errors.Is(err, domain.ErrBelowMinimumBalance):
		return apperror.ErrBelowMinimumBalance(err)
	case errors.Is(err, domain.ErrOverdraftLimitExceeded):
		return apperror.ErrOverdraftLimitExceeded(err)
	case errors.Is(err, domain.ErrAccountNotFound):
		return apperror.ErrNotFound("Account", err)
	case errors.Is(err, domain.ErrEmployeeNotFound):
		return apperror.ErrNotFound("Employee", err)
	case errors.Is(err, domain.ErrUnknownAccountKind):
		return apperror.ErrUnknownAccountKind(err)
	case errors.Is(err, domain.ErrDuplicateEmployee):
		return apperror.ErrDuplicateEmployee(err)
	case errors.Is(err, domain.ErrInvalidEmployee), errors.Is(err, domain.ErrInvalidParameter):
		return apperror.ErrInvalidParameter(err)
	case errors.Is(err, domain.ErrOperationNotSupported):
		return apperror.ErrOperationNotSupported(err)
	}
	return apperror.InternalError(err)
}
