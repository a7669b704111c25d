package transactions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ubqurrotul/koperasi-backend/internal/ledger"
	"github.com/ubqurrotul/koperasi-backend/internal/products"
	"github.com/ubqurrotul/koperasi-backend/internal/shu"
	"github.com/ubqurrotul/koperasi-backend/pkg/db/models"
	"github.com/ubqurrotul/koperasi-backend/pkg/enums"
	pkgerrors "github.com/ubqurrotul/koperasi-backend/pkg/errors"
	"github.com/ubqurrotul/koperasi-backend/pkg/outbox"
	"github.com/ubqurrotul/koperasi-backend/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type shuReader interface {
	MemberSHU(ctx context.Context, memberID uuid.UUID) (*shu.MemberShare, error)
}

type savingsReader interface {
	MemberSummary(ctx context.Context, memberID uuid.UUID) (*ledger.SavingsSummary, error)
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service governs transaction creation and the pending/approved/rejected
// state machine, including the stock side effects sales must trigger.
type Service interface {
	SubmitRequest(ctx context.Context, memberID uuid.UUID, input SubmitRequestInput) (*models.Transaction, error)
	RecordPOSSale(ctx context.Context, actor Actor, input POSSaleInput) (*models.Transaction, error)
	Approve(ctx context.Context, actor Actor, transactionID uuid.UUID) (*models.Transaction, error)
	Reject(ctx context.Context, actor Actor, transactionID uuid.UUID) (*models.Transaction, error)
	GetTransaction(ctx context.Context, transactionID uuid.UUID) (*models.Transaction, error)
	ListTransactions(ctx context.Context, filter ListFilter) (*ListResult, error)
}

// Actor identifies who performs a mutating operation.
type Actor struct {
	MemberID uuid.UUID
	Role     enums.MemberRole
}

// SubmitRequestInput is a member self-service request. All requests start
// PENDING and stay inert until an administrator resolves them.
type SubmitRequestInput struct {
	Type        enums.TransactionType
	Category    *enums.SavingsCategory
	Amount      decimal.Decimal
	Date        time.Time
	Description string
	ProductID   *uuid.UUID
	Quantity    *int
}

// POSSaleInput records a counter sale. BuyerID is uuid.Nil for walk-ins.
type POSSaleInput struct {
	BuyerID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	Date      time.Time
}

type service struct {
	tx       txRunner
	repo     Repository
	products products.Repository
	shu      shuReader
	savings  savingsReader
	outbox   outboxPublisher
}

// NewService builds the transaction lifecycle manager.
func NewService(
	tx txRunner,
	repo Repository,
	productRepo products.Repository,
	shuSvc shuReader,
	savings savingsReader,
	publisher outboxPublisher,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("transaction repository required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if shuSvc == nil {
		return nil, fmt.Errorf("shu reader required")
	}
	if savings == nil {
		return nil, fmt.Errorf("savings reader required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		tx:       tx,
		repo:     repo,
		products: productRepo,
		shu:      shuSvc,
		savings:  savings,
		outbox:   publisher,
	}, nil
}

func (s *service) SubmitRequest(ctx context.Context, memberID uuid.UUID, input SubmitRequestInput) (*models.Transaction, error) {
	if memberID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "member id is required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid transaction type %q", input.Type))
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if input.Category != nil && !input.Type.IsSavings() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "savings category applies to deposits and payments only")
	}
	if input.Category != nil && !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid savings category %q", *input.Category))
	}

	// balance guards run at submission time, before any row exists
	switch input.Type {
	case enums.TransactionTypeSHUWithdrawal:
		share, err := s.shu.MemberSHU(ctx, memberID)
		if err != nil {
			return nil, err
		}
		if input.Amount.GreaterThan(share.Total) {
			return nil, pkgerrors.New(pkgerrors.CodeInsufficientBalance,
				fmt.Sprintf("requested %s exceeds SHU balance %s", input.Amount, share.Total))
		}
	case enums.TransactionTypeWithdrawal:
		summary, err := s.savings.MemberSummary(ctx, memberID)
		if err != nil {
			return nil, err
		}
		if input.Amount.GreaterThan(summary.NetSavings) {
			return nil, pkgerrors.New(pkgerrors.CodeInsufficientBalance,
				fmt.Sprintf("requested %s exceeds savings balance %s", input.Amount, summary.NetSavings))
		}
	}

	txn := &models.Transaction{
		ID:          uuid.New(),
		MemberID:    memberID,
		Date:        dateOnly(input.Date),
		Type:        input.Type,
		Category:    input.Category,
		Amount:      input.Amount,
		Status:      enums.TransactionStatusPending,
		Description: input.Description,
		IsCashFlow:  true,
	}

	if input.Type == enums.TransactionTypePurchase {
		if input.ProductID == nil || *input.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required for purchases")
		}
		if input.Quantity == nil || *input.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
		}
		product, err := s.loadProduct(ctx, s.products, *input.ProductID)
		if err != nil {
			return nil, err
		}
		qty := decimal.NewFromInt(int64(*input.Quantity))
		profit := product.SellPrice.Sub(product.CostPrice).Mul(qty)
		txn.Amount = product.SellPrice.Mul(qty)
		txn.Profit = &profit
		txn.ProductID = input.ProductID
		txn.Quantity = input.Quantity
		if txn.Description == "" {
			txn.Description = fmt.Sprintf("Pembelian %s x%d", product.Name, *input.Quantity)
		}
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, txn); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:   enums.OutboxEventTransactionSubmitted,
			AggregateID: txn.ID,
			Actor:       &outbox.ActorRef{MemberID: memberID, Role: enums.MemberRoleOrdinary.String()},
			Data: payloads.TransactionSubmittedEvent{
				TransactionID: txn.ID,
				MemberID:      memberID,
				Type:          txn.Type,
				Amount:        txn.Amount,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// RecordPOSSale creates an APPROVED purchase and decrements stock in the same
// transaction; either both commit or neither does.
func (s *service) RecordPOSSale(ctx context.Context, actor Actor, input POSSaleInput) (*models.Transaction, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	var txn *models.Transaction
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		productRepo := s.products.WithTx(tx)

		product, err := s.loadProduct(ctx, productRepo, input.ProductID)
		if err != nil {
			return err
		}
		ok, err := productRepo.DecrementStock(ctx, input.ProductID, input.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeInsufficientStock,
				fmt.Sprintf("requested %d exceeds stock %d for %s", input.Quantity, product.Stock, product.Name))
		}

		qty := decimal.NewFromInt(int64(input.Quantity))
		amount := product.SellPrice.Mul(qty)
		profit := product.SellPrice.Sub(product.CostPrice).Mul(qty)
		now := time.Now()

		txn = &models.Transaction{
			ID:          uuid.New(),
			MemberID:    input.BuyerID,
			Date:        dateOnly(input.Date),
			Type:        enums.TransactionTypePurchase,
			Amount:      amount,
			Status:      enums.TransactionStatusApproved,
			Description: fmt.Sprintf("Penjualan %s x%d", product.Name, input.Quantity),
			Profit:      &profit,
			Quantity:    &input.Quantity,
			ProductID:   &input.ProductID,
			IsCashFlow:  true,
			ResolvedAt:  &now,
		}
		if err := s.repo.WithTx(tx).Create(ctx, txn); err != nil {
			return err
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:   enums.OutboxEventPOSSaleRecorded,
			AggregateID: txn.ID,
			Actor:       &outbox.ActorRef{MemberID: actor.MemberID, Role: actor.Role.String()},
			Data: payloads.POSSaleRecordedEvent{
				TransactionID: txn.ID,
				MemberID:      input.BuyerID,
				ProductID:     input.ProductID,
				Quantity:      input.Quantity,
				Amount:        amount,
				Profit:        profit,
				WalkIn:        input.BuyerID == uuid.Nil,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

func (s *service) Approve(ctx context.Context, actor Actor, transactionID uuid.UUID) (*models.Transaction, error) {
	return s.resolve(ctx, actor, transactionID, enums.TransactionStatusApproved)
}

func (s *service) Reject(ctx context.Context, actor Actor, transactionID uuid.UUID) (*models.Transaction, error) {
	return s.resolve(ctx, actor, transactionID, enums.TransactionStatusRejected)
}

// resolve transitions PENDING to a terminal state. Approving a self-service
// purchase decrements stock here; the decrement and the status change commit
// together or the row stays PENDING. Withdrawal balances are re-checked on
// approval since they may have shrunk since submission.
func (s *service) resolve(ctx context.Context, actor Actor, transactionID uuid.UUID, to enums.TransactionStatus) (*models.Transaction, error) {
	txn, err := s.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("transaction already %s", txn.Status))
	}

	// balances may have moved since submission, so withdrawals are
	// re-checked before the approval commits
	if to == enums.TransactionStatusApproved {
		switch txn.Type {
		case enums.TransactionTypeSHUWithdrawal:
			share, serr := s.shu.MemberSHU(ctx, txn.MemberID)
			if serr != nil {
				return nil, serr
			}
			if txn.Amount.GreaterThan(share.Total) {
				return nil, pkgerrors.New(pkgerrors.CodeInsufficientBalance,
					fmt.Sprintf("requested %s exceeds SHU balance %s", txn.Amount, share.Total))
			}
		case enums.TransactionTypeWithdrawal:
			summary, serr := s.savings.MemberSummary(ctx, txn.MemberID)
			if serr != nil {
				return nil, serr
			}
			if txn.Amount.GreaterThan(summary.NetSavings) {
				return nil, pkgerrors.New(pkgerrors.CodeInsufficientBalance,
					fmt.Sprintf("requested %s exceeds savings balance %s", txn.Amount, summary.NetSavings))
			}
		}
	}

	resolvedAt := time.Now()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if to == enums.TransactionStatusApproved &&
			txn.Type == enums.TransactionTypePurchase &&
			txn.ProductID != nil && txn.Quantity != nil {
			ok, derr := s.products.WithTx(tx).DecrementStock(ctx, *txn.ProductID, *txn.Quantity)
			if derr != nil {
				return derr
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeInsufficientStock,
					fmt.Sprintf("stock too low to approve purchase of %d", *txn.Quantity))
			}
		}

		ok, rerr := s.repo.WithTx(tx).ResolveStatus(ctx, transactionID, to, resolvedAt)
		if rerr != nil {
			return rerr
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "transaction already resolved")
		}

		eventType := enums.OutboxEventTransactionApproved
		if to == enums.TransactionStatusRejected {
			eventType = enums.OutboxEventTransactionRejected
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:   eventType,
			AggregateID: txn.ID,
			Actor:       &outbox.ActorRef{MemberID: actor.MemberID, Role: actor.Role.String()},
			Data: payloads.TransactionResolvedEvent{
				TransactionID: txn.ID,
				MemberID:      txn.MemberID,
				Type:          txn.Type,
				Amount:        txn.Amount,
				Status:        to,
				ResolvedAt:    resolvedAt,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	txn.Status = to
	txn.ResolvedAt = &resolvedAt
	return txn, nil
}

func (s *service) GetTransaction(ctx context.Context, transactionID uuid.UUID) (*models.Transaction, error) {
	if transactionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id is required")
	}
	txn, err := s.repo.FindByID(ctx, transactionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
	}
	if err != nil {
		return nil, err
	}
	return txn, nil
}

func (s *service) ListTransactions(ctx context.Context, filter ListFilter) (*ListResult, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) loadProduct(ctx context.Context, repo products.Repository, id uuid.UUID) (*models.Product, error) {
	product, err := repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		t = time.Now()
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
