package settlement

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/giftbridge/settlement-service/internal/domain/models"
	"github.com/giftbridge/settlement-service/internal/domain/ports"
	apperrors "github.com/giftbridge/settlement-service/pkg/errors"
	"github.com/giftbridge/settlement-service/pkg/observability"
	"github.com/giftbridge/settlement-service/pkg/timeutil"
)

// PaymentOutcome is the structured result of a payment attempt.
// Business rejections (unknown settlement, already paid, bad amount) come back
// as Success=false with a message; only persistence failures surface as errors.
type PaymentOutcome struct {
	Success    bool
	Message    string
	Settlement *models.Settlement
}

// ProcessPayment applies a payment to a settlement and transitions its status.
//
// The settlement row is locked for the duration of the transaction so two
// concurrent payments against the same settlement cannot both move totalPaid
// past netPayable. Amounts beyond the outstanding remainder are clamped, not
// carried forward. Paid is terminal.
func (s *Service) ProcessPayment(ctx context.Context, settlementID string, amount decimal.Decimal, notes string) (*PaymentOutcome, error) {
	if settlementID == "" {
		return reject("settlement ID is required"), nil
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return reject("payment amount must be a positive number"), nil
	}

	var outcome *PaymentOutcome
	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		record, err := s.settlements.GetByIDForUpdate(ctx, tx, settlementID)
		if err != nil {
			if apperrors.IsNotFound(err) {
				outcome = reject("settlement not found")
				return nil
			}
			return err
		}

		if record.Status == models.SettlementPaid {
			outcome = reject("settlement already fully paid")
			return nil
		}
		if !record.CanAcceptPayment() {
			outcome = reject(fmt.Sprintf("settlement in %s state is not accepting payments", record.Status))
			return nil
		}

		now := timeutil.Now()
		applied := amount
		outstanding := record.NetPayable.Sub(record.TotalPaid)
		if applied.GreaterThan(outstanding) {
			// Overpayment is capped at the remainder, never carried forward
			applied = outstanding
		}

		newTotal := record.TotalPaid.Add(applied)
		if record.NetPayable.Sub(newTotal).LessThanOrEqual(models.PaymentTolerance) {
			record.TotalPaid = record.NetPayable
			record.RemainingAmount = decimal.Zero
			record.Status = models.SettlementPaid
		} else {
			record.TotalPaid = newTotal
			record.RemainingAmount = record.NetPayable.Sub(newTotal)
			record.Status = models.SettlementPartial
		}

		record.PaymentCount++
		record.LastPaymentDate = &now
		record.PaymentHistory = append(record.PaymentHistory, models.PaymentRecord{
			Amount:    applied,
			PaidAt:    now,
			Reference: newPaymentReference(now),
			Notes:     notes,
		})

		if err := s.settlements.ApplyPayment(ctx, tx, record); err != nil {
			return err
		}

		outcome = &PaymentOutcome{
			Success:    true,
			Message:    "payment recorded",
			Settlement: record,
		}
		return nil
	})
	if err != nil {
		s.logger.Error("payment processing failed",
			ports.String("settlement_id", settlementID),
			ports.Err(err))
		return nil, apperrors.Persistence(err, "process payment")
	}

	if outcome.Success {
		st := outcome.Settlement
		observability.RecordPaymentApplied(st.BrandID, string(st.Status), st.Currency, amount)
		s.logger.Info("payment applied",
			ports.String("settlement_id", settlementID),
			ports.String("status", string(st.Status)),
			ports.String("total_paid", st.TotalPaid.String()),
			ports.String("remaining", st.RemainingAmount.String()))
	} else {
		observability.RecordPaymentRejected(outcome.Message)
	}

	return outcome, nil
}

func reject(message string) *PaymentOutcome {
	return &PaymentOutcome{Success: false, Message: message}
}

// newPaymentReference generates a unique reference of the form
// PAY-<unix-millis>-<random9>
func newPaymentReference(now time.Time) string {
	id := uuid.New()
	random := strings.ToUpper(hex.EncodeToString(id[:]))[:9]
	return fmt.Sprintf("PAY-%d-%s", now.UnixMilli(), random)
}
