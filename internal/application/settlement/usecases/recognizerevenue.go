package usecases

import (
	"context"

	"grapplay/internal/domain/revenue"
	"grapplay/internal/domain/settlement"
	"grapplay/internal/domain/subscription"
	"grapplay/internal/shared/biztime"
	"grapplay/internal/shared/errors"
	"grapplay/internal/shared/logger"
)

// CreatorResolver looks up who earns the creator share of a sale. For
// feedback mode the "creator" is the instructor on the feedback request.
type CreatorResolver interface {
	ResolveCreator(ctx context.Context, mode settlement.Mode, productID string) (string, error)
}

// RecognizeRevenueCommand describes the settled payment to recognize.
type RecognizeRevenueCommand struct {
	UserID           string
	Mode             settlement.Mode
	ProductID        string
	GatewayPaymentID string
	AmountMinor      int64

	// Subscription fields, set when Mode is a subscription mode.
	SubscriptionID       string
	Interval             subscription.Interval
	PriorSubscriptionID  string
	ProrationCreditMinor int64
}

// RecognizeRevenueUseCase writes the ledger entries for a settled payment.
// One-off sales recognize immediately with a platform/creator split; annual
// subscriptions defer across twelve monthly buckets. The caller is
// responsible for deduplicating by gateway payment ID; appends here are not
// idempotent.
type RecognizeRevenueUseCase struct {
	ledger   revenue.LedgerRepository
	creators CreatorResolver
	feeRate  float64
	logger   logger.Interface
}

func NewRecognizeRevenueUseCase(ledger revenue.LedgerRepository, creators CreatorResolver, feeRate float64, logger logger.Interface) *RecognizeRevenueUseCase {
	return &RecognizeRevenueUseCase{
		ledger:   ledger,
		creators: creators,
		feeRate:  feeRate,
		logger:   logger,
	}
}

func (uc *RecognizeRevenueUseCase) Execute(ctx context.Context, cmd RecognizeRevenueCommand) error {
	var entries []revenue.LedgerEntry

	if cmd.Mode.IsSubscription() {
		entries = uc.subscriptionEntries(cmd)
	} else {
		creatorID, err := uc.creators.ResolveCreator(ctx, cmd.Mode, cmd.ProductID)
		if err != nil {
			uc.logger.Errorw("creator resolution failed",
				"error", err,
				"mode", cmd.Mode,
				"product_id", cmd.ProductID,
			)
			return errors.NewPersistenceFailedError("failed to resolve creator", err.Error())
		}
		entries = []revenue.LedgerEntry{
			revenue.NewSaleEntry(cmd.UserID, creatorID, revenue.ProductType(cmd.Mode), cmd.ProductID, cmd.GatewayPaymentID, cmd.AmountMinor, uc.feeRate),
		}
	}

	if err := uc.ledger.Append(ctx, entries...); err != nil {
		uc.logger.Errorw("ledger append failed",
			"error", err,
			"gateway_payment_id", cmd.GatewayPaymentID,
			"entries", len(entries),
		)
		return errors.NewPersistenceFailedError("failed to write revenue ledger", err.Error())
	}

	uc.logger.Infow("revenue recognized",
		"gateway_payment_id", cmd.GatewayPaymentID,
		"mode", cmd.Mode,
		"entries", len(entries),
	)
	return nil
}

func (uc *RecognizeRevenueUseCase) subscriptionEntries(cmd RecognizeRevenueCommand) []revenue.LedgerEntry {
	var entries []revenue.LedgerEntry
	if cmd.Interval == subscription.IntervalYear {
		entries = revenue.AnnualSchedule(cmd.UserID, cmd.SubscriptionID, cmd.GatewayPaymentID, cmd.AmountMinor, biztime.NowUTC())
	} else {
		entries = []revenue.LedgerEntry{
			revenue.NewMonthlySubscriptionEntry(cmd.UserID, cmd.SubscriptionID, cmd.GatewayPaymentID, cmd.AmountMinor),
		}
	}

	if cmd.Mode == settlement.ModeSubscriptionUpgrade && cmd.ProrationCreditMinor > 0 {
		entries = append(entries, revenue.NewUpgradeCreditEntry(cmd.UserID, cmd.PriorSubscriptionID, cmd.GatewayPaymentID, cmd.ProrationCreditMinor))
	}
	return entries
}
