package usecases

import (
	"context"
	"fmt"

	"grapplay/internal/domain/entitlement"
	"grapplay/internal/domain/settlement"
	"grapplay/internal/shared/biztime"
	"grapplay/internal/shared/errors"
	"grapplay/internal/shared/logger"
)

// FulfillEntitlementsCommand identifies what to grant after a settled payment.
type FulfillEntitlementsCommand struct {
	UserID           string
	Mode             settlement.Mode
	ProductID        string
	AmountMinor      int64
	GatewayPaymentID string
}

// FulfillEntitlementsResult reports what was granted. Members is populated
// for bundle fulfillment only.
type FulfillEntitlementsResult struct {
	Created bool
	Members []entitlement.MemberResult
}

// FulfillEntitlementsUseCase grants ownership for a settled one-off purchase.
// All grants are upserts; repeating a fulfillment never duplicates rows.
type FulfillEntitlementsUseCase struct {
	store   entitlement.Store
	bundles entitlement.BundleRepository
	logger  logger.Interface
}

func NewFulfillEntitlementsUseCase(store entitlement.Store, bundles entitlement.BundleRepository, logger logger.Interface) *FulfillEntitlementsUseCase {
	return &FulfillEntitlementsUseCase{
		store:   store,
		bundles: bundles,
		logger:  logger,
	}
}

func (uc *FulfillEntitlementsUseCase) Execute(ctx context.Context, cmd FulfillEntitlementsCommand) (*FulfillEntitlementsResult, error) {
	switch cmd.Mode {
	case settlement.ModeCourse, settlement.ModeDrill, settlement.ModeRoutine, settlement.ModeSparring:
		return uc.grantSingle(ctx, cmd)
	case settlement.ModeBundle:
		return uc.grantBundle(ctx, cmd)
	case settlement.ModeFeedback:
		return uc.unlockFeedback(ctx, cmd)
	default:
		return nil, errors.NewInvalidSettlementRequestError("mode does not grant entitlements", string(cmd.Mode))
	}
}

func (uc *FulfillEntitlementsUseCase) grantSingle(ctx context.Context, cmd FulfillEntitlementsCommand) (*FulfillEntitlementsResult, error) {
	created, err := uc.store.UpsertGrant(ctx, entitlement.Grant{
		UserID:     cmd.UserID,
		Kind:       entitlement.Kind(cmd.Mode),
		ResourceID: cmd.ProductID,
		GrantedAt:  biztime.NowUTC(),
	})
	if err != nil {
		uc.logger.Errorw("entitlement grant failed",
			"error", err,
			"user_id", cmd.UserID,
			"kind", cmd.Mode,
			"product_id", cmd.ProductID,
		)
		return nil, errors.NewPersistenceFailedError("failed to grant entitlement", err.Error())
	}

	uc.logger.Infow("entitlement granted",
		"user_id", cmd.UserID,
		"kind", cmd.Mode,
		"product_id", cmd.ProductID,
		"created", created,
	)
	return &FulfillEntitlementsResult{Created: created}, nil
}

func (uc *FulfillEntitlementsUseCase) grantBundle(ctx context.Context, cmd FulfillEntitlementsCommand) (*FulfillEntitlementsResult, error) {
	bundle, err := uc.bundles.GetByID(ctx, cmd.ProductID)
	if err != nil {
		return nil, errors.NewPersistenceFailedError("failed to load bundle", err.Error())
	}
	if bundle == nil {
		return nil, errors.NewNotFoundError("bundle not found", cmd.ProductID)
	}

	price := cmd.AmountMinor
	created, err := uc.store.UpsertBundleGrant(ctx, entitlement.Grant{
		UserID:         cmd.UserID,
		Kind:           entitlement.KindBundle,
		ResourceID:     bundle.ID,
		PricePaidMinor: &price,
		GrantedAt:      biztime.NowUTC(),
	})
	if err != nil {
		return nil, errors.NewPersistenceFailedError("failed to grant bundle", err.Error())
	}

	// Member grants run independently: one failure must not abort the
	// others or undo grants already made.
	members := make([]entitlement.MemberResult, 0, bundle.MemberCount())
	failed := 0
	for _, m := range bundleMembers(bundle) {
		memberCreated, memberErr := uc.store.UpsertGrant(ctx, entitlement.Grant{
			UserID:     cmd.UserID,
			Kind:       m.Kind,
			ResourceID: m.ResourceID,
			GrantedAt:  biztime.NowUTC(),
		})
		if memberErr != nil {
			failed++
			uc.logger.Errorw("bundle member grant failed",
				"error", memberErr,
				"user_id", cmd.UserID,
				"bundle_id", bundle.ID,
				"kind", m.Kind,
				"resource_id", m.ResourceID,
			)
		}
		members = append(members, entitlement.MemberResult{
			Kind:       m.Kind,
			ResourceID: m.ResourceID,
			Created:    memberCreated,
			Err:        memberErr,
		})
	}

	result := &FulfillEntitlementsResult{Created: created, Members: members}
	if failed > 0 {
		return result, errors.NewPartialFulfillmentError(
			fmt.Sprintf("%d of %d bundle member grants failed", failed, len(members)),
			bundle.ID,
		)
	}

	uc.logger.Infow("bundle fulfilled",
		"user_id", cmd.UserID,
		"bundle_id", bundle.ID,
		"members", len(members),
	)
	return result, nil
}

func (uc *FulfillEntitlementsUseCase) unlockFeedback(ctx context.Context, cmd FulfillEntitlementsCommand) (*FulfillEntitlementsResult, error) {
	if err := uc.store.UnlockFeedback(ctx, cmd.UserID, cmd.ProductID); err != nil {
		uc.logger.Errorw("feedback unlock failed",
			"error", err,
			"user_id", cmd.UserID,
			"feedback_request_id", cmd.ProductID,
		)
		return nil, errors.NewPersistenceFailedError("failed to unlock feedback request", err.Error())
	}

	uc.logger.Infow("feedback request unlocked",
		"user_id", cmd.UserID,
		"feedback_request_id", cmd.ProductID,
	)
	return &FulfillEntitlementsResult{Created: true}, nil
}

type bundleMember struct {
	Kind       entitlement.Kind
	ResourceID string
}

func bundleMembers(b *entitlement.Bundle) []bundleMember {
	members := make([]bundleMember, 0, b.MemberCount())
	for _, id := range b.CourseIDs {
		members = append(members, bundleMember{Kind: entitlement.KindCourse, ResourceID: id})
	}
	for _, id := range b.DrillIDs {
		members = append(members, bundleMember{Kind: entitlement.KindDrill, ResourceID: id})
	}
	return members
}
