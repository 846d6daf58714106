package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/smallbiznis/backinstock/internal/cache"
	catalogdomain "github.com/smallbiznis/backinstock/internal/catalog/domain"
	"github.com/smallbiznis/backinstock/internal/clock"
	"github.com/smallbiznis/backinstock/internal/config"
	"github.com/smallbiznis/backinstock/internal/events"
	marketingdomain "github.com/smallbiznis/backinstock/internal/marketing/domain"
	restockdomain "github.com/smallbiznis/backinstock/internal/restock/domain"
	tenantdomain "github.com/smallbiznis/backinstock/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Marketing credentials live in shop metadata under one fixed namespace.
const (
	configNamespace = "clevertap"

	configKeyAccountID = "account_id"
	configKeyPasscode  = "passcode"
	configKeyRegion    = "region"
)

var configKeys = []string{configKeyAccountID, configKeyPasscode, configKeyRegion}

type Params struct {
	fx.In

	Log            *zap.Logger
	Cfg            config.Config
	Clock          clock.Clock
	CatalogFactory catalogdomain.ClientFactory
	Dispatcher     marketingdomain.Dispatcher
	Outbox         *events.Outbox                              `optional:"true"`
	ConfigCache    cache.Cache[string, marketingdomain.Config] `optional:"true"`
}

type Service struct {
	log         *zap.Logger
	clock       clock.Clock
	catalog     catalogdomain.ClientFactory
	dispatcher  marketingdomain.Dispatcher
	outbox      *events.Outbox
	configCache cache.Cache[string, marketingdomain.Config]

	pageSize int
	cfg      config.Config
}

func NewService(p Params) restockdomain.Service {
	pageSize := p.Cfg.RequestPageSize
	if pageSize <= 0 {
		pageSize = 100
	}
	return &Service{
		log:         p.Log.Named("restock.service"),
		clock:       p.Clock,
		catalog:     p.CatalogFactory,
		dispatcher:  p.Dispatcher,
		outbox:      p.Outbox,
		configCache: p.ConfigCache,
		pageSize:    pageSize,
		cfg:         p.Cfg,
	}
}

func (s *Service) HandleInventoryEvent(ctx context.Context, shop *tenantdomain.Shop, event restockdomain.InventoryEvent) (*restockdomain.Result, error) {
	log := s.log.With(
		zap.String("shop", shop.ShopDomain),
		zap.String("inventory_item_id", event.InventoryItemID),
		zap.Int64("available", event.Available),
	)

	// A zero or negative level is a valid signal that carries nothing
	// actionable.
	if event.Available <= 0 {
		log.Debug("inventory still out of stock")
		return &restockdomain.Result{Disposition: restockdomain.DispositionStillOutOfStock}, nil
	}

	client := s.catalog.ForShop(shop)

	variant, err := client.VariantByInventoryItem(ctx, event.InventoryItemID)
	if err != nil {
		return nil, fmt.Errorf("resolve variant: %w", err)
	}
	if variant == nil {
		log.Debug("inventory item has no variant")
		return &restockdomain.Result{Disposition: restockdomain.DispositionNoVariant}, nil
	}

	marketingCfg, err := s.marketingConfig(ctx, client, shop)
	if err != nil {
		return nil, fmt.Errorf("resolve marketing config: %w", err)
	}
	if !marketingCfg.Complete() {
		log.Debug("shop has no marketing config")
		return &restockdomain.Result{Disposition: restockdomain.DispositionNotConfigured}, nil
	}

	matches, err := s.matchPending(ctx, client, variant.VariantID)
	if err != nil {
		return nil, fmt.Errorf("match requests: %w", err)
	}
	if len(matches) == 0 {
		log.Debug("no pending requests for variant", zap.String("variant_id", variant.VariantID))
		return &restockdomain.Result{Disposition: restockdomain.DispositionNoMatches}, nil
	}

	report := &restockdomain.BatchReport{
		VariantID: variant.VariantID,
		Matched:   len(matches),
	}
	result := &restockdomain.Result{
		Disposition: restockdomain.DispositionCompleted,
		Report:      report,
	}

	for _, request := range matches {
		if err := s.dispatch(ctx, shop, marketingCfg, variant, request); err != nil {
			report.FailedID = request.ID
			s.publish(ctx, shop, events.EventDispatchFailed,
				events.DispatchFailedPayload{
					RequestID: request.ID,
					VariantID: variant.VariantID,
					Reason:    err.Error(),
				}.ToMap(),
				"dispatch_failed:"+request.ID,
			)
			log.Error("marketing dispatch failed, aborting batch",
				zap.String("request_id", request.ID),
				zap.Error(err),
			)
			return result, fmt.Errorf("dispatch request %s: %w", request.ID, err)
		}

		swapped, err := client.UpdateRecordField(ctx, request.ID, "status", restockdomain.StatusPending, restockdomain.StatusNotified)
		if err != nil {
			report.FailedID = request.ID
			return result, fmt.Errorf("update status for request %s: %w", request.ID, err)
		}
		if !swapped {
			// Another invocation transitioned the request first.
			report.Skipped = append(report.Skipped, request.ID)
			log.Warn("status swap lost, request already handled", zap.String("request_id", request.ID))
			continue
		}

		report.Notified = append(report.Notified, request.ID)
		s.publish(ctx, shop, events.EventNotified,
			events.NotifiedPayload{
				RequestID: request.ID,
				Email:     request.Email,
				VariantID: variant.VariantID,
				ProductID: variant.ProductID,
			}.ToMap(),
			"notified:"+request.ID,
		)
	}

	log.Info("restock batch processed",
		zap.String("variant_id", variant.VariantID),
		zap.Int("matched", report.Matched),
		zap.Int("notified", len(report.Notified)),
		zap.Int("skipped", len(report.Skipped)),
	)
	return result, nil
}

func (s *Service) SubmitRequest(ctx context.Context, shop *tenantdomain.Shop, submission restockdomain.Submission) (string, error) {
	email := strings.TrimSpace(submission.Email)
	productID := restockdomain.NormalizeID(submission.ProductID)
	variantID := restockdomain.NormalizeID(submission.VariantID)
	if email == "" || productID == "" || variantID == "" {
		return "", restockdomain.ErrInvalidSubmission
	}

	client := s.catalog.ForShop(shop)
	recordID, err := client.CreateRecord(ctx, catalogdomain.NewRecord{
		Type: restockdomain.RecordType,
		Fields: []catalogdomain.RecordField{
			{Key: "email", Value: email},
			{Key: "product_id", Value: productID},
			{Key: "variant_id", Value: variantID},
			{Key: "status", Value: restockdomain.StatusPending},
			{Key: "created_at", Value: s.clock.Now().Format("2006-01-02")},
		},
	})
	if err != nil {
		return "", fmt.Errorf("create request record: %w", err)
	}

	s.publish(ctx, shop, events.EventRequestCreated,
		map[string]any{
			"request_id": recordID,
			"variant_id": variantID,
			"product_id": productID,
		},
		"request_created:"+recordID,
	)
	return recordID, nil
}

// marketingConfig resolves the shop's marketing credentials, serving
// repeat lookups from the TTL cache. Absent fields are not an error.
func (s *Service) marketingConfig(ctx context.Context, client catalogdomain.Client, shop *tenantdomain.Shop) (marketingdomain.Config, error) {
	if s.configCache != nil {
		if cached, ok := s.configCache.Get(shop.ShopDomain); ok {
			return cached, nil
		}
	}

	values, err := client.ShopMetafields(ctx, configNamespace, configKeys)
	if err != nil {
		return marketingdomain.Config{}, err
	}
	marketingCfg := marketingdomain.Config{
		AccountID: values[configKeyAccountID],
		Passcode:  values[configKeyPasscode],
		Region:    values[configKeyRegion],
	}

	if s.configCache != nil && marketingCfg.Complete() {
		s.configCache.Set(shop.ShopDomain, marketingCfg, s.cfg.ConfigCacheTTL)
	}
	return marketingCfg, nil
}

// matchPending walks every page of notification-request records and
// keeps the ones still pending for the resolved variant.
func (s *Service) matchPending(ctx context.Context, client catalogdomain.Client, variantID string) ([]restockdomain.NotificationRequest, error) {
	var matches []restockdomain.NotificationRequest
	cursor := ""
	for {
		page, err := client.ListRecords(ctx, restockdomain.RecordType, s.pageSize, cursor)
		if err != nil {
			return nil, err
		}
		for _, record := range page.Records {
			request, err := restockdomain.DecodeRequestRecord(record)
			if err != nil {
				return nil, fmt.Errorf("record %s: %w", record.ID, err)
			}
			if request.Pending() && request.MatchesVariant(variantID) {
				matches = append(matches, request)
			}
		}
		if !page.HasNextPage || page.EndCursor == "" {
			return matches, nil
		}
		cursor = page.EndCursor
	}
}

func (s *Service) dispatch(ctx context.Context, shop *tenantdomain.Shop, cfg marketingdomain.Config, variant *catalogdomain.Variant, request restockdomain.NotificationRequest) error {
	return s.dispatcher.Dispatch(ctx, cfg, marketingdomain.Event{
		Email: request.Email,
		Name:  restockdomain.EventBackInStock,
		Data: marketingdomain.EventData{
			ProductID:    variant.ProductID,
			VariantID:    variant.VariantID,
			ProductTitle: variant.ProductTitle,
			ProductURL:   shop.ProductURL(variant.ProductHandle),
			ProductImage: variant.ImageURL,
		},
	})
}

// publish writes an outbox event best-effort. Pipeline outcomes never
// depend on audit writes.
func (s *Service) publish(ctx context.Context, shop *tenantdomain.Shop, eventType string, payload map[string]any, dedupeKey string) {
	if s.outbox == nil {
		return
	}
	err := s.outbox.Publish(ctx, events.Event{
		ShopDomain: shop.ShopDomain,
		Type:       eventType,
		Payload:    payload,
		DedupeKey:  dedupeKey,
	})
	if err != nil {
		s.log.Warn("outbox publish failed",
			zap.String("shop", shop.ShopDomain),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
