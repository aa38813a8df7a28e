package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/application/uow"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const resourceProduct = "product"

// ProductService handles product edits. Every mutation goes through the
// version guard and writes exactly one history entry in the same transaction.
type ProductService struct {
	scope            uow.TransactionScope
	recorder         HistoryRecorder
	defaultThreshold int
	eventPublisher   shared.EventPublisher
	logger           *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(scope uow.TransactionScope, defaultThreshold int, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		scope:            scope,
		defaultThreshold: defaultThreshold,
		logger:           logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a product and its "created" history entry
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest, actor Actor) (*ProductResponse, error) {
	if req.Price == nil {
		return nil, shared.NewValidationError("Price is required")
	}
	product, err := catalog.NewProduct(req.Name, *req.Price)
	if err != nil {
		return nil, err
	}
	if req.DiscountPercent < 0 || req.DiscountPercent > 100 {
		return nil, shared.NewValidationError("Discount percent must be between 0 and 100")
	}
	product.DiscountPercent = req.DiscountPercent
	product.LowStockThreshold = req.LowStockThreshold
	product.CategoryID = req.CategoryID
	product.BrandID = req.BrandID

	err = s.scope.Execute(ctx, func(repos uow.Repositories) error {
		if err := repos.Products().Create(ctx, product); err != nil {
			return err
		}
		_, err := s.recorder.Record(ctx, repos.History(), product.ID, catalog.HistoryActionCreated,
			actor, nil, product.Snapshot(), catalog.HistoryMeta{})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, product)
	resp := ToProductResponse(product, s.defaultThreshold)
	return &resp, nil
}

// GetByID returns a product with its current version token
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	var resp ProductResponse
	err := s.scope.Execute(ctx, func(repos uow.Repositories) error {
		product, err := repos.Products().FindByID(ctx, id)
		if err != nil {
			return err
		}
		resp = ToProductResponse(product, s.defaultThreshold)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// List returns products that are not deleted
func (s *ProductService) List(ctx context.Context, filter shared.Filter) ([]ProductResponse, error) {
	var out []ProductResponse
	err := s.scope.Execute(ctx, func(repos uow.Repositories) error {
		products, err := repos.Products().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		out = make([]ProductResponse, 0, len(products))
		for i := range products {
			out = append(out, ToProductResponse(&products[i], s.defaultThreshold))
		}
		return nil
	})
	return out, err
}

// Update applies an edit if req.Version is still current
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest, actor Actor) (*ProductResponse, error) {
	product, _, err := s.guardedUpdate(ctx, id, req.Version, actor, catalog.HistoryActionUpdated, catalog.HistoryMeta{},
		func(p *catalog.Product) error {
			return p.Apply(req.Changes())
		})
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product, s.defaultThreshold)
	return &resp, nil
}

// Delete soft deletes a product if version is still current
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID, version int, actor Actor) error {
	_, _, err := s.guardedUpdate(ctx, id, version, actor, catalog.HistoryActionDeleted, catalog.HistoryMeta{},
		func(p *catalog.Product) error {
			return p.SoftDelete()
		})
	return err
}

// ListHistory returns a product's history, newest first. Deleted products
// keep their history.
func (s *ProductService) ListHistory(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]HistoryEntryResponse, error) {
	var out []HistoryEntryResponse
	err := s.scope.Execute(ctx, func(repos uow.Repositories) error {
		if _, err := repos.Products().FindByIDIncludingDeleted(ctx, productID); err != nil {
			return err
		}
		entries, err := repos.History().ListByProduct(ctx, productID, filter)
		if err != nil {
			return err
		}
		out = make([]HistoryEntryResponse, 0, len(entries))
		for i := range entries {
			out = append(out, ToHistoryEntryResponse(&entries[i]))
		}
		return nil
	})
	return out, err
}

// Restore re-applies the new values of an "updated" entry onto the product.
// It goes through the same version guard as an edit: with req.Version set the
// restore fails if the product moved on since the client read it. The source
// entry is left untouched and a new "restored" entry is appended. A deleted
// product cannot be restored onto.
func (s *ProductService) Restore(ctx context.Context, entryID uuid.UUID, req RestoreRequest, actor Actor) (*RestoreResponse, error) {
	var source *catalog.HistoryEntry
	err := s.scope.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		source, err = repos.History().FindByID(ctx, entryID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := source.CanRestore(); err != nil {
		return nil, err
	}
	changes, err := catalog.ChangesFromValues(source.NewValues)
	if err != nil {
		return nil, err
	}

	expected := -1
	if req.Version != nil {
		expected = *req.Version
	}
	sourceID := source.ID
	meta := catalog.HistoryMeta{SourceEntryID: &sourceID}

	product, entry, err := s.guardedUpdate(ctx, source.ProductID, expected, actor, catalog.HistoryActionRestored, meta,
		func(p *catalog.Product) error {
			if p.IsDeleted() {
				return shared.NewDomainError(shared.CodeInvalidState, "Cannot restore history onto a deleted product")
			}
			if err := p.Apply(changes); err != nil {
				return err
			}
			p.AddDomainEvent(catalog.NewProductChangedEvent(catalog.EventTypeProductRestored, p))
			return nil
		})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Product restored from history",
		zap.String("product_id", product.ID.String()),
		zap.String("source_entry_id", sourceID.String()),
		zap.Int("version", product.Version),
	)
	return &RestoreResponse{
		Product: ToProductResponse(product, s.defaultThreshold),
		Entry:   ToHistoryEntryResponse(entry),
	}, nil
}

// guardedUpdate loads the product, checks expectedVersion (a negative value
// pins the version read inside the transaction), mutates, saves with a
// conditional version write and records history, all in one transaction.
func (s *ProductService) guardedUpdate(
	ctx context.Context,
	id uuid.UUID,
	expectedVersion int,
	actor Actor,
	action catalog.HistoryAction,
	meta catalog.HistoryMeta,
	mutate func(p *catalog.Product) error,
) (*catalog.Product, *catalog.HistoryEntry, error) {
	var product *catalog.Product
	var entry *catalog.HistoryEntry

	err := s.scope.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		if action == catalog.HistoryActionRestored {
			product, err = repos.Products().FindByIDIncludingDeleted(ctx, id)
		} else {
			product, err = repos.Products().FindByID(ctx, id)
		}
		if err != nil {
			return err
		}
		if expectedVersion >= 0 {
			if err := product.CheckVersion(resourceProduct, expectedVersion); err != nil {
				return err
			}
		}

		before := product.Snapshot()
		if err := mutate(product); err != nil {
			return err
		}
		if err := repos.Products().SaveWithLock(ctx, product); err != nil {
			return err
		}

		entry, err = s.recorder.Record(ctx, repos.History(), product.ID, action, actor, before, product.Snapshot(), meta)
		return err
	})
	if err != nil {
		if product != nil {
			product.ClearDomainEvents()
		}
		return nil, nil, err
	}

	s.publish(ctx, product)
	return product, entry, nil
}

func (s *ProductService) publish(ctx context.Context, product *catalog.Product) {
	events := product.GetDomainEvents()
	product.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish product events",
			zap.String("product_id", product.ID.String()),
			zap.Error(err),
		)
	}
}
