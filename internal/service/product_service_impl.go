package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Aymix/whitecart/internal/domain"
	"github.com/Aymix/whitecart/internal/dto"
	"github.com/Aymix/whitecart/internal/repository"
	pkgdto "github.com/Aymix/whitecart/pkg/dto"
	"github.com/Aymix/whitecart/pkg/errs"
	"github.com/Aymix/whitecart/pkg/utils"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductServiceImpl struct {
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	cache       repository.ProductCacheRepository
	search      repository.ProductSearchRepository
	storage     FileStorage
	publisher   EventPublisher
}

func CreateProductService(productRepo repository.ProductRepository, userRepo repository.UserRepository, cache repository.ProductCacheRepository, search repository.ProductSearchRepository, storage FileStorage, publisher EventPublisher) ProductService {
	return &ProductServiceImpl{
		productRepo: productRepo,
		userRepo:    userRepo,
		cache:       cache,
		search:      search,
		storage:     storage,
		publisher:   publisher,
	}
}

func (s *ProductServiceImpl) GetProducts(ctx context.Context, filter pkgdto.Filter) (data []dto.ProductResponse, err error) {
	key := repository.ProductListCacheKey(filter.Category, "", filter.Page, filter.Limit)
	if cached, found := s.cache.GetProducts(ctx, key); found {
		return cached, nil
	}

	products, err := s.productRepo.GetProducts(ctx, filter)
	if err != nil {
		return
	}

	data = s.withSellers(ctx, products)
	s.cache.SetProducts(ctx, key, data)

	return data, nil
}

func (s *ProductServiceImpl) GetProductByID(ctx context.Context, id string) (data dto.ProductResponse, err error) {
	if cached, found := s.cache.GetProduct(ctx, id); found {
		return cached, nil
	}

	product, err := s.getProduct(ctx, id)
	if err != nil {
		return
	}

	data = s.withSellers(ctx, []domain.Product{product})[0]
	s.cache.SetProduct(ctx, data)

	return data, nil
}

// SearchProducts reads from the search index and falls back to a name match
// on the primary store when the index cannot answer.
func (s *ProductServiceImpl) SearchProducts(ctx context.Context, filter pkgdto.Filter) (data []dto.ProductResponse, err error) {
	filter.Q = strings.TrimSpace(filter.Q)
	if filter.Q == "" {
		return s.GetProducts(ctx, filter)
	}

	data, err = s.search.SearchProducts(ctx, filter)
	if err == nil {
		return data, nil
	}

	log.Ctx(ctx).Warn().Err(err).Str("component", "SearchProducts").Msg("search index unavailable, falling back to database")

	products, err := s.productRepo.SearchProductsByName(ctx, filter)
	if err != nil {
		return
	}

	return s.withSellers(ctx, products), nil
}

func (s *ProductServiceImpl) AddProduct(ctx context.Context, caller dto.Caller, req dto.ProductRequest) (data dto.ProductResponse, err error) {
	sellerID, err := primitive.ObjectIDFromHex(caller.UserID)
	if err != nil {
		return data, errs.ErrNotLoggedIn
	}

	if req.Image == nil {
		return data, errs.ErrImageRequired
	}

	product := domain.Product{
		Seller:    sellerID,
		CreatedAt: time.Now().UTC(),
	}
	newProductUpdate(req).Apply(&product)

	if err = validateProduct(product); err != nil {
		return
	}

	product.Image, err = s.storage.SaveImage(ctx, req.Image)
	if err != nil {
		return
	}

	product.ID, err = s.productRepo.AddProduct(ctx, product)
	if err != nil {
		s.storage.DeleteImage(ctx, product.Image)
		return
	}

	data = s.withSellers(ctx, []domain.Product{product})[0]
	s.cache.Invalidate(ctx)
	publishEvent(ctx, s.publisher, data.ID, dto.EventProductCreated, data)

	return data, nil
}

func (s *ProductServiceImpl) UpdateProduct(ctx context.Context, caller dto.Caller, id string, req dto.ProductRequest) (data dto.ProductResponse, err error) {
	product, err := s.getOwnedProduct(ctx, caller, id, "update")
	if err != nil {
		return
	}

	oldImage := product.Image
	update := newProductUpdate(req)
	update.Apply(&product)

	if err = validateProduct(product); err != nil {
		return
	}

	if req.Image != nil {
		image, err := s.storage.SaveImage(ctx, req.Image)
		if err != nil {
			return data, err
		}
		update.Image = &image
	}

	// only changed fields are written so concurrent stock decrements are kept
	product, err = s.productRepo.UpdateProduct(ctx, product.ID, update)
	if err != nil {
		if update.Image != nil {
			s.storage.DeleteImage(ctx, *update.Image)
		}
		return
	}

	if update.Image != nil && oldImage != *update.Image {
		s.storage.DeleteImage(ctx, oldImage)
	}

	data = s.withSellers(ctx, []domain.Product{product})[0]
	s.cache.Invalidate(ctx, data.ID)
	publishEvent(ctx, s.publisher, data.ID, dto.EventProductUpdated, data)

	return data, nil
}

func (s *ProductServiceImpl) DeleteProduct(ctx context.Context, caller dto.Caller, id string) (err error) {
	product, err := s.getOwnedProduct(ctx, caller, id, "delete")
	if err != nil {
		return
	}

	if err = s.productRepo.DeleteProduct(ctx, product.ID); err != nil {
		return
	}

	s.storage.DeleteImage(ctx, product.Image)
	s.cache.Invalidate(ctx, product.ID.Hex())
	publishEvent(ctx, s.publisher, product.ID.Hex(), dto.EventProductDeleted, dto.ProductDeletedEvent{ID: product.ID.Hex()})

	return nil
}

func (s *ProductServiceImpl) getProduct(ctx context.Context, id string) (product domain.Product, err error) {
	product, err = s.productRepo.GetProductByID(ctx, id)
	if errors.Is(err, errs.ErrNotFound) {
		return product, errs.WithMessage(errs.ErrNotFound, fmt.Sprintf("Product not found with id of %s", id))
	}
	return
}

func (s *ProductServiceImpl) getOwnedProduct(ctx context.Context, caller dto.Caller, id string, action string) (product domain.Product, err error) {
	product, err = s.getProduct(ctx, id)
	if err != nil {
		return
	}

	if product.Seller.Hex() != caller.UserID {
		return domain.Product{}, errs.WithMessage(errs.ErrUnauthorized, fmt.Sprintf("User %s is not authorized to %s this product", caller.UserID, action))
	}

	return product, nil
}

// withSellers maps products to responses and fills in seller names.
// A failed seller lookup leaves the names empty.
func (s *ProductServiceImpl) withSellers(ctx context.Context, products []domain.Product) []dto.ProductResponse {
	seen := make(map[primitive.ObjectID]bool)
	ids := make([]primitive.ObjectID, 0)
	for _, p := range products {
		if !p.Seller.IsZero() && !seen[p.Seller] {
			seen[p.Seller] = true
			ids = append(ids, p.Seller)
		}
	}

	names := make(map[primitive.ObjectID]string, len(ids))
	if len(ids) > 0 {
		sellers, err := s.userRepo.GetUsersByIDs(ctx, ids)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Str("component", "withSellers").Msg("")
		}
		for _, seller := range sellers {
			names[seller.ID] = seller.Name
		}
	}

	data := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		data = append(data, toProductResponse(p, names[p.Seller]))
	}

	return data
}

func newProductUpdate(req dto.ProductRequest) domain.ProductUpdate {
	update := domain.ProductUpdate{
		Category: req.Category,
		Stock:    req.Stock,
	}
	if req.Name != nil {
		update.Name = ptrTo(strings.TrimSpace(*req.Name))
	}
	if req.Description != nil {
		update.Description = make([]string, 0, len(req.Description))
		for _, line := range req.Description {
			if line = strings.TrimSpace(line); line != "" {
				update.Description = append(update.Description, line)
			}
		}
	}
	if req.Price != nil {
		update.Price = ptrTo(utils.RoundPrice(*req.Price))
	}
	if req.OfferPrice != nil {
		update.OfferPrice = ptrTo(utils.RoundPrice(*req.OfferPrice))
	}
	return update
}

func ptrTo[T any](v T) *T {
	return &v
}

func validateProduct(p domain.Product) error {
	switch {
	case p.Name == "":
		return errs.WithMessage(errs.ErrValidation, "Please add a product name")
	case len(p.Description) == 0:
		return errs.WithMessage(errs.ErrValidation, "Please add a product description")
	case p.Price <= 0:
		return errs.WithMessage(errs.ErrValidation, "Please add a valid price")
	case p.OfferPrice <= 0:
		return errs.WithMessage(errs.ErrValidation, "Please add a valid offer price")
	case !domain.IsValidCategory(p.Category):
		return errs.WithMessage(errs.ErrValidation, fmt.Sprintf("Category must be one of %s", strings.Join(domain.ProductCategories, ", ")))
	case p.Stock < 0:
		return errs.WithMessage(errs.ErrValidation, "Stock cannot be negative")
	}
	return nil
}
