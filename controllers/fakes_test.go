package controllers

import (
	"context"
	"errors"
	"net"
	"sort"

	apperrors "github.com/Narayandwivedi/abcdmarket/common/errors"
	"github.com/Narayandwivedi/abcdmarket/models"
	"github.com/Narayandwivedi/abcdmarket/services"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeCatalogService struct {
	lastSearch   services.SearchParams
	lastSlug     services.CategorySlugParams
	lastName     services.CategoryNameParams
	searchCalled int
	result       *services.SearchResult
	listing      *services.CategoryListing
	err          error
}

func (f *fakeCatalogService) Search(ctx context.Context, p services.SearchParams) (*services.SearchResult, error) {
	f.searchCalled++
	f.lastSearch = p
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &services.SearchResult{Page: 1, Limit: services.DefaultSearchLimit}, nil
}

func (f *fakeCatalogService) ListByCategorySlug(ctx context.Context, p services.CategorySlugParams) (*services.CategoryListing, error) {
	f.lastSlug = p
	if f.err != nil {
		return nil, f.err
	}
	return f.listing, nil
}

func (f *fakeCatalogService) ListByCategoryName(ctx context.Context, p services.CategoryNameParams) (*services.SearchResult, error) {
	f.lastName = p
	if f.err != nil {
		return nil, f.err
	}
	return &services.SearchResult{Page: 1, Limit: services.DefaultCategoryLimit}, nil
}

type fakeProductService struct {
	lastSeller primitive.ObjectID
	lastNew    services.NewProduct
	lastPrice  services.PriceUpdate
	lastEdit   map[string]interface{}
	err        error
}

func (f *fakeProductService) AddProduct(ctx context.Context, sellerID primitive.ObjectID, in services.NewProduct) (*models.Product, error) {
	f.lastSeller = sellerID
	f.lastNew = in
	if f.err != nil {
		return nil, f.err
	}
	p := in.Product
	p.ID = primitive.NewObjectID()
	return &p, nil
}

func (f *fakeProductService) SellerProducts(ctx context.Context, sellerID primitive.ObjectID, page, limit int) (*services.SellerPage, error) {
	f.lastSeller = sellerID
	return &services.SellerPage{Products: []models.Product{}, Page: 1, Limit: services.DefaultSellerListLimit}, nil
}

func (f *fakeProductService) UpdateSellerPrice(ctx context.Context, sellerID, id primitive.ObjectID, in services.PriceUpdate) (*models.Product, error) {
	f.lastSeller = sellerID
	f.lastPrice = in
	if f.err != nil {
		return nil, f.err
	}
	return &models.Product{ID: id}, nil
}

func (f *fakeProductService) DeleteSellerProduct(ctx context.Context, sellerID, id primitive.ObjectID) error {
	f.lastSeller = sellerID
	return f.err
}

func (f *fakeProductService) EditProduct(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Product, error) {
	f.lastEdit = updates
	if f.err != nil {
		return nil, f.err
	}
	return &models.Product{ID: id}, nil
}

func (f *fakeProductService) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	return f.err
}

func (f *fakeProductService) GetProduct(ctx context.Context, idOrSlug string) (*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Product{Slug: idOrSlug}, nil
}

func (f *fakeProductService) ListAll(ctx context.Context) ([]models.Product, error) {
	return []models.Product{}, f.err
}

type fakeCartService struct {
	lastUser  primitive.ObjectID
	lastInput services.CartInput
	lastLines []services.CartInput
	lastID    string
	err       error
}

func (f *fakeCartService) view() (*services.CartView, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &services.CartView{ItemCount: 2, Total: 30}, nil
}

func (f *fakeCartService) GetCart(ctx context.Context, userID primitive.ObjectID) (*services.CartView, error) {
	f.lastUser = userID
	return f.view()
}

func (f *fakeCartService) AddToCart(ctx context.Context, userID primitive.ObjectID, in services.CartInput) (*services.CartView, error) {
	f.lastUser, f.lastInput = userID, in
	return f.view()
}

func (f *fakeCartService) UpdateQuantity(ctx context.Context, userID primitive.ObjectID, in services.CartInput) (*services.CartView, error) {
	f.lastUser, f.lastInput = userID, in
	return f.view()
}

func (f *fakeCartService) RemoveFromCart(ctx context.Context, userID primitive.ObjectID, productID string) (*services.CartView, error) {
	f.lastUser, f.lastID = userID, productID
	return f.view()
}

func (f *fakeCartService) ClearCart(ctx context.Context, userID primitive.ObjectID) (*services.CartView, error) {
	f.lastUser = userID
	return f.view()
}

func (f *fakeCartService) SyncCart(ctx context.Context, userID primitive.ObjectID, lines []services.CartInput) (int, *services.CartView, error) {
	f.lastUser, f.lastLines = userID, lines
	v, err := f.view()
	return len(lines), v, err
}

// memHeroService keeps heroes in memory with the same defaults and
// ordering as the real service.
type memHeroService struct {
	heroes map[primitive.ObjectID]*models.Hero
}

func newMemHeroService() *memHeroService {
	return &memHeroService{heroes: map[primitive.ObjectID]*models.Hero{}}
}

func (m *memHeroService) sorted(activeOnly bool) []models.Hero {
	out := []models.Hero{}
	for _, h := range m.heroes {
		if activeOnly && !h.IsActive {
			continue
		}
		out = append(out, *h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}

func (m *memHeroService) ListPublic(ctx context.Context, limit *int) ([]models.Hero, error) {
	return m.sorted(true), nil
}

func (m *memHeroService) ListAll(ctx context.Context) ([]models.Hero, error) {
	return m.sorted(false), nil
}

func (m *memHeroService) Create(ctx context.Context, in services.HeroInput) (*models.Hero, error) {
	if in.ImageURL == nil || *in.ImageURL == "" {
		return nil, apperrors.BadRequest("Hero image is required")
	}
	h := &models.Hero{ID: primitive.NewObjectID(), ImageURL: *in.ImageURL, Priority: 1, IsActive: true}
	if in.Priority != nil {
		h.Priority = *in.Priority
	}
	if in.IsActive != nil {
		h.IsActive = *in.IsActive
	}
	m.heroes[h.ID] = h
	return h, nil
}

func (m *memHeroService) Update(ctx context.Context, id primitive.ObjectID, in services.HeroInput) (*models.Hero, error) {
	h, ok := m.heroes[id]
	if !ok {
		return nil, apperrors.NotFound("Hero not found")
	}
	if in.Title != nil {
		h.Title = *in.Title
	}
	return h, nil
}

func (m *memHeroService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := m.heroes[id]; !ok {
		return apperrors.NotFound("Hero not found")
	}
	delete(m.heroes, id)
	return nil
}

func (m *memHeroService) Reorder(ctx context.Context, orderedIDs []string) ([]models.Hero, error) {
	ids, err := services.ParseOrderedIDs(orderedIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, ok := m.heroes[id]; !ok {
			return nil, apperrors.NotFound("One or more heroes were not found")
		}
	}
	for i, id := range ids {
		m.heroes[id].Priority = i + 1
	}
	return m.sorted(false), nil
}

func newTestRedisClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: "localhost:0",
		Dialer: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return nil, errors.New("redis disabled in tests")
		},
		MaxRetries: -1,
	})
}
