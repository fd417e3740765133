package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	apperrors "github.com/Narayandwivedi/abcdmarket/common/errors"
	"github.com/Narayandwivedi/abcdmarket/models"
	"github.com/Narayandwivedi/abcdmarket/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	msgProductIDRequired = "Product ID is required"
	msgInvalidProductID  = "Invalid product ID"
	msgInvalidDemo       = "Demo product must include valid productName and productPrice"
	msgUserNotFound      = "User not found"
	msgProductNotFound   = "Product not found"
)

// DemoPayload is the client-supplied display data of a demo line.
type DemoPayload struct {
	Name     string
	Brand    string
	Price    float64
	ImageURL string
}

// valid reports whether the payload can back a demo line on its own.
func (d DemoPayload) valid() bool {
	return strings.TrimSpace(d.Name) != "" && d.Price > 0 && !math.IsInf(d.Price, 0)
}

func (d DemoPayload) product(id string) models.DemoProduct {
	return models.DemoProduct{
		ID:       id,
		Name:     strings.TrimSpace(d.Name),
		Brand:    strings.TrimSpace(d.Brand),
		Price:    d.Price,
		ImageURL: strings.TrimSpace(d.ImageURL),
	}
}

// CartInput is one requested line: an add, a quantity update or a synced
// local entry.
type CartInput struct {
	ProductID string
	Quantity  float64
	IsDemo    bool
	Demo      DemoPayload
}

// CartLineView is a cart line with its product joined.
type CartLineView struct {
	ID               primitive.ObjectID `json:"_id"`
	IsDemo           bool               `json:"isDemo"`
	DemoProductID    string             `json:"demoProductId,omitempty"`
	DemoProductName  string             `json:"demoProductName,omitempty"`
	DemoProductBrand string             `json:"demoProductBrand,omitempty"`
	DemoProductPrice float64            `json:"demoProductPrice,omitempty"`
	DemoImageURL     string             `json:"demoImageUrl,omitempty"`
	Product          *models.Product    `json:"product,omitempty"`
	Quantity         int                `json:"quantity"`
	AddedAt          time.Time          `json:"addedAt"`
}

type CartView struct {
	Items     []CartLineView
	ItemCount int
	Total     float64
}

// SafeQuantity floors q. Anything below one, or not a number, becomes one.
func SafeQuantity(q float64) int {
	if math.IsNaN(q) || q < 1 {
		return 1
	}
	if q > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Floor(q))
}

type CartService struct {
	users    repository.UserRepo
	products repository.ProductLookup
	locker   Locker
	now      func() time.Time
}

func NewCartService(users repository.UserRepo, products repository.ProductLookup, locker Locker) *CartService {
	if locker == nil {
		locker = NewKeyedMutex()
	}
	return &CartService{
		users:    users,
		products: products,
		locker:   locker,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *CartService) GetCart(ctx context.Context, userID primitive.ObjectID) (*CartView, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, user.Cart)
}

// AddToCart increments the line for in.ProductID, creating it if needed.
// Demo lines are trusted as sent; real products must exist.
func (s *CartService) AddToCart(ctx context.Context, userID primitive.ObjectID, in CartInput) (*CartView, error) {
	key := strings.TrimSpace(in.ProductID)
	if key == "" {
		return nil, apperrors.BadRequest(msgProductIDRequired)
	}
	demo := in.IsDemo || models.IsDemoID(key)

	var productID primitive.ObjectID
	if demo {
		if !in.Demo.valid() {
			return nil, apperrors.BadRequest(msgInvalidDemo)
		}
	} else {
		var err error
		if productID, err = primitive.ObjectIDFromHex(key); err != nil {
			return nil, apperrors.BadRequest(msgInvalidProductID)
		}
	}

	qty := SafeQuantity(in.Quantity)
	return s.mutate(ctx, userID, func(ctx context.Context, cart *models.Cart) error {
		if demo {
			cart.AddDemo(in.Demo.product(key), qty, s.now())
			return nil
		}
		if err := s.requireProduct(ctx, productID); err != nil {
			return err
		}
		cart.AddProduct(productID, qty, s.now())
		return nil
	})
}

// UpdateQuantity overwrites a line's quantity. Zero removes the line; a
// missing line is added as AddToCart would.
func (s *CartService) UpdateQuantity(ctx context.Context, userID primitive.ObjectID, in CartInput) (*CartView, error) {
	key := strings.TrimSpace(in.ProductID)
	if key == "" {
		return nil, apperrors.BadRequest("Product ID and quantity are required")
	}
	if in.Quantity < 0 {
		return nil, apperrors.BadRequest("Quantity cannot be negative")
	}
	demo := models.IsDemoID(key)

	var productID primitive.ObjectID
	if !demo {
		var err error
		if productID, err = primitive.ObjectIDFromHex(key); err != nil {
			return nil, apperrors.BadRequest(msgInvalidProductID)
		}
	}

	return s.mutate(ctx, userID, func(ctx context.Context, cart *models.Cart) error {
		if in.Quantity == 0 {
			cart.Remove(key)
			return nil
		}
		qty := SafeQuantity(in.Quantity)
		if cart.SetQuantity(key, qty) {
			return nil
		}
		if demo {
			if !in.Demo.valid() {
				return apperrors.BadRequest(msgInvalidDemo)
			}
			cart.AddDemo(in.Demo.product(key), qty, s.now())
			return nil
		}
		if err := s.requireProduct(ctx, productID); err != nil {
			return err
		}
		cart.AddProduct(productID, qty, s.now())
		return nil
	})
}

// RemoveFromCart drops a line. Unknown ids are not an error.
func (s *CartService) RemoveFromCart(ctx context.Context, userID primitive.ObjectID, productID string) (*CartView, error) {
	key := strings.TrimSpace(productID)
	if key == "" {
		return nil, apperrors.BadRequest(msgProductIDRequired)
	}
	return s.mutate(ctx, userID, func(_ context.Context, cart *models.Cart) error {
		cart.Remove(key)
		return nil
	})
}

func (s *CartService) ClearCart(ctx context.Context, userID primitive.ObjectID) (*CartView, error) {
	return s.mutate(ctx, userID, func(_ context.Context, cart *models.Cart) error {
		cart.Clear()
		return nil
	})
}

// SyncCart merges a guest cart into the stored one. Real products are
// checked in one batch and only existing active ones merge; demo lines
// merge when they carry a name and a positive price. Invalid lines are
// skipped. It returns how many lines merged.
func (s *CartService) SyncCart(ctx context.Context, userID primitive.ObjectID, lines []CartInput) (int, *CartView, error) {
	var ids []primitive.ObjectID
	seen := make(map[primitive.ObjectID]bool)
	for _, line := range lines {
		key := strings.TrimSpace(line.ProductID)
		if key == "" || line.IsDemo || models.IsDemoID(key) {
			continue
		}
		if id, err := primitive.ObjectIDFromHex(key); err == nil && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	active := map[primitive.ObjectID]bool{}
	if len(ids) > 0 {
		var err error
		if active, err = s.products.FindActiveIDs(ctx, ids); err != nil {
			return 0, nil, fmt.Errorf("check synced products: %w", err)
		}
	}

	merged := 0
	view, err := s.mutate(ctx, userID, func(_ context.Context, cart *models.Cart) error {
		now := s.now()
		for _, line := range lines {
			key := strings.TrimSpace(line.ProductID)
			if key == "" {
				continue
			}
			qty := SafeQuantity(line.Quantity)

			if line.IsDemo || models.IsDemoID(key) {
				if !line.Demo.valid() {
					continue
				}
				cart.AddDemo(line.Demo.product(key), qty, now)
				merged++
				continue
			}

			id, err := primitive.ObjectIDFromHex(key)
			if err != nil || !active[id] {
				continue
			}
			cart.AddProduct(id, qty, now)
			merged++
		}
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	return merged, view, nil
}

// mutate applies fn to the user's cart under the per-user lock and
// persists the result.
func (s *CartService) mutate(ctx context.Context, userID primitive.ObjectID, fn func(ctx context.Context, cart *models.Cart) error) (*CartView, error) {
	unlock, err := s.locker.Lock(ctx, userID.Hex())
	if err != nil {
		return nil, fmt.Errorf("lock cart: %w", err)
	}
	defer unlock()

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart := user.Cart
	if cart == nil {
		cart = models.Cart{}
	}
	if err := fn(ctx, &cart); err != nil {
		return nil, err
	}

	if err := s.users.SaveCart(ctx, userID, cart); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound(msgUserNotFound)
		}
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return s.view(ctx, cart)
}

func (s *CartService) loadUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound(msgUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *CartService) requireProduct(ctx context.Context, id primitive.ObjectID) error {
	exists, err := s.products.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("check product: %w", err)
	}
	if !exists {
		return apperrors.NotFound(msgProductNotFound)
	}
	return nil
}

// view joins real lines to their current product. Lines whose product is
// gone are returned without one and do not count toward the total.
func (s *CartService) view(ctx context.Context, cart models.Cart) (*CartView, error) {
	byID := map[primitive.ObjectID]models.Product{}
	if ids := cart.ProductIDs(); len(ids) > 0 {
		products, err := s.products.FindByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("load cart products: %w", err)
		}
		for _, p := range products {
			byID[p.ID] = p
		}
	}

	out := &CartView{Items: make([]CartLineView, 0, len(cart))}
	for _, item := range cart {
		line := CartLineView{
			ID:               item.ID,
			IsDemo:           item.IsDemo,
			DemoProductID:    item.DemoProductID,
			DemoProductName:  item.DemoProductName,
			DemoProductBrand: item.DemoProductBrand,
			DemoProductPrice: item.DemoProductPrice,
			DemoImageURL:     item.DemoImageURL,
			Quantity:         item.Quantity,
			AddedAt:          item.AddedAt,
		}
		switch {
		case item.IsDemo:
			out.Total += item.DemoProductPrice * float64(item.Quantity)
		case item.Product != nil:
			if p, ok := byID[*item.Product]; ok {
				line.Product = &p
				out.Total += p.Price * float64(item.Quantity)
			}
		}
		out.ItemCount += item.Quantity
		out.Items = append(out.Items, line)
	}
	out.Total = math.Round(out.Total*100) / 100
	return out, nil
}
