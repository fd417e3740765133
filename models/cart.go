package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DemoIDPrefix     = "demo-"
	DefaultDemoName  = "Demo Product"
	DefaultDemoBrand = "Demo"
)

// CartItem is one cart line. Exactly one of Product or the Demo* fields is
// populated: demo lines carry their own display data and are never joined.
type CartItem struct {
	ID               primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	IsDemo           bool                `json:"isDemo" bson:"isDemo"`
	DemoProductID    string              `json:"demoProductId,omitempty" bson:"demoProductId,omitempty"`
	DemoProductName  string              `json:"demoProductName,omitempty" bson:"demoProductName,omitempty"`
	DemoProductBrand string              `json:"demoProductBrand,omitempty" bson:"demoProductBrand,omitempty"`
	DemoProductPrice float64             `json:"demoProductPrice,omitempty" bson:"demoProductPrice,omitempty"`
	DemoImageURL     string              `json:"demoImageUrl,omitempty" bson:"demoImageUrl,omitempty"`
	Product          *primitive.ObjectID `json:"product,omitempty" bson:"product,omitempty"`
	Quantity         int                 `json:"quantity" bson:"quantity"`
	AddedAt          time.Time           `json:"addedAt" bson:"addedAt"`
}

// Key is the line identity: the demo id for demo lines, the product hex id
// otherwise.
func (i CartItem) Key() string {
	if i.IsDemo {
		return i.DemoProductID
	}
	if i.Product != nil {
		return i.Product.Hex()
	}
	return ""
}

// DemoProduct is the display payload of a line with no backing product.
type DemoProduct struct {
	ID       string
	Name     string
	Brand    string
	Price    float64
	ImageURL string
}

// IsDemoID reports whether id names a demo product.
func IsDemoID(id string) bool {
	return strings.HasPrefix(strings.TrimSpace(id), DemoIDPrefix)
}

// Cart is the ordered list of lines embedded in a user. Each key appears at
// most once; adding an existing key increments its quantity.
type Cart []CartItem

// Find returns the index of the line of the given kind identified by key,
// or -1.
func (c Cart) Find(isDemo bool, key string) int {
	key = strings.TrimSpace(key)
	if key == "" {
		return -1
	}
	for i, item := range c {
		if item.IsDemo == isDemo && item.Key() == key {
			return i
		}
	}
	return -1
}

// Locate finds a line by key alone. The kind implied by the demo prefix is
// tried first, then the other kind, so demo lines added by flag with an
// unprefixed id stay addressable.
func (c Cart) Locate(key string) int {
	isDemo := IsDemoID(key)
	if i := c.Find(isDemo, key); i >= 0 {
		return i
	}
	return c.Find(!isDemo, key)
}

// AddProduct adds qty of a real product, incrementing an existing line.
func (c *Cart) AddProduct(id primitive.ObjectID, qty int, now time.Time) {
	qty = atLeastOne(qty)
	if i := c.Find(false, id.Hex()); i >= 0 {
		(*c)[i].Quantity += qty
		return
	}
	pid := id
	*c = append(*c, CartItem{
		ID:       primitive.NewObjectID(),
		Product:  &pid,
		Quantity: qty,
		AddedAt:  now,
	})
}

// AddDemo adds qty of a demo product. An existing line is incremented and
// its display fields refreshed from whichever values d provides.
func (c *Cart) AddDemo(d DemoProduct, qty int, now time.Time) {
	qty = atLeastOne(qty)
	if i := c.Find(true, d.ID); i >= 0 {
		line := &(*c)[i]
		line.Quantity += qty
		if d.Name != "" {
			line.DemoProductName = d.Name
		}
		if d.Brand != "" {
			line.DemoProductBrand = d.Brand
		}
		if d.Price > 0 {
			line.DemoProductPrice = d.Price
		}
		if d.ImageURL != "" {
			line.DemoImageURL = d.ImageURL
		}
		return
	}

	name, brand := d.Name, d.Brand
	if name == "" {
		name = DefaultDemoName
	}
	if brand == "" {
		brand = DefaultDemoBrand
	}
	*c = append(*c, CartItem{
		ID:               primitive.NewObjectID(),
		IsDemo:           true,
		DemoProductID:    d.ID,
		DemoProductName:  name,
		DemoProductBrand: brand,
		DemoProductPrice: d.Price,
		DemoImageURL:     d.ImageURL,
		Quantity:         qty,
		AddedAt:          now,
	})
}

// SetQuantity overwrites the quantity of an existing line. It reports
// whether the line was found; callers decide what a miss means.
func (c Cart) SetQuantity(key string, qty int) bool {
	i := c.Locate(key)
	if i < 0 {
		return false
	}
	c[i].Quantity = atLeastOne(qty)
	return true
}

// Remove drops the line identified by key. Missing keys are a no-op.
func (c *Cart) Remove(key string) bool {
	i := c.Locate(key)
	if i < 0 {
		return false
	}
	*c = append((*c)[:i], (*c)[i+1:]...)
	return true
}

func (c *Cart) Clear() {
	*c = Cart{}
}

// ItemCount is the sum of line quantities.
func (c Cart) ItemCount() int {
	n := 0
	for _, item := range c {
		n += item.Quantity
	}
	return n
}

// ProductIDs lists the referenced product ids in line order.
func (c Cart) ProductIDs() []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(c))
	for _, item := range c {
		if !item.IsDemo && item.Product != nil {
			ids = append(ids, *item.Product)
		}
	}
	return ids
}

func atLeastOne(qty int) int {
	if qty < 1 {
		return 1
	}
	return qty
}
