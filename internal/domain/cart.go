package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/google/uuid"
)

// Size is the garment size selector. It is part of line identity: the same
// product in two sizes occupies two cart lines.
type Size string

// Valid garment sizes, matching the storefront's size picker.
const (
	SizeXXS Size = "XXS"
	SizeXS  Size = "XS"
	SizeS   Size = "S"
	SizeM   Size = "M"
	SizeL   Size = "L"
	SizeXL  Size = "XL"
)

// Sizes returns the full size enumeration in display order.
func Sizes() []Size {
	return []Size{SizeXXS, SizeXS, SizeS, SizeM, SizeL, SizeXL}
}

// Valid reports whether s is one of the allowed sizes.
func (s Size) Valid() bool {
	switch s {
	case SizeXXS, SizeXS, SizeS, SizeM, SizeL, SizeXL:
		return true
	}
	return false
}

// Snapshot validation errors.
var (
	ErrMissingProductID = errors.New("product snapshot has no product id")
	ErrMissingName      = errors.New("product snapshot has no name")
	ErrNegativePrice    = errors.New("product snapshot has a negative price")
	ErrInvalidSize      = errors.New("size is not in the allowed set")
)

// ProductSnapshot is the denormalized copy of product data captured when an
// item is added to the cart. It is never re-fetched, so later catalog changes
// do not affect items already in the cart.
type ProductSnapshot struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	ImageURL  string `json:"image_url,omitempty"`
}

// Validate checks the snapshot field contract.
func (s ProductSnapshot) Validate() error {
	if s.ProductID == "" {
		return ErrMissingProductID
	}
	if s.Name == "" {
		return ErrMissingName
	}
	if s.UnitPrice < 0 {
		return ErrNegativePrice
	}
	return nil
}

// LineItem is one purchasable entry in a cart. LineID is the primary key for
// mutations; the (ProductID, Name, Size) triple is the merge identity.
type LineItem struct {
	LineID    string `json:"line_id"`
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	ImageURL  string `json:"image_url,omitempty"`
	Size      Size   `json:"size"`
	Quantity  int    `json:"quantity"`
}

// SameLine reports whether the line matches the given merge identity.
func (li LineItem) SameLine(productID, name string, size Size) bool {
	return li.ProductID == productID && li.Name == name && li.Size == size
}

// Subtotal returns unit price times quantity in cents.
func (li LineItem) Subtotal() int64 {
	return li.UnitPrice * int64(li.Quantity)
}

// NewLineID derives a unique line identifier from the merge identity plus a
// uniqueness suffix, so otherwise-identical additions made at different times
// remain addressable as distinct rows.
func NewLineID(productID, name string, size Size) string {
	sum := sha256.Sum256([]byte(productID + "|" + name + "|" + string(size)))
	return hex.EncodeToString(sum[:4]) + "-" + uuid.New().String()
}

// Cart is an ordered collection of line items. Order is insertion order and
// only matters for stable display.
type Cart struct {
	Items []LineItem `json:"items"`
}

// findLine returns the index of the line matching the merge identity, or -1.
func (c *Cart) findLine(productID, name string, size Size) int {
	for i := range c.Items {
		if c.Items[i].SameLine(productID, name, size) {
			return i
		}
	}
	return -1
}

// FindByLineID returns the index of the line with the given line ID, or -1.
func (c *Cart) FindByLineID(lineID string) int {
	for i := range c.Items {
		if c.Items[i].LineID == lineID {
			return i
		}
	}
	return -1
}

// Add merges the snapshot into an existing line per the identity rule, or
// appends a new line with quantity 1. It returns the line ID of the affected
// row and whether the addition merged into an existing line.
func (c *Cart) Add(snap ProductSnapshot, size Size) (lineID string, merged bool) {
	if i := c.findLine(snap.ProductID, snap.Name, size); i >= 0 {
		c.Items[i].Quantity++
		return c.Items[i].LineID, true
	}

	item := LineItem{
		LineID:    NewLineID(snap.ProductID, snap.Name, size),
		ProductID: snap.ProductID,
		Name:      snap.Name,
		UnitPrice: snap.UnitPrice,
		ImageURL:  snap.ImageURL,
		Size:      size,
		Quantity:  1,
	}
	c.Items = append(c.Items, item)
	return item.LineID, false
}

// Remove deletes the line with the given line ID. Removing an absent line is
// a no-op and reports false.
func (c *Cart) Remove(lineID string) bool {
	i := c.FindByLineID(lineID)
	if i < 0 {
		return false
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return true
}

// AdjustQuantity applies a signed delta to the line's quantity, clamped at 1.
// Removal is only possible via Remove. Returns false when the line is absent.
func (c *Cart) AdjustQuantity(lineID string, delta int) bool {
	i := c.FindByLineID(lineID)
	if i < 0 {
		return false
	}
	q := c.Items[i].Quantity + delta
	if q < 1 {
		q = 1
	}
	c.Items[i].Quantity = q
	return true
}

// Merge folds the other cart's lines into this one by the identity rule:
// matching lines sum their quantities, everything else is appended with its
// original line ID preserved.
func (c *Cart) Merge(other Cart) {
	for _, item := range other.Items {
		if i := c.findLine(item.ProductID, item.Name, item.Size); i >= 0 {
			c.Items[i].Quantity += item.Quantity
			continue
		}
		c.Items = append(c.Items, item)
	}
}

// Total returns the sum of unit price times quantity over all lines, in
// cents. Always recomputed from current entries.
func (c *Cart) Total() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}

// TotalItemCount returns the sum of quantities over all lines.
func (c *Cart) TotalItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// Clone returns a deep copy, used for snapshot writes that must not observe
// later mutations.
func (c *Cart) Clone() Cart {
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items}
}
