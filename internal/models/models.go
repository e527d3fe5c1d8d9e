package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles carried in bearer tokens and feedback records
const (
	RoleUser     = "USER"
	RoleConsumer = "CONSUMER"
	RoleAdmin    = "ADMIN"
)

// Order statuses. The lifecycle is PENDING -> PROCESS -> DELIVERED or
// CANCELLED, but transitions are not enforced: any authorized actor may
// overwrite the status with any value.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusProcess   = "PROCESS"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"
)

// TerminalStatuses are the only statuses eligible for history clearing.
var TerminalStatuses = []string{OrderStatusDelivered, OrderStatusCancelled}

// User is a buyer account.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone" json:"phone"`
	Password  string             `bson:"password" json:"-"`
	Address   string             `bson:"address,omitempty" json:"address,omitempty"`
	City      string             `bson:"city,omitempty" json:"city,omitempty"`
	Role      string             `bson:"role" json:"role"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Consumer is a seller/producer account.
type Consumer struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone" json:"phone"`
	Password  string             `bson:"password" json:"-"`
	Address   string             `bson:"address" json:"address"`
	City      string             `bson:"city" json:"city"`
	Role      string             `bson:"role" json:"role"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ProfileUpdate carries the mutable profile fields shared by both
// account variants. Empty fields are left untouched.
type ProfileUpdate struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
}

// Product is a catalog entry owned by a Consumer. Quantity is the live
// stock counter decremented at checkout and must never go negative.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ConsumerID  primitive.ObjectID `bson:"consumerId" json:"consumerId"`
	Name        string             `bson:"name" json:"name"`
	Price       float64            `bson:"price" json:"price"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	HarvestDate *time.Time         `bson:"harvestDate,omitempty" json:"harvestDate,omitempty"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ProductUpdate carries optional product edits. Nil fields are left
// untouched.
type ProductUpdate struct {
	Name        *string    `json:"name"`
	Price       *float64   `json:"price"`
	Quantity    *int       `json:"quantity"`
	HarvestDate *time.Time `json:"harvestDate"`
	Image       *string    `json:"image"`
}

// CartItem is one line in a cart. Quantity is always positive; a line
// reaching zero is removed, not stored.
type CartItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// Cart holds at most one line per distinct product. One cart per user,
// created lazily on first access.
type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Items     []CartItem         `bson:"items" json:"items"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ShippingAddress is snapshotted onto each order at checkout so later
// profile edits never alter historical orders.
type ShippingAddress struct {
	Address  string `bson:"address" json:"address"`
	City     string `bson:"city" json:"city"`
	Landmark string `bson:"landmark,omitempty" json:"landmark,omitempty"`
	Phone    string `bson:"phone" json:"phone"`
}

// Order is a single product line bought by a user. A multi-line
// checkout produces one Order per cart line; there is no parent order
// group. ConsumerID and TotalPrice are frozen at creation time.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	ConsumerID      primitive.ObjectID `bson:"consumerId" json:"consumerId"`
	ProductID       primitive.ObjectID `bson:"productId" json:"productId"`
	Quantity        int                `bson:"quantity" json:"quantity"`
	TotalPrice      float64            `bson:"totalPrice" json:"totalPrice"`
	Status          string             `bson:"status" json:"status"`
	ShippingAddress ShippingAddress    `bson:"shippingAddress" json:"shippingAddress"`
	UserVisible     bool               `bson:"userVisible" json:"userVisible"`
	ConsumerVisible bool               `bson:"consumerVisible" json:"consumerVisible"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Feedback is an append-only comment on a Consumer, authored by a User
// or an Admin. Exactly one of UserID/AdminID is set, matching Role.
type Feedback struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ConsumerID primitive.ObjectID  `bson:"consumerId" json:"consumerId"`
	UserID     *primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
	AdminID    *primitive.ObjectID `bson:"adminId,omitempty" json:"adminId,omitempty"`
	Comment    string              `bson:"comment" json:"comment"`
	Role       string              `bson:"role" json:"role"`
	CreatedAt  time.Time           `bson:"createdAt" json:"createdAt"`
}

// ProductSummary is the resolved-reference shape embedded in order and
// catalog views. A nil summary means the referenced product no longer
// exists and callers should render a placeholder.
type ProductSummary struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Price float64            `json:"price"`
	Image string             `json:"image,omitempty"`
}

// ConsumerSummary is the resolved seller shape for public views.
type ConsumerSummary struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	City  string             `json:"city"`
	Phone string             `json:"phone,omitempty"`
	Email string             `json:"email,omitempty"`
}

// UserSummary is the resolved buyer shape for seller/admin order views.
type UserSummary struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email,omitempty"`
	Phone string             `json:"phone,omitempty"`
	City  string             `json:"city,omitempty"`
}

// OrderView is an order with its soft references resolved. Product may
// be nil when the product was deleted after purchase.
type OrderView struct {
	Order
	Product  *ProductSummary  `json:"product"`
	Consumer *ConsumerSummary `json:"consumer,omitempty"`
	Buyer    *UserSummary     `json:"buyer,omitempty"`
}

// ProductView is a product with its owner resolved for public listings.
type ProductView struct {
	Product
	Consumer *ConsumerSummary `json:"consumer"`
}

// FeedbackView is feedback with the author's display name resolved.
type FeedbackView struct {
	Feedback
	AuthorName string `json:"authorName"`
}

// CartView is a cart with line products resolved. Lines whose product
// no longer exists are pruned before the view is built.
type CartView struct {
	Cart
	Lines []CartLineView `json:"lines"`
}

// CartLineView is one resolved cart line.
type CartLineView struct {
	Product  ProductSummary `json:"product"`
	Quantity int            `json:"quantity"`
	Subtotal float64        `json:"subtotal"`
}
