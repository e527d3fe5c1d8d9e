package service

import (
	"context"
	"sort"
	"time"

	"farmconnect/internal/apperr"
	"farmconnect/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeStore is an in-memory stand-in for the persistence layer,
// implementing the narrow interfaces each service depends on.
type fakeStore struct {
	users     map[primitive.ObjectID]*models.User
	consumers map[primitive.ObjectID]*models.Consumer
	products  map[primitive.ObjectID]*models.Product
	carts     map[primitive.ObjectID]*models.Cart
	orders    []*models.Order
	feedback  []*models.Feedback
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     make(map[primitive.ObjectID]*models.User),
		consumers: make(map[primitive.ObjectID]*models.Consumer),
		products:  make(map[primitive.ObjectID]*models.Product),
		carts:     make(map[primitive.ObjectID]*models.Cart),
	}
}

func (f *fakeStore) addUser(name, email string) *models.User {
	u := &models.User{ID: primitive.NewObjectID(), Name: name, Email: email, Role: models.RoleUser}
	f.users[u.ID] = u
	return u
}

func (f *fakeStore) addConsumer(name, city string) *models.Consumer {
	c := &models.Consumer{ID: primitive.NewObjectID(), Name: name, City: city, Role: models.RoleConsumer}
	f.consumers[c.ID] = c
	return c
}

func (f *fakeStore) addProduct(consumerID primitive.ObjectID, name string, price float64, quantity int) *models.Product {
	p := &models.Product{ID: primitive.NewObjectID(), ConsumerID: consumerID, Name: name, Price: price, Quantity: quantity}
	f.products[p.ID] = p
	return p
}

// --- accounts ---

func (f *fakeStore) CreateUser(_ context.Context, user *models.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return apperr.New(apperr.KindConflict, "email already registered")
		}
	}
	user.ID = primitive.NewObjectID()
	user.Role = models.RoleUser
	f.users[user.ID] = user
	return nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "user not found")
	}
	copied := *u
	return &copied, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperr.New(apperr.KindNotFound, "user not found")
}

func (f *fakeStore) UpdateUserProfile(_ context.Context, id primitive.ObjectID, update models.ProfileUpdate) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "user not found")
	}
	applyProfile(&u.Name, &u.Phone, &u.Address, &u.City, update)
	copied := *u
	return &copied, nil
}

func (f *fakeStore) CreateConsumer(_ context.Context, consumer *models.Consumer) error {
	for _, c := range f.consumers {
		if c.Email == consumer.Email {
			return apperr.New(apperr.KindConflict, "email already registered")
		}
	}
	consumer.ID = primitive.NewObjectID()
	consumer.Role = models.RoleConsumer
	f.consumers[consumer.ID] = consumer
	return nil
}

func (f *fakeStore) GetConsumerByID(_ context.Context, id primitive.ObjectID) (*models.Consumer, error) {
	c, ok := f.consumers[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "consumer not found")
	}
	copied := *c
	return &copied, nil
}

func (f *fakeStore) GetConsumerByEmail(_ context.Context, email string) (*models.Consumer, error) {
	for _, c := range f.consumers {
		if c.Email == email {
			copied := *c
			return &copied, nil
		}
	}
	return nil, apperr.New(apperr.KindNotFound, "consumer not found")
}

func (f *fakeStore) UpdateConsumerProfile(_ context.Context, id primitive.ObjectID, update models.ProfileUpdate) (*models.Consumer, error) {
	c, ok := f.consumers[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "consumer not found")
	}
	applyProfile(&c.Name, &c.Phone, &c.Address, &c.City, update)
	copied := *c
	return &copied, nil
}

func applyProfile(name, phone, address, city *string, update models.ProfileUpdate) {
	if update.Name != "" {
		*name = update.Name
	}
	if update.Phone != "" {
		*phone = update.Phone
	}
	if update.Address != "" {
		*address = update.Address
	}
	if update.City != "" {
		*city = update.City
	}
}

func (f *fakeStore) ListUsers(_ context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out, nil
}

func (f *fakeStore) ListConsumers(_ context.Context) ([]models.Consumer, error) {
	out := make([]models.Consumer, 0, len(f.consumers))
	for _, c := range f.consumers {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out, nil
}

func (f *fakeStore) CountUsers(_ context.Context) (int64, error)     { return int64(len(f.users)), nil }
func (f *fakeStore) CountConsumers(_ context.Context) (int64, error) { return int64(len(f.consumers)), nil }
func (f *fakeStore) CountProducts(_ context.Context) (int64, error)  { return int64(len(f.products)), nil }
func (f *fakeStore) CountOrders(_ context.Context) (int64, error)    { return int64(len(f.orders)), nil }

func (f *fakeStore) DeleteUser(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.users[id]; !ok {
		return apperr.New(apperr.KindNotFound, "user not found")
	}
	delete(f.users, id)
	return nil
}

func (f *fakeStore) DeleteConsumer(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.consumers[id]; !ok {
		return apperr.New(apperr.KindNotFound, "consumer not found")
	}
	delete(f.consumers, id)
	return nil
}

func (f *fakeStore) GetUsersByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	out := make(map[primitive.ObjectID]models.User)
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out[id] = *u
		}
	}
	return out, nil
}

func (f *fakeStore) GetConsumersByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Consumer, error) {
	out := make(map[primitive.ObjectID]models.Consumer)
	for _, id := range ids {
		if c, ok := f.consumers[id]; ok {
			out[id] = *c
		}
	}
	return out, nil
}

// --- products ---

func (f *fakeStore) CreateProduct(_ context.Context, product *models.Product) error {
	product.ID = primitive.NewObjectID()
	product.CreatedAt = time.Now()
	f.products[product.ID] = product
	return nil
}

func (f *fakeStore) GetProductByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "product not found")
	}
	copied := *p
	return &copied, nil
}

func (f *fakeStore) GetProductsByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error) {
	out := make(map[primitive.ObjectID]models.Product)
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out[id] = *p
		}
	}
	return out, nil
}

func (f *fakeStore) ListProducts(_ context.Context) ([]models.Product, error) {
	out := make([]models.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out, nil
}

func (f *fakeStore) ListProductsByConsumer(_ context.Context, consumerID primitive.ObjectID) ([]models.Product, error) {
	out := make([]models.Product, 0)
	for _, p := range f.products {
		if p.ConsumerID == consumerID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out, nil
}

func (f *fakeStore) UpdateProductOwned(_ context.Context, id, consumerID primitive.ObjectID, update models.ProductUpdate) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok || p.ConsumerID != consumerID {
		return nil, apperr.New(apperr.KindNotFound, "product not found")
	}
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Price != nil {
		p.Price = *update.Price
	}
	if update.Quantity != nil {
		p.Quantity = *update.Quantity
	}
	if update.HarvestDate != nil {
		p.HarvestDate = update.HarvestDate
	}
	if update.Image != nil {
		p.Image = *update.Image
	}
	copied := *p
	return &copied, nil
}

func (f *fakeStore) DecrementProductStock(_ context.Context, id primitive.ObjectID, quantity int) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "product not found")
	}
	if p.Quantity < quantity {
		return nil, apperr.New(apperr.KindInsufficientStock, "not enough stock available")
	}
	p.Quantity -= quantity
	copied := *p
	return &copied, nil
}

func (f *fakeStore) DeleteProductOwned(_ context.Context, id, consumerID primitive.ObjectID) error {
	p, ok := f.products[id]
	if !ok || p.ConsumerID != consumerID {
		return apperr.New(apperr.KindNotFound, "product not found")
	}
	delete(f.products, id)
	return nil
}

func (f *fakeStore) DeleteProduct(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.products[id]; !ok {
		return apperr.New(apperr.KindNotFound, "product not found")
	}
	delete(f.products, id)
	return nil
}

func (f *fakeStore) DeleteProductsByConsumer(_ context.Context, consumerID primitive.ObjectID) (int64, error) {
	var deleted int64
	for id, p := range f.products {
		if p.ConsumerID == consumerID {
			delete(f.products, id)
			deleted++
		}
	}
	return deleted, nil
}

// --- carts ---

func (f *fakeStore) GetCartByUser(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	for _, cart := range f.carts {
		if cart.UserID == userID {
			copied := *cart
			copied.Items = append([]models.CartItem(nil), cart.Items...)
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateCart(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	cart := &models.Cart{ID: primitive.NewObjectID(), UserID: userID, Items: []models.CartItem{}}
	f.carts[cart.ID] = cart
	copied := *cart
	return &copied, nil
}

func (f *fakeStore) SaveCartItems(_ context.Context, cartID primitive.ObjectID, items []models.CartItem) error {
	cart, ok := f.carts[cartID]
	if !ok {
		return apperr.New(apperr.KindNotFound, "cart not found")
	}
	cart.Items = append([]models.CartItem(nil), items...)
	return nil
}

// --- orders ---

func (f *fakeStore) CreateOrder(_ context.Context, order *models.Order) error {
	order.ID = primitive.NewObjectID()
	order.UserVisible = true
	order.ConsumerVisible = true
	order.CreatedAt = time.Now()
	f.orders = append(f.orders, order)
	return nil
}

func (f *fakeStore) GetOrderByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	for _, o := range f.orders {
		if o.ID == id {
			copied := *o
			return &copied, nil
		}
	}
	return nil, apperr.New(apperr.KindNotFound, "order not found")
}

func (f *fakeStore) ListOrdersByUser(_ context.Context, userID primitive.ObjectID, visibleOnly bool) ([]models.Order, error) {
	out := make([]models.Order, 0)
	for _, o := range f.orders {
		if o.UserID != userID {
			continue
		}
		if visibleOnly && !o.UserVisible {
			continue
		}
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeStore) ListOrdersByConsumer(_ context.Context, consumerID primitive.ObjectID, visibleOnly bool) ([]models.Order, error) {
	out := make([]models.Order, 0)
	for _, o := range f.orders {
		if o.ConsumerID != consumerID {
			continue
		}
		if visibleOnly && !o.ConsumerVisible {
			continue
		}
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeStore) ListAllOrders(_ context.Context) ([]models.Order, error) {
	out := make([]models.Order, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeStore) UpdateOrderStatus(_ context.Context, id primitive.ObjectID, status string) (*models.Order, error) {
	for _, o := range f.orders {
		if o.ID == id {
			o.Status = status
			copied := *o
			return &copied, nil
		}
	}
	return nil, apperr.New(apperr.KindNotFound, "order not found")
}

func (f *fakeStore) HideOrderForUser(_ context.Context, orderID, userID primitive.ObjectID) error {
	for _, o := range f.orders {
		if o.ID == orderID && o.UserID == userID {
			o.UserVisible = false
			return nil
		}
	}
	return apperr.New(apperr.KindNotFound, "order not found")
}

func (f *fakeStore) HideOrderForConsumer(_ context.Context, orderID, consumerID primitive.ObjectID) error {
	for _, o := range f.orders {
		if o.ID == orderID && o.ConsumerID == consumerID {
			o.ConsumerVisible = false
			return nil
		}
	}
	return apperr.New(apperr.KindNotFound, "order not found")
}

func (f *fakeStore) HideOrdersByStatus(_ context.Context, ownerField string, ownerID primitive.ObjectID, statuses []string) (int64, error) {
	var hidden int64
	for _, o := range f.orders {
		if !statusIn(o.Status, statuses) {
			continue
		}
		switch ownerField {
		case "userId":
			if o.UserID == ownerID && o.UserVisible {
				o.UserVisible = false
				hidden++
			}
		case "consumerId":
			if o.ConsumerID == ownerID && o.ConsumerVisible {
				o.ConsumerVisible = false
				hidden++
			}
		}
	}
	return hidden, nil
}

func (f *fakeStore) DeleteOrdersByStatus(_ context.Context, status string) (int64, error) {
	kept := f.orders[:0]
	var deleted int64
	for _, o := range f.orders {
		if status == "" || o.Status == status {
			deleted++
			continue
		}
		kept = append(kept, o)
	}
	f.orders = kept
	return deleted, nil
}

func statusIn(status string, statuses []string) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

// --- feedback ---

func (f *fakeStore) CreateFeedback(_ context.Context, fb *models.Feedback) error {
	fb.ID = primitive.NewObjectID()
	fb.CreatedAt = time.Now()
	f.feedback = append(f.feedback, fb)
	return nil
}

func (f *fakeStore) ListFeedbackByConsumer(_ context.Context, consumerID primitive.ObjectID) ([]models.Feedback, error) {
	out := make([]models.Feedback, 0)
	for i := len(f.feedback) - 1; i >= 0; i-- {
		if f.feedback[i].ConsumerID == consumerID {
			out = append(out, *f.feedback[i])
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteFeedback(_ context.Context, id primitive.ObjectID) error {
	for i, fb := range f.feedback {
		if fb.ID == id {
			f.feedback = append(f.feedback[:i], f.feedback[i+1:]...)
			return nil
		}
	}
	return apperr.New(apperr.KindNotFound, "feedback not found")
}

// fakePublisher records published events.
type fakePublisher struct {
	placed        []*models.OrderPlacedEvent
	statusChanged []*models.OrderStatusChangedEvent
	depleted      []*models.ProductDepletedEvent
}

func (p *fakePublisher) PublishOrderPlaced(_ context.Context, e *models.OrderPlacedEvent) error {
	p.placed = append(p.placed, e)
	return nil
}

func (p *fakePublisher) PublishOrderStatusChanged(_ context.Context, e *models.OrderStatusChangedEvent) error {
	p.statusChanged = append(p.statusChanged, e)
	return nil
}

func (p *fakePublisher) PublishProductDepleted(_ context.Context, e *models.ProductDepletedEvent) error {
	p.depleted = append(p.depleted, e)
	return nil
}
