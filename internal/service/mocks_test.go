package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/lojaviva/admin-api-go/internal/domain"
)

// --- Mocks ---

type fakeNotificationStore struct {
	mu            sync.Mutex
	notifications map[string]*domain.Notification
	recipients    map[string][]domain.NotificationRecipient
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{
		notifications: map[string]*domain.Notification{},
		recipients:    map[string][]domain.NotificationRecipient{},
	}
}

func (f *fakeNotificationStore) ListNotifications(_ context.Context, storeID string) ([]domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Notification
	for _, n := range f.notifications {
		if n.StoreID == storeID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f *fakeNotificationStore) GetNotification(_ context.Context, storeID, id string) (*domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.notifications[id]
	if !ok || (storeID != "" && n.StoreID != storeID) {
		return nil, &domain.ErrNotFound{Resource: "notification", ID: id}
	}
	copied := *n
	return &copied, nil
}

func (f *fakeNotificationStore) CreateNotification(_ context.Context, n *domain.Notification) (*domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *n
	f.notifications[n.ID] = &copied
	result := copied
	return &result, nil
}

func (f *fakeNotificationStore) UpdateNotification(_ context.Context, id string, updates map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.notifications[id]
	if !ok {
		return &domain.ErrNotFound{Resource: "notification", ID: id}
	}
	if v, ok := updates["status"]; ok {
		n.Status = domain.NotificationStatus(v.(string))
	}
	if v, ok := updates["recipients_count"]; ok {
		n.RecipientsCount = v.(int)
	}
	return nil
}

func (f *fakeNotificationStore) ListDueNotifications(_ context.Context, _ string) ([]domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Notification
	for _, n := range f.notifications {
		if n.Status == domain.NotificationScheduled {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f *fakeNotificationStore) ClaimNotification(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.notifications[id]
	if !ok || n.Status != domain.NotificationScheduled {
		return false, nil
	}
	n.Status = domain.NotificationSending
	return true, nil
}

func (f *fakeNotificationStore) CancelNotification(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.notifications[id]
	if !ok || n.Status != domain.NotificationScheduled {
		return false, nil
	}
	n.Status = domain.NotificationCancelled
	return true, nil
}

func (f *fakeNotificationStore) CreateRecipients(_ context.Context, recipients []domain.NotificationRecipient) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range recipients {
		f.recipients[r.NotificationID] = append(f.recipients[r.NotificationID], r)
	}
	return nil
}

func (f *fakeNotificationStore) ListRecipients(_ context.Context, id string) ([]domain.NotificationRecipient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.NotificationRecipient{}, f.recipients[id]...), nil
}

type fakeCustomerStore struct {
	customers []domain.Customer
	tokens    []domain.DeviceToken
	err       error
}

func (f *fakeCustomerStore) ResolveAudience(_ context.Context, _ string, target domain.NotificationTarget) ([]domain.Customer, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Customer
	for _, c := range f.customers {
		if target == domain.TargetActive && !c.Active {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCustomerStore) CountCustomers(_ context.Context, _ string) (int, error) {
	return len(f.customers), f.err
}

func (f *fakeCustomerStore) ListDeviceTokens(_ context.Context, customerIDs []string) ([]domain.DeviceToken, error) {
	ids := map[string]bool{}
	for _, id := range customerIDs {
		ids[id] = true
	}
	var out []domain.DeviceToken
	for _, t := range f.tokens {
		if ids[t.CustomerID] {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeCustomerStore) UpsertDeviceToken(_ context.Context, token *domain.DeviceToken) (*domain.DeviceToken, error) {
	f.tokens = append(f.tokens, *token)
	return token, nil
}

type fakePushSender struct {
	mu    sync.Mutex
	sends [][]string
	err   error
}

func (f *fakePushSender) Send(_ context.Context, tokens []string, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sends = append(f.sends, tokens)
	return nil
}

type fakeCatalogStore struct {
	mu       sync.Mutex
	products map[string]*domain.Product
}

func newFakeCatalogStore() *fakeCatalogStore {
	return &fakeCatalogStore{products: map[string]*domain.Product{}}
}

func (f *fakeCatalogStore) ListProducts(_ context.Context, storeID string) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Product
	for _, p := range f.products {
		if p.StoreID == storeID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeCatalogStore) ListProductsByCollection(_ context.Context, storeID, collectionID string) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Product
	for _, p := range f.products {
		if p.StoreID == storeID && p.CollectionID == collectionID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeCatalogStore) GetProduct(_ context.Context, _, id string) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "product", ID: id}
	}
	copied := *p
	return &copied, nil
}

func (f *fakeCatalogStore) CreateProduct(_ context.Context, p *domain.Product) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *p
	f.products[p.ID] = &copied
	result := copied
	return &result, nil
}

func (f *fakeCatalogStore) UpdateProduct(_ context.Context, _, id string, updates map[string]any) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "product", ID: id}
	}
	if v, ok := updates["images"]; ok {
		p.Images = v.([]string)
	}
	if v, ok := updates["name"]; ok {
		p.Name = v.(string)
	}
	copied := *p
	return &copied, nil
}

func (f *fakeCatalogStore) DeleteProduct(_ context.Context, _, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.products, id)
	return nil
}

func (f *fakeCatalogStore) CountProducts(_ context.Context, storeID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, p := range f.products {
		if p.StoreID == storeID {
			count++
		}
	}
	return count, nil
}

func (f *fakeCatalogStore) ListCollections(_ context.Context, _ string) ([]domain.Collection, error) {
	return nil, nil
}

func (f *fakeCatalogStore) CreateCollection(_ context.Context, c *domain.Collection) (*domain.Collection, error) {
	return c, nil
}

func (f *fakeCatalogStore) DeleteCollection(_ context.Context, _, _ string) error {
	return nil
}

type fakeFinanceStore struct {
	transactions []domain.Transaction
	accounts     map[string]*domain.BankAccount
}

func newFakeFinanceStore() *fakeFinanceStore {
	return &fakeFinanceStore{accounts: map[string]*domain.BankAccount{}}
}

func (f *fakeFinanceStore) ListTransactions(_ context.Context, storeID string, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	var out []domain.Transaction
	for _, tx := range f.transactions {
		if tx.StoreID != storeID {
			continue
		}
		if filter.Type != "" && tx.Type != filter.Type {
			continue
		}
		if filter.Range.Start != nil && tx.Date.Before(*filter.Range.Start) {
			continue
		}
		if filter.Range.End != nil && tx.Date.After(*filter.Range.End) {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

func (f *fakeFinanceStore) GetTransaction(_ context.Context, _, id string) (*domain.Transaction, error) {
	for i := range f.transactions {
		if f.transactions[i].ID == id {
			return &f.transactions[i], nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "transaction", ID: id}
}

func (f *fakeFinanceStore) CreateTransaction(_ context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	f.transactions = append(f.transactions, *tx)
	return tx, nil
}

func (f *fakeFinanceStore) UpdateTransaction(_ context.Context, _, id string, _ map[string]any) (*domain.Transaction, error) {
	return f.GetTransaction(context.Background(), "", id)
}

func (f *fakeFinanceStore) DeleteTransaction(_ context.Context, _, id string) error {
	for i := range f.transactions {
		if f.transactions[i].ID == id {
			f.transactions = append(f.transactions[:i], f.transactions[i+1:]...)
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "transaction", ID: id}
}

func (f *fakeFinanceStore) ListBankAccounts(_ context.Context, storeID string) ([]domain.BankAccount, error) {
	var out []domain.BankAccount
	for _, a := range f.accounts {
		if a.StoreID == storeID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeFinanceStore) CreateBankAccount(_ context.Context, a *domain.BankAccount) (*domain.BankAccount, error) {
	copied := *a
	f.accounts[a.ID] = &copied
	result := copied
	return &result, nil
}

func (f *fakeFinanceStore) UpdateBankAccount(_ context.Context, _, id string, _ map[string]any) (*domain.BankAccount, error) {
	a, ok := f.accounts[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "bank_account", ID: id}
	}
	return a, nil
}

func (f *fakeFinanceStore) DeleteBankAccount(_ context.Context, _, id string) error {
	delete(f.accounts, id)
	return nil
}

type fakeObjectStore struct {
	mu       sync.Mutex
	uploads  map[string][]byte
	removals []string
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{uploads: map[string][]byte{}}
}

func (f *fakeObjectStore) Upload(_ context.Context, path, _ string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads[path] = data
	return "https://cdn.example.com/" + path, nil
}

func (f *fakeObjectStore) Remove(_ context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removals = append(f.removals, path)
	return nil
}

type fakeSettingsStore struct {
	settings map[string]*domain.StoreSettings
}

func newFakeSettingsStore() *fakeSettingsStore {
	return &fakeSettingsStore{settings: map[string]*domain.StoreSettings{}}
}

func (f *fakeSettingsStore) GetSettings(_ context.Context, storeID string) (*domain.StoreSettings, error) {
	s, ok := f.settings[storeID]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "settings", ID: storeID}
	}
	return s, nil
}

func (f *fakeSettingsStore) UpdateSettings(_ context.Context, storeID string, updates map[string]any) (*domain.StoreSettings, error) {
	s, ok := f.settings[storeID]
	if !ok {
		s = &domain.StoreSettings{StoreID: storeID}
		f.settings[storeID] = s
	}
	for k, v := range updates {
		str, _ := v.(string)
		switch k {
		case "store_name":
			s.StoreName = str
		case "primary_color":
			s.PrimaryColor = str
		case "secondary_color":
			s.SecondaryColor = str
		case "accent_color":
			s.AccentColor = str
		case "logo_url":
			s.LogoURL = str
		case "banner_url":
			s.BannerURL = str
		case "whatsapp":
			s.WhatsApp = str
		case "instagram":
			s.Instagram = str
		case "phone":
			s.Phone = str
		case "email":
			s.Email = str
		case "address":
			s.Address = str
		case "about_us":
			s.AboutUs = str
		}
	}
	return s, nil
}

type fakeCache[T any] struct {
	mu    sync.Mutex
	items map[string]T
}

func newFakeCache[T any]() *fakeCache[T] {
	return &fakeCache[T]{items: map[string]T{}}
}

func (c *fakeCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok
}

func (c *fakeCache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
}

func (c *fakeCache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

type fakePromotionStore struct {
	promotions []domain.Promotion
	err        error
}

func (f *fakePromotionStore) ListPromotions(_ context.Context, _ string) ([]domain.Promotion, error) {
	return f.promotions, f.err
}

func (f *fakePromotionStore) GetPromotion(_ context.Context, _, id string) (*domain.Promotion, error) {
	for i := range f.promotions {
		if f.promotions[i].ID == id {
			return &f.promotions[i], nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "promotion", ID: id}
}

func (f *fakePromotionStore) CreatePromotion(_ context.Context, p *domain.Promotion) (*domain.Promotion, error) {
	f.promotions = append(f.promotions, *p)
	return p, nil
}

func (f *fakePromotionStore) UpdatePromotion(_ context.Context, _, id string, updates map[string]any) (*domain.Promotion, error) {
	for i := range f.promotions {
		if f.promotions[i].ID == id {
			if v, ok := updates["active"]; ok {
				f.promotions[i].Active = v.(bool)
			}
			if v, ok := updates["product_ids"]; ok {
				f.promotions[i].ProductIDs = v.([]string)
			}
			if v, ok := updates["start_date"]; ok {
				parsed, _ := time.Parse("2006-01-02", v.(string))
				f.promotions[i].StartDate = &parsed
			}
			if v, ok := updates["end_date"]; ok {
				parsed, _ := time.Parse("2006-01-02", v.(string))
				f.promotions[i].EndDate = &parsed
			}
			return &f.promotions[i], nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "promotion", ID: id}
}

func (f *fakePromotionStore) DeletePromotion(_ context.Context, _, id string) error {
	for i := range f.promotions {
		if f.promotions[i].ID == id {
			f.promotions = append(f.promotions[:i], f.promotions[i+1:]...)
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "promotion", ID: id}
}
