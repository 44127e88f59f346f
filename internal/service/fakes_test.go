package service

import (
	"context"
	"sort"
	"sync"

	"github.com/garagebuddy/garagebuddy/internal/errs"
	"github.com/garagebuddy/garagebuddy/internal/limiter"
	"github.com/garagebuddy/garagebuddy/internal/mail"
	"github.com/garagebuddy/garagebuddy/internal/model"
	"github.com/garagebuddy/garagebuddy/internal/repository"
)

// In-memory fakes for the repository interfaces, shared by the service tests.

type fakeUsers struct {
	byEmail map[string]*model.User

	createErr error
	getErr    error
}

var _ repository.UserRepository = (*fakeUsers)(nil)

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: map[string]*model.User{}}
}

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, exists := f.byEmail[u.Email]; exists {
		return errs.ErrAlreadyExists
	}
	cpy := *u
	f.byEmail[u.Email] = &cpy
	return nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[model.NormalizeEmail(email)]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeUsers) Update(_ context.Context, u *model.User) error {
	if _, ok := f.byEmail[u.Email]; !ok {
		return errs.ErrNotFound
	}
	cpy := *u
	f.byEmail[u.Email] = &cpy
	return nil
}

func (f *fakeUsers) SetSuperUser(_ context.Context, email string, super bool) error {
	u, ok := f.byEmail[email]
	if !ok {
		return errs.ErrNotFound
	}
	u.SuperUser = super
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, email string) error {
	if _, ok := f.byEmail[email]; !ok {
		return errs.ErrNotFound
	}
	delete(f.byEmail, email)
	return nil
}

func (f *fakeUsers) List(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(f.byEmail))
	for _, u := range f.byEmail {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

type fakeSales struct {
	byID   map[int]*model.Sale
	nextID int
}

var _ repository.SaleRepository = (*fakeSales)(nil)

func newFakeSales() *fakeSales {
	return &fakeSales{byID: map[int]*model.Sale{}, nextID: 1}
}

func (f *fakeSales) Create(_ context.Context, s *model.Sale) error {
	s.ID = f.nextID
	f.nextID++
	cpy := *s
	f.byID[s.ID] = &cpy
	return nil
}

func (f *fakeSales) GetByID(_ context.Context, id int) (*model.Sale, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *s
	c.Members = make(map[string]int, len(s.Members))
	for k, v := range s.Members {
		c.Members[k] = v
	}
	return &c, nil
}

func (f *fakeSales) Update(_ context.Context, s *model.Sale) error {
	if _, ok := f.byID[s.ID]; !ok {
		return errs.ErrNotFound
	}
	cpy := *s
	f.byID[s.ID] = &cpy
	return nil
}

func (f *fakeSales) Delete(_ context.Context, id int) error {
	if _, ok := f.byID[id]; !ok {
		return errs.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeSales) List(_ context.Context) ([]model.Sale, error) {
	out := make([]model.Sale, 0, len(f.byID))
	for _, s := range f.byID {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeItems struct {
	byID   map[int]*model.Item
	nextID int
}

var _ repository.ItemRepository = (*fakeItems)(nil)

func newFakeItems() *fakeItems {
	return &fakeItems{byID: map[int]*model.Item{}, nextID: 1}
}

func (f *fakeItems) Create(_ context.Context, it *model.Item) error {
	it.ID = f.nextID
	f.nextID++
	cpy := *it
	f.byID[it.ID] = &cpy
	return nil
}

func (f *fakeItems) GetByID(_ context.Context, id int) (*model.Item, error) {
	it, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *it
	return &c, nil
}

func (f *fakeItems) Update(_ context.Context, it *model.Item) error {
	if _, ok := f.byID[it.ID]; !ok {
		return errs.ErrNotFound
	}
	cpy := *it
	f.byID[it.ID] = &cpy
	return nil
}

func (f *fakeItems) Delete(_ context.Context, id int) error {
	if _, ok := f.byID[id]; !ok {
		return errs.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeItems) ListBySale(_ context.Context, saleID int, purchased *bool) ([]model.Item, error) {
	var out []model.Item
	for _, it := range f.byID {
		if it.SaleID == nil || *it.SaleID != saleID {
			continue
		}
		if purchased != nil && it.Purchased != *purchased {
			continue
		}
		out = append(out, *it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeItems) ListByTransaction(_ context.Context, txnID int) ([]model.Item, error) {
	var out []model.Item
	for _, it := range f.byID {
		if it.TransactionID != nil && *it.TransactionID == txnID {
			out = append(out, *it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeItems) DeleteBySale(_ context.Context, saleID int) error {
	for id, it := range f.byID {
		if it.SaleID != nil && *it.SaleID == saleID {
			delete(f.byID, id)
		}
	}
	return nil
}

// fakeTxns mirrors the aggregate bookkeeping the postgres repository does
// transactionally, so service tests can assert on counters.
type fakeTxns struct {
	byID   map[int]*model.Transaction
	items  *fakeItems
	nextID int
}

var _ repository.TransactionRepository = (*fakeTxns)(nil)

func newFakeTxns(items *fakeItems) *fakeTxns {
	return &fakeTxns{byID: map[int]*model.Transaction{}, items: items, nextID: 1}
}

func (f *fakeTxns) Create(_ context.Context, t *model.Transaction) error {
	t.ID = f.nextID
	f.nextID++
	cpy := *t
	f.byID[t.ID] = &cpy
	return nil
}

func (f *fakeTxns) GetByID(_ context.Context, id int) (*model.Transaction, error) {
	t, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *t
	return &c, nil
}

func (f *fakeTxns) ListBySale(_ context.Context, saleID int) ([]model.Transaction, error) {
	var out []model.Transaction
	for _, t := range f.byID {
		if t.SaleID == saleID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeTxns) AttachItem(_ context.Context, txnID, itemID int, price float64, soldBy string) error {
	t, ok := f.byID[txnID]
	if !ok {
		return errs.ErrNotFound
	}
	it, ok := f.items.byID[itemID]
	if !ok {
		return errs.ErrNotFound
	}
	if it.TransactionID != nil && *it.TransactionID == txnID {
		return nil
	}
	if it.Purchased {
		return errs.ErrItemPurchased
	}
	id := txnID
	it.TransactionID = &id
	it.Purchased = true
	it.SoldFor = &price
	it.Price = price
	sb := model.NormalizeEmail(soldBy)
	it.SoldBy = &sb
	t.NumItems++
	t.Value += price
	return nil
}

func (f *fakeTxns) DetachItem(_ context.Context, txnID, itemID int) error {
	t, ok := f.byID[txnID]
	if !ok {
		return errs.ErrNotFound
	}
	it, ok := f.items.byID[itemID]
	if !ok || it.TransactionID == nil || *it.TransactionID != txnID {
		return nil
	}
	t.NumItems--
	t.Value -= it.Price
	it.TransactionID = nil
	it.Purchased = false
	it.SoldFor = nil
	it.SoldBy = nil
	return nil
}

func (f *fakeTxns) DetachAll(_ context.Context, txnID int) (int, error) {
	t, ok := f.byID[txnID]
	if !ok {
		return 0, errs.ErrNotFound
	}
	n := 0
	for _, it := range f.items.byID {
		if it.TransactionID != nil && *it.TransactionID == txnID {
			it.TransactionID = nil
			it.Purchased = false
			it.SoldFor = nil
			it.SoldBy = nil
			n++
		}
	}
	t.NumItems = 0
	t.Value = 0
	return n, nil
}

func (f *fakeTxns) RecomputeValue(_ context.Context, txnID int) (float64, error) {
	t, ok := f.byID[txnID]
	if !ok {
		return 0, errs.ErrNotFound
	}
	count, sum := 0, 0.0
	for _, it := range f.items.byID {
		if it.TransactionID != nil && *it.TransactionID == txnID {
			count++
			sum += it.Price
		}
	}
	t.NumItems = count
	t.Value = sum
	return sum, nil
}

func (f *fakeTxns) Delete(_ context.Context, id int) error {
	if _, ok := f.byID[id]; !ok {
		return errs.ErrNotFound
	}
	for _, it := range f.items.byID {
		if it.TransactionID != nil && *it.TransactionID == id {
			return errs.ErrTransactionNotEmpty
		}
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeTxns) DeleteBySale(_ context.Context, saleID int) error {
	for id, t := range f.byID {
		if t.SaleID == saleID {
			if err := f.Delete(context.Background(), id); err != nil {
				return err
			}
		}
	}
	return nil
}

type fakeReports struct {
	rows   map[string][]repository.ReportRow // key: seller email
	totals map[string]float64
	daily  []repository.DailyStat

	calls int
}

var _ repository.ReportRepository = (*fakeReports)(nil)

func (f *fakeReports) SellerReport(_ context.Context, _ int, sellerEmail string) ([]repository.ReportRow, error) {
	return f.rows[sellerEmail], nil
}

func (f *fakeReports) SellerTotal(_ context.Context, _ int, sellerEmail string) (float64, error) {
	return f.totals[sellerEmail], nil
}

func (f *fakeReports) DailyStats(_ context.Context, _ int) ([]repository.DailyStat, error) {
	f.calls++
	return f.daily, nil
}

// fakeLimiter counts failures in memory with the same lock threshold as the
// postgres implementation.
type fakeLimiter struct {
	attempts map[string]int

	allowErr error
}

var _ limiter.Limiter = (*fakeLimiter)(nil)

func newFakeLimiter() *fakeLimiter {
	return &fakeLimiter{attempts: map[string]int{}}
}

func (f *fakeLimiter) Allow(_ context.Context, email string) (bool, error) {
	if f.allowErr != nil {
		return false, f.allowErr
	}
	return f.attempts[email] < limiter.MaxAttempts, nil
}

func (f *fakeLimiter) Failure(_ context.Context, email string) (bool, error) {
	f.attempts[email]++
	return f.attempts[email] >= limiter.MaxAttempts, nil
}

func (f *fakeLimiter) Success(_ context.Context, email string) error {
	delete(f.attempts, email)
	return nil
}

func (f *fakeLimiter) Reset(_ context.Context, email string) error {
	delete(f.attempts, email)
	return nil
}

type sentMail struct {
	to      []string
	subject string
	body    string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent chan sentMail
}

var _ mail.Mailer = (*fakeMailer)(nil)

func newFakeMailer() *fakeMailer {
	return &fakeMailer{sent: make(chan sentMail, 8)}
}

func (f *fakeMailer) Send(_ context.Context, to []string, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent <- sentMail{to: to, subject: subject, body: body}
	return nil
}
