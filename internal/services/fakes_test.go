package services

import (
	"context"
	"sync"
	"time"

	"github.com/ArowuTest/wagerspin-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// In-memory repository fakes. They mirror the conditional-update semantics
// of the Mongo implementations (Hold, Consume, MarkProcessed) so the
// services' concurrency guards are exercised for real.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.CreatedAt = time.Now()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return user, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) FindByPlatformID(_ context.Context, platformID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.PlatformID == platformID {
			return u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) FindByVerificationToken(_ context.Context, token string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.VerificationToken == token {
			return u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) FindAll(_ context.Context, _, _ int) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) SetBlacklisted(_ context.Context, id primitive.ObjectID, blacklisted bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.IsBlacklisted = blacklisted
	}
	return nil
}

type fakeWalletRepo struct {
	mu      sync.Mutex
	wallets map[primitive.ObjectID]*models.Wallet
}

func newFakeWalletRepo() *fakeWalletRepo {
	return &fakeWalletRepo{wallets: make(map[primitive.ObjectID]*models.Wallet)}
}

func (r *fakeWalletRepo) FindByUserID(_ context.Context, userID primitive.ObjectID) (*models.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[userID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return w, nil
}

func (r *fakeWalletRepo) EnsureWallet(_ context.Context, userID primitive.ObjectID) (*models.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w, ok := r.wallets[userID]; ok {
		return w, nil
	}
	w := &models.Wallet{ID: primitive.NewObjectID(), UserID: userID}
	r.wallets[userID] = w
	return w, nil
}

func (r *fakeWalletRepo) Credit(_ context.Context, userID primitive.ObjectID, amount float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[userID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	w.Balance += amount
	return nil
}

func (r *fakeWalletRepo) Hold(_ context.Context, userID primitive.ObjectID, amount float64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[userID]
	if !ok {
		return false, mongo.ErrNoDocuments
	}
	if w.Balance-w.Held < amount {
		return false, nil
	}
	w.Held += amount
	return true, nil
}

func (r *fakeWalletRepo) Release(_ context.Context, userID primitive.ObjectID, amount float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w, ok := r.wallets[userID]; ok {
		w.Held -= amount
	}
	return nil
}

func (r *fakeWalletRepo) Settle(_ context.Context, userID primitive.ObjectID, amount float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w, ok := r.wallets[userID]; ok {
		w.Balance -= amount
		w.Held -= amount
	}
	return nil
}

func (r *fakeWalletRepo) FindAll(_ context.Context) ([]*models.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Wallet, 0, len(r.wallets))
	for _, w := range r.wallets {
		out = append(out, w)
	}
	return out, nil
}

type fakeTxnRepo struct {
	mu   sync.Mutex
	txns []*models.WalletTransaction
}

func (r *fakeTxnRepo) Create(_ context.Context, txn *models.WalletTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if txn.ID.IsZero() {
		txn.ID = primitive.NewObjectID()
	}
	txn.CreatedAt = time.Now()
	r.txns = append(r.txns, txn)
	return nil
}

func (r *fakeTxnRepo) FindByUserID(_ context.Context, userID primitive.ObjectID, _, _ int) ([]*models.WalletTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.WalletTransaction
	for _, t := range r.txns {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeWithdrawalRepo struct {
	mu          sync.Mutex
	withdrawals map[primitive.ObjectID]*models.Withdrawal
}

func newFakeWithdrawalRepo() *fakeWithdrawalRepo {
	return &fakeWithdrawalRepo{withdrawals: make(map[primitive.ObjectID]*models.Withdrawal)}
}

func (r *fakeWithdrawalRepo) Create(_ context.Context, w *models.Withdrawal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w.ID.IsZero() {
		w.ID = primitive.NewObjectID()
	}
	w.CreatedAt = time.Now()
	r.withdrawals[w.ID] = w
	return nil
}

func (r *fakeWithdrawalRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Withdrawal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.withdrawals[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *w
	return &copied, nil
}

func (r *fakeWithdrawalRepo) FindByUserID(_ context.Context, userID primitive.ObjectID) ([]*models.Withdrawal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Withdrawal
	for _, w := range r.withdrawals {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *fakeWithdrawalRepo) FindByStatus(_ context.Context, status string, _, _ int) ([]*models.Withdrawal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Withdrawal
	for _, w := range r.withdrawals {
		if w.Status == status {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *fakeWithdrawalRepo) MarkProcessed(_ context.Context, id primitive.ObjectID, status, processedBy, note string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.withdrawals[id]
	if !ok || w.Status != models.WithdrawalStatusPending {
		return false, nil
	}
	w.Status = status
	w.ProcessedBy = processedBy
	w.Note = note
	w.ProcessedAt = time.Now()
	return true, nil
}

func (r *fakeWithdrawalRepo) SumPendingByUserID(_ context.Context, userID primitive.ObjectID) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := 0.0
	for _, w := range r.withdrawals {
		if w.UserID == userID && w.Status == models.WithdrawalStatusPending {
			sum += w.Amount
		}
	}
	return sum, nil
}

func (r *fakeWithdrawalRepo) FindAll(_ context.Context) ([]*models.Withdrawal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Withdrawal, 0, len(r.withdrawals))
	for _, w := range r.withdrawals {
		out = append(out, w)
	}
	return out, nil
}

type fakeSpinRepo struct {
	mu    sync.Mutex
	spins []*models.Spin
}

func (r *fakeSpinRepo) Create(_ context.Context, spin *models.Spin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if spin.ID.IsZero() {
		spin.ID = primitive.NewObjectID()
	}
	spin.CreatedAt = time.Now()
	r.spins = append(r.spins, spin)
	return nil
}

func (r *fakeSpinRepo) FindByUserID(_ context.Context, userID primitive.ObjectID, _, _ int) ([]*models.Spin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Spin
	for _, s := range r.spins {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSpinRepo) CountTicketSpins(_ context.Context, userID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, s := range r.spins {
		if s.UserID == userID && s.Source == models.SpinSourceTicket {
			count++
		}
	}
	return count, nil
}

func (r *fakeSpinRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.spins)), nil
}

type fakeBalanceRepo struct {
	mu       sync.Mutex
	balances map[string]int // userID.Hex() + "/" + tier
}

func newFakeBalanceRepo() *fakeBalanceRepo {
	return &fakeBalanceRepo{balances: make(map[string]int)}
}

func balanceKey(userID primitive.ObjectID, tier string) string {
	return userID.Hex() + "/" + tier
}

func (r *fakeBalanceRepo) FindByUserID(_ context.Context, userID primitive.ObjectID) ([]*models.SpinBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.SpinBalance
	prefix := userID.Hex() + "/"
	for key, count := range r.balances {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			out = append(out, &models.SpinBalance{UserID: userID, Tier: key[len(prefix):], Count: count})
		}
	}
	return out, nil
}

func (r *fakeBalanceRepo) Grant(_ context.Context, userID primitive.ObjectID, tier string, count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.balances[balanceKey(userID, tier)] += count
	return nil
}

func (r *fakeBalanceRepo) Consume(_ context.Context, userID primitive.ObjectID, tier string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := balanceKey(userID, tier)
	if r.balances[key] <= 0 {
		return false, nil
	}
	r.balances[key]--
	return true, nil
}

type fakeWagerRepo struct {
	mu      sync.Mutex
	records map[string]*models.WagerRecord
}

func newFakeWagerRepo() *fakeWagerRepo {
	return &fakeWagerRepo{records: make(map[string]*models.WagerRecord)}
}

func (r *fakeWagerRepo) UpsertByPlatformID(_ context.Context, record *models.WagerRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	record.ImportedAt = time.Now()
	r.records[record.PlatformID] = record
	return nil
}

func (r *fakeWagerRepo) FindByPlatformID(_ context.Context, platformID string) (*models.WagerRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[platformID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return record, nil
}

func (r *fakeWagerRepo) FindAll(_ context.Context) ([]*models.WagerRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.WagerRecord, 0, len(r.records))
	for _, record := range r.records {
		out = append(out, record)
	}
	return out, nil
}

func (r *fakeWagerRepo) FindImportedSince(_ context.Context, since time.Time) ([]*models.WagerRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.WagerRecord
	for _, record := range r.records {
		if record.ImportedAt.After(since) {
			out = append(out, record)
		}
	}
	return out, nil
}

type fakeBlacklistRepo struct {
	mu      sync.Mutex
	entries map[string]*models.BlacklistEntry
}

func newFakeBlacklistRepo() *fakeBlacklistRepo {
	return &fakeBlacklistRepo{entries: make(map[string]*models.BlacklistEntry)}
}

func (r *fakeBlacklistRepo) IsBlacklisted(_ context.Context, platformID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[platformID]
	return ok, nil
}

func (r *fakeBlacklistRepo) Add(_ context.Context, platformID, reason, blacklistedBy string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[platformID] = &models.BlacklistEntry{
		PlatformID:    platformID,
		Reason:        reason,
		BlacklistedBy: blacklistedBy,
		CreatedAt:     time.Now(),
	}
	return nil
}

func (r *fakeBlacklistRepo) Remove(_ context.Context, platformID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, platformID)
	return nil
}

func (r *fakeBlacklistRepo) FindAll(_ context.Context) ([]*models.BlacklistEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.BlacklistEntry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	return out, nil
}

type fakeFlagRepo struct {
	mu    sync.Mutex
	flags map[string]*models.FeatureFlag
}

func newFakeFlagRepo() *fakeFlagRepo {
	return &fakeFlagRepo{flags: make(map[string]*models.FeatureFlag)}
}

func (r *fakeFlagRepo) FindByKey(_ context.Context, key string) (*models.FeatureFlag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	flag, ok := r.flags[key]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return flag, nil
}

func (r *fakeFlagRepo) UpsertByKey(_ context.Context, key string, enabled bool, updatedBy string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flags[key] = &models.FeatureFlag{Key: key, Enabled: enabled, UpdatedBy: updatedBy, UpdatedAt: time.Now()}
	return nil
}

func (r *fakeFlagRepo) FindAll(_ context.Context) ([]*models.FeatureFlag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.FeatureFlag, 0, len(r.flags))
	for _, f := range r.flags {
		out = append(out, f)
	}
	return out, nil
}

type fakeConfigRepo struct {
	mu      sync.Mutex
	configs map[string]*models.SystemConfig
}

func newFakeConfigRepo() *fakeConfigRepo {
	return &fakeConfigRepo{configs: make(map[string]*models.SystemConfig)}
}

// FindByKey round-trips the stored document through bson so Value comes back
// shaped the way the driver decodes interface{} fields (primitive.D, not the
// primitive.M it was written as)
func (r *fakeConfigRepo) FindByKey(_ context.Context, key string) (*models.SystemConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cfg, ok := r.configs[key]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	raw, err := bson.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var decoded models.SystemConfig
	if err := bson.Unmarshal(raw, &decoded); err != nil {
		return nil, err
	}
	return &decoded, nil
}

func (r *fakeConfigRepo) UpsertByKey(_ context.Context, key string, value interface{}, description string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs[key] = &models.SystemConfig{Key: key, Value: value, Description: description, UpdatedAt: time.Now()}
	return nil
}

func (r *fakeConfigRepo) FindAll(_ context.Context) ([]*models.SystemConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.SystemConfig, 0, len(r.configs))
	for _, c := range r.configs {
		out = append(out, c)
	}
	return out, nil
}
