package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"socks_stock/internal/domain"
	"socks_stock/internal/errs"
)

type batchKey struct {
	color      string
	cottonPart int
}

type stubBatchRepo struct {
	batches map[batchKey]*domain.Batch
	nextID  uint
	sums    int // SumQuantity calls
	failAll error
}

func newStubBatchRepo() *stubBatchRepo {
	return &stubBatchRepo{batches: make(map[batchKey]*domain.Batch)}
}

func (r *stubBatchRepo) FindByColorAndCottonPart(_ context.Context, color string, cottonPart int) (*domain.Batch, error) {
	b, ok := r.batches[batchKey{color, cottonPart}]
	if !ok {
		return nil, errs.ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *stubBatchRepo) Increase(_ context.Context, color string, cottonPart int, quantity int64) (*domain.Batch, error) {
	if r.failAll != nil {
		return nil, r.failAll
	}
	key := batchKey{color, cottonPart}
	b, ok := r.batches[key]
	if !ok {
		r.nextID++
		b = &domain.Batch{ID: r.nextID, Color: color, CottonPart: cottonPart}
		r.batches[key] = b
	}
	if quantity > math.MaxInt64-b.Quantity {
		return nil, errs.ErrOverflow
	}
	b.Quantity += quantity
	clone := *b
	return &clone, nil
}

func (r *stubBatchRepo) Decrease(_ context.Context, color string, cottonPart int, quantity int64) (*domain.Batch, error) {
	if r.failAll != nil {
		return nil, r.failAll
	}
	b, ok := r.batches[batchKey{color, cottonPart}]
	if !ok {
		return nil, errs.ErrNotFound
	}
	if b.Quantity < quantity {
		return nil, errs.ErrInsufficient
	}
	b.Quantity -= quantity
	clone := *b
	return &clone, nil
}

func (r *stubBatchRepo) SumQuantity(_ context.Context, color string, op domain.Operation, cottonPart int) (int64, error) {
	r.sums++
	if r.failAll != nil {
		return 0, r.failAll
	}
	var total int64
	for k, b := range r.batches {
		if k.color != color {
			continue
		}
		switch op {
		case domain.OpMoreThan:
			if k.cottonPart > cottonPart {
				total += b.Quantity
			}
		case domain.OpLessThan:
			if k.cottonPart < cottonPart {
				total += b.Quantity
			}
		case domain.OpEqual:
			if k.cottonPart == cottonPart {
				total += b.Quantity
			}
		default:
			return 0, fmt.Errorf("unsupported operation %q", op)
		}
	}
	return total, nil
}

func (r *stubBatchRepo) DeleteAll(_ context.Context) error {
	if r.failAll != nil {
		return r.failAll
	}
	r.batches = make(map[batchKey]*domain.Batch)
	return nil
}

type stubUserRepo struct {
	users     map[uint]*domain.User
	nextID    uint
	createErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uint]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, u := range r.users {
		if u.Username == user.Username {
			return errs.ErrDuplicate
		}
	}
	r.nextID++
	user.ID = r.nextID
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uint) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (r *stubUserRepo) FindByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	all, _ := r.FindAll(ctx)
	var out []domain.User
	for _, u := range all {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, username)
	return err == nil, nil
}

func (r *stubUserRepo) UpdateRole(_ context.Context, id uint, role domain.Role) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	u.Role = role
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.users[id]; !ok {
		return errs.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

type stubTokens struct {
	err error
}

func (s stubTokens) Issue(username string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "token-for-" + username, nil
}

type stubCache struct {
	entries     map[string]int64
	gen         int64
	invalidated int
	readErr     error
	genErr      error
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string]int64)}
}

func (c *stubCache) key(gen int64, color, op string, cottonPart int) string {
	return fmt.Sprintf("%d:%q:%s:%d", gen, color, op, cottonPart)
}

func (c *stubCache) Generation(_ context.Context) (int64, error) {
	return c.gen, c.genErr
}

func (c *stubCache) Get(_ context.Context, gen int64, color, op string, cottonPart int) (int64, bool, error) {
	if c.readErr != nil {
		return 0, false, c.readErr
	}
	v, ok := c.entries[c.key(gen, color, op, cottonPart)]
	return v, ok, nil
}

func (c *stubCache) Set(_ context.Context, gen int64, color, op string, cottonPart int, total int64) error {
	c.entries[c.key(gen, color, op, cottonPart)] = total
	return nil
}

func (c *stubCache) Invalidate(_ context.Context) error {
	c.invalidated++
	c.gen++
	return nil
}

// sumHookRepo runs onSum once, after the total is read and before it is returned
type sumHookRepo struct {
	*stubBatchRepo
	onSum func()
}

func (r *sumHookRepo) SumQuantity(ctx context.Context, color string, op domain.Operation, cottonPart int) (int64, error) {
	total, err := r.stubBatchRepo.SumQuantity(ctx, color, op, cottonPart)
	if hook := r.onSum; hook != nil {
		r.onSum = nil
		hook()
	}
	return total, err
}

var errBoom = errors.New("boom")

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }
