package accounts

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/jonboulle/clockwork"
)

// MemoryRepository keeps accounts in process memory. All indexes are updated
// under one lock, which makes Insert and Update atomic with respect to the
// uniqueness checks. Records are copied in and out.
type MemoryRepository struct {
	mu     sync.RWMutex
	clock  clockwork.Clock
	nextID int64

	byID       map[int64]*models.Account
	byEmail    map[string]int64
	byUserName map[string]int64
	byCode     map[string]int64
}

func NewMemoryRepository(clock clockwork.Clock) *MemoryRepository {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MemoryRepository{
		clock:      clock,
		byID:       make(map[int64]*models.Account),
		byEmail:    make(map[string]int64),
		byUserName: make(map[string]int64),
		byCode:     make(map[string]int64),
	}
}

// checkUnique must be called with mu held. self is the id allowed to own
// the keys already (0 on insert).
func (r *MemoryRepository) checkUnique(a *models.Account, self int64) error {
	if id, ok := r.byUserName[a.UserName]; ok && id != self {
		return fmt.Errorf("%w: username %q", common.ErrConflict, a.UserName)
	}
	if id, ok := r.byEmail[a.Email]; ok && id != self {
		return fmt.Errorf("%w: email %q", common.ErrConflict, a.Email)
	}
	return nil
}

func (r *MemoryRepository) index(a *models.Account) {
	r.byUserName[a.UserName] = a.ID
	r.byEmail[a.Email] = a.ID
	if a.VerificationCode != nil {
		r.byCode[*a.VerificationCode] = a.ID
	}
}

func (r *MemoryRepository) unindex(a *models.Account) {
	delete(r.byUserName, a.UserName)
	delete(r.byEmail, a.Email)
	if a.VerificationCode != nil {
		delete(r.byCode, *a.VerificationCode)
	}
}

func (r *MemoryRepository) Insert(ctx context.Context, account *models.Account) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a := account.Clone()
	a.Email = models.NormalizeEmail(a.Email)
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := r.checkUnique(a, 0); err != nil {
		return nil, err
	}

	r.nextID++
	now := r.clock.Now()
	a.ID = r.nextID
	a.Version = 1
	a.CreatedAt = now
	a.UpdatedAt = now

	r.byID[a.ID] = a
	r.index(a)

	return a.Clone(), nil
}

func (r *MemoryRepository) lookup(id int64, ok bool) (*models.Account, error) {
	if !ok {
		return nil, common.ErrorNotFound
	}
	a, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return a.Clone(), nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(id, true)
}

func (r *MemoryRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[models.NormalizeEmail(email)]
	return r.lookup(id, ok)
}

func (r *MemoryRepository) FindByUserName(ctx context.Context, userName string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byUserName[userName]
	return r.lookup(id, ok)
}

func (r *MemoryRepository) FindByVerificationCode(ctx context.Context, code string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byCode[code]
	return r.lookup(id, ok)
}

func (r *MemoryRepository) Update(ctx context.Context, account *models.Account) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[account.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if current.Version != account.Version {
		return nil, common.ErrVersionConflict
	}

	a := account.Clone()
	a.Email = models.NormalizeEmail(a.Email)
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := r.checkUnique(a, a.ID); err != nil {
		return nil, err
	}

	a.Version = current.Version + 1
	a.CreatedAt = current.CreatedAt
	a.UpdatedAt = r.clock.Now()

	r.unindex(current)
	r.byID[a.ID] = a
	r.index(a)

	return a.Clone(), nil
}

func (r *MemoryRepository) ListAll(ctx context.Context) ([]*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Account, 0, len(r.byID))
	for _, a := range r.byID {
		result = append(result, a.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result, nil
}
