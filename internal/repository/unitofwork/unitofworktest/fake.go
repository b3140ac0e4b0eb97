// Package unitofworktest provides an in-memory UnitOfWork for service tests.
// It understands the specifications the services use and panics on any other,
// so a new query shape cannot silently match everything.
package unitofworktest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"campus-finance-be/internal/entity"
	"campus-finance-be/internal/model"
	"campus-finance-be/internal/repository/contract"
	"campus-finance-be/internal/repository/specification"
	"campus-finance-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.Mutex

	Users      []*entity.User
	Balances   map[uuid.UUID]int64
	Tagihan    []*entity.Tagihan
	Pembayaran []*entity.Pembayaran
	AuditLogs  []*entity.AuditLog

	// Err, when set, is returned by every repository call.
	Err error
	// CommitErr, when set, is returned by Commit and the transaction is rolled back.
	CommitErr error
	// BeforeUserCreate runs at the start of UserRepository().Create, after any
	// lookups, to stand in for a concurrent writer.
	BeforeUserCreate func(s *Store)

	Commits   int
	Rollbacks int
}

func NewStore() *Store {
	return &Store{Balances: map[uuid.UUID]int64{}}
}

func (s *Store) Factory() unitofwork.RepositoryFactory {
	return factory{store: s}
}

// AddUser stores u and returns it for chaining.
func (s *Store) AddUser(u *entity.User) *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.Id == uuid.Nil {
		u.Id = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	s.Users = append(s.Users, u)
	return u
}

func (s *Store) AddTagihan(t *entity.Tagihan) *entity.Tagihan {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.Id == uuid.Nil {
		t.Id = uuid.New()
	}
	s.Tagihan = append(s.Tagihan, t)
	return t
}

func (s *Store) AddPembayaran(p *entity.Pembayaran) *entity.Pembayaran {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Id == uuid.Nil {
		p.Id = uuid.New()
	}
	s.Pembayaran = append(s.Pembayaran, p)
	return p
}

func (s *Store) SetBalance(userId uuid.UUID, amount int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Balances[userId] = amount
}

func (s *Store) FindUser(id uuid.UUID) *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.Users {
		if u.Id == id {
			return u
		}
	}
	return nil
}

type snapshot struct {
	users     []*entity.User
	tagihan   []*entity.Tagihan
	auditLogs []*entity.AuditLog
}

func (s *Store) snapshot() *snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &snapshot{
		users:     append([]*entity.User(nil), s.Users...),
		tagihan:   append([]*entity.Tagihan(nil), s.Tagihan...),
		auditLogs: append([]*entity.AuditLog(nil), s.AuditLogs...),
	}
}

func (s *Store) restore(snap *snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Users = snap.users
	s.Tagihan = snap.tagihan
	s.AuditLogs = snap.auditLogs
	s.Rollbacks++
}

type factory struct {
	store *Store
}

func (f factory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &uow{store: f.store}
}

type uow struct {
	store *Store
	tx    *snapshot
}

func (u *uow) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	u.tx = u.store.snapshot()
	return nil
}

func (u *uow) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	if u.store.CommitErr != nil {
		u.store.restore(u.tx)
		u.tx = nil
		return u.store.CommitErr
	}
	u.tx = nil
	u.store.mu.Lock()
	u.store.Commits++
	u.store.mu.Unlock()
	return nil
}

func (u *uow) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	u.store.restore(u.tx)
	u.tx = nil
	return nil
}

func (u *uow) UserRepository() contract.UserRepository             { return &userRepo{u.store} }
func (u *uow) TagihanRepository() contract.TagihanRepository       { return &tagihanRepo{u.store} }
func (u *uow) PembayaranRepository() contract.PembayaranRepository { return &pembayaranRepo{u.store} }
func (u *uow) BalanceRepository() contract.BalanceRepository       { return &balanceRepo{u.store} }
func (u *uow) AuditLogRepository() contract.AuditLogRepository     { return &auditRepo{u.store} }

// --- users ---

type userRepo struct{ s *Store }

func matchUser(u *entity.User, spec specification.Specification) bool {
	switch sp := spec.(type) {
	case specification.ByID:
		return u.Id == sp.ID
	case specification.ByIdentifier:
		return u.Identifier == sp.Identifier
	case specification.ByRole:
		return u.Role == sp.Role
	case specification.ActiveUsers:
		return u.IsActive
	case specification.HasScope:
		return u.Prodi != nil && u.Angkatan != nil
	case specification.UserInScope:
		sc := u.Scope()
		if sp.Scope.Prodi != "" && sc.Prodi != sp.Scope.Prodi {
			return false
		}
		if sp.Scope.Angkatan != "" && sc.Angkatan != sp.Scope.Angkatan {
			return false
		}
		return true
	case specification.OrderBy, specification.Pagination:
		return true
	default:
		panic(fmt.Sprintf("unitofworktest: unsupported user specification %T", spec))
	}
}

func (r *userRepo) filter(specs []specification.Specification) []*entity.User {
	var res []*entity.User
	for _, u := range r.s.Users {
		// soft-deleted rows are invisible, as with gorm.DeletedAt
		if u.DeletedAt != nil {
			continue
		}
		ok := true
		for _, spec := range specs {
			if !matchUser(u, spec) {
				ok = false
				break
			}
		}
		if ok {
			res = append(res, u)
		}
	}
	for _, spec := range specs {
		if ob, isOrder := spec.(specification.OrderBy); isOrder && ob.Field == "created_at" {
			sort.SliceStable(res, func(i, j int) bool {
				if ob.Desc {
					return res[i].CreatedAt.After(res[j].CreatedAt)
				}
				return res[i].CreatedAt.Before(res[j].CreatedAt)
			})
		}
	}
	return res
}

func (r *userRepo) Create(ctx context.Context, user *entity.User) error {
	if hook := r.s.BeforeUserCreate; hook != nil {
		hook(r.s)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	for _, u := range r.s.Users {
		if u.Identifier == user.Identifier {
			return &contract.UniqueViolationError{Constraint: model.IdentifierIndexName, Err: fmt.Errorf("duplicate identifier")}
		}
		if user.Role == entity.UserRoleOperator && u.Role == entity.UserRoleOperator &&
			u.Usable() && user.IsActive && u.Scope() == user.Scope() {
			return &contract.UniqueViolationError{Constraint: model.OperatorScopeIndexName, Err: fmt.Errorf("duplicate scope")}
		}
	}
	cp := *user
	r.s.Users = append(r.s.Users, &cp)
	return nil
}

func (r *userRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	res := r.filter(specs)
	if len(res) == 0 {
		return nil, nil
	}
	cp := *res[0]
	return &cp, nil
}

func (r *userRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	return r.filter(specs), nil
}

func (r *userRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	return int64(len(r.filter(specs))), nil
}

func (r *userRepo) UpdatePassword(ctx context.Context, userId uuid.UUID, hash string, mustChange bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	for i, u := range r.s.Users {
		if u.Id == userId {
			cp := *u
			cp.PasswordHash = hash
			cp.MustChangePassword = mustChange
			r.s.Users[i] = &cp
		}
	}
	return nil
}

func (r *userRepo) Students(ctx context.Context, sc entity.Scope) ([]*entity.StudentSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	users := r.filter([]specification.Specification{
		specification.ByRole{Role: entity.UserRoleUser},
		specification.UserInScope{Scope: sc},
	})
	sort.SliceStable(users, func(i, j int) bool { return users[i].Name < users[j].Name })

	res := make([]*entity.StudentSummary, 0, len(users))
	for _, u := range users {
		res = append(res, &entity.StudentSummary{User: u, Balance: r.s.Balances[u.Id]})
	}
	return res, nil
}

func (r *userRepo) OperatorScopes(ctx context.Context) ([]entity.Scope, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	ops := r.filter([]specification.Specification{
		specification.ByRole{Role: entity.UserRoleOperator},
		specification.ActiveUsers{},
		specification.HasScope{},
	})
	scopes := make([]entity.Scope, 0, len(ops))
	for _, u := range ops {
		scopes = append(scopes, entity.Scope{Prodi: *u.Prodi, Angkatan: *u.Angkatan})
	}
	sort.SliceStable(scopes, func(i, j int) bool {
		if scopes[i].Prodi != scopes[j].Prodi {
			return scopes[i].Prodi < scopes[j].Prodi
		}
		return scopes[i].Angkatan > scopes[j].Angkatan
	})
	return scopes, nil
}

// --- tagihan ---

type tagihanRepo struct{ s *Store }

func (r *tagihanRepo) filter(specs []specification.Specification) []*entity.Tagihan {
	var res []*entity.Tagihan
	for _, t := range r.s.Tagihan {
		ok := true
		for _, spec := range specs {
			switch sp := spec.(type) {
			case specification.TagihanInScope:
				if sp.Scope.Prodi != "" && t.ProdiTarget != sp.Scope.Prodi {
					ok = false
				}
				if sp.Scope.Angkatan != "" && t.AngkatanTarget != sp.Scope.Angkatan {
					ok = false
				}
			case specification.ByID:
				ok = ok && t.Id == sp.ID
			default:
				panic(fmt.Sprintf("unitofworktest: unsupported tagihan specification %T", spec))
			}
		}
		if ok {
			res = append(res, t)
		}
	}
	return res
}

func (r *tagihanRepo) Create(ctx context.Context, tagihan *entity.Tagihan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	cp := *tagihan
	r.s.Tagihan = append(r.s.Tagihan, &cp)
	return nil
}

func (r *tagihanRepo) FindPage(ctx context.Context, offset, limit int, specs ...specification.Specification) ([]*entity.TagihanListItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	rows := r.filter(specs)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })

	if offset > len(rows) {
		offset = len(rows)
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}

	items := make([]*entity.TagihanListItem, 0, end-offset)
	for _, t := range rows[offset:end] {
		item := &entity.TagihanListItem{Tagihan: t}
		for _, u := range r.s.Users {
			if u.Id == t.CreatedByOperatorId {
				item.CreatedByName = u.Name
			}
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *tagihanRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	return int64(len(r.filter(specs))), nil
}

// --- pembayaran ---

type pembayaranRepo struct{ s *Store }

func (r *pembayaranRepo) CountsByTagihan(ctx context.Context, tagihanIds []uuid.UUID) (map[uuid.UUID]entity.PaymentCounts, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	wanted := make(map[uuid.UUID]bool, len(tagihanIds))
	for _, id := range tagihanIds {
		wanted[id] = true
	}
	counts := make(map[uuid.UUID]entity.PaymentCounts)
	for _, p := range r.s.Pembayaran {
		if !wanted[p.TagihanId] {
			continue
		}
		c := counts[p.TagihanId]
		c.Total++
		if p.Status == entity.PembayaranSuccess {
			c.Paid++
		}
		counts[p.TagihanId] = c
	}
	return counts, nil
}

func (r *pembayaranRepo) PayersSince(ctx context.Context, userIds []uuid.UUID, since time.Time) (map[uuid.UUID]bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	wanted := make(map[uuid.UUID]bool, len(userIds))
	for _, id := range userIds {
		wanted[id] = true
	}
	payers := make(map[uuid.UUID]bool)
	for _, p := range r.s.Pembayaran {
		if wanted[p.UserId] && p.Status == entity.PembayaranSuccess && !p.CreatedAt.Before(since) {
			payers[p.UserId] = true
		}
	}
	return payers, nil
}

func (r *pembayaranRepo) DailySuccessTotals(ctx context.Context, filter contract.PaymentFilter, from, to time.Time) ([]entity.DailyAmount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	prodiOf := make(map[uuid.UUID]string, len(r.s.Users))
	for _, u := range r.s.Users {
		prodiOf[u.Id] = u.Scope().Prodi
	}

	totals := make(map[string]int64)
	for _, p := range r.s.Pembayaran {
		if p.Status != entity.PembayaranSuccess || p.CreatedAt.Before(from) || !p.CreatedAt.Before(to) {
			continue
		}
		if filter.UserId != nil && p.UserId != *filter.UserId {
			continue
		}
		if filter.Prodi != "" && prodiOf[p.UserId] != filter.Prodi {
			continue
		}
		totals[p.CreatedAt.In(from.Location()).Format("2006-01-02")] += p.Amount
	}

	res := make([]entity.DailyAmount, 0, len(totals))
	for date, amount := range totals {
		res = append(res, entity.DailyAmount{Date: date, Amount: amount})
	}
	sort.Slice(res, func(i, j int) bool { return strings.Compare(res[i].Date, res[j].Date) < 0 })
	return res, nil
}

// --- balances ---

type balanceRepo struct{ s *Store }

func (r *balanceRepo) FindByUserId(ctx context.Context, userId uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	return r.s.Balances[userId], nil
}

func (r *balanceRepo) SumByProdi(ctx context.Context, prodi string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	var total int64
	for _, u := range r.s.Users {
		if u.Usable() && u.Scope().Prodi == prodi {
			total += r.s.Balances[u.Id]
		}
	}
	return total, nil
}

// --- audit ---

type auditRepo struct{ s *Store }

func (r *auditRepo) Create(ctx context.Context, log *entity.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if log.Id == uuid.Nil {
		log.Id = uuid.New()
	}
	cp := *log
	r.s.AuditLogs = append(r.s.AuditLogs, &cp)
	return nil
}
