package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/xebia-france/xskillz-v2/internal/domain/skill"
	"github.com/xebia-france/xskillz-v2/internal/domain/user"

	"github.com/jackc/pgx/v5/pgconn"
)

func uniqueViolation() error     { return &pgconn.PgError{Code: "23505"} }
func foreignKeyViolation() error { return &pgconn.PgError{Code: "23503"} }

// fakeUserRepo is an in-memory UserRepository honoring the same constraint
// semantics as the Postgres schema: unique emails, foreign-key managers,
// idempotent role grants.
type fakeUserRepo struct {
	users  map[int64]user.User
	roles  map[int64]map[string]bool
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users: map[int64]user.User{},
		roles: map[int64]map[string]bool{},
	}
}

func (f *fakeUserRepo) Create(_ context.Context, email, name, passwordHash string) (int64, error) {
	for _, u := range f.users {
		if u.Email == email {
			return 0, uniqueViolation()
		}
	}
	f.nextID++
	now := time.Now()
	f.users[f.nextID] = user.User{
		ID: f.nextID, Email: email, Name: name, PasswordHash: passwordHash,
		CreatedAt: now, UpdatedAt: now,
	}
	return f.nextID, nil
}

func (f *fakeUserRepo) List(context.Context) ([]user.User, error) {
	out := make([]user.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id int64) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (f *fakeUserRepo) FindByReadableID(ctx context.Context, slug string) (user.User, error) {
	all, _ := f.List(ctx)
	for _, u := range all {
		if u.ReadableID() == slug {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, id int64, upd user.Update) error {
	u, ok := f.users[id]
	if !ok {
		return user.ErrNotFound
	}
	if upd.Email != nil {
		for _, other := range f.users {
			if other.ID != id && other.Email == *upd.Email {
				return uniqueViolation()
			}
		}
		u.Email = *upd.Email
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Address != nil {
		u.Address = upd.Address
	}
	if upd.Diploma != nil {
		u.Diploma = upd.Diploma
	}
	if upd.Phone != nil {
		u.Phone = upd.Phone
	}
	f.users[id] = u
	return nil
}

func (f *fakeUserRepo) UpdatePhone(_ context.Context, id int64, phone string) error {
	u, ok := f.users[id]
	if !ok {
		return user.ErrNotFound
	}
	u.Phone = &phone
	f.users[id] = u
	return nil
}

func (f *fakeUserRepo) UpdateAddress(_ context.Context, id int64, address string) error {
	u, ok := f.users[id]
	if !ok {
		return user.ErrNotFound
	}
	u.Address = &address
	f.users[id] = u
	return nil
}

func (f *fakeUserRepo) UpdateEmployeeStartDate(_ context.Context, id int64, date time.Time) error {
	u, ok := f.users[id]
	if !ok {
		return user.ErrNotFound
	}
	u.EmployeeStartDate = &date
	f.users[id] = u
	return nil
}

func (f *fakeUserRepo) UpdatePasswordHash(_ context.Context, id int64, hash string) error {
	u, ok := f.users[id]
	if !ok {
		return user.ErrNotFound
	}
	u.PasswordHash = hash
	f.users[id] = u
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.users[id]; !ok {
		return user.ErrNotFound
	}
	delete(f.users, id)
	delete(f.roles, id)
	for uid, u := range f.users {
		if u.ManagerID != nil && *u.ManagerID == id {
			u.ManagerID = nil
			f.users[uid] = u
		}
	}
	return nil
}

func (f *fakeUserRepo) AddRole(_ context.Context, userID int64, role string) error {
	if _, ok := f.users[userID]; !ok {
		return foreignKeyViolation()
	}
	if f.roles[userID] == nil {
		f.roles[userID] = map[string]bool{}
	}
	f.roles[userID][role] = true
	return nil
}

func (f *fakeUserRepo) RolesOf(_ context.Context, userID int64) ([]string, error) {
	out := make([]string, 0, len(f.roles[userID]))
	for r := range f.roles[userID] {
		out = append(out, r)
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeUserRepo) UsersWithRole(ctx context.Context, role string) ([]user.User, error) {
	all, _ := f.List(ctx)
	out := make([]user.User, 0)
	for _, u := range all {
		if f.roles[u.ID][role] {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) WebUsersWithRole(ctx context.Context, role string) ([]user.WebUser, error) {
	withRole, _ := f.UsersWithRole(ctx, role)
	out := make([]user.WebUser, 0, len(withRole))
	for _, u := range withRole {
		out = append(out, user.WebUser{ID: u.ID, Name: u.Name, Email: u.Email})
	}
	return out, nil
}

func (f *fakeUserRepo) AssignManager(_ context.Context, userID, managerID int64) error {
	if _, ok := f.users[managerID]; !ok {
		return foreignKeyViolation()
	}
	u, ok := f.users[userID]
	if !ok {
		return user.ErrNotFound
	}
	for id := &managerID; id != nil; {
		if *id == userID {
			return user.ErrManagementCycle
		}
		m, ok := f.users[*id]
		if !ok {
			break
		}
		id = m.ManagerID
	}
	u.ManagerID = &managerID
	f.users[userID] = u
	return nil
}

func (f *fakeUserRepo) Management(ctx context.Context) ([]user.ManagementRow, error) {
	all, _ := f.List(ctx)
	managed := make([]user.ManagementRow, 0)
	topLevel := make([]user.ManagementRow, 0)
	for _, u := range all {
		row := user.ManagementRow{UserID: u.ID, UserName: u.Name}
		if u.ManagerID != nil {
			if m, ok := f.users[*u.ManagerID]; ok {
				row.ManagerID = u.ManagerID
				name := m.Name
				row.ManagerName = &name
			}
			managed = append(managed, row)
			continue
		}
		topLevel = append(topLevel, row)
	}
	return append(managed, topLevel...), nil
}

type assignmentKey struct {
	userID  int64
	skillID int64
}

// fakeSkillRepo mirrors the upsert and join behavior of the Postgres skill
// repository. When users is non-nil the fake enforces the user foreign key
// and joins user email and name into the update feed.
type fakeSkillRepo struct {
	skills      map[int64]skill.Skill
	assignments map[assignmentKey]skill.Assignment
	users       *fakeUserRepo
	nextID      int64
	seq         int64
}

func newFakeSkillRepo(users *fakeUserRepo) *fakeSkillRepo {
	return &fakeSkillRepo{
		skills:      map[int64]skill.Skill{},
		assignments: map[assignmentKey]skill.Assignment{},
		users:       users,
	}
}

func (f *fakeSkillRepo) Create(_ context.Context, name string) (skill.Skill, error) {
	for _, s := range f.skills {
		if s.Name == name {
			return skill.Skill{}, uniqueViolation()
		}
	}
	f.nextID++
	s := skill.Skill{ID: f.nextID, Name: name, CreatedAt: time.Now()}
	f.skills[s.ID] = s
	return s, nil
}

func (f *fakeSkillRepo) FindByName(_ context.Context, name string) (skill.Skill, error) {
	for _, s := range f.skills {
		if s.Name == name {
			return s, nil
		}
	}
	return skill.Skill{}, skill.ErrNotFound
}

func (f *fakeSkillRepo) List(context.Context) ([]skill.Skill, error) {
	out := make([]skill.Skill, 0, len(f.skills))
	for _, s := range f.skills {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeSkillRepo) Assign(_ context.Context, userID, skillID int64, interested bool, level int) error {
	s, ok := f.skills[skillID]
	if !ok {
		return foreignKeyViolation()
	}
	if f.users != nil && !f.users.exists(userID) {
		return foreignKeyViolation()
	}

	f.seq++
	key := assignmentKey{userID: userID, skillID: skillID}
	a, exists := f.assignments[key]
	if !exists {
		a = skill.Assignment{ID: f.seq, UserID: userID, SkillID: skillID, SkillName: s.Name}
	}
	a.Interested = interested
	a.Level = level
	a.UpdatedAt = time.Unix(f.seq, 0)
	f.assignments[key] = a
	return nil
}

func (f *fakeSkillRepo) FindByUserID(_ context.Context, userID int64) ([]skill.Assignment, error) {
	out := make([]skill.Assignment, 0)
	for _, a := range f.assignments {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SkillName < out[j].SkillName })
	return out, nil
}

func (f *fakeSkillRepo) HoldersBySkill(_ context.Context, skillID int64) ([]skill.Holder, error) {
	out := make([]skill.Holder, 0)
	for _, a := range f.assignments {
		if a.SkillID == skillID {
			out = append(out, skill.Holder{ID: a.UserID})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeSkillRepo) UpdateFeed(context.Context) ([]skill.UpdateEntry, error) {
	items := make([]skill.Assignment, 0, len(f.assignments))
	for _, a := range f.assignments {
		items = append(items, a)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].UpdatedAt.After(items[j].UpdatedAt) })

	out := make([]skill.UpdateEntry, 0, len(items))
	for _, a := range items {
		entry := skill.UpdateEntry{
			SkillLevel: a.Level,
			SkillName:  a.SkillName,
			UpdatedAt:  a.UpdatedAt,
		}
		if f.users != nil {
			if u, ok := f.users.users[a.UserID]; ok {
				entry.UserEmail = u.Email
				entry.UserName = u.Name
			}
		}
		out = append(out, entry)
	}
	return out, nil
}

func (f *fakeUserRepo) exists(id int64) bool {
	_, ok := f.users[id]
	return ok
}
