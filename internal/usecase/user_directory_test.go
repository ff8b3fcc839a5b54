package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/xebia-france/xskillz-v2/internal/domain/user"

	"github.com/stretchr/testify/require"
)

func TestAddUserAndGetUsers(t *testing.T) {
	ctx := context.Background()
	dir := NewUserDirectory(newFakeUserRepo())

	id, err := dir.AddUser(ctx, "jsmadja@xebia.fr", "Julien Smadja", "secret")
	require.NoError(t, err)
	require.Positive(t, id)

	users, err := dir.GetUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, "jsmadja@xebia.fr", users[0].Email)
	require.Equal(t, "Julien Smadja", users[0].Name)
	require.Equal(t, "julien-smadja", users[0].ReadableID())
	require.Empty(t, users[0].PasswordHash, "listing must not expose credentials")
}

func TestAddUserDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	dir := NewUserDirectory(newFakeUserRepo())

	_, err := dir.AddUser(ctx, "jsmadja@xebia.fr", "Julien Smadja", "secret")
	require.NoError(t, err)

	_, err = dir.AddUser(ctx, "jsmadja@xebia.fr", "Someone Else", "other")
	require.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestAddUserRejectsBlankFields(t *testing.T) {
	ctx := context.Background()
	dir := NewUserDirectory(newFakeUserRepo())

	_, err := dir.AddUser(ctx, "", "Name", "secret")
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = dir.AddUser(ctx, "a@b", "  ", "secret")
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = dir.AddUser(ctx, "a@b", "Name", "")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	dir := NewUserDirectory(newFakeUserRepo())

	id, err := dir.AddUser(ctx, "blacroix@xebia.fr", "Benjamin Lacroix", "password")
	require.NoError(t, err)

	u, err := dir.Authenticate(ctx, "blacroix@xebia.fr", "password")
	require.NoError(t, err)
	require.Equal(t, id, u.ID)
	require.Empty(t, u.PasswordHash)

	// Wrong password and unknown email answer the same way.
	_, err = dir.Authenticate(ctx, "blacroix@xebia.fr", "wrong")
	require.ErrorIs(t, err, user.ErrNotFound)
	_, err = dir.Authenticate(ctx, "nobody@xebia.fr", "password")
	require.ErrorIs(t, err, user.ErrNotFound)
}

func TestAuthenticateEmailIsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	dir := NewUserDirectory(newFakeUserRepo())

	_, err := dir.AddUser(ctx, "blacroix@xebia.fr", "Benjamin Lacroix", "password")
	require.NoError(t, err)

	_, err = dir.Authenticate(ctx, "BLacroix@xebia.fr", "password")
	require.ErrorIs(t, err, user.ErrNotFound)
}

func TestAuthenticateFailuresAreUniform(t *testing.T) {
	ctx := context.Background()
	dir := NewUserDirectory(newFakeUserRepo())

	_, err := dir.AddUser(ctx, "blacroix@xebia.fr", "Benjamin Lacroix", "password")
	require.NoError(t, err)

	_, errUnknown := dir.Authenticate(ctx, "nobody@xebia.fr", "password")
	_, errWrong := dir.Authenticate(ctx, "blacroix@xebia.fr", "wrong")
	require.ErrorIs(t, errUnknown, user.ErrNotFound)
	require.Equal(t, errWrong, errUnknown, "both failure branches answer the identical error")
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	dir := NewUserDirectory(newFakeUserRepo())

	id, err := dir.AddUser(ctx, "jsmadja@xebia.fr", "Julien Smadja", "old-pass")
	require.NoError(t, err)

	require.ErrorIs(t, dir.ChangePassword(ctx, id, "not-the-old-one", "new-pass"), ErrInvalidCredentials)
	require.NoError(t, dir.ChangePassword(ctx, id, "old-pass", "new-pass"))

	_, err = dir.AuthenticateByID(ctx, id, "old-pass")
	require.ErrorIs(t, err, user.ErrNotFound)
	_, err = dir.AuthenticateByID(ctx, id, "new-pass")
	require.NoError(t, err)
}

func TestUpdateUserPartial(t *testing.T) {
	ctx := context.Background()
	dir := NewUserDirectory(newFakeUserRepo())

	id, err := dir.AddUser(ctx, "jsmadja@xebia.fr", "Julien Smadja", "secret")
	require.NoError(t, err)

	diploma := time.Date(2015, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, dir.UpdateUser(ctx, id, user.Update{Diploma: &diploma}))

	u, err := dir.FindByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, u.Diploma)
	require.True(t, u.Diploma.Equal(diploma))
	require.Equal(t, "jsmadja@xebia.fr", u.Email, "untouched fields keep their values")
	require.Equal(t, "Julien Smadja", u.Name)

	require.ErrorIs(t, dir.UpdateUser(ctx, id, user.Update{}), ErrInvalidInput)
}

func TestUpdateUserDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	dir := NewUserDirectory(newFakeUserRepo())

	_, err := dir.AddUser(ctx, "jsmadja@xebia.fr", "Julien Smadja", "secret")
	require.NoError(t, err)
	id2, err := dir.AddUser(ctx, "blacroix@xebia.fr", "Benjamin Lacroix", "secret")
	require.NoError(t, err)

	taken := "jsmadja@xebia.fr"
	require.ErrorIs(t, dir.UpdateUser(ctx, id2, user.Update{Email: &taken}), ErrDuplicateEmail)
}

func TestFindByReadableID(t *testing.T) {
	ctx := context.Background()
	dir := NewUserDirectory(newFakeUserRepo())

	id, err := dir.AddUser(ctx, "jsmadja@xebia.fr", "Julien Smadja", "secret")
	require.NoError(t, err)

	u, err := dir.FindByReadableID(ctx, "julien-smadja")
	require.NoError(t, err)
	require.Equal(t, id, u.ID)
	require.Empty(t, u.PasswordHash)

	_, err = dir.FindByReadableID(ctx, "no-such-user")
	require.ErrorIs(t, err, user.ErrNotFound)
}

func TestAddRoleIdempotent(t *testing.T) {
	ctx := context.Background()
	dir := NewUserDirectory(newFakeUserRepo())

	id, err := dir.AddUser(ctx, "jsmadja@xebia.fr", "Julien Smadja", "secret")
	require.NoError(t, err)

	require.NoError(t, dir.AddRole(ctx, id, "manager"))
	require.NoError(t, dir.AddRole(ctx, id, "manager"))

	roles, err := dir.RolesOf(ctx, id)
	require.NoError(t, err)
	require.Equal(t, []string{"manager"}, roles)

	require.ErrorIs(t, dir.AddRole(ctx, 9999, "manager"), ErrUnknownReference)
	require.ErrorIs(t, dir.AddRole(ctx, id, "  "), ErrInvalidInput)
}

func TestUsersWithRole(t *testing.T) {
	ctx := context.Background()
	dir := NewUserDirectory(newFakeUserRepo())

	id1, err := dir.AddUser(ctx, "jsmadja@xebia.fr", "Julien Smadja", "secret")
	require.NoError(t, err)
	_, err = dir.AddUser(ctx, "blacroix@xebia.fr", "Benjamin Lacroix", "secret")
	require.NoError(t, err)
	require.NoError(t, dir.AddRole(ctx, id1, "manager"))

	users, err := dir.UsersWithRole(ctx, "manager")
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, id1, users[0].ID)
	require.Empty(t, users[0].PasswordHash)

	web, err := dir.WebUsersWithRole(ctx, "manager")
	require.NoError(t, err)
	require.Equal(t, []user.WebUser{{ID: id1, Name: "Julien Smadja", Email: "jsmadja@xebia.fr"}}, web)
}

func TestAssignManager(t *testing.T) {
	ctx := context.Background()
	dir := NewUserDirectory(newFakeUserRepo())

	managerID, err := dir.AddUser(ctx, "jsmadja@xebia.fr", "Julien Smadja", "secret")
	require.NoError(t, err)
	userID, err := dir.AddUser(ctx, "blacroix@xebia.fr", "Benjamin Lacroix", "secret")
	require.NoError(t, err)

	require.ErrorIs(t, dir.AssignManager(ctx, userID, userID), ErrSelfManagement)
	require.ErrorIs(t, dir.AssignManager(ctx, userID, 9999), ErrUnknownReference)
	require.NoError(t, dir.AssignManager(ctx, userID, managerID))

	u, err := dir.FindByID(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, u.ManagerID)
	require.Equal(t, managerID, *u.ManagerID)
}

func TestAssignManagerRejectsCycles(t *testing.T) {
	ctx := context.Background()
	dir := NewUserDirectory(newFakeUserRepo())

	a, err := dir.AddUser(ctx, "a@xebia.fr", "User A", "secret")
	require.NoError(t, err)
	b, err := dir.AddUser(ctx, "b@xebia.fr", "User B", "secret")
	require.NoError(t, err)
	c, err := dir.AddUser(ctx, "c@xebia.fr", "User C", "secret")
	require.NoError(t, err)

	// a -> b -> c; closing the loop at any depth is refused.
	require.NoError(t, dir.AssignManager(ctx, a, b))
	require.NoError(t, dir.AssignManager(ctx, b, c))
	require.ErrorIs(t, dir.AssignManager(ctx, b, a), ErrManagementCycle)
	require.ErrorIs(t, dir.AssignManager(ctx, c, a), ErrManagementCycle)

	u, err := dir.FindByID(ctx, c)
	require.NoError(t, err)
	require.Nil(t, u.ManagerID, "refused assignment must not be applied")

	// Re-parenting inside the tree stays legal.
	require.NoError(t, dir.AssignManager(ctx, a, c))
}

func TestManagementOrdering(t *testing.T) {
	ctx := context.Background()
	dir := NewUserDirectory(newFakeUserRepo())

	managerID, err := dir.AddUser(ctx, "jsmadja@xebia.fr", "Julien Smadja", "secret")
	require.NoError(t, err)
	managedID, err := dir.AddUser(ctx, "blacroix@xebia.fr", "Benjamin Lacroix", "secret")
	require.NoError(t, err)
	require.NoError(t, dir.AssignManager(ctx, managedID, managerID))

	rows, err := dir.Management(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Managed users come first, top-level managers close the listing.
	require.Equal(t, managedID, rows[0].UserID)
	require.NotNil(t, rows[0].ManagerID)
	require.Equal(t, managerID, *rows[0].ManagerID)
	require.Equal(t, "Julien Smadja", *rows[0].ManagerName)

	require.Equal(t, managerID, rows[1].UserID)
	require.Nil(t, rows[1].ManagerID)
	require.Nil(t, rows[1].ManagerName)
}

func TestDeleteUserDetachesReports(t *testing.T) {
	ctx := context.Background()
	dir := NewUserDirectory(newFakeUserRepo())

	managerID, err := dir.AddUser(ctx, "jsmadja@xebia.fr", "Julien Smadja", "secret")
	require.NoError(t, err)
	managedID, err := dir.AddUser(ctx, "blacroix@xebia.fr", "Benjamin Lacroix", "secret")
	require.NoError(t, err)
	require.NoError(t, dir.AssignManager(ctx, managedID, managerID))

	require.NoError(t, dir.DeleteUser(ctx, managerID))
	require.ErrorIs(t, dir.DeleteUser(ctx, managerID), user.ErrNotFound)

	u, err := dir.FindByID(ctx, managedID)
	require.NoError(t, err)
	require.Nil(t, u.ManagerID, "reports of a removed manager become top-level")
}

func TestUpdateEmployeeStartDate(t *testing.T) {
	ctx := context.Background()
	dir := NewUserDirectory(newFakeUserRepo())

	id, err := dir.AddUser(ctx, "jsmadja@xebia.fr", "Julien Smadja", "secret")
	require.NoError(t, err)

	require.ErrorIs(t, dir.UpdateEmployeeStartDate(ctx, id, time.Time{}), ErrInvalidInput)

	start := time.Date(2012, 9, 3, 0, 0, 0, 0, time.UTC)
	require.NoError(t, dir.UpdateEmployeeStartDate(ctx, id, start))

	u, err := dir.FindByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, u.EmployeeStartDate)
	require.True(t, u.EmployeeStartDate.Equal(start))
}

func TestUpdatePhoneAndAddress(t *testing.T) {
	ctx := context.Background()
	dir := NewUserDirectory(newFakeUserRepo())

	id, err := dir.AddUser(ctx, "jsmadja@xebia.fr", "Julien Smadja", "secret")
	require.NoError(t, err)

	require.NoError(t, dir.UpdatePhone(ctx, id, "01.23.45.67.89"))
	require.NoError(t, dir.UpdateAddress(ctx, id, `156 boulevard "Haussmann" Paris`))

	u, err := dir.FindByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "01.23.45.67.89", *u.Phone)
	// Quotes and other punctuation are stored verbatim.
	require.Equal(t, `156 boulevard "Haussmann" Paris`, *u.Address)
}
