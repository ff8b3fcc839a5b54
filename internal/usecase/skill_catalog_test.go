package usecase

import (
	"context"
	"testing"

	"github.com/xebia-france/xskillz-v2/internal/domain/skill"

	"github.com/stretchr/testify/require"
)

func TestAddSkill(t *testing.T) {
	ctx := context.Background()
	catalog := NewSkillCatalog(newFakeSkillRepo(nil))

	created, err := catalog.AddSkill(ctx, "Docker")
	require.NoError(t, err)
	require.Positive(t, created.ID)
	require.Equal(t, "Docker", created.Name)

	_, err = catalog.AddSkill(ctx, "Docker")
	require.ErrorIs(t, err, ErrDuplicateSkillName)

	_, err = catalog.AddSkill(ctx, "   ")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestSkillNamesAreCaseSensitive(t *testing.T) {
	ctx := context.Background()
	catalog := NewSkillCatalog(newFakeSkillRepo(nil))

	_, err := catalog.AddSkill(ctx, "Docker")
	require.NoError(t, err)
	_, err = catalog.AddSkill(ctx, "docker")
	require.NoError(t, err)

	skills, err := catalog.ListSkills(ctx)
	require.NoError(t, err)
	require.Len(t, skills, 2)

	_, err = catalog.FindSkillByName(ctx, "DOCKER")
	require.ErrorIs(t, err, skill.ErrNotFound)
}

func TestAssignSkillUpsert(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	catalog := NewSkillCatalog(newFakeSkillRepo(users))
	dir := NewUserDirectory(users)

	userID, err := dir.AddUser(ctx, "jsmadja@xebia.fr", "Julien Smadja", "secret")
	require.NoError(t, err)
	docker, err := catalog.AddSkill(ctx, "Docker")
	require.NoError(t, err)

	require.NoError(t, catalog.AssignSkill(ctx, AssignSkillInput{
		UserID: userID, SkillID: docker.ID, Interested: true, Level: 1,
	}))
	// Re-assigning replaces the row instead of adding a second one.
	require.NoError(t, catalog.AssignSkill(ctx, AssignSkillInput{
		UserID: userID, SkillID: docker.ID, Interested: false, Level: 3,
	}))

	assignments, err := catalog.UserSkills(ctx, userID)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	require.Equal(t, "Docker", assignments[0].SkillName)
	require.Equal(t, 3, assignments[0].Level)
	require.False(t, assignments[0].Interested)
}

func TestAssignSkillUnknownReferences(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	catalog := NewSkillCatalog(newFakeSkillRepo(users))
	dir := NewUserDirectory(users)

	userID, err := dir.AddUser(ctx, "jsmadja@xebia.fr", "Julien Smadja", "secret")
	require.NoError(t, err)
	docker, err := catalog.AddSkill(ctx, "Docker")
	require.NoError(t, err)

	err = catalog.AssignSkill(ctx, AssignSkillInput{UserID: 9999, SkillID: docker.ID, Level: 1})
	require.ErrorIs(t, err, ErrUnknownReference)
	err = catalog.AssignSkill(ctx, AssignSkillInput{UserID: userID, SkillID: 9999, Level: 1})
	require.ErrorIs(t, err, ErrUnknownReference)
	err = catalog.AssignSkill(ctx, AssignSkillInput{UserID: 0, SkillID: docker.ID, Level: 1})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestAssignSkillLevelIsOpaque(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	catalog := NewSkillCatalog(newFakeSkillRepo(users))
	dir := NewUserDirectory(users)

	userID, err := dir.AddUser(ctx, "jsmadja@xebia.fr", "Julien Smadja", "secret")
	require.NoError(t, err)
	docker, err := catalog.AddSkill(ctx, "Docker")
	require.NoError(t, err)

	require.NoError(t, catalog.AssignSkill(ctx, AssignSkillInput{
		UserID: userID, SkillID: docker.ID, Level: -12,
	}))

	assignments, err := catalog.UserSkills(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, -12, assignments[0].Level)
}

func TestUsersBySkill(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	catalog := NewSkillCatalog(newFakeSkillRepo(users))
	dir := NewUserDirectory(users)

	id1, err := dir.AddUser(ctx, "jsmadja@xebia.fr", "Julien Smadja", "secret")
	require.NoError(t, err)
	id2, err := dir.AddUser(ctx, "blacroix@xebia.fr", "Benjamin Lacroix", "secret")
	require.NoError(t, err)

	docker, err := catalog.AddSkill(ctx, "Docker")
	require.NoError(t, err)
	golang, err := catalog.AddSkill(ctx, "Go")
	require.NoError(t, err)

	require.NoError(t, catalog.AssignSkill(ctx, AssignSkillInput{UserID: id1, SkillID: docker.ID, Level: 2}))
	require.NoError(t, catalog.AssignSkill(ctx, AssignSkillInput{UserID: id2, SkillID: docker.ID, Level: 1}))
	require.NoError(t, catalog.AssignSkill(ctx, AssignSkillInput{UserID: id2, SkillID: golang.ID, Level: 3}))

	holders, err := catalog.UsersBySkill(ctx, docker.ID)
	require.NoError(t, err)
	require.Len(t, holders, 2)

	holders, err = catalog.UsersBySkill(ctx, golang.ID)
	require.NoError(t, err)
	require.Len(t, holders, 1)
	require.Equal(t, id2, holders[0].ID)
}

func TestUpdateFeedMostRecentFirst(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	catalog := NewSkillCatalog(newFakeSkillRepo(users))
	dir := NewUserDirectory(users)

	id1, err := dir.AddUser(ctx, "jsmadja@xebia.fr", "Julien Smadja", "secret")
	require.NoError(t, err)
	id2, err := dir.AddUser(ctx, "blacroix@xebia.fr", "Benjamin Lacroix", "secret")
	require.NoError(t, err)

	docker, err := catalog.AddSkill(ctx, "Docker")
	require.NoError(t, err)
	golang, err := catalog.AddSkill(ctx, "Go")
	require.NoError(t, err)

	require.NoError(t, catalog.AssignSkill(ctx, AssignSkillInput{UserID: id1, SkillID: docker.ID, Level: 2}))
	require.NoError(t, catalog.AssignSkill(ctx, AssignSkillInput{UserID: id2, SkillID: golang.ID, Level: 3}))

	feed, err := catalog.UpdateFeed(ctx)
	require.NoError(t, err)
	require.Len(t, feed, 2)

	require.Equal(t, skill.UpdateEntry{
		SkillLevel: 3,
		SkillName:  "Go",
		UserEmail:  "blacroix@xebia.fr",
		UserName:   "Benjamin Lacroix",
		UpdatedAt:  feed[0].UpdatedAt,
	}, feed[0])
	require.Equal(t, "Docker", feed[1].SkillName)

	// Re-assigning an existing skill moves its entry back to the front.
	require.NoError(t, catalog.AssignSkill(ctx, AssignSkillInput{UserID: id1, SkillID: docker.ID, Level: 4}))

	feed, err = catalog.UpdateFeed(ctx)
	require.NoError(t, err)
	require.Len(t, feed, 2, "an upsert must not add a second feed entry")
	require.Equal(t, "Docker", feed[0].SkillName)
	require.Equal(t, 4, feed[0].SkillLevel)
	require.Equal(t, "jsmadja@xebia.fr", feed[0].UserEmail)
}
