package service

import (
	"testing"

	"yachai_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAchievementStore 内存版成就存储
type fakeAchievementStore struct {
	created []model.Achievement
}

func (f *fakeAchievementStore) Create(a *model.Achievement) error {
	f.created = append(f.created, *a)
	return nil
}

func (f *fakeAchievementStore) ListByUser(userID uint) ([]model.Achievement, error) {
	return f.created, nil
}

func (f *fakeAchievementStore) HasType(userID uint, achievementType string) (bool, error) {
	for _, a := range f.created {
		if a.UserID == userID && a.Type == achievementType {
			return true, nil
		}
	}
	return false, nil
}

func achievementTypes(list []model.Achievement) []string {
	types := make([]string, 0, len(list))
	for _, a := range list {
		types = append(types, a.Type)
	}
	return types
}

func TestCheckAfterGame_FirstGame(t *testing.T) {
	svc := NewAchievementService(&fakeAchievementStore{})

	unlocked := svc.CheckAfterGame(1, &model.UserStatistics{UserID: 1, GamesPlayed: 1}, 20)
	assert.Equal(t, []string{AchievementFirstGame}, achievementTypes(unlocked))
}

func TestCheckAfterGame_PerfectScoreNeedsRawHundred(t *testing.T) {
	svc := NewAchievementService(&fakeAchievementStore{})

	// 满分30的一局（100%）不够，看的是单局原始得分
	unlocked := svc.CheckAfterGame(1, &model.UserStatistics{UserID: 1, GamesPlayed: 2}, 30)
	assert.NotContains(t, achievementTypes(unlocked), AchievementPerfectScore)

	unlocked = svc.CheckAfterGame(1, &model.UserStatistics{UserID: 1, GamesPlayed: 3}, 100)
	assert.Contains(t, achievementTypes(unlocked), AchievementPerfectScore)
}

func TestCheckAfterGame_VeteranAtTenGames(t *testing.T) {
	store := &fakeAchievementStore{}
	svc := NewAchievementService(store)

	unlocked := svc.CheckAfterGame(1, &model.UserStatistics{UserID: 1, GamesPlayed: 9}, 0)
	assert.NotContains(t, achievementTypes(unlocked), AchievementVeteran)

	unlocked = svc.CheckAfterGame(1, &model.UserStatistics{UserID: 1, GamesPlayed: 10}, 0)
	assert.Contains(t, achievementTypes(unlocked), AchievementVeteran)
}

func TestCheckAfterGame_NoDuplicateGrants(t *testing.T) {
	store := &fakeAchievementStore{}
	svc := NewAchievementService(store)

	first := svc.CheckAfterGame(1, &model.UserStatistics{UserID: 1, GamesPlayed: 1}, 0)
	require.Len(t, first, 1)

	second := svc.CheckAfterGame(1, &model.UserStatistics{UserID: 1, GamesPlayed: 2}, 0)
	assert.Empty(t, second)
	assert.Len(t, store.created, 1)
}
