package menu

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"tableside/internal/models"
)

type stubStore struct {
	items []models.MenuItem
	err   error
}

func (s *stubStore) ListItems(ctx context.Context) ([]models.MenuItem, error) {
	return s.items, s.err
}

func TestMenu_SectionsFollowDisplayOrder(t *testing.T) {
	store := &stubStore{items: []models.MenuItem{
		{ID: 1, Name: models.LocalizedText{"zh": "珍珠奶茶"}, Price: 65, Category: "drink", Available: true},
		{ID: 2, Name: models.LocalizedText{"zh": "紅燒牛肉麵"}, Price: 180, Category: "main", Available: true},
		{ID: 3, Name: models.LocalizedText{"zh": "豆花"}, Price: 50, Category: "dessert", Available: true},
		{ID: 4, Name: models.LocalizedText{"zh": "限定滷肉飯"}, Price: 90, Category: "limited", Available: true},
	}}

	sections, err := NewService(store).Menu(context.Background())
	require.NoError(t, err)

	var got []string
	for _, section := range sections {
		got = append(got, section.Category)
	}
	// Display order, not alphabetical: dessert and drink sort before
	// limited and main but must come after them.
	require.Equal(t, []string{"limited", "main", "drink", "dessert"}, got)
}

func TestMenu_UnknownCategoriesComeLast(t *testing.T) {
	store := &stubStore{items: []models.MenuItem{
		{ID: 1, Name: models.LocalizedText{"zh": "神秘小點"}, Price: 30, Category: "chef-special", Available: true},
		{ID: 2, Name: models.LocalizedText{"zh": "紅燒牛肉麵"}, Price: 180, Category: "main", Available: true},
		{ID: 3, Name: models.LocalizedText{"zh": "隱藏飲品"}, Price: 70, Category: "barista", Available: true},
	}}

	sections, err := NewService(store).Menu(context.Background())
	require.NoError(t, err)
	require.Len(t, sections, 3)
	require.Equal(t, "main", sections[0].Category)
	require.Equal(t, "barista", sections[1].Category)
	require.Equal(t, "chef-special", sections[2].Category)
}

func TestMenu_GroupsItemsWithinCategory(t *testing.T) {
	store := &stubStore{items: []models.MenuItem{
		{ID: 1, Name: models.LocalizedText{"zh": "紅燒牛肉麵"}, Price: 180, Category: "main", Available: true},
		{ID: 2, Name: models.LocalizedText{"zh": "陽春麵"}, Price: 80, Category: "main", Available: true},
	}}

	sections, err := NewService(store).Menu(context.Background())
	require.NoError(t, err)
	require.Len(t, sections, 1)
	require.Len(t, sections[0].Items, 2)
	require.Equal(t, 1, sections[0].Items[0].ID)
	require.Equal(t, 2, sections[0].Items[1].ID)
}

func TestMenu_StoreErrorPropagates(t *testing.T) {
	store := &stubStore{err: errors.New("connection lost")}

	_, err := NewService(store).Menu(context.Background())
	require.Error(t, err)
}
