package datastore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dlclark/regexp2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "nested", "stock.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stock.db")
	ctx := context.Background()

	s, err := NewStore(path, zerolog.Nop())
	require.NoError(t, err)
	_, err = s.AddProduct(ctx, NewProduct{Name: "gpu", URL: "https://shop.example/gpu", Indicator: "In stock"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := NewStore(path, zerolog.Nop())
	require.NoError(t, err)
	defer reopened.Close()

	products, err := reopened.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "gpu", products[0].Name)
	assert.False(t, products[0].CreatedAt.IsZero())
}

func TestStore_AddProduct(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p, err := s.AddProduct(ctx, NewProduct{Name: " gpu ", URL: "Shop.Example/gpu#reviews", Indicator: "In stock"})
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Equal(t, "gpu", p.Name)
	assert.Equal(t, "https://shop.example/gpu", p.URL)

	_, err = s.AddProduct(ctx, NewProduct{Name: "gpu", URL: "https://other.example/", Indicator: "x"})
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestStore_AddProductValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input NewProduct
		field string
	}{
		{name: "empty name", input: NewProduct{URL: "https://a.example/", Indicator: "x"}, field: "name"},
		{name: "bad scheme", input: NewProduct{Name: "p", URL: "ftp://a.example/", Indicator: "x"}, field: "url"},
		{name: "empty indicator", input: NewProduct{Name: "p", URL: "https://a.example/"}, field: "indicator"},
		{name: "invalid regex", input: NewProduct{Name: "p", URL: "https://a.example/", Indicator: "(", IsRegex: true}, field: "indicator"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.AddProduct(ctx, tt.input)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}

	// A literal indicator may contain regex metacharacters.
	_, err := s.AddProduct(ctx, NewProduct{Name: "literal", URL: "https://a.example/", Indicator: "("})
	assert.NoError(t, err)
}

func TestStore_RemoveProduct(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p, err := s.AddProduct(ctx, NewProduct{Name: "gpu", URL: "https://a.example/", Indicator: "x"})
	require.NoError(t, err)

	require.NoError(t, s.RemoveProduct(ctx, "gpu"))
	assert.ErrorIs(t, s.RemoveProduct(ctx, "gpu"), ErrNotFound)
	assert.ErrorIs(t, s.RemoveProductByID(ctx, p.ID), ErrNotFound)

	_, err = s.GetProduct(ctx, "gpu")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Users(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, err := s.AddUser(ctx, "alex", "123456789012345678")
	require.NoError(t, err)
	assert.Equal(t, "123456789012345678", u.DiscordID)

	_, err = s.AddUser(ctx, "other", "123456789012345678")
	assert.ErrorIs(t, err, ErrAlreadyExists)

	_, err = s.AddUser(ctx, "bad", "not-a-snowflake")
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	require.NoError(t, s.RemoveUser(ctx, "123456789012345678"))
	assert.ErrorIs(t, s.RemoveUser(ctx, "123456789012345678"), ErrNotFound)
}

func TestStore_Subscriptions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddProduct(ctx, NewProduct{Name: "gpu", URL: "https://a.example/", Indicator: "x"})
	require.NoError(t, err)
	_, err = s.AddUser(ctx, "alex", "111")
	require.NoError(t, err)
	_, err = s.AddUser(ctx, "sam", "222")
	require.NoError(t, err)

	added, err := s.Subscribe(ctx, "111", "gpu")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.Subscribe(ctx, "111", "gpu")
	require.NoError(t, err)
	assert.False(t, added, "repeated subscription is a no-op")

	_, err = s.Subscribe(ctx, "222", "gpu")
	require.NoError(t, err)

	_, err = s.Subscribe(ctx, "999", "gpu")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Subscribe(ctx, "111", "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	subs, err := s.SubscribersOf(ctx, "gpu")
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "111", subs[0].DiscordID)

	require.NoError(t, s.Unsubscribe(ctx, "111", "gpu"))
	assert.ErrorIs(t, s.Unsubscribe(ctx, "111", "gpu"), ErrNotFound)

	subs, err = s.SubscribersOf(ctx, "gpu")
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}

func TestStore_DeleteCascadesToSubscriptions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddProduct(ctx, NewProduct{Name: "gpu", URL: "https://a.example/", Indicator: "x"})
	require.NoError(t, err)
	_, err = s.AddUser(ctx, "alex", "111")
	require.NoError(t, err)
	_, err = s.Subscribe(ctx, "111", "gpu")
	require.NoError(t, err)

	require.NoError(t, s.RemoveUser(ctx, "111"))

	subs, err := s.SubscribersOf(ctx, "gpu")
	require.NoError(t, err)
	assert.Empty(t, subs)

	var count int
	require.NoError(t, s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM subscriptions`).Scan(&count))
	assert.Zero(t, count)
}

func TestStore_Snapshot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddProduct(ctx, NewProduct{Name: "literal", URL: "https://a.example/1", Indicator: "Price: $5 (new)"})
	require.NoError(t, err)
	_, err = s.AddProduct(ctx, NewProduct{Name: "regex", URL: "https://b.example/2", Indicator: `In\s+stock`, IsRegex: true})
	require.NoError(t, err)
	_, err = s.AddProduct(ctx, NewProduct{Name: "unwatched", URL: "https://c.example/3", Indicator: "x"})
	require.NoError(t, err)

	_, err = s.AddUser(ctx, "alex", "111")
	require.NoError(t, err)
	_, err = s.AddUser(ctx, "sam", "222")
	require.NoError(t, err)
	for _, sub := range []struct{ user, product string }{
		{"111", "literal"}, {"222", "literal"}, {"222", "regex"},
	} {
		_, err := s.Subscribe(ctx, sub.user, sub.product)
		require.NoError(t, err)
	}

	items, err := s.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2, "products without subscribers are not monitored")

	assert.Equal(t, "literal", items[0].Name)
	assert.True(t, patternMatches(t, items[0].Pattern, "now: Price: $5 (new)!"))
	assert.False(t, patternMatches(t, items[0].Pattern, "Price: 5 new"))
	assert.Equal(t, []string{"111", "222"}, items[0].SubscriberIDs)

	assert.Equal(t, "regex", items[1].Name)
	assert.Equal(t, `In\s+stock`, items[1].Pattern)
	assert.Equal(t, []string{"222"}, items[1].SubscriberIDs)
}

func TestStore_SnapshotHonorsContext(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Snapshot(ctx)
	assert.Error(t, err)
}

func patternMatches(t *testing.T, pattern, content string) bool {
	t.Helper()
	re, err := regexp2.Compile(pattern, regexp2.Singleline)
	require.NoError(t, err)
	ok, err := re.MatchString(content)
	require.NoError(t, err)
	return ok
}
