package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/domain"
)

func TestUserRepo_ConcurrentCreate_OneWinner(t *testing.T) {
	repo := NewUserRepo()

	const n = 20
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Create(context.Background(), domain.User{
				ID:    fmt.Sprintf("u%d", i),
				Email: "same@example.com",
			})
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
				return
			}
			assert.True(t, domain.Is(err, domain.CodeDuplicateEmail))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, wins)

	_, found, err := repo.FindByEmail(context.Background(), "same@example.com")
	require.NoError(t, err)
	assert.True(t, found)

	_, found, _ = repo.FindByEmail(context.Background(), "SAME@example.com")
	assert.False(t, found)
}

func TestInvoiceRepo_Lifecycle(t *testing.T) {
	repo := NewInvoiceRepo()
	ctx := context.Background()

	id, err := repo.Insert(ctx, domain.Invoice{CustomerID: "c1", AmountCents: 100, Status: domain.StatusPending, Date: "2026-01-01"})
	require.NoError(t, err)

	updated, found, err := repo.Update(ctx, domain.Invoice{ID: id, CustomerID: "c2", AmountCents: 200, Status: domain.StatusPaid, Date: "1999-01-01"})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "2026-01-01", updated.Date)
	assert.Equal(t, id, updated.ID)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-01", got.Date)
	assert.Equal(t, int64(200), got.AmountCents)

	_, found, _ = repo.Update(ctx, domain.Invoice{ID: "missing"})
	assert.False(t, found)

	n, _ := repo.Delete(ctx, id)
	assert.Equal(t, int64(1), n)
	n, _ = repo.Delete(ctx, id)
	assert.Zero(t, n)

	_, err = repo.Get(ctx, id)
	assert.True(t, domain.Is(err, domain.CodeNotFound))
}

func TestInvoiceRepo_ListNewestFirst(t *testing.T) {
	repo := NewInvoiceRepo()
	ctx := context.Background()

	_, _ = repo.Insert(ctx, domain.Invoice{CustomerID: "old", AmountCents: 1, Status: domain.StatusPaid, Date: "2025-01-01"})
	_, _ = repo.Insert(ctx, domain.Invoice{CustomerID: "new", AmountCents: 1, Status: domain.StatusPaid, Date: "2026-01-01"})

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].CustomerID)
}

func TestCache_SetGetDeleteAndExpiry(t *testing.T) {
	c := NewCache()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", map[string]int{"a": 1}, time.Minute))

	var got map[string]int
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 1, got["a"])

	now = now.Add(2 * time.Minute)
	found, _ = c.Get(ctx, "k", &got)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "k2", "v", 0))
	require.NoError(t, c.Delete(ctx, "k2", "absent"))
	var s string
	found, _ = c.Get(ctx, "k2", &s)
	assert.False(t, found)
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, NewNoopPublisher().PublishEvent(context.Background(), "invoice.created", nil))
}
