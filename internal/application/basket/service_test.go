package basket

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fruitflow/backend/internal/domain/basket"
	"github.com/fruitflow/backend/internal/domain/shared"
)

type fakeEntryRepo struct {
	entries []basket.Entry
}

func (r *fakeEntryRepo) Save(_ context.Context, entry *basket.Entry) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeEntryRepo) FindByIDForOwner(_ context.Context, ownerID, id uuid.UUID) (*basket.Entry, error) {
	for i := range r.entries {
		if r.entries[i].OwnerID == ownerID && r.entries[i].ID == id {
			return &r.entries[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeEntryRepo) FindByCustomer(_ context.Context, ownerID uuid.UUID, customerName string, _ shared.Filter) ([]basket.Entry, error) {
	return r.filter(ownerID, customerName), nil
}

func (r *fakeEntryRepo) FindAllByCustomer(_ context.Context, ownerID uuid.UUID, customerName string) ([]basket.Entry, error) {
	return r.filter(ownerID, customerName), nil
}

func (r *fakeEntryRepo) DeleteForOwner(_ context.Context, ownerID, id uuid.UUID) error {
	for i := range r.entries {
		if r.entries[i].OwnerID == ownerID && r.entries[i].ID == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

func (r *fakeEntryRepo) CountByCustomer(_ context.Context, ownerID uuid.UUID, customerName string) (int64, error) {
	return int64(len(r.filter(ownerID, customerName))), nil
}

func (r *fakeEntryRepo) DistinctCustomerNames(_ context.Context, ownerID uuid.UUID, _ string, _ int) ([]string, error) {
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, entry := range r.entries {
		if entry.OwnerID == ownerID && !seen[entry.CustomerName] {
			seen[entry.CustomerName] = true
			names = append(names, entry.CustomerName)
		}
	}
	return names, nil
}

func (r *fakeEntryRepo) filter(ownerID uuid.UUID, customerName string) []basket.Entry {
	result := make([]basket.Entry, 0)
	for _, entry := range r.entries {
		if entry.OwnerID == ownerID && entry.CustomerName == customerName {
			result = append(result, entry)
		}
	}
	return result
}

func TestBasketCreate(t *testing.T) {
	repo := &fakeEntryRepo{}
	svc := NewService(repo)
	ownerID := uuid.New()

	t.Run("records a manual movement", func(t *testing.T) {
		entry, err := svc.Create(context.Background(), ownerID, CreateEntryRequest{
			CustomerName: "ร้านส้มโชคดี",
			BasketType:   "named",
			BasketName:   "ตะกร้าแดง",
			Flow:         "in",
			Quantity:     10,
			EntryDate:    time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
			Remark:       "คืนจากตลาด",
		})
		require.NoError(t, err)
		assert.Equal(t, "in", entry.Flow)
		assert.Equal(t, "คืนจากตลาด", entry.Remark)
		assert.Nil(t, entry.BillID)
	})

	t.Run("rejects invalid flow", func(t *testing.T) {
		_, err := svc.Create(context.Background(), ownerID, CreateEntryRequest{
			CustomerName: "ร้านส้มโชคดี",
			BasketType:   "mix",
			Flow:         "sideways",
			Quantity:     1,
		})
		require.Error(t, err)
	})

	t.Run("rejects named basket without a name", func(t *testing.T) {
		_, err := svc.Create(context.Background(), ownerID, CreateEntryRequest{
			CustomerName: "ร้านส้มโชคดี",
			BasketType:   "named",
			Flow:         "in",
			Quantity:     1,
		})
		require.Error(t, err)
	})
}

func TestBasketBalance(t *testing.T) {
	repo := &fakeEntryRepo{}
	svc := NewService(repo)
	ownerID := uuid.New()
	ctx := context.Background()

	add := func(basketType, basketName, flow string, qty int) {
		_, err := svc.Create(ctx, ownerID, CreateEntryRequest{
			CustomerName: "ร้านส้มโชคดี",
			BasketType:   basketType,
			BasketName:   basketName,
			Flow:         flow,
			Quantity:     qty,
			EntryDate:    time.Now(),
		})
		require.NoError(t, err)
	}

	add("mix", "", "in", 30)
	add("mix", "", "out", 12)
	add("named", "ตะกร้าแดง", "out", 5)
	add("named", "ตะกร้าเขียว", "in", 8)
	add("named", "ตะกร้าแดง", "in", 2)

	balance, err := svc.Balance(ctx, ownerID, "ร้านส้มโชคดี")
	require.NoError(t, err)
	assert.Equal(t, "ร้านส้มโชคดี", balance.CustomerName)

	require.Len(t, balance.Balances, 3)
	assert.Equal(t, basket.Summary{BasketType: "mix", Balance: 18}, balance.Balances[0])
	assert.Equal(t, basket.Summary{BasketType: "named", BasketName: "ตะกร้าแดง", Balance: -3}, balance.Balances[1])
	assert.Equal(t, basket.Summary{BasketType: "named", BasketName: "ตะกร้าเขียว", Balance: 8}, balance.Balances[2])
}

func TestBasketBalanceRequiresCustomer(t *testing.T) {
	svc := NewService(&fakeEntryRepo{})
	_, err := svc.Balance(context.Background(), uuid.New(), "")
	require.Error(t, err)
}

func TestBasketDelete(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("removes a manual entry", func(t *testing.T) {
		repo := &fakeEntryRepo{}
		svc := NewService(repo)

		entry, err := svc.Create(ctx, ownerID, CreateEntryRequest{
			CustomerName: "A", BasketType: "mix", Flow: "in", Quantity: 1,
		})
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, ownerID, entry.ID))
		assert.Empty(t, repo.entries)
	})

	t.Run("refuses entries mirroring a bill", func(t *testing.T) {
		repo := &fakeEntryRepo{}
		svc := NewService(repo)

		mirror, err := basket.NewMirrorEntry(ownerID, uuid.New(), "A", "mix", "", 4, time.Now())
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, mirror))

		err = svc.Delete(ctx, ownerID, mirror.ID)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "MIRROR_ENTRY", domainErr.Code)
	})

	t.Run("unknown entry", func(t *testing.T) {
		svc := NewService(&fakeEntryRepo{})
		assert.ErrorIs(t, svc.Delete(ctx, ownerID, uuid.New()), shared.ErrNotFound)
	})
}
