package basket

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustEntry(t *testing.T, basketType, basketName string, flow Flow, qty int) Entry {
	t.Helper()
	entry, err := NewEntry(uuid.New(), "Somchai", basketType, basketName, flow, qty, time.Now())
	require.NoError(t, err)
	return *entry
}

func TestNewEntry(t *testing.T) {
	t.Run("rejects invalid basket type", func(t *testing.T) {
		_, err := NewEntry(uuid.New(), "Somchai", "plastic", "", FlowIn, 1, time.Now())
		assert.Error(t, err)
	})

	t.Run("named basket requires a name", func(t *testing.T) {
		_, err := NewEntry(uuid.New(), "Somchai", TypeNamed, "", FlowIn, 1, time.Now())
		assert.Error(t, err)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := NewEntry(uuid.New(), "Somchai", TypeMix, "", FlowOut, 0, time.Now())
		assert.Error(t, err)
	})

	t.Run("signed value follows flow", func(t *testing.T) {
		in := mustEntry(t, TypeMix, "", FlowIn, 4)
		out := mustEntry(t, TypeMix, "", FlowOut, 3)
		assert.Equal(t, 4, in.Signed())
		assert.Equal(t, -3, out.Signed())
	})

	t.Run("mirror entry is an out flow tied to the bill", func(t *testing.T) {
		billID := uuid.New()
		entry, err := NewMirrorEntry(uuid.New(), billID, "Somchai", TypeMix, "", 5, time.Now())
		require.NoError(t, err)
		assert.Equal(t, FlowOut, entry.Flow)
		require.NotNil(t, entry.BillID)
		assert.Equal(t, billID, *entry.BillID)
	})
}

func TestSummarize(t *testing.T) {
	t.Run("in adds and out subtracts per class", func(t *testing.T) {
		entries := []Entry{
			mustEntry(t, TypeMix, "", FlowIn, 10),
			mustEntry(t, TypeMix, "", FlowOut, 4),
			mustEntry(t, TypeNamed, "red crate", FlowOut, 2),
		}

		summaries := Summarize(entries)
		require.Len(t, summaries, 2)
		assert.Equal(t, 6, summaries[0].Balance)
		assert.Equal(t, "red crate", summaries[1].BasketName)
		assert.Equal(t, -2, summaries[1].Balance)
	})

	t.Run("buckets appear in fetch order", func(t *testing.T) {
		entries := []Entry{
			mustEntry(t, TypeNamed, "blue crate", FlowIn, 1),
			mustEntry(t, TypeMix, "", FlowIn, 1),
			mustEntry(t, TypeNamed, "blue crate", FlowIn, 1),
		}

		summaries := Summarize(entries)
		require.Len(t, summaries, 2)
		assert.Equal(t, "blue crate", summaries[0].BasketName)
		assert.Equal(t, 2, summaries[0].Balance)
		assert.Equal(t, TypeMix, summaries[1].BasketType)
	})

	t.Run("names are not normalized", func(t *testing.T) {
		entries := []Entry{
			mustEntry(t, TypeNamed, "red crate", FlowIn, 1),
			mustEntry(t, TypeNamed, "red crate ", FlowIn, 1),
		}

		summaries := Summarize(entries)
		assert.Len(t, summaries, 2)
	})

	t.Run("empty input yields empty summary", func(t *testing.T) {
		assert.Empty(t, Summarize(nil))
	})

	t.Run("balance can go negative", func(t *testing.T) {
		entries := []Entry{
			mustEntry(t, TypeMix, "", FlowOut, 7),
			mustEntry(t, TypeMix, "", FlowIn, 3),
		}

		summaries := Summarize(entries)
		require.Len(t, summaries, 1)
		assert.Equal(t, -4, summaries[0].Balance)
	})
}
