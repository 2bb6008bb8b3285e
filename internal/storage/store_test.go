package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donorpulse/pkg/contracts/domain"
)

func testDonor(id string, amount float64) *domain.Donor {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	d := &domain.Donor{
		ID:        id,
		FirstName: "Jane",
		LastName:  "Doe",
		Donations: []domain.Donation{{
			ID:      id + "-d1",
			DonorID: id,
			Amount:  amount,
			Date:    date,
			Month:   domain.MonthLabel(date),
			Year:    2024,
		}},
	}
	d.Recalculate()
	return d
}

func TestStoreDonors(t *testing.T) {
	t.Run("load before first save is empty", func(t *testing.T) {
		store, err := NewStore(t.TempDir(), nil, nil)
		require.NoError(t, err)

		donors, err := store.LoadDonors()
		require.NoError(t, err)
		assert.Empty(t, donors)
	})

	t.Run("save and load roundtrip", func(t *testing.T) {
		store, err := NewStore(t.TempDir(), nil, nil)
		require.NoError(t, err)

		saved := []*domain.Donor{testDonor("a", 100), testDonor("b", 50)}
		require.NoError(t, store.SaveDonors(saved))

		loaded, err := store.LoadDonors()
		require.NoError(t, err)
		require.Len(t, loaded, 2)
		assert.Equal(t, "a", loaded[0].ID)
		assert.Equal(t, 100.0, loaded[0].TotalAmount)
		require.Len(t, loaded[0].Donations, 1)
	})

	t.Run("save replaces the previous snapshot", func(t *testing.T) {
		store, err := NewStore(t.TempDir(), nil, nil)
		require.NoError(t, err)

		require.NoError(t, store.SaveDonors([]*domain.Donor{testDonor("a", 100)}))
		require.NoError(t, store.SaveDonors([]*domain.Donor{testDonor("b", 50)}))

		loaded, err := store.LoadDonors()
		require.NoError(t, err)
		require.Len(t, loaded, 1)
		assert.Equal(t, "b", loaded[0].ID)
	})

	t.Run("clear removes snapshot and history", func(t *testing.T) {
		dir := t.TempDir()
		store, err := NewStore(dir, nil, nil)
		require.NoError(t, err)

		require.NoError(t, store.SaveDonors([]*domain.Donor{testDonor("a", 100)}))
		require.NoError(t, store.AppendUploadRecord(domain.UploadRecord{Date: time.Now(), RecordsAdded: 1}))
		require.NoError(t, store.Clear())

		donors, err := store.LoadDonors()
		require.NoError(t, err)
		assert.Empty(t, donors)

		history, err := store.UploadHistory()
		require.NoError(t, err)
		assert.Empty(t, history)

		_, err = os.Stat(filepath.Join(dir, donorsFile))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("clear on an empty store succeeds", func(t *testing.T) {
		store, err := NewStore(t.TempDir(), nil, nil)
		require.NoError(t, err)
		assert.NoError(t, store.Clear())
	})

	t.Run("corrupt snapshot surfaces a storage error", func(t *testing.T) {
		dir := t.TempDir()
		store, err := NewStore(dir, nil, nil)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(filepath.Join(dir, donorsFile), []byte("{not json"), 0o644))
		_, err = store.LoadDonors()
		assert.Error(t, err)
	})
}

func TestUploadHistory(t *testing.T) {
	t.Run("append preserves order", func(t *testing.T) {
		store, err := NewStore(t.TempDir(), nil, nil)
		require.NoError(t, err)

		for i := 1; i <= 3; i++ {
			require.NoError(t, store.AppendUploadRecord(domain.UploadRecord{
				Date:         time.Date(2024, time.Month(i), 1, 0, 0, 0, 0, time.UTC),
				RecordsAdded: i,
			}))
		}

		history, err := store.UploadHistory()
		require.NoError(t, err)
		require.Len(t, history, 3)
		assert.Equal(t, 1, history[0].RecordsAdded)
		assert.Equal(t, 3, history[2].RecordsAdded)
	})

	t.Run("history is capped at the most recent entries", func(t *testing.T) {
		store, err := NewStore(t.TempDir(), nil, nil)
		require.NoError(t, err)

		for i := 0; i < maxHistoryEntries+10; i++ {
			require.NoError(t, store.AppendUploadRecord(domain.UploadRecord{RecordsAdded: i}))
		}

		history, err := store.UploadHistory()
		require.NoError(t, err)
		require.Len(t, history, maxHistoryEntries)
		assert.Equal(t, 10, history[0].RecordsAdded)
		assert.Equal(t, maxHistoryEntries+9, history[len(history)-1].RecordsAdded)
	})
}

func TestStoreEncryption(t *testing.T) {
	t.Run("snapshot on disk is not plaintext", func(t *testing.T) {
		dir := t.TempDir()
		enc, err := NewEncryptor("correct horse battery staple")
		require.NoError(t, err)
		store, err := NewStore(dir, enc, nil)
		require.NoError(t, err)

		require.NoError(t, store.SaveDonors([]*domain.Donor{testDonor("a", 100)}))

		raw, err := os.ReadFile(filepath.Join(dir, donorsFile))
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "Jane")

		var envelope map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(raw, &envelope))
		assert.Contains(t, envelope, "ciphertext")
	})

	t.Run("encrypted roundtrip", func(t *testing.T) {
		dir := t.TempDir()
		enc, err := NewEncryptor("passphrase")
		require.NoError(t, err)
		store, err := NewStore(dir, enc, nil)
		require.NoError(t, err)

		require.NoError(t, store.SaveDonors([]*domain.Donor{testDonor("a", 100)}))

		reopened, err := NewStore(dir, enc, nil)
		require.NoError(t, err)
		loaded, err := reopened.LoadDonors()
		require.NoError(t, err)
		require.Len(t, loaded, 1)
		assert.Equal(t, "Jane", loaded[0].FirstName)
	})

	t.Run("wrong passphrase fails to load", func(t *testing.T) {
		dir := t.TempDir()
		enc, err := NewEncryptor("right")
		require.NoError(t, err)
		store, err := NewStore(dir, enc, nil)
		require.NoError(t, err)
		require.NoError(t, store.SaveDonors([]*domain.Donor{testDonor("a", 100)}))

		wrong, err := NewEncryptor("wrong")
		require.NoError(t, err)
		reopened, err := NewStore(dir, wrong, nil)
		require.NoError(t, err)

		_, err = reopened.LoadDonors()
		assert.Error(t, err)
	})
}

func TestEncryptor(t *testing.T) {
	t.Run("empty passphrase is rejected", func(t *testing.T) {
		_, err := NewEncryptor("")
		assert.Error(t, err)
	})

	t.Run("fresh salt and nonce per encryption", func(t *testing.T) {
		enc, err := NewEncryptor("passphrase")
		require.NoError(t, err)

		first, err := enc.Encrypt([]byte("payload"))
		require.NoError(t, err)
		second, err := enc.Encrypt([]byte("payload"))
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})

	t.Run("tampered ciphertext is rejected", func(t *testing.T) {
		enc, err := NewEncryptor("passphrase")
		require.NoError(t, err)

		sealed, err := enc.Encrypt([]byte("payload"))
		require.NoError(t, err)

		var payload encryptedPayload
		require.NoError(t, json.Unmarshal(sealed, &payload))
		payload.Ciphertext[0] ^= 0xFF
		tampered, err := json.Marshal(payload)
		require.NoError(t, err)

		_, err = enc.Decrypt(tampered)
		assert.Error(t, err)
	})

	t.Run("unsupported version is rejected", func(t *testing.T) {
		enc, err := NewEncryptor("passphrase")
		require.NoError(t, err)

		sealed, err := enc.Encrypt([]byte("payload"))
		require.NoError(t, err)

		var payload encryptedPayload
		require.NoError(t, json.Unmarshal(sealed, &payload))
		payload.Version = 9
		bumped, err := json.Marshal(payload)
		require.NoError(t, err)

		_, err = enc.Decrypt(bumped)
		require.Error(t, err)
		assert.Equal(t, fmt.Sprintf("unsupported payload version %d", 9), err.Error())
	})
}
