package persistence

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	bolt "go.etcd.io/bbolt"
)

func newTestPersistence(t *testing.T) (Persistence, string) {
	dbPath := filepath.Join(t.TempDir(), "db", "ramp2go.db")
	p := NewPersistence(dbPath)
	assert.NoError(t, p.Init())
	return p, dbPath
}

func TestPersistence_Init_CreatesDirectory(t *testing.T) {
	// GIVEN
	_, dbPath := newTestPersistence(t)

	// THEN
	info, err := os.Stat(filepath.Dir(dbPath))
	assert.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestPersistence_SaveAndLoadRampState(t *testing.T) {
	// GIVEN
	p, _ := newTestPersistence(t)
	state := RampState{
		Value:     -2.5,
		Polarity:  -1,
		Timestamp: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	// WHEN
	err := p.SaveRampState("port", state)
	assert.NoError(t, err)
	result, err := p.LoadRampState("port")

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, state.Value, result.Value)
	assert.Equal(t, state.Polarity, result.Polarity)
	assert.True(t, state.Timestamp.Equal(result.Timestamp))
}

func TestPersistence_LoadRampState_Missing(t *testing.T) {
	// GIVEN
	p, _ := newTestPersistence(t)

	// WHEN
	_, err := p.LoadRampState("port")

	// THEN
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestPersistence_DeleteRampState(t *testing.T) {
	// GIVEN
	p, _ := newTestPersistence(t)
	_ = p.SaveRampState("port", RampState{Value: 1})

	// WHEN
	err := p.DeleteRampState("port")
	assert.NoError(t, err)

	// THEN
	_, err = p.LoadRampState("port")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestPersistence_DeleteRampState_NoBucket(t *testing.T) {
	// GIVEN
	p, _ := newTestPersistence(t)

	// WHEN
	err := p.DeleteRampState("port")

	// THEN
	assert.NoError(t, err)
}

func TestPersistence_LoadRampState_CorruptEntryIsDeleted(t *testing.T) {
	// GIVEN
	p, dbPath := newTestPersistence(t)
	db, err := bolt.Open(dbPath, 0600, nil)
	assert.NoError(t, err)
	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(BucketRamps))
		if err != nil {
			return err
		}
		return b.Put([]byte("port"), []byte("not json"))
	})
	assert.NoError(t, err)
	assert.NoError(t, db.Close())

	// WHEN
	_, err = p.LoadRampState("port")

	// THEN
	assert.True(t, errors.Is(err, os.ErrNotExist))

	db, err = bolt.Open(dbPath, 0600, nil)
	assert.NoError(t, err)
	defer db.Close()
	_ = db.View(func(tx *bolt.Tx) error {
		assert.Nil(t, tx.Bucket([]byte(BucketRamps)).Get([]byte("port")))
		return nil
	})
}
