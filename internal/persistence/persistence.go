package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ramp2go/ramp2go/internal/ui"
	bolt "go.etcd.io/bbolt"
)

const (
	BucketRamps = "ramps"
)

// RampState is the last committed state of a ramp
type RampState struct {
	Value     float64   `json:"value"`
	Polarity  int       `json:"polarity"`
	Timestamp time.Time `json:"timestamp"`
}

type Persistence interface {
	Init() error

	LoadRampState(rampId string) (RampState, error)
	SaveRampState(rampId string, state RampState) error
	DeleteRampState(rampId string) error
}

type persistence struct {
	dbPath string
}

func NewPersistence(dbPath string) Persistence {
	p := &persistence{
		dbPath: dbPath,
	}
	return p
}

func (p persistence) Init() (err error) {
	// get parent path of dbPath
	parentDir := filepath.Dir(p.dbPath)
	_, err = os.Stat(parentDir)
	if errors.Is(err, os.ErrNotExist) {
		ui.Info("Creating directory for db: %s", parentDir)
		err = os.MkdirAll(parentDir, 0755)
		if err != nil {
			return err
		}
	}
	return nil
}

func (p persistence) openPersistence() (db *bolt.DB, err error) {
	db, err = bolt.Open(p.dbPath, 0600, &bolt.Options{Timeout: 1 * time.Minute})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// SaveRampState stores the given state of a ramp, replacing a previous one
func (p persistence) SaveRampState(rampId string, state RampState) (err error) {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(BucketRamps))
		if err != nil {
			return fmt.Errorf("create bucket: %s", err)
		}
		return b.Put([]byte(rampId), data)
	})
}

// LoadRampState loads the last stored state of a ramp, os.ErrNotExist is returned if there is none
func (p persistence) LoadRampState(rampId string) (RampState, error) {
	var state RampState

	db, err := p.openPersistence()
	if err != nil {
		return state, err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	err = db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketRamps))
		if b == nil {
			return os.ErrNotExist
		}
		v := b.Get([]byte(rampId))
		if v == nil {
			return os.ErrNotExist
		}

		err := json.Unmarshal(v, &state)
		if err != nil {
			// if we cannot read the saved data, delete it
			ui.Warning("Unable to unmarshal saved ramp data for %s: %v", rampId, err)
			err := b.Delete([]byte(rampId))
			if err != nil {
				ui.Error("Unable to delete corrupt data key %s: %v", rampId, err)
			}
			return os.ErrNotExist
		}
		return nil
	})

	return state, err
}

func (p persistence) DeleteRampState(rampId string) error {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	return db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketRamps))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(rampId))
	})
}
