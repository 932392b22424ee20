package database

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	xdr "github.com/davecgh/go-xdr/xdr2"
	bolt "go.etcd.io/bbolt"

	"github.com/go-sod/rangetree/internal/database"
	"github.com/go-sod/rangetree/internal/dataset/model"
	"github.com/go-sod/rangetree/internal/util"
	"github.com/go-sod/rangetree/pkg/math/vector"
)

const (
	metaBucket   = "dataset:meta"
	pointsBucket = "dataset:points"
)

var ErrNotFound = errors.New("dataset not found")

type FilterFn func(dataset model.Dataset) bool

// pointsRecord is the XDR layout of a dataset's coordinates.
type pointsRecord struct {
	Dims   uint32
	Coords [][]float64
}

func New(db *database.DB) *DB {
	return &DB{sDB: db}
}

type DB struct {
	sDB *database.DB
}

func encodePoints(dataset model.Dataset) ([]byte, error) {
	buffer := util.GetBytesBuffer()
	defer util.PutBytesBuffer(buffer)

	record := pointsRecord{
		Dims:   uint32(dataset.Dims),
		Coords: make([][]float64, len(dataset.Points)),
	}
	for i, p := range dataset.Points {
		record.Coords[i] = p
	}
	if _, err := xdr.Marshal(buffer, &record); err != nil {
		return nil, fmt.Errorf("xdr marshal: %w", err)
	}

	out := make([]byte, buffer.Len())
	copy(out, buffer.Bytes())
	return out, nil
}

func decodePoints(data []byte) ([]vector.V[float64], error) {
	var record pointsRecord
	if _, err := xdr.Unmarshal(bytes.NewReader(data), &record); err != nil {
		return nil, fmt.Errorf("xdr unmarshal: %w", err)
	}
	points := make([]vector.V[float64], len(record.Coords))
	for i := range record.Coords {
		points[i] = record.Coords[i]
	}
	return points, nil
}

// Store writes the dataset, replacing any dataset stored under the same name.
func (db *DB) Store(_ context.Context, dataset model.Dataset) error {
	if err := dataset.Validate(); err != nil {
		return fmt.Errorf("invalid dataset: %w", err)
	}
	meta, err := json.Marshal(dataset)
	if err != nil {
		return err
	}
	points, err := encodePoints(dataset)
	if err != nil {
		return err
	}

	if err := db.sDB.DB.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(metaBucket))
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		if err := b.Put([]byte(dataset.Name), meta); err != nil {
			return fmt.Errorf("put to bucket error: %w", err)
		}
		b, err = tx.CreateBucketIfNotExists([]byte(pointsBucket))
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		if err := b.Put([]byte(dataset.Name), points); err != nil {
			return fmt.Errorf("put to bucket error: %w", err)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("update transaction error: %w", err)
	}

	return nil
}

func (db *DB) find(tx *bolt.Tx, name []byte) (model.Dataset, error) {
	var dataset model.Dataset
	meta := tx.Bucket([]byte(metaBucket))
	if meta == nil {
		return dataset, ErrNotFound
	}
	v := meta.Get(name)
	if v == nil {
		return dataset, ErrNotFound
	}
	if err := json.Unmarshal(v, &dataset); err != nil {
		return dataset, fmt.Errorf("dataset %s unmarshal error: %w", name, err)
	}

	if b := tx.Bucket([]byte(pointsBucket)); b != nil {
		if v := b.Get(name); v != nil {
			points, err := decodePoints(v)
			if err != nil {
				return dataset, fmt.Errorf("dataset %s: %w", name, err)
			}
			dataset.Points = points
		}
	}
	return dataset, nil
}

func (db *DB) Find(_ context.Context, name string) (model.Dataset, error) {
	var dataset model.Dataset
	err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		found, err := db.find(tx, []byte(name))
		dataset = found
		return err
	})
	if err != nil {
		return model.Dataset{}, fmt.Errorf("find %s: %w", name, err)
	}
	return dataset, nil
}

func (db *DB) FindAll(_ context.Context, filter FilterFn) ([]model.Dataset, error) {
	var datasets []model.Dataset
	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(metaBucket))
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			dataset, err := db.find(tx, k)
			if err != nil {
				return err
			}
			if filter == nil || filter(dataset) {
				datasets = append(datasets, dataset)
			}
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("view transaction error: %w", err)
	}

	return datasets, nil
}

func (db *DB) Names() ([]string, error) {
	var names []string
	err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(metaBucket))
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			names = append(names, string(k))
		}
		return nil
	})

	return names, err
}

func (db *DB) Delete(_ context.Context, name string) error {
	if err := db.sDB.DB.Update(func(tx *bolt.Tx) error {
		for _, bucket := range []string{metaBucket, pointsBucket} {
			b := tx.Bucket([]byte(bucket))
			if b == nil {
				continue
			}
			if err := b.Delete([]byte(name)); err != nil {
				return fmt.Errorf("unable delete: %w", err)
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("update transaction error: %w", err)
	}

	return nil
}
