package database

import (
	"errors"
	"testing"
	"time"

	"github.com/Alias1177/SolarPredictor/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	params := ConnectionParams{
		Host:     "localhost",
		Port:     "5432",
		User:     "solar",
		Password: "it's secret",
		DBName:   "solar",
		SSLMode:  "disable",
	}

	assert.Equal(t,
		`host=localhost port=5432 user=solar password='it\'s secret' dbname=solar sslmode=disable`,
		params.DSN())

	assert.Contains(t, ConnectionParams{}.DSN(), "password=''")
}

// rowStub feeds fixed values to scanRecord
type rowStub struct {
	values []any
	err    error
}

func (r rowStub) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = r.values[i].(string)
		case *float64:
			*p = r.values[i].(float64)
		case *time.Time:
			*p = r.values[i].(time.Time)
		case interface{ Scan(any) error }:
			if err := p.Scan(r.values[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

func TestScanRecord(t *testing.T) {
	created := time.Date(2026, 5, 1, 12, 0, 0, 0, time.FixedZone("IST", 5*3600+1800))
	rec, err := scanRecord(rowStub{values: []any{
		"id-1", "Mumbai, India", 19.076, nil,
		800.0, 180.0, 45.0, 30.0,
		19.076, 72.8777, 4.2,
		9.076, 180.0, 15.0, created,
	}})
	require.NoError(t, err)

	assert.Equal(t, "id-1", rec.ID)
	require.NotNil(t, rec.Input.Latitude)
	assert.Equal(t, 19.076, *rec.Input.Latitude)
	assert.Nil(t, rec.Input.Longitude)
	assert.Equal(t, 4.2, rec.Response.PredictedGeneratedKW)
	require.NotNil(t, rec.Optimal)
	assert.Equal(t, 9.076, rec.Optimal.OptimalTilt)
	assert.Equal(t, time.UTC, rec.CreatedAt.Location())
	assert.True(t, created.Equal(rec.CreatedAt))
}

func TestScanRecordWithoutOptimal(t *testing.T) {
	rec, err := scanRecord(rowStub{values: []any{
		"id-2", "", nil, nil,
		100.0, 0.0, 10.0, 5.0,
		1.0, 2.0, 0.5,
		nil, nil, nil, time.Now(),
	}})
	require.NoError(t, err)
	assert.Nil(t, rec.Optimal)
}

func TestScanRecordError(t *testing.T) {
	_, err := scanRecord(rowStub{err: errors.New("closed")})
	assert.ErrorContains(t, err, "scan prediction")
}

func TestReverse(t *testing.T) {
	records := []models.PredictionRecord{{ID: "c"}, {ID: "b"}, {ID: "a"}}
	reverse(records)
	assert.Equal(t, []string{"a", "b", "c"}, []string{records[0].ID, records[1].ID, records[2].ID})
}
