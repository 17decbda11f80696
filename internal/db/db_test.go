package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"word-qa/internal/config"
	"word-qa/internal/models"
)

func TestConnectDB_NoDSN(t *testing.T) {
	_, err := ConnectDB(&config.DatabaseConfig{})
	assert.ErrorIs(t, err, ErrNoDSN)

	_, err = ConnectDB(nil)
	assert.ErrorIs(t, err, ErrNoDSN)
}

func TestNewRecord(t *testing.T) {
	details := &models.TechnicalDetails{
		FinalModel:         "model-a",
		ModelsUsed:         []string{"model-b", "model-a"},
		ChunksCreated:      3,
		ChunksProcessed:    2,
		ChunksFailed:       1,
		SynthesisPerformed: true,
	}

	rec, err := NewRecord("Q?", "A.", details)
	require.NoError(t, err)

	assert.Len(t, rec.ID, 36)
	assert.Equal(t, "Q?", rec.Question)
	assert.Equal(t, "A.", rec.Answer)
	assert.Equal(t, "model-a", rec.FinalModel)
	assert.Equal(t, []string{"model-b", "model-a"}, rec.ModelsUsed)
	assert.Equal(t, 3, rec.ChunksCreated)
	assert.Equal(t, 2, rec.ChunksProcessed)
	assert.Equal(t, 1, rec.ChunksFailed)
	assert.True(t, rec.SynthesisPerformed)
	assert.Same(t, details, rec.Details)
}

func TestNewRecord_NoDetails(t *testing.T) {
	rec, err := NewRecord("Q?", "", nil)
	require.NoError(t, err)
	assert.Empty(t, rec.FinalModel)
	assert.Nil(t, rec.Details)
}

func TestCreateTableQuery(t *testing.T) {
	sqldb, err := ConnectDB(&config.DatabaseConfig{DSN: "postgres://qa:qa@localhost:5432/qa?sslmode=disable"})
	require.NoError(t, err)
	bdb := NewDB(sqldb, false)
	defer bdb.Close()

	query := strings.ToLower(bdb.NewCreateTable().Model((*QARecord)(nil)).IfNotExists().String())
	assert.Contains(t, query, `"qa_runs"`)
	assert.Contains(t, query, `"details" jsonb`)
	assert.Contains(t, query, `"models_used"`)
}
