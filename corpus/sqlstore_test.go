package corpus

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/comex/errors"
	comextest "github.com/teranos/comex/internal/testing"
)

func TestSQLRoundTrip(t *testing.T) {
	ctx := context.Background()
	conn := comextest.CreateTestDB(t)

	c, err := Decode(strings.NewReader(sampleCorpus))
	require.NoError(t, err)
	require.NoError(t, SaveSQL(ctx, conn, c))

	loaded, err := LoadSQL(ctx, conn)
	require.NoError(t, err)
	assert.Equal(t, c.Len(), loaded.Len())
	assert.Equal(t, c.Idx2ID, loaded.Idx2ID)
	assert.Equal(t, c.Edges, loaded.Edges)
	for i, cm := range c.Comments() {
		got := loaded.Comments()[i]
		assert.Equal(t, cm.ID, got.ID)
		assert.Equal(t, cm.Author, got.Author)
		assert.True(t, cm.Timestamp.Equal(got.Timestamp))
		assert.Equal(t, cm.Splits, got.Splits)
	}

	t.Run("save replaces previous corpus", func(t *testing.T) {
		small := New()
		require.NoError(t, small.Add(&Comment{ID: "only", Splits: []Split{{Text: "x"}}}))
		small.IndexComments()
		require.NoError(t, SaveSQL(ctx, conn, small))

		loaded, err := LoadSQL(ctx, conn)
		require.NoError(t, err)
		assert.Equal(t, 1, loaded.Len())
		assert.Empty(t, loaded.Edges)
		assert.Equal(t, map[int]string{0: "only"}, loaded.Idx2ID)
	})
}

func TestSaveSQL_RollsBackOnError(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM edges").WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	err = SaveSQL(context.Background(), conn, New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clear edges")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadSQL_QueryError(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery("SELECT id, author, created_at FROM comments").WillReturnError(errors.New("no such table: comments"))

	_, err = LoadSQL(context.Background(), conn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query comments")
	assert.NoError(t, mock.ExpectationsWereMet())
}
