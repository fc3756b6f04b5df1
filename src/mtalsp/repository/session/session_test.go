package session

import (
	"context"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tally "github.com/uber-go/tally/v4"
	"github.com/uber/mta-lsp/src/mtalsp/entity"
	"github.com/uber/mta-lsp/src/mtalsp/factory"
	"github.com/uber/mta-lsp/src/mtalsp/internal/errors"
	"go.lsp.dev/protocol"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSessionRepository(t *testing.T) {
	testScope := tally.NewTestScope("testing", make(map[string]string, 0))

	t.Run("should Set and Get successfully", func(t *testing.T) {
		var uuid uuid.UUID
		model := &entity.Session{
			UUID:             uuid,
			WorkspaceFolders: []protocol.WorkspaceFolder{factory.WorkspaceFolder("/workspace")},
		}
		repository := New(testScope)
		err := repository.Set(context.Background(), model)
		require.NoError(t, err)

		val, err := repository.Get(context.Background(), uuid)
		require.NoError(t, err)
		assert.Equal(t, uuid, val.UUID)
		assert.Equal(t, model.WorkspaceFolders, val.WorkspaceFolders)
	})

	t.Run("should fail to get something that was not Set", func(t *testing.T) {
		repository := New(testScope)
		id := uuid.Must(uuid.NewV4())
		_, err := repository.Get(context.Background(), id)
		require.Error(t, err)
		var nf *errors.UUIDNotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, id, nf.UUID)
	})

	t.Run("should fail to Set nil", func(t *testing.T) {
		repository := New(testScope)
		assert.Error(t, repository.Set(context.Background(), nil))
	})
}

func TestGetFromContext(t *testing.T) {
	testScope := tally.NewTestScope("testing", make(map[string]string, 0))

	t.Run("should get when uuid is in context", func(t *testing.T) {
		id := factory.UUID()
		repository := New(testScope)
		ctx := context.WithValue(context.Background(), entity.SessionContextKey, id)
		require.NoError(t, repository.Set(ctx, &entity.Session{UUID: id}))

		val, err := repository.GetFromContext(ctx)
		assert.NoError(t, err)
		assert.Equal(t, id, val.UUID)
	})

	t.Run("should fail when uuid is missing from context", func(t *testing.T) {
		repository := New(testScope)
		_, err := repository.GetFromContext(context.Background())
		require.Error(t, err)
	})

	t.Run("should fail when session is unknown", func(t *testing.T) {
		repository := New(testScope)
		ctx := context.WithValue(context.Background(), entity.SessionContextKey, factory.UUID())
		_, err := repository.GetFromContext(ctx)
		require.Error(t, err)
	})
}

func TestGetAll(t *testing.T) {
	testScope := tally.NewTestScope("testing", make(map[string]string, 0))
	repository := New(testScope)
	ctx := context.Background()

	all, err := repository.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	for i := 0; i < 5; i++ {
		require.NoError(t, repository.Set(ctx, &entity.Session{UUID: factory.UUID()}))
	}

	all, err = repository.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].UUID.String(), all[i].UUID.String())
	}
}

func TestDeleteAndCount(t *testing.T) {
	testScope := tally.NewTestScope("testing", make(map[string]string, 0))
	repository := New(testScope)
	ctx := context.Background()

	ids := []uuid.UUID{factory.UUID(), factory.UUID(), factory.UUID()}
	for _, id := range ids {
		require.NoError(t, repository.Set(ctx, &entity.Session{UUID: id}))
	}

	count, err := repository.SessionCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	require.NoError(t, repository.Delete(ctx, ids[0]))
	require.NoError(t, repository.Delete(ctx, factory.UUID()))

	count, err = repository.SessionCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	gauges := testScope.Snapshot().Gauges()
	g, ok := gauges["testing.active_connections+"]
	require.True(t, ok)
	assert.Equal(t, float64(2), g.Value())
}
