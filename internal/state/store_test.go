package state

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Jocowski/democracy-mod-maker/internal/testutil"
	"github.com/Jocowski/democracy-mod-maker/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), MemoryPath, testutil.NewTestLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func policy(name string) core.Policy {
	p := core.DefaultPolicy(name)
	p.Department = "TAX"
	p.Effects = core.EffectList{core.KeyValueEffect{Key: "GDP", Value: "0.1", Delay: "2", HasDelay: true}}
	return p
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "workspace.db")
	ctx := context.Background()

	s, err := Open(ctx, path, nil)
	require.NoError(t, err)
	_, err = s.AddPolicy(ctx, policy("Persisted"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(ctx, path, nil)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	got, err := s.Policies(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, policy("Persisted"), got[0])
	assert.Equal(t, path, s.Path())

	v, err := MigrationVersion(s.db.DB)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
}

func TestPolicyLifecycle(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		run  func(t *testing.T, s *Store)
	}{
		{
			name: "add keeps creation order",
			run: func(t *testing.T, s *Store) {
				for _, n := range []string{"Zebra", "Alpha", "Mid"} {
					_, err := s.AddPolicy(ctx, policy(n))
					require.NoError(t, err)
				}
				list, err := s.ListPolicies(ctx)
				require.NoError(t, err)
				require.Len(t, list, 3)
				assert.Equal(t, "Zebra", list[0].Policy.Name)
				assert.Equal(t, "Mid", list[2].Policy.Name)
				assert.Less(t, list[0].Position, list[1].Position)
				assert.NotEmpty(t, list[0].ID)
			},
		},
		{
			name: "duplicate name rejected",
			run: func(t *testing.T, s *Store) {
				_, err := s.AddPolicy(ctx, policy("Same"))
				require.NoError(t, err)
				_, err = s.AddPolicy(ctx, policy("Same"))
				assert.ErrorIs(t, err, ErrDuplicatePolicy)
			},
		},
		{
			name: "empty name rejected",
			run: func(t *testing.T, s *Store) {
				_, err := s.AddPolicy(ctx, core.Policy{})
				assert.Error(t, err)
			},
		},
		{
			name: "update renames in place",
			run: func(t *testing.T, s *Store) {
				_, err := s.AddPolicy(ctx, policy("First"))
				require.NoError(t, err)
				_, err = s.AddPolicy(ctx, policy("Second"))
				require.NoError(t, err)

				p := policy("Renamed")
				p.MaxCost = 42
				_, err = s.UpdatePolicy(ctx, "First", p)
				require.NoError(t, err)

				got, err := s.Policies(ctx)
				require.NoError(t, err)
				require.Len(t, got, 2)
				assert.Equal(t, "Renamed", got[0].Name)
				assert.Equal(t, 42.0, got[0].MaxCost)

				_, err = s.GetPolicy(ctx, "First")
				assert.ErrorIs(t, err, ErrPolicyNotFound)
			},
		},
		{
			name: "update to taken name rejected",
			run: func(t *testing.T, s *Store) {
				_, err := s.AddPolicy(ctx, policy("A"))
				require.NoError(t, err)
				_, err = s.AddPolicy(ctx, policy("B"))
				require.NoError(t, err)

				_, err = s.UpdatePolicy(ctx, "A", policy("B"))
				assert.ErrorIs(t, err, ErrDuplicatePolicy)

				// same name is not a conflict with itself
				_, err = s.UpdatePolicy(ctx, "A", policy("A"))
				assert.NoError(t, err)
			},
		},
		{
			name: "update missing",
			run: func(t *testing.T, s *Store) {
				_, err := s.UpdatePolicy(ctx, "Nope", policy("Nope"))
				assert.ErrorIs(t, err, ErrPolicyNotFound)
			},
		},
		{
			name: "delete",
			run: func(t *testing.T, s *Store) {
				_, err := s.AddPolicy(ctx, policy("Gone"))
				require.NoError(t, err)
				require.NoError(t, s.DeletePolicy(ctx, "Gone"))
				assert.ErrorIs(t, s.DeletePolicy(ctx, "Gone"), ErrPolicyNotFound)
			},
		},
		{
			name: "import appends or replaces",
			run: func(t *testing.T, s *Store) {
				_, err := s.AddPolicy(ctx, policy("Existing"))
				require.NoError(t, err)

				n, err := s.ImportPolicies(ctx, []core.Policy{policy("X"), policy("Y")}, false)
				require.NoError(t, err)
				assert.Equal(t, 2, n)
				got, _ := s.Policies(ctx)
				assert.Len(t, got, 3)

				_, err = s.ImportPolicies(ctx, []core.Policy{policy("Z"), policy("Z")}, true)
				assert.ErrorIs(t, err, ErrDuplicatePolicy)
				got, _ = s.Policies(ctx)
				assert.Len(t, got, 3, "failed import leaves workspace unchanged")

				_, err = s.ImportPolicies(ctx, []core.Policy{policy("Z")}, true)
				require.NoError(t, err)
				got, _ = s.Policies(ctx)
				require.Len(t, got, 1)
				assert.Equal(t, "Z", got[0].Name)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.run(t, setupTestStore(t))
		})
	}
}

func TestMeta(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	require.NoError(t, s.SetMeta(ctx, map[string]string{"name": "Mod", "author": "Me"}))
	require.NoError(t, s.SetMeta(ctx, map[string]string{"author": "", "version": "2"}))

	meta, err := s.Meta(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"name": "Mod", "version": "2"}, meta)
}

func TestStore_QueryFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT id, name, position, body, created_at, updated_at FROM mod_policies").
		WillReturnError(errors.New("disk I/O error"))

	s := NewWithDB(db, nil)
	_, err = s.ListPolicies(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list policies")
	assert.Contains(t, err.Error(), "disk I/O error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_DeleteFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("DELETE FROM mod_policies").
		WithArgs("A").
		WillReturnResult(sqlmock.NewResult(0, 0))

	s := NewWithDB(db, nil)
	assert.ErrorIs(t, s.DeletePolicy(context.Background(), "A"), ErrPolicyNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
