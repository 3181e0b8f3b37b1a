package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/gamelog-dev/gamelog/internal/errs"
	"github.com/gamelog-dev/gamelog/internal/model"
)

func TestGameRepo_GetByName(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewGameRepo(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT id, name, COALESCE\(steam_app_id, 0\) FROM games WHERE name=\$1`).
		WithArgs("Celeste").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "steam_app_id"}).
			AddRow(int64(3), "Celeste", int64(0)))
	g, err := r.GetByName(ctx, "Celeste")
	require.NoError(t, err)
	require.Equal(t, int64(3), g.ID)
	require.Zero(t, g.SteamAppID)

	mock.ExpectQuery(`SELECT id, name, COALESCE\(steam_app_id, 0\) FROM games WHERE name=\$1`).
		WithArgs("Unknown").
		WillReturnError(pgx.ErrNoRows)
	_, err = r.GetByName(ctx, "Unknown")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestGameRepo_GetBySteamAppID(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewGameRepo(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT id, name, COALESCE\(steam_app_id, 0\) FROM games WHERE steam_app_id=\$1`).
		WithArgs(int64(1145360)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "steam_app_id"}).
			AddRow(int64(5), "Hades", int64(1145360)))
	g, err := r.GetBySteamAppID(ctx, 1145360)
	require.NoError(t, err)
	require.Equal(t, "Hades", g.Name)

	mock.ExpectQuery(`SELECT id, name, COALESCE\(steam_app_id, 0\) FROM games WHERE steam_app_id=\$1`).
		WithArgs(int64(42)).
		WillReturnError(pgx.ErrNoRows)
	_, err = r.GetBySteamAppID(ctx, 42)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestGameRepo_Create(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewGameRepo(db)
	ctx := context.Background()

	mock.ExpectQuery(`INSERT INTO games \(name, steam_app_id\) VALUES \(\$1, NULLIF\(\$2::bigint, 0\)\) RETURNING id`).
		WithArgs("Hades", int64(1145360)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(5)))
	id, err := r.Create(ctx, &model.Game{Name: "Hades", SteamAppID: 1145360})
	require.NoError(t, err)
	require.Equal(t, int64(5), id)

	// Unlinked game: zero app id.
	mock.ExpectQuery(`INSERT INTO games \(name, steam_app_id\) VALUES \(\$1, NULLIF\(\$2::bigint, 0\)\) RETURNING id`).
		WithArgs("Celeste", int64(0)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(6)))
	id, err = r.Create(ctx, &model.Game{Name: "Celeste"})
	require.NoError(t, err)
	require.Equal(t, int64(6), id)

	mock.ExpectQuery(`INSERT INTO games \(name, steam_app_id\) VALUES \(\$1, NULLIF\(\$2::bigint, 0\)\) RETURNING id`).
		WithArgs("Hades", int64(1145360)).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	_, err = r.Create(ctx, &model.Game{Name: "Hades", SteamAppID: 1145360})
	require.ErrorIs(t, err, errs.ErrAlreadyExists)
}
