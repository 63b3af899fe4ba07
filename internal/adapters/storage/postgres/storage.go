package postgres

import (
	"context"
	"fmt"

	"wanderer-acl-sync/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the query surface the store needs; satisfied by *pgxpool.Pool
// and mockable in tests.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, arguments ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, arguments ...any) pgx.Row
}

type PostgresStore struct {
	pool *pgxpool.Pool
	db   DBTX
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresStore{pool: pool, db: pool}, nil
}

func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// -- Managed Map Methods --

const mapColumns = `id, name, slug, wanderer_url, map_api_key,
	COALESCE(acl_id, ''), COALESCE(acl_api_key, ''), owner_character_id`

func (s *PostgresStore) GetMap(ctx context.Context, mapID int64) (*domain.ManagedMap, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+mapColumns+` FROM wanderer_map WHERE id = $1`, mapID)

	m, err := scanMap(row)
	if err != nil {
		return nil, fmt.Errorf("get map %d: %w", mapID, err)
	}
	return m, nil
}

func (s *PostgresStore) ListMaps(ctx context.Context) ([]domain.ManagedMap, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+mapColumns+` FROM wanderer_map ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list maps: %w", err)
	}
	defer rows.Close()

	var maps []domain.ManagedMap
	for rows.Next() {
		m, err := scanMap(rows)
		if err != nil {
			return nil, fmt.Errorf("list maps: %w", err)
		}
		maps = append(maps, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list maps: %w", err)
	}
	return maps, nil
}

func (s *PostgresStore) SaveACLCredentials(ctx context.Context, mapID int64, aclID, aclAPIKey string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE wanderer_map SET acl_id = $2, acl_api_key = $3 WHERE id = $1`,
		mapID, aclID, aclAPIKey)
	if err != nil {
		return fmt.Errorf("save acl credentials for map %d: %w", mapID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("save acl credentials for map %d: map not found", mapID)
	}
	return nil
}

// -- Role Assignment Methods --

// Admin characters: characters of directly assigned admin users plus
// characters of every user in an assigned admin group.
const adminCharactersQuery = `
	SELECT DISTINCT uc.character_id
	FROM auth_user_character uc
	WHERE uc.user_id IN (
		SELECT au.user_id FROM wanderer_map_admin_user au WHERE au.map_id = $1
		UNION
		SELECT gu.user_id
		FROM auth_group_user gu
		JOIN wanderer_map_admin_group ag ON ag.group_id = gu.group_id
		WHERE ag.map_id = $1
	)
	ORDER BY uc.character_id`

const managerCharactersQuery = `
	SELECT DISTINCT uc.character_id
	FROM auth_user_character uc
	WHERE uc.user_id IN (
		SELECT mu.user_id FROM wanderer_map_manager_user mu WHERE mu.map_id = $1
		UNION
		SELECT gu.user_id
		FROM auth_group_user gu
		JOIN wanderer_map_manager_group mg ON mg.group_id = gu.group_id
		WHERE mg.map_id = $1
	)
	ORDER BY uc.character_id`

func (s *PostgresStore) GetAdminCharacterIDs(ctx context.Context, mapID int64) ([]int64, error) {
	ids, err := s.queryCharacterIDs(ctx, adminCharactersQuery, mapID)
	if err != nil {
		return nil, fmt.Errorf("get admin characters for map %d: %w", mapID, err)
	}
	return ids, nil
}

func (s *PostgresStore) GetManagerCharacterIDs(ctx context.Context, mapID int64) ([]int64, error) {
	ids, err := s.queryCharacterIDs(ctx, managerCharactersQuery, mapID)
	if err != nil {
		return nil, fmt.Errorf("get manager characters for map %d: %w", mapID, err)
	}
	return ids, nil
}

func (s *PostgresStore) queryCharacterIDs(ctx context.Context, query string, mapID int64) ([]int64, error) {
	rows, err := s.db.Query(ctx, query, mapID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanMap(row pgx.Row) (*domain.ManagedMap, error) {
	var m domain.ManagedMap
	err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Slug,
		&m.WandererURL,
		&m.MapAPIKey,
		&m.ACLID,
		&m.ACLAPIKey,
		&m.OwnerCharacterID,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
