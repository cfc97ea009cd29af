package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// dialect различия SQL диалектов поддерживаемых драйверов
type dialect struct {
	driver string
	// numbered плейсхолдеры вида $1 вместо ?
	numbered bool
}

var dialects = map[string]dialect{
	"sqlite3":  {driver: "sqlite3"},
	"postgres": {driver: "postgres", numbered: true},
}

// rebind переводит запрос с ? в плейсхолдеры диалекта
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

const schema = `
CREATE TABLE IF NOT EXISTS mortgage_sessions (
	id TEXT PRIMARY KEY,
	state TEXT NOT NULL,
	expires_at BIGINT NOT NULL
)`

// SQLStore хранит сессии в SQLite или PostgreSQL
type SQLStore struct {
	db      *sql.DB
	dialect dialect
	ttl     time.Duration
	now     func() time.Time
}

// NewSQLStore открывает базу и создает таблицу сессий.
// driver: sqlite3 или postgres. Для SQLite можно передать ":memory:".
func NewSQLStore(driver, dsn string, ttl time.Duration) (*SQLStore, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if d.driver == "sqlite3" {
		// одно соединение: база :memory: существует только внутри него
		db.SetMaxOpenConns(1)
	}

	store := &SQLStore{db: db, dialect: d, ttl: ttl, now: time.Now}
	if err := store.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func (s *SQLStore) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func (s *SQLStore) Load(ctx context.Context, id string) (state State, err error) {
	defer func() { observe(s.dialect.driver, "load", err) }()

	var data string
	query := s.dialect.rebind(`SELECT state FROM mortgage_sessions WHERE id = ? AND expires_at > ?`)
	err = s.db.QueryRowContext(ctx, query, id, s.now().Unix()).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return State{}, ErrNotFound
	}
	if err != nil {
		return State{}, fmt.Errorf("failed to load session: %w", err)
	}
	return decode([]byte(data))
}

func (s *SQLStore) Save(ctx context.Context, id string, state State) (err error) {
	defer func() { observe(s.dialect.driver, "save", err) }()

	data, err := encode(state)
	if err != nil {
		return err
	}

	query := s.dialect.rebind(`
		INSERT INTO mortgage_sessions (id, state, expires_at) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET state = excluded.state, expires_at = excluded.expires_at`)
	if _, err := s.db.ExecContext(ctx, query, id, string(data), s.expiresAt()); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) (err error) {
	defer func() { observe(s.dialect.driver, "delete", err) }()

	query := s.dialect.rebind(`DELETE FROM mortgage_sessions WHERE id = ?`)
	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// PurgeExpired удаляет истекшие сессии и возвращает их количество
func (s *SQLStore) PurgeExpired(ctx context.Context) (int64, error) {
	query := s.dialect.rebind(`DELETE FROM mortgage_sessions WHERE expires_at <= ?`)
	res, err := s.db.ExecContext(ctx, query, s.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	return res.RowsAffected()
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// expiresAt срок жизни записи; без TTL запись не истекает
func (s *SQLStore) expiresAt() int64 {
	if s.ttl <= 0 {
		return 1<<62 - 1
	}
	return s.now().Add(s.ttl).Unix()
}
