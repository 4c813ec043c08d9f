package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"auction-bot/internal/auctionerrors"
	"auction-bot/internal/cache"
	model "auction-bot/internal/models"
	"auction-bot/utils"

	"github.com/jmoiron/sqlx"
	// postgres driver
	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	user_id    BIGINT PRIMARY KEY,
	chat_id    BIGINT NOT NULL,
	username   TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS items (
	name            TEXT PRIMARY KEY,
	creator_id      BIGINT NOT NULL,
	low_amount      DOUBLE PRECISION NOT NULL,
	high_amount     DOUBLE PRECISION NOT NULL,
	end_time        TIMESTAMPTZ,
	direction       TEXT NOT NULL DEFAULT '',
	completed       BOOLEAN NOT NULL DEFAULT FALSE,
	highest_bid_id  TEXT,
	highest_user_id BIGINT,
	highest_amount  DOUBLE PRECISION,
	highest_at      TIMESTAMPTZ,
	created_at      TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS bids (
	bid_id     TEXT PRIMARY KEY,
	item_name  TEXT NOT NULL,
	user_id    BIGINT NOT NULL,
	amount     DOUBLE PRECISION NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_bids_item_name ON bids (item_name);
`

const userCacheTTL = 10 * time.Minute

// PostgresRepo is the Postgres-backed implementation of AuctionDB. Bid
// acceptance uses a row-level lock on the item so racing bids serialize in
// the database. An optional Redis cache fronts user contact lookups.
type PostgresRepo struct {
	db    *sqlx.DB
	cache *cache.Cache
	now   func() time.Time
}

// NewPostgresRepo connects to Postgres, ensures the schema and returns the
// repository. cache may be nil.
func NewPostgresRepo(dsn string, userCache *cache.Cache) (*PostgresRepo, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("postgres: ensure schema: %w", err)
	}
	return &PostgresRepo{db: db, cache: userCache, now: time.Now}, nil
}

// Close releases the database handle
func (r *PostgresRepo) Close() error {
	return r.db.Close()
}

// itemRow mirrors the items table with the denormalized highest-bid columns
type itemRow struct {
	Name          string          `db:"name"`
	CreatorID     int64           `db:"creator_id"`
	LowAmount     float64         `db:"low_amount"`
	HighAmount    float64         `db:"high_amount"`
	EndTime       sql.NullTime    `db:"end_time"`
	Direction     string          `db:"direction"`
	Completed     bool            `db:"completed"`
	HighestBidID  sql.NullString  `db:"highest_bid_id"`
	HighestUserID sql.NullInt64   `db:"highest_user_id"`
	HighestAmount sql.NullFloat64 `db:"highest_amount"`
	HighestAt     sql.NullTime    `db:"highest_at"`
	CreatedAt     time.Time       `db:"created_at"`
}

func (row itemRow) toModel() model.Item {
	item := model.Item{
		Name:       row.Name,
		CreatorID:  row.CreatorID,
		LowAmount:  row.LowAmount,
		HighAmount: row.HighAmount,
		Direction:  model.BidDirection(row.Direction),
		Completed:  row.Completed,
		CreatedAt:  row.CreatedAt,
	}
	if row.EndTime.Valid {
		end := row.EndTime.Time
		item.EndTime = &end
	}
	if row.HighestBidID.Valid {
		item.HighestBid = &model.Bid{
			BidID:     row.HighestBidID.String,
			ItemName:  row.Name,
			UserID:    row.HighestUserID.Int64,
			Amount:    row.HighestAmount.Float64,
			CreatedAt: row.HighestAt.Time,
		}
	}
	return item
}

const selectItemColumns = `
	name, creator_id, low_amount, high_amount, end_time, direction, completed,
	highest_bid_id, highest_user_id, highest_amount, highest_at, created_at`

// CreateUser inserts a user record, reporting ErrAlreadyRegistered on conflict
func (r *PostgresRepo) CreateUser(user model.User) error {
	res, err := r.db.Exec(`
		INSERT INTO users (user_id, chat_id, username, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO NOTHING`,
		user.UserID, user.ChatID, user.Username, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("create user %d: %w", user.UserID, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("create user %d: %w", user.UserID, err)
	}
	if rows == 0 {
		return fmt.Errorf("create user %d: %w", user.UserID, auctionerrors.ErrAlreadyRegistered)
	}
	return nil
}

// GetUser returns the user with the given external identity, consulting the
// Redis cache first when configured.
func (r *PostgresRepo) GetUser(userID int64) (model.User, error) {
	cacheKey := fmt.Sprintf("user:%d", userID)
	if r.cache != nil {
		var cached model.User
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		err := r.cache.Get(ctx, cacheKey, &cached)
		cancel()
		if err == nil {
			return cached, nil
		}
	}

	var user model.User
	err := r.db.Get(&user, `SELECT user_id, chat_id, username, created_at FROM users WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, fmt.Errorf("get user %d: %w", userID, auctionerrors.ErrUserNotFound)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("get user %d: %w", userID, err)
	}

	if r.cache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		if err := r.cache.Set(ctx, cacheKey, user, userCacheTTL); err != nil {
			utils.Warn("user cache write failed", map[string]any{"user_id": userID, "error": err.Error()})
		}
		cancel()
	}
	return user, nil
}

// CreateItem inserts a new auction item keyed by its unique name
func (r *PostgresRepo) CreateItem(item model.Item) error {
	var endTime any
	if item.EndTime != nil {
		endTime = *item.EndTime
	}
	res, err := r.db.Exec(`
		INSERT INTO items (name, creator_id, low_amount, high_amount, end_time, direction, completed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7)
		ON CONFLICT (name) DO NOTHING`,
		item.Name, item.CreatorID, item.LowAmount, item.HighAmount, endTime, string(item.Direction), item.CreatedAt)
	if err != nil {
		return fmt.Errorf("create item %q: %w", item.Name, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("create item %q: %w", item.Name, err)
	}
	if rows == 0 {
		return fmt.Errorf("create item %q: %w", item.Name, auctionerrors.ErrItemExists)
	}
	return nil
}

// GetItem returns the item with the given name
func (r *PostgresRepo) GetItem(name string) (model.Item, error) {
	var row itemRow
	err := r.db.Get(&row, `SELECT `+selectItemColumns+` FROM items WHERE name = $1`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Item{}, fmt.Errorf("get item %q: %w", name, auctionerrors.ErrItemNotFound)
	}
	if err != nil {
		return model.Item{}, fmt.Errorf("get item %q: %w", name, err)
	}
	return row.toModel(), nil
}

// SetDirection updates the bid direction of an existing item
func (r *PostgresRepo) SetDirection(name string, direction model.BidDirection) error {
	res, err := r.db.Exec(`UPDATE items SET direction = $1 WHERE name = $2`, string(direction), name)
	if err != nil {
		return fmt.Errorf("set direction for item %q: %w", name, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set direction for item %q: %w", name, err)
	}
	if rows == 0 {
		return fmt.Errorf("set direction for item %q: %w", name, auctionerrors.ErrItemNotFound)
	}
	return nil
}

// ListOpenItems returns all items that have not been finalized
func (r *PostgresRepo) ListOpenItems() ([]model.Item, error) {
	return r.queryItems(`SELECT ` + selectItemColumns + ` FROM items WHERE completed = FALSE`)
}

// ListBiddedItems returns all non-finalized items that have received a bid
func (r *PostgresRepo) ListBiddedItems() ([]model.Item, error) {
	return r.queryItems(`SELECT ` + selectItemColumns + ` FROM items WHERE completed = FALSE AND highest_bid_id IS NOT NULL`)
}

// ExpiredItems returns all items whose deadline has passed and that are not
// yet finalized.
func (r *PostgresRepo) ExpiredItems(now time.Time) ([]model.Item, error) {
	return r.queryItems(`SELECT `+selectItemColumns+` FROM items WHERE completed = FALSE AND end_time IS NOT NULL AND end_time <= $1`, now)
}

func (r *PostgresRepo) queryItems(query string, args ...any) ([]model.Item, error) {
	var rows []itemRow
	if err := r.db.Select(&rows, query, args...); err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	items := make([]model.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toModel())
	}
	return items, nil
}

// MarkCompleted flags an item as finalized
func (r *PostgresRepo) MarkCompleted(name string) error {
	res, err := r.db.Exec(`UPDATE items SET completed = TRUE WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("mark completed %q: %w", name, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark completed %q: %w", name, err)
	}
	if rows == 0 {
		return fmt.Errorf("mark completed %q: %w", name, auctionerrors.ErrItemNotFound)
	}
	return nil
}

// DeleteItem removes the item record. The bid log is retained.
func (r *PostgresRepo) DeleteItem(name string) error {
	res, err := r.db.Exec(`DELETE FROM items WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("delete item %q: %w", name, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete item %q: %w", name, err)
	}
	if rows == 0 {
		return fmt.Errorf("delete item %q: %w", name, auctionerrors.ErrItemNotFound)
	}
	return nil
}

// CommitBid runs the read-check-write of bid acceptance in a single
// transaction. The SELECT ... FOR UPDATE serializes racing bids on the same
// item; the bid insert and the highest-bid update commit together or not at
// all.
func (r *PostgresRepo) CommitBid(bid model.Bid) (*model.Bid, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("commit bid for item %q: begin: %w", bid.ItemName, err)
	}
	defer tx.Rollback()

	var row itemRow
	err = tx.Get(&row, `SELECT `+selectItemColumns+` FROM items WHERE name = $1 FOR UPDATE`, bid.ItemName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("commit bid for item %q: %w", bid.ItemName, auctionerrors.ErrItemNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("commit bid for item %q: %w", bid.ItemName, err)
	}

	item := row.toModel()
	if item.Completed || item.Expired(r.now()) {
		return nil, fmt.Errorf("commit bid for item %q: %w", bid.ItemName, auctionerrors.ErrAuctionEnded)
	}
	prev := item.HighestBid
	if prev != nil && bid.Amount <= prev.Amount {
		return nil, fmt.Errorf("commit bid for item %q: %w - current highest bid is %.2f",
			bid.ItemName, auctionerrors.ErrBidTooLow, prev.Amount)
	}

	if _, err := tx.Exec(`
		INSERT INTO bids (bid_id, item_name, user_id, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		bid.BidID, bid.ItemName, bid.UserID, bid.Amount, bid.CreatedAt); err != nil {
		return nil, fmt.Errorf("commit bid for item %q: insert: %w", bid.ItemName, err)
	}
	if _, err := tx.Exec(`
		UPDATE items
		SET highest_bid_id = $1, highest_user_id = $2, highest_amount = $3, highest_at = $4
		WHERE name = $5`,
		bid.BidID, bid.UserID, bid.Amount, bid.CreatedAt, bid.ItemName); err != nil {
		return nil, fmt.Errorf("commit bid for item %q: update: %w", bid.ItemName, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit bid for item %q: commit: %w", bid.ItemName, err)
	}
	return prev, nil
}

// GetBidsByItem returns all accepted bids for an item in acceptance order
func (r *PostgresRepo) GetBidsByItem(name string) ([]model.Bid, error) {
	var bids []model.Bid
	err := r.db.Select(&bids, `
		SELECT bid_id, item_name, user_id, amount, created_at
		FROM bids WHERE item_name = $1 ORDER BY created_at`, name)
	if err != nil {
		return nil, fmt.Errorf("get bids for item %q: %w", name, err)
	}
	if len(bids) == 0 {
		return nil, fmt.Errorf("get bids for item %q: %w", name, auctionerrors.ErrNoBids)
	}
	return bids, nil
}
