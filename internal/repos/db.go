package repos

import (
	"context"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"shopkeep/internal/domain"
)

// Timestamps are stored as fixed-width UTC text so they sort lexically on
// every backend.
const tsLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTS(t time.Time) string { return t.UTC().Format(tsLayout) }

func parseTS(s string) time.Time {
	t, err := time.Parse(tsLayout, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339Nano, s)
	}
	return t.UTC()
}

// OpenDB connects with driver ("sqlite", "mysql" or "pgx"), creates the
// schema and, when seed is set, inserts demo items into an empty store.
func OpenDB(driver, dsn string, seed bool) (*sqlx.DB, error) {
	if driver == "" {
		driver = "sqlite"
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// one connection: sqlite has a single writer, and :memory: databases
		// are per connection
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db, driver); err != nil {
		return nil, err
	}
	if seed {
		if err := seedIfEmpty(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB, driver string) error {
	var stmts []string
	switch driver {
	case "sqlite":
		stmts = []string{`
CREATE TABLE IF NOT EXISTS items(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL CHECK (length(name) > 0),
  description TEXT NOT NULL,
  purchase_price NUMERIC NOT NULL CHECK (purchase_price >= 0),
  selling_price NUMERIC NOT NULL CHECK (selling_price >= 0),
  quantity INTEGER NOT NULL CHECK (quantity >= 0),
  low_stock_threshold INTEGER NOT NULL CHECK (low_stock_threshold >= 0),
  image_url TEXT NOT NULL,
  image_hint TEXT NOT NULL,
  created_at TEXT NOT NULL
)`,
			`CREATE INDEX IF NOT EXISTS idx_items_created_at ON items(created_at)`,
			// item_id has no foreign key: sales outlive deleted items
			`
CREATE TABLE IF NOT EXISTS sales(
  id TEXT PRIMARY KEY,
  item_id TEXT NOT NULL,
  item_name TEXT NOT NULL,
  quantity INTEGER NOT NULL CHECK (quantity > 0),
  price_per_item NUMERIC NOT NULL CHECK (price_per_item >= 0),
  total_price NUMERIC NOT NULL,
  date TEXT NOT NULL
)`,
			`CREATE INDEX IF NOT EXISTS idx_sales_date ON sales(date)`,
		}
	case "mysql":
		stmts = []string{`
CREATE TABLE IF NOT EXISTS items(
  id VARCHAR(64) PRIMARY KEY,
  name VARCHAR(255) NOT NULL,
  description TEXT NOT NULL,
  purchase_price DECIMAL(14,4) NOT NULL CHECK (purchase_price >= 0),
  selling_price DECIMAL(14,4) NOT NULL CHECK (selling_price >= 0),
  quantity INT NOT NULL CHECK (quantity >= 0),
  low_stock_threshold INT NOT NULL CHECK (low_stock_threshold >= 0),
  image_url VARCHAR(512) NOT NULL,
  image_hint VARCHAR(64) NOT NULL,
  created_at VARCHAR(40) NOT NULL,
  INDEX idx_items_created_at (created_at)
)`, `
CREATE TABLE IF NOT EXISTS sales(
  id VARCHAR(64) PRIMARY KEY,
  item_id VARCHAR(64) NOT NULL,
  item_name VARCHAR(255) NOT NULL,
  quantity INT NOT NULL CHECK (quantity > 0),
  price_per_item DECIMAL(14,4) NOT NULL,
  total_price DECIMAL(18,4) NOT NULL,
  date VARCHAR(40) NOT NULL,
  INDEX idx_sales_date (date)
)`,
		}
	case "pgx", "postgres":
		stmts = []string{`
CREATE TABLE IF NOT EXISTS items(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL CHECK (length(name) > 0),
  description TEXT NOT NULL,
  purchase_price NUMERIC(14,4) NOT NULL CHECK (purchase_price >= 0),
  selling_price NUMERIC(14,4) NOT NULL CHECK (selling_price >= 0),
  quantity INTEGER NOT NULL CHECK (quantity >= 0),
  low_stock_threshold INTEGER NOT NULL CHECK (low_stock_threshold >= 0),
  image_url TEXT NOT NULL,
  image_hint TEXT NOT NULL,
  created_at TEXT NOT NULL
)`,
			`CREATE INDEX IF NOT EXISTS idx_items_created_at ON items(created_at)`, `
CREATE TABLE IF NOT EXISTS sales(
  id TEXT PRIMARY KEY,
  item_id TEXT NOT NULL,
  item_name TEXT NOT NULL,
  quantity INTEGER NOT NULL CHECK (quantity > 0),
  price_per_item NUMERIC(14,4) NOT NULL,
  total_price NUMERIC(18,4) NOT NULL,
  date TEXT NOT NULL
)`,
			`CREATE INDEX IF NOT EXISTS idx_sales_date ON sales(date)`,
		}
	default:
		return fmt.Errorf("repos: unsupported driver %q", driver)
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("repos: schema: %w", err)
		}
	}
	return nil
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM items`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo items")

	items := NewItemRepo(db)
	demo := []domain.NewItem{
		{Name: "Wireless Mouse", Description: "2.4GHz optical mouse with USB receiver", PurchasePrice: decimal.RequireFromString("8.50"), SellingPrice: decimal.RequireFromString("19.99"), Quantity: 24, LowStockThreshold: 5},
		{Name: "Notebook A5", Description: "Ruled notebook, 120 pages", PurchasePrice: decimal.RequireFromString("1.20"), SellingPrice: decimal.RequireFromString("3.50"), Quantity: 60, LowStockThreshold: 10},
		{Name: "Coffee Beans 1kg", Description: "Medium roast whole beans", PurchasePrice: decimal.RequireFromString("11.00"), SellingPrice: decimal.RequireFromString("22.00"), Quantity: 3, LowStockThreshold: 4},
	}
	for _, in := range demo {
		if _, err := items.Create(context.Background(), in); err != nil {
			return err
		}
	}
	return nil
}

// bind rewrites ? placeholders for the connection's driver.
func bind(q sqlx.QueryerContext, query string) string {
	type rebinder interface{ Rebind(string) string }
	if r, ok := q.(rebinder); ok {
		return r.Rebind(query)
	}
	return query
}
