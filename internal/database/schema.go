package database

import (
	"context"
	"database/sql"
)

// Schema statements executed at startup. CREATE TABLE IF NOT EXISTS keeps
// Bootstrap idempotent; the uniqueness constraints here are the correctness
// backstop for duplicate registrations and double-booked seats.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		username      VARCHAR(100)    NOT NULL,
		email         VARCHAR(255)    NOT NULL,
		phone         VARCHAR(32)     NOT NULL,
		password_hash VARCHAR(100)    NOT NULL,
		role          VARCHAR(16)     NOT NULL DEFAULT 'USER',
		created_at    TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_email (email),
		UNIQUE KEY uq_users_phone (phone)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS shows (
		id               BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		title            VARCHAR(255)    NOT NULL,
		starts_at        DATETIME        NOT NULL,
		hall_id          BIGINT UNSIGNED NOT NULL,
		base_price_cents INT UNSIGNED    NOT NULL DEFAULT 0,
		created_at       TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at       TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS tickets (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		show_id    BIGINT UNSIGNED NOT NULL,
		pos_row    INT UNSIGNED    NOT NULL,
		cell       INT UNSIGNED    NOT NULL,
		user_id    BIGINT UNSIGNED NOT NULL,
		created_at TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_tickets_seat (show_id, pos_row, cell),
		KEY idx_tickets_show (show_id),
		CONSTRAINT fk_tickets_show FOREIGN KEY (show_id) REFERENCES shows (id),
		CONSTRAINT fk_tickets_user FOREIGN KEY (user_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Bootstrap creates the application tables when they do not exist yet.
func Bootstrap(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
