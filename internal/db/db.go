package db

import (
	"database/sql"
	"log"

	_ "github.com/go-sql-driver/mysql"
)

func InitDB(dbURL string) *sql.DB {
	db, err := sql.Open("mysql", dbURL)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}

	err = db.Ping()
	if err != nil {
		log.Fatal("Database is not responding:", err)
	}

	log.Println("Connected to database")
	return db
}

func RunMigrations(db *sql.DB) {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(64) PRIMARY KEY,
			email VARCHAR(255) UNIQUE,
			first_name VARCHAR(100),
			last_name VARCHAR(100),
			profile_image_url VARCHAR(512),
			role VARCHAR(20) NOT NULL DEFAULT 'user',
			balance DECIMAL(10,2) NOT NULL DEFAULT 0.00,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id INT AUTO_INCREMENT PRIMARY KEY,
			user_id VARCHAR(64) NOT NULL,
			type VARCHAR(20) NOT NULL,
			amount DECIMAL(10,2) NOT NULL,
			status VARCHAR(20) NOT NULL,
			method VARCHAR(50),
			description TEXT,
			admin_id VARCHAR(64),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			INDEX idx_user_created (user_id, created_at),
			INDEX idx_type_status (type, status),
			FOREIGN KEY (user_id) REFERENCES users(id)
		);`,
	}

	for _, q := range queries {
		_, err := db.Exec(q)
		if err != nil {
			log.Fatal("Migration failed:", err)
		}
	}
	log.Println("Migrations completed")
}
