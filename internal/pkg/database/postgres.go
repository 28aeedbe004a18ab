package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	// Driver do PostgreSQL registrado como "postgres"
	_ "github.com/lib/pq"
)

// NewPostgresDB abre o pool de conexões com o PostgreSQL e valida com um ping.
func NewPostgresDB(ctx context.Context, dataSourceName string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("falha ao abrir a conexão com o DB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("falha ao realizar o ping inicial no DB: %w", err)
	}

	// Pool pequeno: a loja grava coleções inteiras com pouca concorrência.
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	return db, nil
}
