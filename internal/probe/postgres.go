package probe

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"portwait/internal/domain"
)

// PostgresProber succeeds once the server behind the DSN accepts a
// connection and answers a ping.
type PostgresProber struct{}

func NewPostgresProber() *PostgresProber {
	return &PostgresProber{}
}

func (p *PostgresProber) Probe(ctx context.Context, spec domain.EndpointSpec) error {
	db, err := sql.Open("pgx", spec.DSN)
	if err != nil {
		return fmt.Errorf("failed to open postgres connection: %w", err)
	}
	defer db.Close()

	return db.PingContext(ctx)
}
