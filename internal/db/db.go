package db

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"log"
	"net"

	"agrocycle-be/internal/config"

	"github.com/lib/pq"
)

// ErrBackendUnavailable marks failures caused by the database being
// unreachable, as opposed to domain errors. The API layer maps it to 503 so
// clients know to retry instead of fixing their input.
var ErrBackendUnavailable = errors.New("persistence backend unavailable")

func InitDB(cfg *config.Config) *sql.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	database, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	if err = database.Ping(); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}

	log.Println("Database connection established")
	return database
}

// WrapErr tags connection-level failures with ErrBackendUnavailable and
// leaves every other error untouched.
func WrapErr(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, driver.ErrBadConn) {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Class() == "08" {
		// Class 08: connection exceptions.
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	return err
}
