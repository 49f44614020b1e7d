package doctor

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

// checkSQLite opens the platform datastore read-only and runs a quick
// integrity pragma. The connection lives only for this probe.
func checkSQLite(ctx context.Context, path string) (string, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return "", err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var verdict string
	if err := db.QueryRowContext(ctx, "PRAGMA quick_check").Scan(&verdict); err != nil {
		return "", err
	}
	return verdict, nil
}
