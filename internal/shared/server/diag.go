package server

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"decision-backend/internal/shared/server/respond"
)

const diagProbeTimeout = 3 * time.Second

// diag reports backend and decision vault availability. Every check is
// best-effort; the endpoint never fails.
type diag struct {
	db          *sql.DB
	databaseURL string
}

func (d diag) probe(c *gin.Context) {
	response := gin.H{
		"backend":           "✅ Running",
		"database":          "❌ Not Available",
		"database_url":      "❌ Not Set",
		"database_name":     nil,
		"connection_status": "Not Connected",
		"collections":       []string{},
	}
	if strings.TrimSpace(d.databaseURL) != "" {
		response["database_url"] = "✅ Set"
	}
	if d.db == nil {
		respond.JSON(c, http.StatusOK, response)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), diagProbeTimeout)
	defer cancel()

	if err := d.db.PingContext(ctx); err != nil {
		response["database"] = "❌ Error: " + truncateErr(err.Error())
		respond.JSON(c, http.StatusOK, response)
		return
	}
	response["database"] = "✅ Available"
	response["connection_status"] = "Connected"

	var name string
	if err := d.db.QueryRowContext(ctx, `SELECT current_database()`).Scan(&name); err == nil {
		response["database_name"] = name
	}

	tables, err := listTables(ctx, d.db)
	if err != nil {
		response["database"] = "⚠️ Connected but Error: " + truncateErr(err.Error())
	} else {
		response["collections"] = tables
		response["database"] = "✅ Connected & Working"
	}

	respond.JSON(c, http.StatusOK, response)
}

// listTables returns the first vault tables, the relational analogue of
// listing document collections.
func listTables(ctx context.Context, database *sql.DB) ([]string, error) {
	const query = `
SELECT table_name
FROM information_schema.tables
WHERE table_schema = 'public'
ORDER BY table_name
LIMIT 10`

	rows, err := database.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func truncateErr(msg string) string {
	const max = 50
	if len(msg) <= max {
		return msg
	}
	return msg[:max]
}
