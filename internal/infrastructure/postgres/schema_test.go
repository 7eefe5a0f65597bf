package postgres

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadSchema(t *testing.T) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("..", "..", "..", "migrations", "schema.sql"))
	require.NoError(t, err, "migrations/schema.sql debe existir")
	return string(b)
}

// tableDDL extrae el bloque CREATE TABLE de una tabla del esquema.
func tableDDL(t *testing.T, schema, table string) string {
	t.Helper()
	re := regexp.MustCompile(`(?s)CREATE TABLE IF NOT EXISTS ` + table + ` \((.*?)\);`)
	m := re.FindStringSubmatch(schema)
	require.NotNil(t, m, "el esquema debe definir la tabla %s", table)
	return m[1]
}

// Toda columna que el repositorio nombra en sus queries debe existir en el
// DDL desplegado; un desfase aquí rompe login y administración con 42703 en
// runtime, no en compilación.
func TestSchema_ColumnasDeUsuariosCoinciden(t *testing.T) {
	ddl := tableDDL(t, loadSchema(t), "users")

	for _, col := range strings.Split(userColumns, ", ") {
		assert.Contains(t, ddl, col, "la tabla users debe definir la columna %q", col)
	}
}

func TestSchema_ColumnasDeMovimientosCoinciden(t *testing.T) {
	ddl := tableDDL(t, loadSchema(t), "movement_events")

	for _, col := range []string{
		"id", "barcode", "warehouse_code", "type", "direction",
		"quantity", "reference", "correlation_id", "event_time", "created_at", "created_by",
	} {
		assert.Contains(t, ddl, col, "la tabla movement_events debe definir la columna %q", col)
	}
}

func TestSchema_ColumnasDeAuditoriaCoinciden(t *testing.T) {
	ddl := tableDDL(t, loadSchema(t), "audit_logs")

	for _, col := range []string{
		"id", "user_id", "action", "resource", "resource_id",
		"details", "ip_address", "user_agent", "location", "created_at",
	} {
		assert.Contains(t, ddl, col, "la tabla audit_logs debe definir la columna %q", col)
	}
}

// Las semillas deben cubrir el catálogo completo de permisos canónicos; un
// permiso sin sembrar deniega la ruta para todos los roles (fail-closed).
func TestSchema_SemillaDePermisosCompleta(t *testing.T) {
	schema := loadSchema(t)

	for _, perm := range []string{
		"opening.create", "dispatch.create", "returns.create",
		"damage.create", "recovery.create", "transfers.create",
		"timeline.view", "audit.view", "users.manage", "roles.manage",
	} {
		assert.Contains(t, schema, perm, "la semilla debe incluir el permiso %q", perm)
	}
}
