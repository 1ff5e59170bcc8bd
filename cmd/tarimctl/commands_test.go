package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/stwalsh4118/ciftlik/internal/report"
)

// useSQLite points the configuration at a fresh sqlite file.
func useSQLite(t *testing.T) {
	t.Helper()
	t.Setenv("ENV", "test")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "ciftlik.db"))
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMigrate(t *testing.T) {
	useSQLite(t)

	out, err := run(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Schema is up to date")
}

func TestUserCreate(t *testing.T) {
	useSQLite(t)

	out, err := run(t, "user", "create", "--email", "Yonetici@Example.com", "--name", "Yönetici", "--password", "uzun-sifre", "--role", "admin")
	require.NoError(t, err)
	assert.Contains(t, out, "Created admin user yonetici@example.com")

	_, err = run(t, "user", "create", "--email", "yonetici@example.com", "--password", "uzun-sifre")
	assert.Error(t, err, "duplicate email")

	_, err = run(t, "user", "create", "--email", "kisa@example.com", "--password", "kisa")
	assert.Error(t, err, "short password")

	_, err = run(t, "user", "create", "--password", "uzun-sifre")
	assert.Error(t, err, "email is required")
}

func TestAnalysisExport(t *testing.T) {
	useSQLite(t)
	_, err := run(t, "migrate")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "analiz.xlsx")
	out, err := run(t, "analysis", "export", "--start", "2024-05-01", "--end", "2024-05-31", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(report.SummarySheet)
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, []string{"Kuyu", "Tüm kuyular"}, rows[0])

	_, err = run(t, "analysis", "export", "--start", "01.05.2024", "--end", "2024-05-31", "--out", path)
	assert.Error(t, err)
}
