package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nitesh-dev/gymmora-sub000/internal/domain"
	"github.com/nitesh-dev/gymmora-sub000/internal/service"
)

const legacyProgram = `{
  "name": "Full Body",
  "days": [
    {"dayOfWeek": 1, "label": "A", "exercises": [{"exerciseId": 1, "sets": 3, "reps": 5}]},
    {"dayOfWeek": 4, "label": "B", "exercises": [{"exerciseId": 2, "sets": "3", "reps": 5}]}
  ]
}`

type cli struct {
	configDir string
	dbPath    string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	return &cli{configDir: t.TempDir(), dbPath: filepath.Join(t.TempDir(), "cli.db")}
}

// run executes one command line and returns stdout.
func (c *cli) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", c.configDir, "--db", c.dbPath, "--owner", "alice"}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestImportListExport(t *testing.T) {
	c := newCLI(t)

	out, err := c.run(t, "import", writeFile(t, "program.json", legacyProgram))
	require.NoError(t, err)
	assert.Contains(t, out, `imported "Full Body (Imported)"`)

	out, err = c.run(t, "plans", "--json")
	require.NoError(t, err)
	var plans []domain.Plan
	require.NoError(t, json.Unmarshal([]byte(out), &plans))
	require.Len(t, plans, 1)
	planID := plans[0].ID

	out, err = c.run(t, "activate", planID)
	require.NoError(t, err)
	assert.Contains(t, out, "activated "+planID)

	out, err = c.run(t, "plans")
	require.NoError(t, err)
	assert.Contains(t, out, "Full Body (Imported)")
	assert.Contains(t, out, string(domain.PlanStatusActive))

	exported := filepath.Join(t.TempDir(), "export.json")
	_, err = c.run(t, "export", planID, "--out", exported)
	require.NoError(t, err)
	raw, err := os.ReadFile(exported)
	require.NoError(t, err)
	var doc domain.ProgramDocument
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Len(t, doc.Weeks, 1)
	assert.Len(t, doc.Weeks[0].Days, domain.DaysInWeek)

	// The export imports back without touching the name.
	out, err = c.run(t, "import", exported)
	require.NoError(t, err)
	assert.Contains(t, out, `imported "Full Body (Imported)"`)
}

func TestImport_ReportsRejectedDocuments(t *testing.T) {
	c := newCLI(t)
	batch := "[" + legacyProgram + `, {"name": "Nothing"}]`

	out, err := c.run(t, "import", writeFile(t, "batch.json", batch))
	assert.EqualError(t, err, "1 document not imported")
	assert.Contains(t, out, "[0]: imported")
	assert.Contains(t, out, "[1]: "+string(service.ImportStatusInvalid))
	assert.Contains(t, out, "neither weeks nor days")
}

func TestExport_OtherOwnersPlanIsMissing(t *testing.T) {
	c := newCLI(t)
	_, err := c.run(t, "import", writeFile(t, "program.json", legacyProgram))
	require.NoError(t, err)
	out, err := c.run(t, "plans", "--json")
	require.NoError(t, err)
	var plans []domain.Plan
	require.NoError(t, json.Unmarshal([]byte(out), &plans))

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", c.configDir, "--db", c.dbPath, "--owner", "bob", "export", plans[0].ID})
	err = cmd.Execute()
	assert.True(t, domain.IsNotFound(err))
}

func TestStats_EmptyHistory(t *testing.T) {
	c := newCLI(t)

	out, err := c.run(t, "stats", "--metric", "volume")
	require.NoError(t, err)
	var dashboard service.Dashboard
	require.NoError(t, json.Unmarshal([]byte(out), &dashboard))
	assert.Zero(t, dashboard.TotalSessions)

	_, err = c.run(t, "stats", "--metric", "reps")
	assert.True(t, domain.IsValidation(err))
}

func TestToken(t *testing.T) {
	c := newCLI(t)

	_, err := c.run(t, "token")
	assert.EqualError(t, err, "jwt.secret is not set")

	t.Setenv("JWT_SECRET", "cli-secret")
	out, err := c.run(t, "token")
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(strings.TrimSpace(out), claims, func(*jwt.Token) (interface{}, error) {
		return []byte("cli-secret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", claims["uid"])
}
