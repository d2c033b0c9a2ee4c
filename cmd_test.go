package main

import (
	"bytes"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func runCommand(t *testing.T, handler http.HandlerFunc, args ...string) (string, error) {
	t.Helper()
	client := testClient(t, handler)
	var out bytes.Buffer
	app := NewApp(client, &out, io.Discard, zap.NewNop())
	app.LogLevel = zap.NewAtomicLevel()
	app.NoColor = true

	rootCmd := SetupCommands(app)
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestListCommandRendersTable(t *testing.T) {
	out, err := runCommand(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[
			{"customer": {"id": 1, "name": "B", "archived": false}},
			{"customer": {"id": 2, "name": "A", "archived": true}}
		]`)
	}, "list", "customers", "--columns", "id,name", "--sort", "name")
	require.NoError(t, err)

	assert.Equal(t, "id  name\n 2  A\n 1  B\n", out)
}

func TestListCommandBadFlagsExitUsage(t *testing.T) {
	tests := [][]string{
		{"list", "customers", "--columns", "nope"},
		{"list", "customers", "--sort", "nope"},
		{"list", "customers", "--format", "nope"},
		{"list", "entries", "--from", "not-a-date"},
	}

	for _, args := range tests {
		out, err := runCommand(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("store must not be contacted for a bad invocation")
		}, args...)
		require.Error(t, err, args)
		assert.Equal(t, exitUsage, exitCode(err), args)
		assert.Empty(t, out, args)
	}
}

func TestListEntriesPassesDateBounds(t *testing.T) {
	_, err := runCommand(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2026-08-01", r.URL.Query().Get("from"))
		assert.Equal(t, "2026-08-24", r.URL.Query().Get("to"))
		assert.Equal(t, "true", r.URL.Query().Get("billable"))
		io.WriteString(w, `[]`)
	}, "list", "entries", "--from", "2026-08-01", "--to", "2026-08-24", "--billable", "ja")
	require.NoError(t, err)
}

func TestNewCommandDirectMode(t *testing.T) {
	out, err := runCommand(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/projects.json":
			io.WriteString(w, `[{"project": {"id": 1, "name": "Website"}}]`)
		case "/services.json":
			io.WriteString(w, `[{"service": {"id": 5, "name": "Development"}}]`)
		case "/time_entries.json":
			w.WriteHeader(http.StatusCreated)
			io.WriteString(w, `{"time_entry": {"id": 8, "minutes": 45, "date_at": "2026-08-24"}}`)
		default:
			http.NotFound(w, r)
		}
	}, "new", "--project", "web", "--service", "dev", "--minutes", "45")
	require.NoError(t, err)
	assert.Contains(t, out, "Created time entry 8")
}

func TestNewCommandAmbiguousProjectFails(t *testing.T) {
	var created bool
	_, err := runCommand(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/projects.json":
			io.WriteString(w, `[
				{"project": {"id": 1, "name": "Website"}},
				{"project": {"id": 2, "name": "Website Relaunch"}}
			]`)
		case "/services.json":
			io.WriteString(w, `[{"service": {"id": 5, "name": "Development"}}]`)
		default:
			created = true
		}
	}, "new", "--project", "website", "--service", "dev", "--minutes", "45")

	require.Error(t, err)
	assert.Equal(t, exitFailure, exitCode(err))
	assert.False(t, created, "no entry may be created on ambiguous resolution")
}

func TestArchiveCommandUnknownKind(t *testing.T) {
	_, err := runCommand(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("store must not be contacted for a bad invocation")
	}, "archive", "sprocket", "Acme")
	require.Error(t, err)
	assert.Equal(t, exitUsage, exitCode(err))
}

func TestKindFromArg(t *testing.T) {
	for arg, want := range map[string]EntityKind{
		"customer": EntityCustomer,
		"services": EntityService,
		"project":  EntityProject,
	} {
		kind, err := kindFromArg(arg)
		require.NoError(t, err)
		assert.Equal(t, want, kind)
	}

	_, err := kindFromArg("entry")
	require.Error(t, err)
}
