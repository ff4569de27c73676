package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dasolve/dmddl/generator"
	"github.com/dasolve/dmddl/generator/sqlmodel"
	"github.com/dasolve/dmddl/loader"
	"github.com/dasolve/dmddl/validator"
)

const basicFixture = "../loader/testdata/basic.yml"

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func expectedSQLModel(t *testing.T) string {
	t.Helper()
	m, err := loader.LoadFile(basicFixture)
	require.NoError(t, err)
	return sqlmodel.Emit(m, generator.Options{})
}

func writeModel(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestGenerateStdout(t *testing.T) {
	out, _, err := run(t, "generate", basicFixture, "--highlight", "never")
	require.NoError(t, err)
	assert.Equal(t, expectedSQLModel(t)+"\n", out)
}

func TestRootPositionalGenerates(t *testing.T) {
	out, _, err := run(t, basicFixture, "--highlight=never")
	require.NoError(t, err)
	assert.Equal(t, expectedSQLModel(t)+"\n", out)
}

func TestRootWithoutArgsPrintsHelp(t *testing.T) {
	out, _, err := run(t)
	require.NoError(t, err)
	assert.Contains(t, out, "dmddl [input]")
}

func TestGenerateOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.py")
	require.NoError(t, os.WriteFile(path, []byte("stale content that must disappear"), 0644))

	out, errOut, err := run(t, "generate", basicFixture, "-o", path)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, errOut, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, expectedSQLModel(t), string(data))
}

func TestGenerateFailuresProduceNoOutput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		args  []string
		check func(t *testing.T, err error)
	}{
		{
			"unsupported model dialect",
			"../loader/testdata/invalid-dialect.yml",
			nil,
			func(t *testing.T, err error) { assert.ErrorIs(t, err, generator.ErrUnsupportedDialect) },
		},
		{
			"unsupported dialect flag",
			basicFixture,
			[]string{"--dialect", "mysql"},
			func(t *testing.T, err error) { assert.ErrorIs(t, err, generator.ErrUnsupportedDialect) },
		},
		{
			"unknown target",
			basicFixture,
			[]string{"--target", "cobol"},
			func(t *testing.T, err error) { assert.ErrorIs(t, err, generator.ErrUnknownTarget) },
		},
		{
			"restricted default",
			"../loader/testdata/invalid-uuid-default.yml",
			nil,
			func(t *testing.T, err error) {
				var verr *loader.ValidationError
				assert.ErrorAs(t, err, &verr)
			},
		},
		{
			"missing input",
			"../loader/testdata/does-not-exist.yml",
			nil,
			func(t *testing.T, err error) { assert.ErrorContains(t, err, "reading schema file") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "models.py")
			args := append([]string{"generate", tt.input, "-o", path}, tt.args...)

			out, _, err := run(t, args...)
			require.Error(t, err)
			tt.check(t, err)
			assert.Empty(t, out)
			assert.NoFileExists(t, path)
		})
	}
}

func TestGenerateTargets(t *testing.T) {
	out, _, err := run(t, "generate", basicFixture, "-t", "drizzle", "--highlight", "never")
	require.NoError(t, err)
	assert.Contains(t, out, `from "drizzle-orm/pg-core";`)

	out, _, err = run(t, "generate", basicFixture, "--target", "ddl", "--highlight", "never")
	require.NoError(t, err)
	assert.Contains(t, out, `CREATE TABLE "basic_example"."users" (`)
}

func TestGenerateExplicitTableNames(t *testing.T) {
	path := writeModel(t, "name: shop\ntables:\n  - name: users\n    columns: []\n")

	out, errOut, err := run(t, "--no-color", "generate", path, "--highlight", "never")
	require.NoError(t, err)
	assert.NotContains(t, out, "__tablename__")
	assert.Contains(t, errOut, "[WARN ] Table 'users' has no columns")

	out, _, err = run(t, "generate", path, "--highlight", "never", "--explicit-table-names")
	require.NoError(t, err)
	assert.Contains(t, out, `    __tablename__ = "users"`)
}

func TestGenerateHighlightAlways(t *testing.T) {
	out, _, err := run(t, "generate", basicFixture, "--highlight", "always")
	require.NoError(t, err)
	assert.Contains(t, out, "\x1b[")
}

func TestGenerateConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "dmddl.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("target: ddl\nhighlight: never\n"), 0644))

	out, _, err := run(t, "--config", cfgPath, "generate", basicFixture)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, `CREATE SCHEMA IF NOT EXISTS "basic_example";`))

	// flags win over the config file
	out, _, err = run(t, "--config", cfgPath, "generate", basicFixture, "-t", "sqlmodel")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "import datetime\n"))

	_, _, err = run(t, "--config", filepath.Join(dir, "missing.yaml"), "generate", basicFixture)
	assert.ErrorContains(t, err, "read config")
}

func TestValidateJSON(t *testing.T) {
	out, _, err := run(t, "validate", basicFixture, "--format", "json")
	require.NoError(t, err)

	var report validator.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.True(t, report.Valid)
	assert.Empty(t, report.Errors)
}

func TestValidateText(t *testing.T) {
	out, _, err := run(t, "--no-color", "validate", basicFixture)
	require.NoError(t, err)
	assert.Contains(t, out, "Schema validation passed!")
	assert.Contains(t, out, "Errors: 0")
}

func TestValidateLintErrors(t *testing.T) {
	path := writeModel(t, `
name: shop
tables:
  - name: users
    columns:
      - {name: id, type: uuid, primary_key: true}
      - {name: id, type: text}
`)
	out, _, err := run(t, "--no-color", "validate", path)
	require.Error(t, err)
	assert.ErrorContains(t, err, "1 errors")
	assert.Contains(t, out, "[users].id: Duplicate column name 'id' in table 'users'")

	// lint errors never block generation
	out, errOut, err := run(t, "--no-color", "generate", path, "--highlight", "never")
	require.NoError(t, err)
	assert.Contains(t, out, "class Users(SQLModel, table=True):")
	assert.Contains(t, errOut, "[ERROR] Duplicate column name 'id' in table 'users'")
}

func TestValidateStructuralError(t *testing.T) {
	_, _, err := run(t, "validate", "../loader/testdata/invalid-uuid-default.yml")
	var verr *loader.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestDocs(t *testing.T) {
	out, _, err := run(t, "docs", basicFixture, "--format", "mermaid")
	require.NoError(t, err)
	assert.Contains(t, out, "erDiagram")

	dir := filepath.Join(t.TempDir(), "erd")
	_, _, err = run(t, "docs", basicFixture, "--format", "all", "-o", dir)
	require.NoError(t, err)
	for _, name := range []string{"erd.puml", "erd.md", "erd.dot"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	_, _, err = run(t, "docs", basicFixture, "--format", "api")
	assert.ErrorContains(t, err, "unsupported format")
}

func TestInspect(t *testing.T) {
	out, _, err := run(t, "inspect", basicFixture)
	require.NoError(t, err)
	assert.Contains(t, out, "basic_example")
	assert.Contains(t, out, "schema.DataModel")
}

func TestSchemaCommand(t *testing.T) {
	out, _, err := run(t, "schema")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)))
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	for _, target := range []string{"sqlmodel", "drizzle", "ddl"} {
		assert.Contains(t, out, target)
	}
}

func TestInitCreatesLoadableModel(t *testing.T) {
	dir := t.TempDir()
	out, _, err := run(t, "init", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "schema.yml")

	model := filepath.Join(dir, "schema.yml")
	m, err := loader.LoadFile(model)
	require.NoError(t, err)
	assert.Equal(t, "blog", m.Name)
	assert.True(t, validator.Lint(m).Valid)
	assert.FileExists(t, filepath.Join(dir, "data-model-v1.schema.json"))

	_, _, err = run(t, "--config", filepath.Join(dir, ".dmddl.yaml"), "generate", model, "--highlight", "never")
	require.NoError(t, err)

	_, _, err = run(t, "init", "--dir", dir)
	assert.ErrorContains(t, err, "already exists")

	_, _, err = run(t, "init", "--dir", dir, "--force")
	assert.NoError(t, err)
}

func TestDiff(t *testing.T) {
	old := writeModel(t, "name: shop\ntables:\n  - name: users\n    columns:\n      - {name: id, type: uuid, primary_key: true}\n")
	next := filepath.Join(t.TempDir(), "next.yml")
	require.NoError(t, os.WriteFile(next, []byte(
		"name: shop\ntables:\n  - name: users\n    columns:\n      - {name: id, type: uuid, primary_key: true}\n      - {name: email, type: text}\n"), 0644))

	out, _, err := run(t, "--no-color", "diff", old, next)
	require.NoError(t, err)
	assert.Contains(t, out, "1. ADD COLUMN users.email (text)")

	out, _, err = run(t, "--no-color", "diff", old, next, "--visual")
	require.NoError(t, err)
	assert.Contains(t, out, "+ ADD COLUMN users.email (text)")

	out, _, err = run(t, "diff", old, next, "--sql")
	require.NoError(t, err)
	assert.Equal(t, "ALTER TABLE \"shop\".\"users\" ADD COLUMN \"email\" text NOT NULL;\n", out)

	out, _, err = run(t, "--no-color", "diff", old, old)
	require.NoError(t, err)
	assert.Contains(t, out, "No differences found")

	_, _, err = run(t, "diff", old)
	assert.Error(t, err)
}
