package ddl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dasolve/dmddl/diff"
	"github.com/dasolve/dmddl/loader"
)

func TestMigration(t *testing.T) {
	old, err := loader.Parse([]byte(`
name: shop
tables:
  - name: users
    columns:
      - {name: id, type: uuid, primary_key: true}
      - {name: email, type: text}
      - {name: score, type: integer, default: 0}
      - {name: nickname, type: text}
  - name: posts
    columns:
      - {name: author, type: uuid, foreign_key: {table: users, column: id}}
  - name: legacy
    columns: []
`))
	require.NoError(t, err)
	next, err := loader.Parse([]byte(`
name: shop
tables:
  - name: users
    columns:
      - {name: id, type: uuid, primary_key: true}
      - {name: email, type: text, unique: true, nullable: true}
      - {name: score, type: {name: numeric, options: {precision: 5}}}
      - {name: age, type: integer, nullable: true}
  - name: posts
    columns:
      - {name: author, type: uuid, foreign_key: {table: accounts, column: id}}
  - name: accounts
    columns:
      - {name: id, type: uuid, primary_key: true}
`))
	require.NoError(t, err)

	assert.Equal(t, []string{
		`ALTER TABLE "shop"."posts" DROP CONSTRAINT "posts_author_fkey";`,
		`DROP TABLE "shop"."legacy";`,
		"CREATE TABLE \"shop\".\"accounts\" (\n  \"id\" uuid PRIMARY KEY\n);",
		`ALTER TABLE "shop"."users" ALTER COLUMN "email" DROP NOT NULL;`,
		`ALTER TABLE "shop"."users" ADD CONSTRAINT "users_email_key" UNIQUE ("email");`,
		`ALTER TABLE "shop"."users" ALTER COLUMN "score" TYPE numeric(5) USING "score"::numeric(5);`,
		`ALTER TABLE "shop"."users" ALTER COLUMN "score" DROP DEFAULT;`,
		`ALTER TABLE "shop"."users" ADD COLUMN "age" integer;`,
		`ALTER TABLE "shop"."users" DROP COLUMN "nickname";`,
		`ALTER TABLE "shop"."posts" ADD CONSTRAINT "posts_author_fkey" FOREIGN KEY ("author") REFERENCES "shop"."accounts" ("id");`,
	}, Migration(next.Name, diff.Models(old, next)))
}

func TestMigrationIdentity(t *testing.T) {
	old, err := loader.Parse([]byte("name: s\ntables:\n  - name: t\n    columns:\n      - {name: id, type: integer}\n"))
	require.NoError(t, err)
	next, err := loader.Parse([]byte("name: s\ntables:\n  - name: t\n    columns:\n      - {name: id, type: integer, primary_key: true, generated_always_as: identity}\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{
		`ALTER TABLE "s"."t" ALTER COLUMN "id" ADD GENERATED ALWAYS AS IDENTITY;`,
		`ALTER TABLE "s"."t" ADD PRIMARY KEY ("id");`,
	}, Migration(next.Name, diff.Models(old, next)))

	assert.Equal(t, []string{
		`ALTER TABLE "s"."t" ALTER COLUMN "id" DROP IDENTITY IF EXISTS;`,
		`ALTER TABLE "s"."t" DROP CONSTRAINT "t_pkey";`,
	}, Migration(old.Name, diff.Models(next, old)))
}

func TestMigrationEmpty(t *testing.T) {
	m, err := loader.LoadFile("../../loader/testdata/basic.yml")
	require.NoError(t, err)
	assert.Empty(t, Migration(m.Name, diff.Models(m, m)))
}

func TestMigrationReferencedTableCreatedFirst(t *testing.T) {
	old, err := loader.Parse([]byte(`
name: blog
tables:
  - name: posts
    columns:
      - {name: id, type: uuid, primary_key: true}
`))
	require.NoError(t, err)
	next, err := loader.Parse([]byte(`
name: blog
tables:
  - name: posts
    columns:
      - {name: id, type: uuid, primary_key: true}
      - {name: author_id, type: uuid, foreign_key: {table: users, column: id}}
  - name: users
    columns:
      - {name: id, type: uuid, primary_key: true}
`))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"CREATE TABLE \"blog\".\"users\" (\n  \"id\" uuid PRIMARY KEY\n);",
		`ALTER TABLE "blog"."posts" ADD COLUMN "author_id" uuid NOT NULL REFERENCES "blog"."users" ("id");`,
	}, Migration(next.Name, diff.Models(old, next)))
}

func TestMigrationNewTablesReferencingEachOther(t *testing.T) {
	old, err := loader.Parse([]byte("name: blog\ntables: []\n"))
	require.NoError(t, err)
	next, err := loader.Parse([]byte(`
name: blog
tables:
  - name: posts
    columns:
      - {name: author_id, type: uuid, foreign_key: {table: users, column: id}}
  - name: users
    columns:
      - {name: id, type: uuid, primary_key: true}
      - {name: manager_id, type: uuid, nullable: true, foreign_key: {table: users, column: id}}
`))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"CREATE TABLE \"blog\".\"posts\" (\n  \"author_id\" uuid NOT NULL\n);",
		"CREATE TABLE \"blog\".\"users\" (\n  \"id\" uuid PRIMARY KEY,\n  \"manager_id\" uuid REFERENCES \"blog\".\"users\" (\"id\")\n);",
		`ALTER TABLE "blog"."posts" ADD CONSTRAINT "posts_author_id_fkey" FOREIGN KEY ("author_id") REFERENCES "blog"."users" ("id");`,
	}, Migration(next.Name, diff.Models(old, next)))
}

func TestMigrationDropOrder(t *testing.T) {
	old, err := loader.Parse([]byte(`
name: blog
tables:
  - name: users
    columns:
      - {name: id, type: uuid, primary_key: true}
  - name: posts
    columns:
      - {name: author_id, type: uuid, foreign_key: {table: users, column: id}}
`))
	require.NoError(t, err)
	next, err := loader.Parse([]byte("name: blog\ntables: []\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{
		`DROP TABLE "blog"."posts";`,
		`DROP TABLE "blog"."users";`,
	}, Migration(next.Name, diff.Models(old, next)))
}
