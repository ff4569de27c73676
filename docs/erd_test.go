package docs

import (
	"testing"

	"github.com/dasolve/dmddl/loader"
	"github.com/dasolve/dmddl/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadBasic(t *testing.T) *schema.DataModel {
	t.Helper()
	m, err := loader.LoadFile("../loader/testdata/basic.yml")
	require.NoError(t, err)
	return m
}

func TestMermaid(t *testing.T) {
	out := Mermaid(loadBasic(t))

	assert.Contains(t, out, "# basic_example ERD\n")
	assert.Contains(t, out, "```mermaid\nerDiagram\n")
	assert.Contains(t, out, "    users {\n")
	assert.Contains(t, out, "        UUID id PK\n")
	assert.Contains(t, out, "        TEXT email UK\n")
	assert.Contains(t, out, "        TEXT display_name \"Public name\"\n")
	assert.Contains(t, out, "        NUMERIC_10_2 price\n")
	assert.Contains(t, out, "        UUID user_id FK\n")
	assert.Contains(t, out, "    users ||--o{ posts : user_id\n")
}

func TestPlantUML(t *testing.T) {
	out := PlantUML(loadBasic(t))

	assert.Contains(t, out, "@startuml\n")
	assert.Contains(t, out, "entity \"users\" {\n")
	assert.Contains(t, out, "  id : UUID <<PK>> <<DEFAULT: gen_random_uuid()>>\n")
	assert.Contains(t, out, "  created_at : TIMESTAMPTZ <<NN>> <<DEFAULT: now()>>\n")
	assert.Contains(t, out, "  price : NUMERIC(10,2) <<NN>> <<DEFAULT: 9.5>>\n")
	assert.Contains(t, out, "\"users\" ||--o{ \"posts\" : \"user_id\"\n")
	assert.Contains(t, out, "@enduml\n")
}

func TestGraphviz(t *testing.T) {
	out := Graphviz(&schema.DataModel{
		Name: "blog",
		Tables: []schema.Table{
			{Name: "users", Columns: []schema.Column{
				{Name: "id", Kind: schema.KindUUID, Type: schema.ColumnType{Name: "uuid"}, PrimaryKey: true},
			}},
			{Name: "posts", Columns: []schema.Column{
				{Name: "author", Kind: schema.KindUUID, Type: schema.ColumnType{Name: "uuid"}, Nullable: true,
					ForeignKey: &schema.ForeignKey{Table: "users", Column: "id"}},
			}},
			{Name: "empty"},
		},
	})

	want := `digraph ERD {
  rankdir=LR;
  node [shape=record];

  users [label="users|id: UUID (PK)\l"];
  posts [label="posts|author: UUID (FK)\l"];
  empty [label="empty|"];
  users -> posts [label="author"];
}
`
	assert.Equal(t, want, out)
}

func TestLookup(t *testing.T) {
	f, err := Lookup("Mermaid")
	require.NoError(t, err)
	assert.Equal(t, "erd.md", f.DefaultFile)

	_, err = Lookup("api")
	assert.ErrorContains(t, err, "unsupported format: api")
	assert.Equal(t, []string{"graphviz", "mermaid", "plantuml"}, Formats())
}
