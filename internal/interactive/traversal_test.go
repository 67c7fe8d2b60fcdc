package interactive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraversal_ScriptBuilding(t *testing.T) {
	s := &TraversalSource{}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"vertices", s.V().Script(), "g.V()"},
		{"edges", s.E().Script(), "g.E()"},
		{"has", s.V().Has("name", "marko").Script(), "g.V().has('name','marko')"},
		{"has_label", s.V().HasLabel("person", "place").Script(), "g.V().hasLabel('person','place')"},
		{"out_in_both", s.V().Out("knows").In("created").Both().Script(), "g.V().out('knows').in('created').both()"},
		{"out_edges", s.V().OutE("knows").Script(), "g.V().outE('knows')"},
		{"values_limit", s.V().Values("age").Limit(3).Script(), "g.V().values('age').limit(3)"},
		{"count", s.E().Count().Script(), "g.E().count()"},
		{"connected_component", s.V().ConnectedComponent().Script(), "g.V().connectedComponent()"},
		{"shortest_path", s.V().HasLabel("person").ShortestPath().Script(), "g.V().hasLabel('person').shortestPath()"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestTraversal_QuotingEscapesScriptText(t *testing.T) {
	s := &TraversalSource{}
	got := s.V().Has("name", "o'brien").Script()
	assert.Equal(t, `g.V().has('name','o\'brien')`, got)

	got = s.V().Has("path", `C:\data`).Script()
	assert.Equal(t, `g.V().has('path','C:\\data')`, got)
}
