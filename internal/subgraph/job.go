package subgraph

import (
	"fmt"

	"vinegraph/internal/vineyard"
)

// Job is the ephemeral state of one extraction call. It lives only for the
// duration of Extract and is never persisted on the handle.
type Job struct {
	// Name is the generated unique name the extraction runs under. The
	// create-graph call, the output clause, and both stream names all
	// derive from it.
	Name string
	// Script is the caller's traversal script whose result denotes the
	// edge set to extract.
	Script string
}

// CreateScript returns the command that creates the named graph backed by
// the shared object store.
func (j Job) CreateScript() string {
	return fmt.Sprintf("g.createGraph('%s').with('graphType', 'vineyard')", j.Name)
}

// ComputeScript returns the caller's script suffixed with the
// subgraph-by-name and output-to-store clauses. Submitting it drives the
// engine to populate the job's vertex and edge streams.
func (j Job) ComputeScript() string {
	return fmt.Sprintf("%s.subgraph('%s').outputVineyard('%s')", j.Script, j.Name, j.Name)
}

// VertexStream returns the store name the engine emits extracted vertices
// under.
func (j Job) VertexStream() string {
	return string(vineyard.VertexStreamName(j.Name))
}

// EdgeStream returns the store name the engine emits extracted edges under.
func (j Job) EdgeStream() string {
	return string(vineyard.EdgeStreamName(j.Name))
}
