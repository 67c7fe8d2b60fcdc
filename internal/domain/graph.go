package domain

import "time"

// Graph is a handle to a graph object hosted by the shared object store.
// A subgraph extraction yields a new Graph whose lifetime is independent
// from the graph it was carved out of.
type Graph struct {
	ObjectID      string // object id assigned by the store
	Name          string // generated job name for extracted subgraphs, else user-assigned
	VertexSources []string
	EdgeSources   []string
	VertexCount   int64
	EdgeCount     int64
	Loaded        bool // false for detached handles that were never materialized locally
	LoadedAt      time.Time
}
