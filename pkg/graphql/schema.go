package graphql

import (
	"github.com/graphql-go/graphql"
)

// NewSchema builds a schema from a root query and an optional root mutation.
func NewSchema(query, mutation *graphql.Object) (graphql.Schema, error) {
	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}
