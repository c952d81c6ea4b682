package graph

import (
	"context"
	"strings"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/errcode"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// ErrDepthLimit is the error code attached to operations rejected by DepthLimit.
const ErrDepthLimit = "DEPTH_LIMIT_EXCEEDED"

const depthExtension = "DepthLimit"

// DepthLimit rejects operations with a field nested deeper than Max. Root fields are at
// depth 0, fragments and inline fragments add no depth, and introspection fields (names
// starting with "__") are not counted.
type DepthLimit struct {
	Max int
}

var _ interface {
	graphql.OperationContextMutator
	graphql.HandlerExtension
} = DepthLimit{}

func (d DepthLimit) ExtensionName() string {
	return depthExtension
}

func (d DepthLimit) Validate(graphql.ExecutableSchema) error {
	return nil
}

func (d DepthLimit) MutateOperationContext(_ context.Context, opCtx *graphql.OperationContext) *gqlerror.Error {
	c := &depthChecker{
		max:       d.Max,
		operation: opCtx.Operation.Name,
		fragments: opCtx.Doc.Fragments,
		visiting:  map[string]bool{},
	}
	c.selectionSet(opCtx.Operation.SelectionSet, 0)
	return c.err
}

type depthChecker struct {
	max       int
	operation string
	fragments ast.FragmentDefinitionList
	visiting  map[string]bool
	err       *gqlerror.Error
}

// selectionSet returns the depth of the deepest field below set.
func (c *depthChecker) selectionSet(set ast.SelectionSet, depth int) int {
	deepest := 0
	for _, sel := range set {
		if c.err != nil {
			return deepest
		}
		var d int
		switch sel := sel.(type) {
		case *ast.Field:
			d = c.field(sel, depth)
		case *ast.InlineFragment:
			d = c.selectionSet(sel.SelectionSet, depth)
		case *ast.FragmentSpread:
			d = c.fragmentSpread(sel, depth)
		}
		if d > deepest {
			deepest = d
		}
	}
	return deepest
}

func (c *depthChecker) field(f *ast.Field, depth int) int {
	if depth > c.max {
		c.err = gqlerror.ErrorPosf(f.Position, "'%s' exceeds maximum operation depth of %d", c.operation, c.max)
		errcode.Set(c.err, ErrDepthLimit)
		return depth
	}
	if strings.HasPrefix(f.Name, "__") || len(f.SelectionSet) == 0 {
		return 0
	}
	return 1 + c.selectionSet(f.SelectionSet, depth+1)
}

func (c *depthChecker) fragmentSpread(spread *ast.FragmentSpread, depth int) int {
	frag := c.fragments.ForName(spread.Name)
	// cycles are rejected by validation before this runs
	if frag == nil || c.visiting[spread.Name] {
		return 0
	}
	c.visiting[spread.Name] = true
	defer delete(c.visiting, spread.Name)
	return c.selectionSet(frag.SelectionSet, depth)
}
