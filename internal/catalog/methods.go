package catalog

import (
	"errors"
	"go/ast"
	"go/types"

	"github.com/leapstack-labs/modeldoc/pkg/relation"
)

// staticDescriptor is a relation read from a method's declared result type.
type staticDescriptor struct {
	kind    string
	related string
}

func (d staticDescriptor) RelationKind() string { return d.kind }
func (d staticDescriptor) RelatedType() string  { return d.related }

var errResultSignature = errors.New("unsupported result signature")

// astMethod describes a method declaration. Calling it decodes the declared
// result type instead of running code.
func astMethod(typeName string, fd *ast.FuncDecl) relation.Method {
	results := fd.Type.Results
	return relation.Method{
		Name:       fd.Name.Name,
		Exported:   fd.Name.IsExported(),
		NumParams:  fd.Type.Params.NumFields(),
		DeclaredOn: typeName,
		Call: func() (any, error) {
			return resultDescriptor(results)
		},
	}
}

// resultDescriptor decodes a relation from a result list. A single result, or
// a result followed by error, is accepted. Non-relation types yield nil.
func resultDescriptor(results *ast.FieldList) (any, error) {
	var exprs []ast.Expr
	if results != nil {
		for _, field := range results.List {
			n := max(len(field.Names), 1)
			for range n {
				exprs = append(exprs, field.Type)
			}
		}
	}

	switch len(exprs) {
	case 0:
		return nil, nil
	case 1:
	case 2:
		if id, ok := exprs[1].(*ast.Ident); !ok || id.Name != "error" {
			return nil, errResultSignature
		}
	default:
		return nil, errResultSignature
	}

	d, ok := descriptorFromExpr(exprs[0])
	if !ok {
		return nil, nil
	}
	return d, nil
}

// descriptorFromExpr reads Kind[Related] from a type expression such as
// relation.HasMany[Post], *orm.BelongsTo[models.User] or HasManyThrough[Post, Country].
func descriptorFromExpr(expr ast.Expr) (staticDescriptor, bool) {
	for {
		star, ok := expr.(*ast.StarExpr)
		if !ok {
			break
		}
		expr = star.X
	}

	var base, arg ast.Expr
	switch t := expr.(type) {
	case *ast.IndexExpr:
		base, arg = t.X, t.Index
	case *ast.IndexListExpr:
		base, arg = t.X, t.Indices[0]
	default:
		return staticDescriptor{}, false
	}

	kind := baseTypeName(base)
	if !relation.IsKind(kind) {
		return staticDescriptor{}, false
	}
	return staticDescriptor{kind: kind, related: types.ExprString(arg)}, true
}
