// Package operations lowers operation descriptors into client functions and
// their derived artifacts: query-parameter types, cache-key descriptors and
// optional data-fetching hooks.
package operations

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-clientgen/pkg/emit"
	emittypes "github.com/goliatone/go-clientgen/pkg/emit/types"
	"github.com/goliatone/go-clientgen/pkg/naming"
	"github.com/goliatone/go-clientgen/pkg/openapi"
)

// Option customises the emitter.
type Option func(*Emitter)

// WithHooks toggles emission of data-fetching hooks alongside the raw
// client functions.
func WithHooks(enabled bool) Option {
	return func(e *Emitter) {
		e.hooks = enabled
	}
}

// Emitter lowers operations for one output module. Type expressions are
// delegated to the module's type emitter so parameter and response types
// reuse the same enum identifiers as the declarations.
type Emitter struct {
	spec  *openapi.Spec
	types *emittypes.Emitter
	hooks bool
}

// New constructs an operation emitter sharing the module's type emitter.
func New(spec *openapi.Spec, types *emittypes.Emitter, options ...Option) *Emitter {
	e := &Emitter{spec: spec, types: types}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

// Result groups everything one operation generates. Extras carries enum
// declarations discovered while rendering parameter or response types; the
// generator routes them into the module's types file.
type Result struct {
	FunctionName string
	Function     emit.Artifact
	QueryType    *emit.Artifact
	CacheKey     emit.Artifact
	Hook         *emit.Artifact
	Extras       []emit.Artifact
}

// EmitOperation lowers a single operation. Malformed or unresolvable
// pieces degrade the affected argument or return type to the escape type;
// one bad endpoint never blocks the rest of the module.
func (e *Emitter) EmitOperation(op openapi.Operation) (*Result, error) {
	name := functionName(op)
	result := &Result{FunctionName: name}

	pathParams := op.PathParameters()
	queryParams := op.QueryParameters()

	var extras []emit.Artifact

	// Positional, typed arguments for every path parameter.
	args := make([]argument, 0, len(pathParams)+2)
	for _, param := range pathParams {
		expr, arts := e.types.Expr(param.Schema, &naming.EnumContext{Property: param.Name, Parent: naming.Pascal(name)})
		extras = append(extras, arts...)
		args = append(args, argument{name: naming.Camel(param.Name), typ: expr, required: true})
	}

	// Request bodies ride on mutating methods only.
	hasBody := op.RequestBody != nil && isMutating(op.Method)
	bodyType := "any"
	if hasBody {
		expr, arts := e.types.Expr(op.RequestBody, &naming.EnumContext{Parent: naming.Pascal(name)})
		extras = append(extras, arts...)
		bodyType = expr
		args = append(args, argument{name: "body", typ: bodyType, required: true})
	}

	// Query parameters collapse into one optional object argument, GET and
	// HEAD only.
	queryTypeName := ""
	if len(queryParams) > 0 && isQueryMethod(op.Method) {
		queryTypeName = naming.Pascal(name) + "Params"
		artifact, arts := e.queryType(queryTypeName, queryParams)
		extras = append(extras, arts...)
		result.QueryType = &artifact
		args = append(args, argument{name: "params", typ: queryTypeName, required: false})
	}

	responseType := e.responseType(op, name, &extras)

	result.Function = e.clientFunction(op, name, args, responseType, queryTypeName != "", hasBody)
	result.CacheKey = cacheKey(name, pathParams)
	if e.hooks {
		hook := e.hook(op, name, args, pathParams, queryTypeName, bodyType, hasBody)
		result.Hook = &hook
	}
	result.Extras = extras
	return result, nil
}

type argument struct {
	name     string
	typ      string
	required bool
}

func (e *Emitter) responseType(op openapi.Operation, funcName string, extras *[]emit.Artifact) string {
	schema, ok := op.Response("200")
	if !ok {
		// No declared success response: the function stays callable with an
		// untyped result.
		return "any"
	}
	expr, arts := e.types.Expr(schema, &naming.EnumContext{Parent: naming.Pascal(funcName)})
	*extras = append(*extras, arts...)
	return expr
}

func (e *Emitter) queryType(name string, params []openapi.Parameter) (emit.Artifact, []emit.Artifact) {
	var extras []emit.Artifact
	var b strings.Builder
	fmt.Fprintf(&b, "export interface %s {\n", name)
	for _, param := range params {
		expr, arts := e.types.Expr(param.Schema, &naming.EnumContext{Property: param.Name, Parent: name})
		extras = append(extras, arts...)
		optional := "?"
		if param.Required {
			optional = ""
		}
		fmt.Fprintf(&b, "  %s%s: %s;\n", param.Name, optional, expr)
	}
	b.WriteString("}")
	return emit.Artifact{Name: name, Kind: emit.KindQueryType, Content: b.String()}, extras
}

func (e *Emitter) clientFunction(op openapi.Operation, name string, args []argument, responseType string, hasQuery, hasBody bool) emit.Artifact {
	var b strings.Builder
	if doc := emit.DocComment(operationDoc(op)); doc != "" {
		b.WriteString(doc)
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "export async function %s(%s): Promise<%s> {\n", name, signature(args), responseType)
	fmt.Fprintf(&b, "  return request<%s>({\n", responseType)
	fmt.Fprintf(&b, "    method: '%s',\n", strings.ToUpper(op.Method))
	fmt.Fprintf(&b, "    path: %s,\n", pathTemplate(op))
	if hasQuery {
		b.WriteString("    query: params,\n")
	}
	if hasBody {
		b.WriteString("    body,\n")
	}
	b.WriteString("  });\n}")

	return emit.Artifact{Name: name, Kind: emit.KindFunction, Content: b.String()}
}

func cacheKey(name string, pathParams []openapi.Parameter) emit.Artifact {
	keyName := name + "Key"
	argNames := make([]string, 0, len(pathParams))
	keyParts := []string{"'" + name + "'"}
	for _, param := range pathParams {
		arg := naming.Camel(param.Name)
		argNames = append(argNames, arg+": string")
		keyParts = append(keyParts, arg)
	}
	content := fmt.Sprintf("export const %s = (%s) => [%s] as const;",
		keyName, strings.Join(argNames, ", "), strings.Join(keyParts, ", "))
	return emit.Artifact{Name: keyName, Kind: emit.KindCacheKey, Content: content}
}

// hook derives the data-fetching wrapper. Hooks and raw client functions
// share the extraction logic but differ at the call site: a mutation hook
// takes the body at mutate time, not as a hook argument.
func (e *Emitter) hook(op openapi.Operation, name string, args []argument, pathParams []openapi.Parameter, queryTypeName, bodyType string, hasBody bool) emit.Artifact {
	hookName := "use" + naming.Pascal(name)
	keyName := name + "Key"

	pathArgs := make([]string, 0, len(pathParams))
	for _, param := range pathParams {
		pathArgs = append(pathArgs, naming.Camel(param.Name))
	}

	var b strings.Builder
	if isQueryMethod(op.Method) {
		hookArgs := make([]string, 0, len(args))
		callArgs := make([]string, 0, len(args))
		for _, arg := range args {
			optional := ""
			if !arg.required {
				optional = "?"
			}
			hookArgs = append(hookArgs, fmt.Sprintf("%s%s: %s", arg.name, optional, arg.typ))
			callArgs = append(callArgs, arg.name)
		}
		fmt.Fprintf(&b, "export function %s(%s) {\n", hookName, strings.Join(hookArgs, ", "))
		fmt.Fprintf(&b, "  return useQuery({\n")
		fmt.Fprintf(&b, "    queryKey: %s(%s),\n", keyName, strings.Join(pathArgs, ", "))
		fmt.Fprintf(&b, "    queryFn: () => %s(%s),\n", name, strings.Join(callArgs, ", "))
		b.WriteString("  });\n}")
	} else {
		// Path parameters bind at hook construction; the body is supplied
		// when the caller mutates.
		hookArgs := make([]string, 0, len(pathParams))
		for _, param := range pathParams {
			expr, _ := e.types.Expr(param.Schema, nil)
			hookArgs = append(hookArgs, fmt.Sprintf("%s: %s", naming.Camel(param.Name), expr))
		}
		callArgs := append([]string(nil), pathArgs...)
		mutateArg := ""
		if hasBody {
			mutateArg = "body: " + bodyType
			callArgs = append(callArgs, "body")
		}
		fmt.Fprintf(&b, "export function %s(%s) {\n", hookName, strings.Join(hookArgs, ", "))
		fmt.Fprintf(&b, "  return useMutation({\n")
		fmt.Fprintf(&b, "    mutationFn: (%s) => %s(%s),\n", mutateArg, name, strings.Join(callArgs, ", "))
		b.WriteString("  });\n}")
	}

	return emit.Artifact{Name: hookName, Kind: emit.KindHook, Content: b.String()}
}

func signature(args []argument) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		optional := ""
		if !arg.required {
			optional = "?"
		}
		parts = append(parts, fmt.Sprintf("%s%s: %s", arg.name, optional, arg.typ))
	}
	return strings.Join(parts, ", ")
}

func pathTemplate(op openapi.Operation) string {
	path := op.Path
	for _, param := range op.PathParameters() {
		placeholder := "{" + param.Name + "}"
		path = strings.ReplaceAll(path, placeholder, "${"+naming.Camel(param.Name)+"}")
	}
	return "`" + path + "`"
}

func operationDoc(op openapi.Operation) string {
	if op.Summary != "" {
		return op.Summary
	}
	return op.Description
}

func isMutating(method string) bool {
	switch strings.ToUpper(method) {
	case "POST", "PUT", "PATCH", "DELETE":
		return true
	}
	return false
}

func isQueryMethod(method string) bool {
	switch strings.ToUpper(method) {
	case "GET", "HEAD":
		return true
	}
	return false
}
