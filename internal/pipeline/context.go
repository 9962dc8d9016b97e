package pipeline

// Context carries the state threaded through a single compile: the
// source text, the path it came from (for diagnostics only — FullCircle
// has no multi-file compilation unit, spec.md §1 Non-goals), and the
// token stream the statement splitter consumes. Slimmed from the
// teacher's PipelineContext, which also carried a symbol table, a type
// map and trait/module bookkeeping that belong to funxy's much richer
// language and have no FullCircle analogue.
type Context struct {
	SourceCode  string
	FilePath    string
	TokenStream TokenStream
}

func NewContext(source string) *Context {
	return &Context{SourceCode: source}
}
