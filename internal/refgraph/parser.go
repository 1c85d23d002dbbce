package refgraph

// ParsedFile is a Parser's raw extraction from one source file: the
// declaration-level symbols it defines and the references it makes to
// other symbols (possibly in other files). The Builder turns ParsedFiles
// into a Graph's Nodes and Edges.
type ParsedFile struct {
	FilePath     string
	Declarations []Declaration
	References   []Reference
}

// Declaration is one declaration-level symbol found in a file: a type,
// function, method, or field. The file itself is also surfaced as an
// implicit "file" node by the Builder, so Declaration never represents a
// whole file.
type Declaration struct {
	// Name is the symbol's resolvable name, e.g. "Widget.Render" for a
	// method, qualified by its enclosing type.
	Name      string
	Kind      string // "type", "func", "method", "field"
	StartLine int
	EndLine   int

	// EnclosingName is the Name of the Declaration this one is nested in
	// (e.g. a method's enclosing type), or "" for top-level declarations.
	// The Builder uses it to synthesize EdgeKindContains edges.
	EnclosingName string

	// Implements lists the Names of interfaces/embedded types this
	// declaration's Kind=="type" satisfies, for EdgeKindImplements edges.
	Implements []string
}

// Reference is one use of another symbol from within a Declaration: a call,
// a read, an instantiation.
type Reference struct {
	// FromName is the enclosing Declaration.Name this reference occurs in,
	// or "" if it occurs at file scope.
	FromName string
	// ToName is the referenced symbol's Name. It may refer to a
	// declaration in another file; the Builder resolves it across the
	// whole ParsedFile set.
	ToName string
	Line   int
}

// Parser extracts declarations and references from one file's source text.
// It is the reference-graph builder's sole collaborator with language
// knowledge; internal/refgraph itself is language-agnostic. A Parser
// implementation that cannot make sense of a file returns an error, which
// the Builder turns into a ParseFailure diagnostic rather than aborting the
// whole build (spec §7).
type Parser interface {
	// CanParse reports whether this Parser handles files with the given
	// path (typically by extension).
	CanParse(filePath string) bool

	// Parse extracts the declarations and references in the given file's
	// source text.
	Parse(filePath string, content string) (ParsedFile, error)
}
