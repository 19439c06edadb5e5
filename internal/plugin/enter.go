package plugin

type enterKind int

const (
	enterNoOp enterKind = iota
	enterSetQuery
	enterDeferred
)

// EnterResult is what OnEnter asks the host to do with the input box
type EnterResult struct {
	kind     enterKind
	query    string
	deferred *Future[string]
}

// NoOp is a fire-and-forget action; the host clears the input
func NoOp() EnterResult {
	return EnterResult{kind: enterNoOp}
}

// SetQuery replaces the input with s
func SetQuery(s string) EnterResult {
	return EnterResult{kind: enterSetQuery, query: s}
}

// Deferred replaces the input once f resolves, unless the input changed meanwhile
func Deferred(f *Future[string]) EnterResult {
	if f == nil {
		return NoOp()
	}
	return EnterResult{kind: enterDeferred, deferred: f}
}

// IsNoOp reports whether r carries no follow-up
func (r EnterResult) IsNoOp() bool { return r.kind == enterNoOp }

// Query returns the replacement text of a SetQuery result
func (r EnterResult) Query() (string, bool) {
	return r.query, r.kind == enterSetQuery
}

// Future returns the pending replacement of a Deferred result
func (r EnterResult) Future() (*Future[string], bool) {
	return r.deferred, r.kind == enterDeferred
}
