// Package verify runs the class/method/field/instruction verifiers
// against a single plugin class, using a layered Resolver plus the
// hierarchy, methodres, and fieldres algorithms. One Context is
// constructed per verification job and reused across every class the
// job checks — it holds no per-class state.
package verify

import (
	"github.com/Ololoshechkin/plugin-verifier/internal/classfile"
	"github.com/Ololoshechkin/plugin-verifier/internal/fieldres"
	"github.com/Ololoshechkin/plugin-verifier/internal/hierarchy"
	"github.com/Ololoshechkin/plugin-verifier/internal/methodres"
	"github.com/Ololoshechkin/plugin-verifier/internal/problem"
	"github.com/Ololoshechkin/plugin-verifier/internal/resolver"
	"github.com/Ololoshechkin/plugin-verifier/internal/symref"
)

// Sink receives problems and usages discovered during verification.
// Satisfied by *registrar.Registrar.
type Sink interface {
	Report(p problem.Problem)
	ReportUsage(u problem.Usage)
}

type Context struct {
	Classes resolver.Resolver
	Sink    Sink

	// External holds package prefixes whose absence is tolerated; nil
	// means no exclusions are configured.
	External *resolver.External

	// FindDeprecatedAPIUsages, when true, emits a Usage for every
	// resolved reference to a deprecated/experimental/internal element.
	FindDeprecatedAPIUsages bool

	walker    *hierarchy.Walker
	methodRes *methodres.Resolver
	fieldRes  *fieldres.Resolver
}

func NewContext(classes resolver.Resolver, sink Sink, external *resolver.External, findDeprecated bool) *Context {
	ctx := &Context{Classes: classes, Sink: sink, External: external, FindDeprecatedAPIUsages: findDeprecated}
	reportSink := reportOnly{sink}
	ctx.walker = hierarchy.New(classes, reportSink)
	ctx.methodRes = methodres.New(classes, reportSink)
	ctx.fieldRes = fieldres.New(classes, reportSink)
	return ctx
}

// reportOnly adapts a Sink down to the Report-only interfaces the
// hierarchy/methodres/fieldres packages depend on.
type reportOnly struct{ Sink }

// isExternal reports whether name should be treated as
// unresolvable-but-acceptable.
func (c *Context) isExternal(name string) bool {
	return c.External != nil && c.External.IsExternal(name)
}

// resolveClass looks up name, reporting ClassNotFound/FailedToReadClassFile/
// InvalidClassFile at `at` as appropriate; external names that are absent
// resolve silently to (nil, false) with no problem reported. The second
// return value is true iff a ClassNode was obtained.
func (c *Context) resolveClass(at symref.Location, name string) (*classfile.ClassNode, bool) {
	res := c.Classes.Find(name)
	switch res.Kind {
	case resolver.Found:
		return res.Class, true
	case resolver.NotFound:
		if c.isExternal(name) {
			return nil, false
		}
		c.Sink.Report(problem.Problem{Kind: problem.ClassNotFound, At: at, Ref: symref.Class(name)})
		return nil, false
	case resolver.Invalid:
		c.Sink.Report(problem.Problem{Kind: problem.InvalidClassFile, At: at, Ref: symref.Class(name), Reason: res.Reason})
		return nil, false
	default: // FailedToRead
		c.Sink.Report(problem.Problem{Kind: problem.FailedToReadClassFile, At: at, Ref: symref.Class(name), Reason: res.Reason})
		return nil, false
	}
}

func (c *Context) recordUsageIfNeeded(at symref.Location, ref symref.Reference, class *classfile.ClassNode, deprecated bool) {
	if !c.FindDeprecatedAPIUsages {
		return
	}
	if deprecated || (class != nil && class.Deprecated) {
		c.Sink.ReportUsage(problem.Usage{Kind: problem.UsageDeprecated, At: at, Ref: ref})
	}
	if class != nil && class.Experimental {
		c.Sink.ReportUsage(problem.Usage{Kind: problem.UsageExperimental, At: at, Ref: ref})
	}
	if class != nil && class.Internal {
		c.Sink.ReportUsage(problem.Usage{Kind: problem.UsageInternal, At: at, Ref: ref})
	}
}
