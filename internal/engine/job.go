package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Ololoshechkin/plugin-verifier/internal/depgraph"
	"github.com/Ololoshechkin/plugin-verifier/internal/errs"
	"github.com/Ololoshechkin/plugin-verifier/internal/obsv"
	"github.com/Ololoshechkin/plugin-verifier/internal/registrar"
	"github.com/Ololoshechkin/plugin-verifier/internal/resolver"
	"github.com/Ololoshechkin/plugin-verifier/internal/verify"
)

// Request bundles everything one verification job needs: the plugin
// under test, the IDE host it targets, an optional separately-supplied
// JDK (when the IDE doesn't bundle one), the dependency finder used to
// resolve the plugin's declared dependencies, and the recognized
// VerifierParameters.
type Request struct {
	Plugin PluginDetails
	Ide    IdeDescriptor
	Jdk    JdkDescriptor // optional; ignored if Ide.BundledJDK() succeeds
	Finder depgraph.DependencyFinder
	Params VerifierParameters
}

// Job is one scheduled verification run, identified by a UUID so the
// scheduler and any watch/report caller can correlate logs, spans and
// results across a run's lifetime.
type Job struct {
	ID      string
	Request Request
}

// NewJob assigns a fresh job id to req.
func NewJob(req Request) *Job {
	return &Job{ID: uuid.NewString(), Request: req}
}

// Run executes the job to completion or until ctx is cancelled,
// producing a VerificationResult. Run never panics on a bad class file
// or a missing dependency — those become problems or a
// MissingDependencies/CompatibilityProblems result, per the three-axis
// error taxonomy; only an invalid problem-filter pattern, an invalid
// external-class prefix, a classpath build failure, or context
// cancellation short-circuits to InvalidPlugin.
func (j *Job) Run(ctx context.Context) (VerificationResult, error) {
	obsv.JobsInFlight.Inc()
	defer obsv.JobsInFlight.Dec()
	start := time.Now()

	ctx, span := obsv.Tracer.Start(ctx, "engine.Job.Run")
	defer span.End()

	pluginID := j.Request.Plugin.PluginID()

	if err := ctx.Err(); err != nil {
		jobErr := errs.Wrap(err, errs.CodeCancelled, "job cancelled")
		return j.finish(start, failureResult(InvalidPlugin, pluginID, jobErr.Error())), jobErr
	}

	filters, err := NewFilters(j.Request.Params.ProblemFilterGlobs)
	if err != nil {
		jobErr := errs.Wrap(err, errs.CodeInvalidInput, "invalid problem filter")
		return j.finish(start, failureResult(InvalidPlugin, pluginID, jobErr.Error())), jobErr
	}
	reg := registrar.New(filters)

	graph := depgraph.Build(pluginID, j.Request.Plugin.DeclaredDependencies(), j.Request.Finder)
	defer graph.Close()

	classpath, err := j.buildClasspath(graph)
	if err != nil {
		jobErr := errs.Wrap(err, errs.CodeIO, "build classpath")
		return j.finish(start, failureResult(InvalidPlugin, pluginID, jobErr.Error())), jobErr
	}
	defer classpath.Close()

	var external *resolver.External
	if len(j.Request.Params.ExternalClassPrefixes) > 0 {
		external, err = resolver.NewExternal(j.Request.Params.ExternalClassPrefixes)
		if err != nil {
			jobErr := errs.Wrap(err, errs.CodeInvalidInput, "invalid external class prefix")
			return j.finish(start, failureResult(InvalidPlugin, pluginID, jobErr.Error())), jobErr
		}
	}

	vctx := verify.NewContext(classpath, reg, external, j.Request.Params.FindDeprecatedAPIUsages)

	for _, className := range j.Request.Plugin.ClassesToCheck() {
		if ctx.Err() != nil {
			jobErr := errs.Wrap(ctx.Err(), errs.CodeCancelled, "job cancelled")
			return j.finish(start, failureResult(InvalidPlugin, pluginID, jobErr.Error())), jobErr
		}
		res := classpath.Find(className)
		if res.Kind != resolver.Found {
			continue // unreadable/missing own class: reported when referenced, nothing more to verify here
		}
		vctx.VerifyClass(res.Class)
		obsv.ClassesVerified.Inc()
	}

	result := VerificationResult{
		Kind:            classify(graph, reg),
		PluginID:        pluginID,
		DependencyGraph: graph,
		Problems:        reg.Problems(),
		Usages:          reg.Usages(),
	}
	for _, m := range graph.Missing {
		result.StructureWarnings = append(result.StructureWarnings, fmt.Sprintf("missing dependency %s: %s", m.ID, m.Reason))
	}
	for _, w := range graph.Warnings {
		result.StructureWarnings = append(result.StructureWarnings, w.Message)
	}
	for _, p := range result.Problems {
		obsv.ProblemsFound.WithLabelValues(p.Kind.String()).Inc()
	}
	obsv.DependencyGraphSize.Set(float64(len(graph.Plugins)))

	return j.finish(start, result), nil
}

// buildClasspath assembles the verification classpath in the order
// internal/resolver.Union's contract requires: plugin's own classes,
// JDK, host IDE, transitive plugin dependencies, external classpath.
func (j *Job) buildClasspath(graph *depgraph.Graph) (resolver.Resolver, error) {
	var layers []resolver.Resolver
	layers = append(layers, j.Request.Plugin.PluginClassResolver())

	if jdk, ok := j.Request.Ide.BundledJDK(); ok {
		layers = append(layers, jdk.ClassResolver())
	} else if j.Request.Jdk != nil {
		layers = append(layers, j.Request.Jdk.ClassResolver())
	}

	layers = append(layers, j.Request.Ide.ClassResolver())
	layers = append(layers, graph.Resolver())

	for _, path := range j.Request.Params.ExternalClasspath {
		layers = append(layers, resolver.NewClassPool(path))
	}

	return resolver.NewCache(resolver.NewUnion(layers...)), nil
}

func classify(graph *depgraph.Graph, reg *registrar.Registrar) ResultKind {
	if len(graph.Missing) > 0 {
		return MissingDependencies
	}
	if len(reg.Problems()) > 0 {
		return CompatibilityProblems
	}
	if len(graph.Warnings) > 0 {
		return StructureWarnings
	}
	return Ok
}

func (j *Job) finish(start time.Time, result VerificationResult) VerificationResult {
	result.Duration = time.Since(start)
	obsv.JobDuration.WithLabelValues(result.Kind.String()).Observe(result.Duration.Seconds())
	obsv.JobsTotal.WithLabelValues(result.Kind.String()).Inc()
	return result
}
