package engine

import (
	"time"

	"github.com/Ololoshechkin/plugin-verifier/internal/depgraph"
	"github.com/Ololoshechkin/plugin-verifier/internal/problem"
)

// ResultKind tags one VerificationResult variant (spec.md §6).
type ResultKind int

const (
	Ok ResultKind = iota
	StructureWarnings
	MissingDependencies
	CompatibilityProblems
	InvalidPlugin
	NotFound
	FailedToDownload
)

func (k ResultKind) String() string {
	switch k {
	case Ok:
		return "Ok"
	case StructureWarnings:
		return "StructureWarnings"
	case MissingDependencies:
		return "MissingDependencies"
	case CompatibilityProblems:
		return "CompatibilityProblems"
	case InvalidPlugin:
		return "InvalidPlugin"
	case NotFound:
		return "NotFound"
	case FailedToDownload:
		return "FailedToDownload"
	default:
		return "Unknown"
	}
}

// IgnoredProblem pairs a problem with the reason it was ignored.
// Job.Run never fills VerificationResult.Ignored: the registrar drops a
// problem that matches a filter without keeping it.
type IgnoredProblem struct {
	Problem problem.Problem
	Reason  string
}

// VerificationResult is the outcome of one verification job, carrying
// every piece of data spec.md §6 names regardless of which variant Kind
// selects (a StructureWarnings result can still have a populated
// DependencyGraph, for instance).
type VerificationResult struct {
	Kind     ResultKind
	PluginID string

	DependencyGraph *depgraph.Graph

	StructureWarnings []string
	Problems          []problem.Problem
	Usages            []problem.Usage
	Ignored           []IgnoredProblem

	// FailureReason carries the reason string for InvalidPlugin,
	// NotFound and FailedToDownload; empty otherwise.
	FailureReason string

	// Duration is the wall-clock time Job.Run spent on this result.
	Duration time.Duration
}

func failureResult(kind ResultKind, pluginID, reason string) VerificationResult {
	return VerificationResult{Kind: kind, PluginID: pluginID, FailureReason: reason}
}
