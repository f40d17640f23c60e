package generate

import (
	"context"
	"fmt"

	"github.com/pipepilot/pipepilot/internal/analyzer"
	"github.com/pipepilot/pipepilot/internal/jenkins"
	"github.com/pipepilot/pipepilot/internal/state"
)

// Mode selects the generation strategy.
type Mode int

const (
	// ModeAuto tries one call per artifact first, then falls back to a
	// single batch call when any per-artifact call fails.
	ModeAuto Mode = iota
	// ModeBatch always issues a single batch call.
	ModeBatch
)

// Generator turns a repository analysis into the three pipeline artifacts.
// The server snapshot is taken once at construction and embedded into every
// prompt.
type Generator struct {
	backend Backend
	jctx    *jenkins.Context
	mode    Mode
}

func New(backend Backend, jctx *jenkins.Context, mode Mode) *Generator {
	return &Generator{backend: backend, jctx: jctx, mode: mode}
}

// strategy is one way of producing a complete artifact set. Strategies are
// tried in order; the first to succeed wins and no mixed-strategy set is ever
// assembled.
type strategy struct {
	name string
	run  func(ctx context.Context, an *analyzer.Analysis) (state.ArtifactSet, error)
}

func (g *Generator) strategies() []strategy {
	batch := strategy{name: "batch", run: g.generateBatch}
	if g.mode == ModeBatch {
		return []strategy{batch}
	}
	return []strategy{
		{name: "per-artifact", run: g.generatePerArtifact},
		batch,
	}
}

// Generate produces the artifact set for the analyzed repository. A partial
// set (some sections missing from the reply) is returned as-is; only a backend
// failure or a reply with no recognizable sections is an error.
func (g *Generator) Generate(ctx context.Context, an *analyzer.Analysis) (state.ArtifactSet, error) {
	var lastErr error
	for _, s := range g.strategies() {
		artifacts, err := s.run(ctx, an)
		if err != nil {
			fmt.Printf("   ⚠ %s generation failed: %v\n", s.name, err)
			lastErr = err
			continue
		}
		if missing := artifacts.Missing(); len(missing) > 0 {
			fmt.Printf("   ⚠ Response missing sections: %v\n", missing)
		}
		return artifacts, nil
	}
	return nil, fmt.Errorf("all generation strategies failed: %w", lastErr)
}

// Modify revises the current artifact set according to free-text feedback.
// Always a single batch call carrying the full current content.
func (g *Generator) Modify(ctx context.Context, current state.ArtifactSet, feedback string, an *analyzer.Analysis) (state.ArtifactSet, error) {
	response, err := g.backend.Generate(ctx, modifyUserPrompt(current, feedback, an), modifySystemPrompt(g.jctx))
	if err != nil {
		return nil, err
	}
	artifacts := DecodeBatch(response)
	if len(artifacts) == 0 {
		return nil, fmt.Errorf("modification response contained no artifact sections")
	}
	return artifacts, nil
}

func (g *Generator) generateBatch(ctx context.Context, an *analyzer.Analysis) (state.ArtifactSet, error) {
	response, err := g.backend.Generate(ctx, batchUserPrompt(an), batchSystemPrompt(g.jctx))
	if err != nil {
		return nil, err
	}
	artifacts := DecodeBatch(response)
	if len(artifacts) == 0 {
		return nil, fmt.Errorf("response contained no artifact sections")
	}
	return artifacts, nil
}

func (g *Generator) generatePerArtifact(ctx context.Context, an *analyzer.Analysis) (state.ArtifactSet, error) {
	calls := []struct {
		artifact string
		prompt   artifactPrompt
		clean    func(string) string
	}{
		{state.ArtifactPipeline, pipelinePrompt(g.jctx, an), CleanPipeline},
		{state.ArtifactJobConfig, jobConfigPrompt(g.jctx, an), CleanXML},
		{state.ArtifactPlugins, pluginsPrompt(g.jctx, an), CleanXML},
	}

	artifacts := state.ArtifactSet{}
	for _, call := range calls {
		response, err := g.backend.Generate(ctx, call.prompt.user, call.prompt.system)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", call.artifact, err)
		}
		content := call.clean(response)
		if content == "" {
			return nil, fmt.Errorf("%s: empty response", call.artifact)
		}
		artifacts[call.artifact] = content
	}
	return artifacts, nil
}
