package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/ticketchat/internal/presentation/graph"
	"github.com/aretw0/ticketchat/internal/runtime"
	"github.com/aretw0/ticketchat/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestGenerateMermaid(t *testing.T) {
	out := graph.GenerateMermaid(runtime.Graph(), nil)

	for _, want := range []string{
		"graph TD\n",
		`agent{"agent"}`,
		`tools[["tools"]]`,
		`summarizer[["summarizer"]]`,
		`done(("done"))`,
		`agent -- "list" --> tools`,
		`agent -- "chat / noop" --> done`,
		"tools --> done",
	} {
		assert.Contains(t, out, want)
	}
	assert.Equal(t, 1, strings.Count(out, `agent{"agent"}`), "nodes are declared once")
	assert.NotContains(t, out, "classDef")
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	path := []domain.Step{domain.StepAgent, domain.StepTools, domain.StepDone}
	out := graph.GenerateMermaid(runtime.Graph(), graph.OverlayFromPath(path))

	assert.Contains(t, out, "class agent visited;")
	assert.Contains(t, out, "class tools visited;")
	assert.Contains(t, out, "class done current;")
	assert.NotContains(t, out, "class summarizer")
}

func TestGenerateMermaid_Escaping(t *testing.T) {
	edges := []domain.Edge{{From: "a-b", To: "c/d", Label: `say "hi"`}}
	out := graph.GenerateMermaid(edges, nil)

	assert.Contains(t, out, `a_b["a-b"]`)
	assert.Contains(t, out, `a_b -- "say 'hi'" --> c_d`)
}

func TestOverlayFromPath_Empty(t *testing.T) {
	assert.Nil(t, graph.OverlayFromPath(nil))
}
