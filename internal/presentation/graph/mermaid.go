package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/ticketchat/pkg/domain"
)

// GraphOverlay highlights the steps a turn went through.
type GraphOverlay struct {
	Visited []domain.Step
	Current domain.Step
}

// OverlayFromPath builds an overlay from a DialogueState.Path; the last step is current.
func OverlayFromPath(path []domain.Step) *GraphOverlay {
	if len(path) == 0 {
		return nil
	}
	return &GraphOverlay{Visited: path, Current: path[len(path)-1]}
}

// GenerateMermaid renders the controller transitions as a Mermaid flowchart.
// Shapes:
//   - agent: {Decision}
//   - tools, summarizer: [[Subroutine]]
//   - done: ((Circle))
func GenerateMermaid(edges []domain.Edge, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	declared := make(map[domain.Step]bool)
	declare := func(s domain.Step) {
		if declared[s] {
			return
		}
		declared[s] = true
		opener, closer := "[", "]"
		switch s {
		case domain.StepAgent:
			opener, closer = "{", "}"
		case domain.StepTools, domain.StepSummarizer:
			opener, closer = "[[", "]]"
		case domain.StepDone:
			opener, closer = "((", "))"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", sanitizeMermaidID(string(s)), opener, s, closer)
	}

	for _, e := range edges {
		declare(e.From)
		declare(e.To)
	}
	for _, e := range edges {
		arrow := "-->"
		if e.Label != "" {
			arrow = fmt.Sprintf("-- \"%s\" -->", strings.ReplaceAll(e.Label, "\"", "'"))
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", sanitizeMermaidID(string(e.From)), arrow, sanitizeMermaidID(string(e.To)))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, s := range overlay.Visited {
			id := sanitizeMermaidID(string(s))
			if id == "" || seen[id] || s == overlay.Current {
				continue
			}
			seen[id] = true
			fmt.Fprintf(&sb, "    class %s visited;\n", id)
		}
		if overlay.Current != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(string(overlay.Current)))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	return strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_").Replace(id)
}
