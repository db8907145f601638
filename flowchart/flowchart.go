// Package flowchart asks the LLM for a ReactFlow-compatible graph of a
// document's structure. Generation is best-effort: any failure falls
// back to a generic three-node graph rather than failing the request.
package flowchart

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/noteforge/noteforge/llm_service"
	"github.com/noteforge/noteforge/prompt"
)

const textCap = 30000

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type NodeData struct {
	Label string `json:"label"`
}

type Node struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Position Position `json:"position"`
	Data     NodeData `json:"data"`
}

type Edge struct {
	ID       string `json:"id"`
	Source   string `json:"source"`
	Target   string `json:"target"`
	Animated bool   `json:"animated"`
}

type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

const systemPrompt = `You are an expert at analyzing documents and creating visual flowcharts that represent the actual content and structure.

Do NOT use generic placeholders. Extract real topics and concepts from the document:
1. Read the document and identify its specific main topic
2. Find the actual sections, steps, or themes mentioned
3. Extract real key points and concepts
4. Show the logical flow between these actual elements

Respond with ONLY valid JSON (no markdown, no code blocks, no explanation) of the shape:
{
  "nodes": [
    { "id": "1", "type": "input", "position": { "x": 250, "y": 0 }, "data": { "label": "Main Topic" } },
    { "id": "2", "type": "default", "position": { "x": 250, "y": 120 }, "data": { "label": "Section" } },
    { "id": "3", "type": "output", "position": { "x": 250, "y": 240 }, "data": { "label": "Outcome" } }
  ],
  "edges": [
    { "id": "e1-2", "source": "1", "target": "2", "animated": true },
    { "id": "e2-3", "source": "2", "target": "3", "animated": false }
  ]
}

Rules:
- First node (type "input"): the document's main topic
- Middle nodes (type "default"): specific sections, requirements, steps, or components
- Last node (type "output"): final goal, conclusion, or deliverable
- Labels: max 40 chars, taken from the actual document text
- Create 6-12 nodes based on document complexity
- Increment y by 100-140 per level`

type Generator struct {
	svc    llm_service.Service
	logger *slog.Logger
}

func NewGenerator(svc llm_service.Service, logger *slog.Logger) *Generator {
	return &Generator{svc: svc, logger: logger}
}

// Generate builds a flowchart for the document text. It never returns
// an error to the caller: parse or upstream failures produce the
// fallback graph.
func (g *Generator) Generate(ctx context.Context, documentText string) *Graph {
	messages := []llm_service.Message{
		{Role: llm_service.RoleSystem, Content: systemPrompt},
		{Role: llm_service.RoleUser, Content: fmt.Sprintf(
			"Analyze this document and create a flowchart:\n\n%s",
			prompt.Truncate(documentText, textCap))},
	}

	resp, err := g.svc.Call(ctx, messages, nil)
	if err != nil {
		g.logger.Warn("Flowchart generation failed, using fallback",
			slog.String("error", err.Error()))
		return fallbackGraph()
	}

	graph, err := parseGraph(resp.Content)
	if err != nil {
		g.logger.Warn("Flowchart response unparsable, using fallback",
			slog.String("error", err.Error()))
		return fallbackGraph()
	}

	g.logger.Debug("Flowchart generated",
		slog.Int("nodes", len(graph.Nodes)),
		slog.Int("edges", len(graph.Edges)))
	return graph
}

func parseGraph(content string) (*Graph, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	// Tolerate prose around the object the same way quiz repair
	// tolerates prose around the array.
	if start, end := strings.Index(content, "{"), strings.LastIndex(content, "}"); start >= 0 && end > start {
		content = content[start : end+1]
	}

	var graph Graph
	if err := json.Unmarshal([]byte(content), &graph); err != nil {
		return nil, fmt.Errorf("invalid flowchart JSON: %w", err)
	}
	if len(graph.Nodes) == 0 {
		return nil, fmt.Errorf("flowchart has no nodes")
	}

	for i := range graph.Nodes {
		if graph.Nodes[i].ID == "" {
			graph.Nodes[i].ID = fmt.Sprintf("%d", i+1)
		}
		if graph.Nodes[i].Type == "" {
			graph.Nodes[i].Type = "default"
		}
		if graph.Nodes[i].Data.Label == "" {
			graph.Nodes[i].Data.Label = fmt.Sprintf("Node %d", i+1)
		}
	}
	for i := range graph.Edges {
		if graph.Edges[i].ID == "" {
			graph.Edges[i].ID = fmt.Sprintf("e%d", i)
		}
	}

	return &graph, nil
}

func fallbackGraph() *Graph {
	return &Graph{
		Nodes: []Node{
			{ID: "1", Type: "input", Position: Position{X: 250, Y: 0}, Data: NodeData{Label: "Document Overview"}},
			{ID: "2", Type: "default", Position: Position{X: 250, Y: 100}, Data: NodeData{Label: "Content Analysis"}},
			{ID: "3", Type: "output", Position: Position{X: 250, Y: 200}, Data: NodeData{Label: "Key Points"}},
		},
		Edges: []Edge{
			{ID: "e1-2", Source: "1", Target: "2", Animated: true},
			{ID: "e2-3", Source: "2", Target: "3", Animated: true},
		},
	}
}
