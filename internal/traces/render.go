// Package traces renders call-trace arenas as indented text trees.
package traces

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/programme-lv/zktester/api"
)

// PlainRenderer renders arenas without colors or decoding of calldata
type PlainRenderer struct{}

// RenderTrace renders the call tree rooted at the first node of arena.
// Malformed arenas (child indices out of range or cycles) are reported as errors.
func (PlainRenderer) RenderTrace(ctx context.Context, arena *api.CallTraceArena) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if arena == nil || len(arena.Nodes) == 0 {
		return "", nil
	}
	var sb strings.Builder
	visited := make([]bool, len(arena.Nodes))
	if err := renderNode(&sb, arena, 0, "", visited); err != nil {
		return "", fmt.Errorf("failed to render %s trace: %w", arena.Kind, err)
	}
	return strings.TrimSuffix(sb.String(), "\n"), nil
}

func renderNode(sb *strings.Builder, arena *api.CallTraceArena, idx int, indent string, visited []bool) error {
	if idx < 0 || idx >= len(arena.Nodes) {
		return fmt.Errorf("node index %d out of range", idx)
	}
	if visited[idx] {
		return fmt.Errorf("node %d visited twice", idx)
	}
	visited[idx] = true
	node := arena.Nodes[idx]

	fmt.Fprintf(sb, "%s[%d] %s::%s", indent, node.GasUsed, node.Address.Hex(), selector(node.Data))
	if node.Value != nil && node.Value.ToInt().Sign() != 0 {
		fmt.Fprintf(sb, "{value: %s}", node.Value.ToInt().String())
	}
	if node.Kind != "" && node.Kind != "call" {
		fmt.Fprintf(sb, " [%s]", node.Kind)
	}
	sb.WriteByte('\n')

	for _, child := range node.Children {
		if err := renderNode(sb, arena, child, indent+"  ", visited); err != nil {
			return err
		}
	}

	status := "Return"
	if !node.Success {
		status = "Revert"
	}
	fmt.Fprintf(sb, "%s  └─ ← [%s] %s\n", indent, status, output(node.Output))
	return nil
}

func selector(data []byte) string {
	if len(data) < 4 {
		return "fallback()"
	}
	return hexutil.Encode(data[:4])
}

func output(out []byte) string {
	if len(out) == 0 {
		return "()"
	}
	return hexutil.Encode(out)
}
