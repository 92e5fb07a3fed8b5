package sankey

import (
	"fmt"
	"slices"
)

// ResolveLinks assigns every link a concrete value and creates the
// pass-through nodes that reserve room for links spanning several columns.
//
// Links are processed in slice order and each one claims capacity from its
// endpoints before the next is considered, so reordering links can change
// how a shared node's value is split. Links naming an unknown node are
// dropped, as are links whose resolved value is not positive.
//
// indexes must be the sorted distinct column indexes of nodes.
func ResolveLinks(nodes []Node, indexes []int, links []Link) ([]ProcessedLink, []Node) {
	byID := make(map[string]*Node, len(nodes))
	for i := range nodes {
		if _, dup := byID[nodes[i].ID]; !dup {
			byID[nodes[i].ID] = &nodes[i]
		}
	}

	// Spacer ids must not clash with real nodes or with each other.
	taken := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		taken[n.ID] = true
	}

	accountedIn := make(map[string]float64)
	accountedOut := make(map[string]float64)

	var resolved []ProcessedLink
	var passThrough []Node

	for _, link := range links {
		source, okS := byID[link.Source]
		target, okT := byID[link.Target]
		if !okS || !okT {
			continue
		}

		sourceAccounted := accountedOut[source.ID]
		targetAccounted := accountedIn[target.ID]
		sourceRemaining := source.Value - sourceAccounted
		targetRemaining := target.Value - targetAccounted

		requested := sourceRemaining
		if link.Value != nil {
			requested = *link.Value
		}
		value := min(requested, sourceRemaining, targetRemaining)
		if value <= 0 {
			continue
		}

		accountedOut[source.ID] = sourceAccounted + value
		accountedIn[target.ID] = targetAccounted + value

		between := passThroughIndexes(indexes, source.Index, target.Index)
		var ids []string
		for _, idx := range between {
			id := uniqueID(PassThroughID(source.ID, target.ID, idx), taken)
			taken[id] = true
			node := Node{
				ID:          id,
				Value:       value,
				Index:       idx,
				PassThrough: true,
			}
			passThrough = append(passThrough, node)
			ids = append(ids, node.ID)
		}

		resolved = append(resolved, ProcessedLink{
			Source: source.ID,
			Target: target.ID,
			Value:  value,
			Offset: Offset{
				Source: sourceAccounted / valueOr(source.Value),
				Target: targetAccounted / valueOr(target.Value),
			},
			PassThroughNodeIDs: ids,
		})
	}

	return resolved, passThrough
}

// PassThroughID names the spacer node a link from source to target uses in
// column index. ResolveLinks suffixes it with "#2", "#3" and so on when the
// name is already taken, e.g. by a parallel link between the same nodes.
func PassThroughID(source, target string, index int) string {
	return fmt.Sprintf("%s-%s-%d", source, target, index)
}

func uniqueID(base string, taken map[string]bool) string {
	id := base
	for n := 2; taken[id]; n++ {
		id = fmt.Sprintf("%s#%d", base, n)
	}
	return id
}

// passThroughIndexes returns the column indexes strictly between from and
// to. Links that flow backwards or stay within neighbouring columns get none.
func passThroughIndexes(indexes []int, from, to int) []int {
	start := slices.Index(indexes, from)
	end := slices.Index(indexes, to)
	if start < 0 || end < 0 || end-start < 2 {
		return nil
	}
	return indexes[start+1 : end]
}
