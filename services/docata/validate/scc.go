// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package validate

import "slices"

// Frame phases of the iterative strong-connect walk.
const (
	phaseEnter    = iota // assign index and low-link, push onto the SCC stack
	phaseEdges           // visit the next outgoing edge
	phaseChild           // fold a finished child's low-link into ours
	phaseFinalize        // close a component if this node is its root
)

// sccFrame stands in for one activation of the recursive strong-connect.
type sccFrame struct {
	nodeID    string
	edgeIndex int // next neighbor to visit
	phase     int
	childID   string // child we just returned from (phaseChild)
}

// stronglyConnectedComponents returns every strongly connected component of
// the graph using Tarjan's algorithm.
//
// Description:
//
//	Roots are visited in ascending id order and neighbors in the order given
//	by adjacency, which callers keep sorted. The result is therefore
//	reproducible for a given graph.
//
//	The walk uses an explicit frame stack instead of recursion so deep
//	dependency chains cannot overflow the goroutine stack.
//
//	Time complexity: O(V + E)
//	Space complexity: O(V)
//
// Inputs:
//
//	adjacency - Node id to neighbor ids. Every neighbor must be a key.
//
// Outputs:
//
//	[][]string - Components in the order they close. Member order is
//	unspecified; callers sort.
func stronglyConnectedComponents(adjacency map[string][]string) [][]string {
	index := 0
	nodeIndex := make(map[string]int, len(adjacency))
	nodeLowLink := make(map[string]int, len(adjacency))
	onStack := make(map[string]bool, len(adjacency))
	sccStack := make([]string, 0)
	components := make([][]string, 0)

	strongConnect := func(startID string) {
		callStack := []sccFrame{{nodeID: startID, phase: phaseEnter}}

		for len(callStack) > 0 {
			frame := &callStack[len(callStack)-1]

			switch frame.phase {
			case phaseEnter:
				nodeIndex[frame.nodeID] = index
				nodeLowLink[frame.nodeID] = index
				index++
				sccStack = append(sccStack, frame.nodeID)
				onStack[frame.nodeID] = true
				frame.phase = phaseEdges

			case phaseEdges:
				neighbors := adjacency[frame.nodeID]
				descended := false
				for frame.edgeIndex < len(neighbors) && !descended {
					next := neighbors[frame.edgeIndex]
					frame.edgeIndex++

					if _, visited := nodeIndex[next]; !visited {
						frame.phase = phaseChild
						frame.childID = next
						descended = true
					} else if onStack[next] && nodeIndex[next] < nodeLowLink[frame.nodeID] {
						nodeLowLink[frame.nodeID] = nodeIndex[next]
					}
				}
				if descended {
					// frame may be invalidated by the append below.
					callStack = append(callStack, sccFrame{nodeID: frame.childID, phase: phaseEnter})
					continue
				}
				frame.phase = phaseFinalize

			case phaseChild:
				if nodeLowLink[frame.childID] < nodeLowLink[frame.nodeID] {
					nodeLowLink[frame.nodeID] = nodeLowLink[frame.childID]
				}
				frame.phase = phaseEdges

			case phaseFinalize:
				if nodeLowLink[frame.nodeID] == nodeIndex[frame.nodeID] {
					component := make([]string, 0, 1)
					for {
						w := sccStack[len(sccStack)-1]
						sccStack = sccStack[:len(sccStack)-1]
						onStack[w] = false
						component = append(component, w)
						if w == frame.nodeID {
							break
						}
					}
					components = append(components, component)
				}
				callStack = callStack[:len(callStack)-1]
			}
		}
	}

	roots := make([]string, 0, len(adjacency))
	for id := range adjacency {
		roots = append(roots, id)
	}
	slices.Sort(roots)

	for _, id := range roots {
		if _, visited := nodeIndex[id]; !visited {
			strongConnect(id)
		}
	}

	return components
}
