package genome

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

// Genome represents a neuro-evolved individual: a set of node genes and
// connection genes with stable, structural-mutation-friendly ids.
type Genome struct {
	Key         int
	Nodes       map[int]*NodeGene
	Connections map[ConnectionKey]*ConnectionGene
	Fitness     float64
	Config      *GenomeConfig
}

// NewGenome creates an empty genome bound to config, with no nodes or connections.
func NewGenome(key int, config *GenomeConfig) *Genome {
	return &Genome{
		Key:         key,
		Nodes:       make(map[int]*NodeGene),
		Connections: make(map[ConnectionKey]*ConnectionGene),
		Fitness:     0.0,
		Config:      config,
	}
}

// configureNodes creates the output and hidden node genes. It leaves the
// genome unconnected; wiring is deferred to InitWithContext so that a genome
// can exist as a stable, connection-free template (see Context.UninitializedGenome).
func (g *Genome) configureNodes(rng *rand.Rand) {
	for _, nodeKey := range g.Config.OutputKeys {
		g.Nodes[nodeKey] = NewNodeGene(nodeKey, g.Config, rng)
	}

	if g.Config.NumHidden > 0 {
		for i := 0; i < g.Config.NumHidden; i++ {
			nodeKey := g.Config.GetNewNodeKey()
			if _, exists := g.Nodes[nodeKey]; exists {
				panic(fmt.Sprintf("attempted to create duplicate node key: %d", nodeKey))
			}
			g.Nodes[nodeKey] = NewNodeGene(nodeKey, g.Config, rng)
		}
	}
}

// InitWithContext wires up the initial connections for a genome produced by
// Context.UninitializedGenome, per the configured initial_connection scheme.
func (g *Genome) InitWithContext(ctx *Context) {
	g.setupInitialConnections(ctx.Rng())
}

// setupInitialConnections creates the initial connections based on the config string.
func (g *Genome) setupInitialConnections(rng *rand.Rand) {
	connType := g.Config.InitialConnection
	parts := strings.Fields(connType)
	baseConnType := parts[0]
	connectionFraction := 1.0

	inputKeys := g.Config.InputKeys
	outputKeys := g.Config.OutputKeys
	hiddenKeys := []int{}
	for nk := range g.Nodes {
		isOutput := false
		for _, ok := range outputKeys {
			if nk == ok {
				isOutput = true
				break
			}
		}
		if !isOutput {
			hiddenKeys = append(hiddenKeys, nk)
		}
	}
	sort.Ints(hiddenKeys)

	switch baseConnType {
	case "unconnected":
	case "fs_neat_nohidden", "fs_neat":
		for _, ik := range inputKeys {
			for _, ok := range outputKeys {
				connKey := ConnectionKey{InNodeID: ik, OutNodeID: ok}
				g.Connections[connKey] = NewConnectionGene(connKey, g.Config, rng)
			}
		}
	case "fs_neat_hidden":
		for _, ik := range inputKeys {
			for _, hk := range hiddenKeys {
				connKey := ConnectionKey{InNodeID: ik, OutNodeID: hk}
				g.Connections[connKey] = NewConnectionGene(connKey, g.Config, rng)
			}
		}
		for _, hk := range hiddenKeys {
			for _, ok := range outputKeys {
				connKey := ConnectionKey{InNodeID: hk, OutNodeID: ok}
				g.Connections[connKey] = NewConnectionGene(connKey, g.Config, rng)
			}
		}
	case "full_nodirect", "full":
		for _, ik := range inputKeys {
			for _, hk := range hiddenKeys {
				connKey := ConnectionKey{InNodeID: ik, OutNodeID: hk}
				g.Connections[connKey] = NewConnectionGene(connKey, g.Config, rng)
			}
			// Without hidden nodes, inputs connect straight to the outputs.
			if len(hiddenKeys) == 0 {
				for _, ok := range outputKeys {
					connKey := ConnectionKey{InNodeID: ik, OutNodeID: ok}
					g.Connections[connKey] = NewConnectionGene(connKey, g.Config, rng)
				}
			}
		}
		for _, hk1 := range hiddenKeys {
			for _, hk2 := range hiddenKeys {
				connKey := ConnectionKey{InNodeID: hk1, OutNodeID: hk2}
				g.Connections[connKey] = NewConnectionGene(connKey, g.Config, rng)
			}
			for _, ok := range outputKeys {
				connKey := ConnectionKey{InNodeID: hk1, OutNodeID: ok}
				g.Connections[connKey] = NewConnectionGene(connKey, g.Config, rng)
			}
		}
	case "full_direct":
		for _, ik := range inputKeys {
			for _, hk := range hiddenKeys {
				connKey := ConnectionKey{InNodeID: ik, OutNodeID: hk}
				g.Connections[connKey] = NewConnectionGene(connKey, g.Config, rng)
			}
			for _, ok := range outputKeys {
				connKey := ConnectionKey{InNodeID: ik, OutNodeID: ok}
				g.Connections[connKey] = NewConnectionGene(connKey, g.Config, rng)
			}
		}
		for _, hk1 := range hiddenKeys {
			for _, hk2 := range hiddenKeys {
				connKey := ConnectionKey{InNodeID: hk1, OutNodeID: hk2}
				g.Connections[connKey] = NewConnectionGene(connKey, g.Config, rng)
			}
			for _, ok := range outputKeys {
				connKey := ConnectionKey{InNodeID: hk1, OutNodeID: ok}
				g.Connections[connKey] = NewConnectionGene(connKey, g.Config, rng)
			}
		}
	case "partial_nodirect", "partial":
		for _, ik := range inputKeys {
			for _, hk := range hiddenKeys {
				if rng.Float64() < connectionFraction {
					connKey := ConnectionKey{InNodeID: ik, OutNodeID: hk}
					g.Connections[connKey] = NewConnectionGene(connKey, g.Config, rng)
				}
			}
		}
		for _, hk1 := range hiddenKeys {
			for _, hk2 := range hiddenKeys {
				if rng.Float64() < connectionFraction {
					connKey := ConnectionKey{InNodeID: hk1, OutNodeID: hk2}
					g.Connections[connKey] = NewConnectionGene(connKey, g.Config, rng)
				}
			}
			for _, ok := range outputKeys {
				if rng.Float64() < connectionFraction {
					connKey := ConnectionKey{InNodeID: hk1, OutNodeID: ok}
					g.Connections[connKey] = NewConnectionGene(connKey, g.Config, rng)
				}
			}
		}
	case "partial_direct":
		for _, ik := range inputKeys {
			for _, hk := range hiddenKeys {
				if rng.Float64() < connectionFraction {
					connKey := ConnectionKey{InNodeID: ik, OutNodeID: hk}
					g.Connections[connKey] = NewConnectionGene(connKey, g.Config, rng)
				}
			}
			for _, ok := range outputKeys {
				if rng.Float64() < connectionFraction {
					connKey := ConnectionKey{InNodeID: ik, OutNodeID: ok}
					g.Connections[connKey] = NewConnectionGene(connKey, g.Config, rng)
				}
			}
		}
		for _, hk1 := range hiddenKeys {
			for _, hk2 := range hiddenKeys {
				if rng.Float64() < connectionFraction {
					connKey := ConnectionKey{InNodeID: hk1, OutNodeID: hk2}
					g.Connections[connKey] = NewConnectionGene(connKey, g.Config, rng)
				}
			}
			for _, ok := range outputKeys {
				if rng.Float64() < connectionFraction {
					connKey := ConnectionKey{InNodeID: hk1, OutNodeID: ok}
					g.Connections[connKey] = NewConnectionGene(connKey, g.Config, rng)
				}
			}
		}
	default:
		panic(fmt.Sprintf("invalid initial_connection type in genome configuration: %s", connType))
	}
}

// CrossIn recombines the receiver with other, returning a new child genome.
// The receiver is treated as the fitter parent: its disjoint and excess genes
// are carried verbatim, while homologous connection genes are crossed gene by
// gene. Callers decide which parent is fitter before invoking CrossIn.
func (g *Genome) CrossIn(other *Genome, rng *rand.Rand) *Genome {
	child := NewGenome(g.Key, g.Config)

	for key, node := range g.Nodes {
		child.Nodes[key] = node.Copy()
	}

	for key, conn1 := range g.Connections {
		if conn2, exists := other.Connections[key]; exists {
			child.Connections[key] = conn1.Crossover(conn2, rng)
		} else {
			child.Connections[key] = conn1.Copy()
		}
	}

	return child
}

// MutateWithContext applies structural and attribute mutations in place,
// drawing all randomness from ctx's RNG.
func (g *Genome) MutateWithContext(ctx *Context) {
	rng := ctx.Rng()
	singleMutation := g.Config.SingleStructuralMutation
	structureMutated := false

	if rng.Float64() < g.Config.NodeAddProb {
		g.mutateAddNode(rng)
		structureMutated = true
	}

	if !singleMutation || !structureMutated {
		if rng.Float64() < g.Config.ConnAddProb {
			g.mutateAddConnection(rng)
			structureMutated = true
		}
	}

	for _, node := range g.Nodes {
		node.Mutate(g.Config, rng)
	}

	for _, conn := range g.Connections {
		conn.Mutate(g, g.Config, rng)
	}
}

// mutateAddNode attempts to add a new node by splitting an existing connection.
func (g *Genome) mutateAddNode(rng *rand.Rand) {
	if len(g.Connections) == 0 {
		return
	}

	keys := make([]ConnectionKey, 0, len(g.Connections))
	for k := range g.Connections {
		keys = append(keys, k)
	}
	connToSplitKey := keys[rng.Intn(len(keys))]
	connToSplit := g.Connections[connToSplitKey]

	connToSplit.Enabled = false

	newNodeKey := g.Config.GetNewNodeKey()
	newNode := NewNodeGene(newNodeKey, g.Config, rng)
	g.Nodes[newNodeKey] = newNode

	conn1Key := ConnectionKey{InNodeID: connToSplit.Key.InNodeID, OutNodeID: newNodeKey}
	conn1 := NewConnectionGene(conn1Key, g.Config, rng)
	conn1.Weight = 1.0
	conn1.Enabled = true
	g.Connections[conn1Key] = conn1

	conn2Key := ConnectionKey{InNodeID: newNodeKey, OutNodeID: connToSplit.Key.OutNodeID}
	conn2 := NewConnectionGene(conn2Key, g.Config, rng)
	conn2.Weight = connToSplit.Weight
	conn2.Enabled = true
	g.Connections[conn2Key] = conn2
}

// mutateAddConnection attempts to add a new connection between two previously unconnected nodes.
func (g *Genome) mutateAddConnection(rng *rand.Rand) {
	possibleInputs := make([]int, 0, len(g.Config.InputKeys)+len(g.Nodes))
	possibleInputs = append(possibleInputs, g.Config.InputKeys...)
	for nk := range g.Nodes {
		isInput := false
		for _, ik := range g.Config.InputKeys {
			if nk == ik {
				isInput = true
				break
			}
		}
		if !isInput {
			possibleInputs = append(possibleInputs, nk)
		}
	}

	possibleOutputs := make([]int, 0, len(g.Nodes))
	for nk := range g.Nodes {
		possibleOutputs = append(possibleOutputs, nk)
	}

	if len(possibleInputs) == 0 || len(possibleOutputs) == 0 {
		return
	}

	maxAttempts := 20
	for i := 0; i < maxAttempts; i++ {
		inNodeKey := possibleInputs[rng.Intn(len(possibleInputs))]
		outNodeKey := possibleOutputs[rng.Intn(len(possibleOutputs))]

		isOutputAnInput := false
		for _, ik := range g.Config.InputKeys {
			if outNodeKey == ik {
				isOutputAnInput = true
				break
			}
		}
		if isOutputAnInput {
			continue
		}

		connKey := ConnectionKey{InNodeID: inNodeKey, OutNodeID: outNodeKey}

		if _, exists := g.Connections[connKey]; exists {
			continue
		}

		if g.Config.FeedForward {
			if createsCycle(g, inNodeKey, outNodeKey) {
				continue
			}
		}

		newConn := NewConnectionGene(connKey, g.Config, rng)
		g.Connections[connKey] = newConn
		return
	}
}

// Len returns the number of connection genes in the genome, used both as a
// network-complexity measure and as the parsimony tie-breaker between
// individuals of equal fitness.
func (g *Genome) Len() int {
	return len(g.Connections)
}

// Clone returns a deep copy of the genome.
func (g *Genome) Clone() *Genome {
	clone := NewGenome(g.Key, g.Config)
	clone.Fitness = g.Fitness
	for key, node := range g.Nodes {
		clone.Nodes[key] = node.Copy()
	}
	for key, conn := range g.Connections {
		clone.Connections[key] = conn.Copy()
	}
	return clone
}

// NodeGenes returns the node genes, keyed by node id, for client inspection.
func (g *Genome) NodeGenes() map[int]*NodeGene {
	return g.Nodes
}

// ConnectionGenes returns the connection genes for client inspection.
func (g *Genome) ConnectionGenes() map[ConnectionKey]*ConnectionGene {
	return g.Connections
}

// Distance calculates the genetic distance between this genome and another.
func (g *Genome) Distance(other *Genome) float64 {
	disjointCount := 0
	weightDiffSum := 0.0
	matchingGeneCount := 0

	for key, conn1 := range g.Connections {
		if conn2, exists := other.Connections[key]; exists {
			weightDiffSum += conn1.Distance(conn2, g.Config)
			matchingGeneCount++
		} else {
			disjointCount++
		}
	}

	for key := range other.Connections {
		if _, exists := g.Connections[key]; !exists {
			disjointCount++
		}
	}

	N := float64(maxInt(len(g.Connections), len(other.Connections)))
	if N < 1.0 {
		N = 1.0
	}

	compatibility := (g.Config.CompatibilityDisjointCoefficient * float64(disjointCount)) / N
	if matchingGeneCount > 0 {
		averageWeightDiff := weightDiffSum / float64(matchingGeneCount)
		compatibility += g.Config.CompatibilityWeightCoefficient * averageWeightDiff
	}

	return compatibility
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// createsCycle reports whether adding a connection inNode->outNode would
// create a cycle given the genome's existing enabled connections.
func createsCycle(g *Genome, inNode, outNode int) bool {
	if inNode == outNode {
		return true
	}

	visited := make(map[int]bool)
	queue := []int{outNode}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current == inNode {
			return true
		}

		if visited[current] {
			continue
		}
		visited[current] = true

		for connKey, conn := range g.Connections {
			if conn.Enabled && connKey.InNodeID == current {
				queue = append(queue, connKey.OutNodeID)
			}
		}
	}

	return false
}
