package kinship

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Degree computes the kinship degree between two persons via their nearest
// common ancestor.
//
// Both ancestor sets are walked to the engine's degree bound (>= 10
// generations). Each person counts as their own generation-0 ancestor, which
// is what classifies direct lines (parent/grandparent) correctly instead of
// forcing them through the cousin formula. When several common ancestors tie
// on combined distance, the one with the lowest person ID wins — a
// deterministic contract rather than storage iteration order.
func (e *Engine) Degree(ctx context.Context, personA, personB string) (*DegreeResult, error) {
	if personA == "" || personB == "" {
		return nil, &ValidationError{Violations: []string{"two person ids are required"}}
	}

	// Identity comparison only; no store access for SELF.
	if personA == personB {
		return &DegreeResult{Label: DegreeSelf, Description: "same person"}, nil
	}

	ancestorsA, err := e.Ancestors(ctx, personA, e.degreeBound)
	if err != nil {
		return nil, err
	}
	ancestorsB, err := e.Ancestors(ctx, personB, e.degreeBound)
	if err != nil {
		return nil, err
	}

	gensA := minGenerations(ancestorsA, personA)
	gensB := minGenerations(ancestorsB, personB)

	// Collect common ancestors with their nearest generation on each side.
	type candidate struct {
		ancestorID string
		genA, genB int
	}
	var candidates []candidate
	for id, gA := range gensA {
		if gB, ok := gensB[id]; ok {
			candidates = append(candidates, candidate{ancestorID: id, genA: gA, genB: gB})
		}
	}
	if len(candidates) == 0 {
		return &DegreeResult{Label: DegreeUnrelated, Description: "no common ancestor within traversal bound"}, nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		si := candidates[i].genA + candidates[i].genB
		sj := candidates[j].genA + candidates[j].genB
		if si != sj {
			return si < sj
		}
		return candidates[i].ancestorID < candidates[j].ancestorID
	})
	chosen := candidates[0]

	result := classifyDegree(chosen.genA, chosen.genB)
	result.CommonAncestorID = chosen.ancestorID
	result.CommonAncestor = e.lookupPerson(ctx, chosen.ancestorID)
	return result, nil
}

// minGenerations maps each reachable ancestor to its nearest generation,
// including the person themselves at generation 0. An ancestor reachable
// over multiple edges keeps the minimum distance.
func minGenerations(ancestors *AncestorResult, self string) map[string]int {
	gens := map[string]int{self: 0}
	for _, entry := range ancestors.Entries {
		if g, ok := gens[entry.AncestorID]; !ok || entry.Generation < g {
			gens[entry.AncestorID] = entry.Generation
		}
	}
	return gens
}

// classifyDegree turns the two common-ancestor distances into a degree
// label and description. genA/genB are from personA's and personB's side.
func classifyDegree(genA, genB int) *DegreeResult {
	result := &DegreeResult{
		GenerationA: genA,
		GenerationB: genB,
		Removal:     abs(genA - genB),
	}

	g1, g2 := genA, genB
	if g1 > g2 {
		g1, g2 = g2, g1
	}

	switch {
	case g1 == 0:
		// Direct line: one person is the common ancestor.
		aIsAncestor := genA == 0
		result.Label, result.Description = linealDegree(g2, aIsAncestor)

	case g1 == 1 && g2 == 1:
		result.Label = DegreeSibling
		result.Description = "sibling"

	case g1 == 1 && g2 == 2:
		result.Label = DegreeAvuncular
		if genA == 1 {
			result.Description = "aunt or uncle"
		} else {
			result.Description = "niece or nephew"
		}

	default:
		cousinNumber := g1 - 1
		result.Label = fmt.Sprintf("COUSIN_%d", cousinNumber)
		result.Description = cousinDescription(cousinNumber)
		if result.Removal > 0 {
			result.Label += fmt.Sprintf("_REMOVED_%d", result.Removal)
			result.Description += " " + removalDescription(result.Removal)
		}
	}

	return result
}

// linealDegree labels a direct ancestor/descendant pair with the given
// generation gap, from person A's perspective.
func linealDegree(gap int, aIsAncestor bool) (label, description string) {
	switch {
	case gap == 1 && aIsAncestor:
		return DegreeParent, "parent"
	case gap == 1:
		return DegreeChild, "child"
	case gap == 2 && aIsAncestor:
		return DegreeGrandparent, "grandparent"
	case gap == 2:
		return DegreeGrandchild, "grandchild"
	}

	greats := strings.Repeat("great-", gap-2)
	if aIsAncestor {
		return DegreeGreatGrandparent, greats + "grandparent"
	}
	return DegreeGreatGrandchild, greats + "grandchild"
}

// cousinOrdinals covers the common range; anything beyond gets a templated
// fallback.
var cousinOrdinals = map[int]string{
	1: "first cousin",
	2: "second cousin",
	3: "third cousin",
	4: "fourth cousin",
	5: "fifth cousin",
	6: "sixth cousin",
	7: "seventh cousin",
	8: "eighth cousin",
	9: "ninth cousin",
}

func cousinDescription(n int) string {
	if d, ok := cousinOrdinals[n]; ok {
		return d
	}
	return fmt.Sprintf("cousin of degree %d", n)
}

func removalDescription(r int) string {
	switch r {
	case 1:
		return "once removed"
	case 2:
		return "twice removed"
	default:
		return fmt.Sprintf("%d times removed", r)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
