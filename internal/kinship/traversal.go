package kinship

import (
	"context"
	"sort"
	"time"

	"github.com/nasabhq/nasab/internal/storage"
	"github.com/nasabhq/nasab/pkg/types"
)

// A single stored edge expresses a parent/child fact in one of two
// directions: (parent, child, FATHER|MOTHER) or (child, parent,
// SON|DAUGHTER). Traversal reads both directions so reciprocal visibility
// never depends on which way the fact was recorded.

// edgeRef pairs a stored edge with the person at the far end for the current
// walk direction.
type edgeRef struct {
	otherID string
	edge    types.RelationshipEdge
}

// parentRefs returns the parents of personID with the edges that assert
// them.
func (e *Engine) parentRefs(ctx context.Context, personID string) ([]edgeRef, error) {
	var refs []edgeRef

	// (parent, personID, FATHER|MOTHER): the subject is the parent.
	asObject, err := e.queryAllReciprocal(ctx, personID, []types.RelationshipType{types.TypeFather, types.TypeMother})
	if err != nil {
		return nil, err
	}
	for _, edge := range asObject {
		refs = append(refs, edgeRef{otherID: edge.PersonID, edge: edge})
	}

	// (personID, parent, SON|DAUGHTER): the object is the parent.
	asSubject, err := e.queryAll(ctx, personID, []types.RelationshipType{types.TypeSon, types.TypeDaughter})
	if err != nil {
		return nil, err
	}
	for _, edge := range asSubject {
		refs = append(refs, edgeRef{otherID: edge.RelatedPersonID, edge: edge})
	}

	return refs, nil
}

// childRefs returns the children of personID with the edges that assert
// them.
func (e *Engine) childRefs(ctx context.Context, personID string) ([]edgeRef, error) {
	var refs []edgeRef

	// (personID, child, FATHER|MOTHER): the object is the child.
	asSubject, err := e.queryAll(ctx, personID, []types.RelationshipType{types.TypeFather, types.TypeMother})
	if err != nil {
		return nil, err
	}
	for _, edge := range asSubject {
		refs = append(refs, edgeRef{otherID: edge.RelatedPersonID, edge: edge})
	}

	// (child, personID, SON|DAUGHTER): the subject is the child.
	asObject, err := e.queryAllReciprocal(ctx, personID, []types.RelationshipType{types.TypeSon, types.TypeDaughter})
	if err != nil {
		return nil, err
	}
	for _, edge := range asObject {
		refs = append(refs, edgeRef{otherID: edge.PersonID, edge: edge})
	}

	return refs, nil
}

// queryAll drains every page of Query for the given types.
func (e *Engine) queryAll(ctx context.Context, personID string, relTypes []types.RelationshipType) ([]types.RelationshipEdge, error) {
	return drainPages(func(page int) (*storage.PaginatedResult[types.RelationshipEdge], error) {
		return e.store.Query(ctx, personID, storage.QueryOptions{Types: relTypes, Page: page, Limit: 500})
	})
}

// queryAllReciprocal drains every page of QueryReciprocal for the given types.
func (e *Engine) queryAllReciprocal(ctx context.Context, personID string, relTypes []types.RelationshipType) ([]types.RelationshipEdge, error) {
	return drainPages(func(page int) (*storage.PaginatedResult[types.RelationshipEdge], error) {
		return e.store.QueryReciprocal(ctx, personID, storage.QueryOptions{Types: relTypes, Page: page, Limit: 500})
	})
}

func drainPages(fetch func(page int) (*storage.PaginatedResult[types.RelationshipEdge], error)) ([]types.RelationshipEdge, error) {
	var all []types.RelationshipEdge
	for page := 1; ; page++ {
		result, err := fetch(page)
		if err != nil {
			return nil, err
		}
		all = append(all, result.Items...)
		if !result.HasMore || len(result.Items) == 0 {
			break
		}
	}
	return all, nil
}

// Ancestors performs a breadth-first walk over parent edges starting at
// personID. Each visited edge is tagged with its generation (1 = parent,
// 2 = grandparent). The walk stops at maxGenerations or when no further
// parent edges exist.
//
// A person reachable by multiple paths appears once per distinct edge, not
// de-duplicated across paths; callers computing degree must handle
// multiplicity. maxGenerations <= 0 and unknown persons yield an empty,
// valid result — never an error.
func (e *Engine) Ancestors(ctx context.Context, personID string, maxGenerations int) (*AncestorResult, error) {
	result := &AncestorResult{ByGeneration: make(map[int][]AncestorEntry)}

	if personID == "" || maxGenerations <= 0 {
		return result, nil
	}
	if maxGenerations > MaxGenerations {
		maxGenerations = MaxGenerations
	}

	// Seen edges guarantee termination on malformed (cyclic) data and give
	// each edge exactly one entry at its shortest generation.
	seenEdges := make(map[string]bool)
	frontier := []string{personID}

	for generation := 1; generation <= maxGenerations && len(frontier) > 0; generation++ {
		nextFrontier := make([]string, 0)
		nextSeen := make(map[string]bool)

		for _, id := range frontier {
			refs, err := e.parentRefs(ctx, id)
			if err != nil {
				return nil, &StoreError{Op: "ancestor walk", Err: err}
			}
			for _, ref := range refs {
				if seenEdges[ref.edge.ID] {
					continue
				}
				seenEdges[ref.edge.ID] = true

				entry := AncestorEntry{
					AncestorID: ref.otherID,
					Generation: generation,
					Edge:       ref.edge,
				}
				result.Entries = append(result.Entries, entry)
				result.ByGeneration[generation] = append(result.ByGeneration[generation], entry)

				if !nextSeen[ref.otherID] {
					nextSeen[ref.otherID] = true
					nextFrontier = append(nextFrontier, ref.otherID)
				}
			}
		}
		frontier = nextFrontier
	}

	return result, nil
}

// Descendants performs the symmetric walk over child edges, building both a
// flat list (each entry tagged with generation and parent) and a nested
// tree rooted at personID.
func (e *Engine) Descendants(ctx context.Context, personID string, maxGenerations int) (*DescendantResult, error) {
	result := &DescendantResult{
		Tree: &DescendantNode{PersonID: personID, Generation: 0},
	}

	if personID == "" || maxGenerations <= 0 {
		return result, nil
	}
	if maxGenerations > MaxGenerations {
		maxGenerations = MaxGenerations
	}

	seenEdges := make(map[string]bool)

	// nodes tracks the tree node for each person at its first-found
	// generation, so children attach to the right parent node.
	nodes := map[string]*DescendantNode{personID: result.Tree}
	frontier := []string{personID}

	for generation := 1; generation <= maxGenerations && len(frontier) > 0; generation++ {
		nextFrontier := make([]string, 0)
		nextSeen := make(map[string]bool)

		for _, id := range frontier {
			refs, err := e.childRefs(ctx, id)
			if err != nil {
				return nil, &StoreError{Op: "descendant walk", Err: err}
			}
			parentNode := nodes[id]
			for _, ref := range refs {
				if seenEdges[ref.edge.ID] {
					continue
				}
				seenEdges[ref.edge.ID] = true

				entry := DescendantEntry{
					DescendantID: ref.otherID,
					ParentID:     id,
					Generation:   generation,
					Edge:         ref.edge,
				}
				result.Entries = append(result.Entries, entry)

				child := &DescendantNode{PersonID: ref.otherID, Generation: generation}
				parentNode.Children = append(parentNode.Children, child)
				if _, known := nodes[ref.otherID]; !known {
					nodes[ref.otherID] = child
				}

				if !nextSeen[ref.otherID] {
					nextSeen[ref.otherID] = true
					nextFrontier = append(nextFrontier, ref.otherID)
				}
			}
		}
		frontier = nextFrontier
	}

	return result, nil
}

// ImmediateFamily assembles the one-hop family view: father, mother, first
// active spouse, children sorted by birth date, and derived siblings.
// Siblings are never stored directly; they are the other children of the
// person's parents, excluding the person, deduplicated by person ID.
//
// Missing persons and empty graphs yield an empty view, never an error.
func (e *Engine) ImmediateFamily(ctx context.Context, personID string) (*ImmediateFamily, error) {
	family := &ImmediateFamily{
		Children: []FamilyMember{},
		Siblings: []FamilyMember{},
	}
	if personID == "" {
		return family, nil
	}

	// Parents.
	parents, err := e.parentRefs(ctx, personID)
	if err != nil {
		return nil, &StoreError{Op: "immediate family parents", Err: err}
	}
	for _, ref := range parents {
		member := e.newFamilyMember(ctx, ref)
		switch {
		case ref.edge.Type == types.TypeFather:
			if family.Father == nil {
				family.Father = member
			}
		case ref.edge.Type == types.TypeMother:
			if family.Mother == nil {
				family.Mother = member
			}
		default:
			// Child-direction edge (SON/DAUGHTER): slot by the parent's
			// recorded gender.
			switch gender(member.Person) {
			case types.GenderMale:
				if family.Father == nil {
					family.Father = member
				}
			case types.GenderFemale:
				if family.Mother == nil {
					family.Mother = member
				}
			}
		}
	}

	// Spouse: first active HUSBAND/WIFE match, either direction.
	spouseTypes := []types.RelationshipType{types.TypeHusband, types.TypeWife}
	asSubject, err := e.store.Query(ctx, personID, storage.QueryOptions{Types: spouseTypes, ActiveOnly: true, Limit: 1})
	if err != nil {
		return nil, &StoreError{Op: "immediate family spouse", Err: err}
	}
	if len(asSubject.Items) > 0 {
		edge := asSubject.Items[0]
		family.Spouse = e.newFamilyMember(ctx, edgeRef{otherID: edge.RelatedPersonID, edge: edge})
	} else {
		asObject, err := e.store.QueryReciprocal(ctx, personID, storage.QueryOptions{Types: spouseTypes, ActiveOnly: true, Limit: 1})
		if err != nil {
			return nil, &StoreError{Op: "immediate family spouse", Err: err}
		}
		if len(asObject.Items) > 0 {
			edge := asObject.Items[0]
			family.Spouse = e.newFamilyMember(ctx, edgeRef{otherID: edge.PersonID, edge: edge})
		}
	}

	// Children, sorted by birth date ascending with unknown dates last.
	children, err := e.childRefs(ctx, personID)
	if err != nil {
		return nil, &StoreError{Op: "immediate family children", Err: err}
	}
	for _, ref := range children {
		family.Children = append(family.Children, *e.newFamilyMember(ctx, ref))
	}
	sortByBirthDate(family.Children)

	// Siblings: other children of each parent.
	seenSiblings := map[string]bool{personID: true}
	for _, parent := range parents {
		siblings, err := e.childRefs(ctx, parent.otherID)
		if err != nil {
			return nil, &StoreError{Op: "immediate family siblings", Err: err}
		}
		for _, ref := range siblings {
			if seenSiblings[ref.otherID] {
				continue
			}
			seenSiblings[ref.otherID] = true
			family.Siblings = append(family.Siblings, *e.newFamilyMember(ctx, ref))
		}
	}
	sortByBirthDate(family.Siblings)

	return family, nil
}

// newFamilyMember builds a FamilyMember, resolving the person record when
// the directory knows it.
func (e *Engine) newFamilyMember(ctx context.Context, ref edgeRef) *FamilyMember {
	return &FamilyMember{
		RelatedID: ref.otherID,
		Person:    e.lookupPerson(ctx, ref.otherID),
		Edge:      ref.edge,
	}
}

// sortByBirthDate orders members by birth date ascending; members without a
// known birth date sort last. Ties keep their relative order stable by
// person ID.
func sortByBirthDate(members []FamilyMember) {
	sort.SliceStable(members, func(i, j int) bool {
		bi := birthDate(members[i].Person)
		bj := birthDate(members[j].Person)
		switch {
		case bi == nil && bj == nil:
			return members[i].RelatedID < members[j].RelatedID
		case bi == nil:
			return false
		case bj == nil:
			return true
		case bi.Equal(*bj):
			return members[i].RelatedID < members[j].RelatedID
		default:
			return bi.Before(*bj)
		}
	})
}

func gender(p *types.Person) string {
	if p == nil {
		return ""
	}
	return p.Gender
}

func birthDate(p *types.Person) *time.Time {
	if p == nil || p.BirthDate == nil {
		return nil
	}
	return p.BirthDate
}
