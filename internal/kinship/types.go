package kinship

import (
	"time"

	"github.com/nasabhq/nasab/internal/storage"
	"github.com/nasabhq/nasab/pkg/types"
)

// CreateInput carries the caller-supplied fields for a new relationship
// edge. Zero-valued optional fields receive engine defaults (ACTIVE,
// CONFIRMED, biological).
type CreateInput struct {
	PersonID        string                   `json:"person_id"`
	RelatedPersonID string                   `json:"related_person_id"`
	Type            types.RelationshipType   `json:"relationship_type"`
	Status          types.RelationshipStatus `json:"relationship_status,omitempty"`
	Certainty       types.CertaintyLevel     `json:"certainty_level,omitempty"`
	IsBiological    *bool                    `json:"is_biological,omitempty"`
	StartDate       *time.Time               `json:"start_date,omitempty"`
	EndDate         *time.Time               `json:"end_date,omitempty"`
	CreatedBy       string                   `json:"created_by,omitempty"`
	Notes           string                   `json:"notes,omitempty"`
}

// RelationshipsOptions controls GetPersonRelationships.
type RelationshipsOptions struct {
	// Types restricts results to the given relationship types.
	Types []types.RelationshipType

	// ActiveOnly restricts results to ACTIVE edges.
	ActiveOnly bool

	// IncludeReciprocal additionally returns edges where the person is the
	// object. This performs a second directional query; it never mutates
	// the graph.
	IncludeReciprocal bool

	// Page / Limit paginate both directional queries independently.
	Page  int
	Limit int
}

// RelationshipsResult carries the two directional views over a person's
// edges.
type RelationshipsResult struct {
	// Edges are relationships where the person is the subject.
	Edges *storage.PaginatedResult[types.RelationshipEdge]

	// Reciprocal are relationships where the person is the object. Nil
	// unless IncludeReciprocal was requested.
	Reciprocal *storage.PaginatedResult[types.RelationshipEdge]
}

// AncestorEntry is one visited parent edge during an ancestor walk. A person
// reachable by multiple paths appears once per distinct edge; callers
// computing degree must handle multiplicity.
type AncestorEntry struct {
	// AncestorID is the person at the parent end of the edge.
	AncestorID string `json:"ancestor_id"`

	// Generation is the traversal distance: 1 = parent, 2 = grandparent.
	Generation int `json:"generation"`

	// Edge is the stored edge that produced this entry.
	Edge types.RelationshipEdge `json:"edge"`
}

// AncestorResult is the flat list plus by-generation grouping of an
// ancestor walk.
type AncestorResult struct {
	Entries      []AncestorEntry         `json:"entries"`
	ByGeneration map[int][]AncestorEntry `json:"by_generation"`
}

// DescendantEntry is one visited child edge during a descendant walk.
type DescendantEntry struct {
	// DescendantID is the person at the child end of the edge.
	DescendantID string `json:"descendant_id"`

	// ParentID is the person this child hangs off.
	ParentID string `json:"parent_id"`

	// Generation is the traversal distance: 1 = child, 2 = grandchild.
	Generation int `json:"generation"`

	// Edge is the stored edge that produced this entry.
	Edge types.RelationshipEdge `json:"edge"`
}

// DescendantNode is a node in the nested descendant tree.
type DescendantNode struct {
	PersonID   string            `json:"person_id"`
	Generation int               `json:"generation"`
	Children   []*DescendantNode `json:"children,omitempty"`
}

// DescendantResult is the flat list plus nested tree of a descendant walk.
type DescendantResult struct {
	Entries []DescendantEntry `json:"entries"`
	Tree    *DescendantNode   `json:"tree"` // Root is the query person
}

// FamilyMember pairs a relationship edge with the related person, normalized
// so RelatedID is always the family member (regardless of which side of the
// stored edge they were on).
type FamilyMember struct {
	// RelatedID is the family member's person ID.
	RelatedID string `json:"related_person_id"`

	// Person is the directory record for RelatedID, when resolvable.
	Person *types.Person `json:"person,omitempty"`

	// Edge is the stored edge this member was derived from. For siblings the
	// edge is the sibling's child edge to the shared parent.
	Edge types.RelationshipEdge `json:"edge"`
}

// ImmediateFamily is the one-hop family view around a person.
type ImmediateFamily struct {
	Father   *FamilyMember  `json:"father,omitempty"`
	Mother   *FamilyMember  `json:"mother,omitempty"`
	Spouse   *FamilyMember  `json:"spouse,omitempty"` // First active HUSBAND/WIFE match
	Children []FamilyMember `json:"children"`         // Sorted by birth date ascending, nulls last
	Siblings []FamilyMember `json:"siblings"`         // Derived via shared parents, deduplicated
}

// Degree labels. Cousin labels are composed as COUSIN_n with an optional
// _REMOVED_r suffix; lineal labels carry the generation gap in Removal.
const (
	DegreeSelf             = "SELF"
	DegreeUnrelated        = "UNRELATED"
	DegreeSibling          = "SIBLING"
	DegreeAvuncular        = "AVUNCULAR"
	DegreeParent           = "PARENT"
	DegreeChild            = "CHILD"
	DegreeGrandparent      = "GRANDPARENT"
	DegreeGrandchild       = "GRANDCHILD"
	DegreeGreatGrandparent = "GREAT_GRANDPARENT"
	DegreeGreatGrandchild  = "GREAT_GRANDCHILD"
)

// DegreeResult describes the kinship degree between two persons.
type DegreeResult struct {
	// Label is the machine-readable degree (SELF, SIBLING, COUSIN_1_REMOVED_2, ...).
	Label string `json:"label"`

	// Description is the human-readable form ("first cousin once removed").
	Description string `json:"description"`

	// GenerationA / GenerationB are the distances from each query person to
	// the chosen common ancestor. Zero means that person is the ancestor.
	GenerationA int `json:"generation_a"`
	GenerationB int `json:"generation_b"`

	// Removal is the generational gap |GenerationA - GenerationB|.
	Removal int `json:"removal"`

	// CommonAncestorID is the chosen nearest common ancestor. Empty for
	// SELF and UNRELATED.
	CommonAncestorID string `json:"common_ancestor_id,omitempty"`

	// CommonAncestor is the directory record for the chosen ancestor, when
	// resolvable.
	CommonAncestor *types.Person `json:"common_ancestor,omitempty"`
}

// BulkItemResult is the outcome of one item in a BulkCreate batch.
type BulkItemResult struct {
	Index int                     `json:"index"`
	Edge  *types.RelationshipEdge `json:"edge,omitempty"`
	Error string                  `json:"error,omitempty"`
}

// BulkResult summarizes a BulkCreate batch. One item's failure never aborts
// the batch.
type BulkResult struct {
	Created int              `json:"created"`
	Failed  int              `json:"failed"`
	Items   []BulkItemResult `json:"items"`
}

// ImportOptions controls merge behaviour for Import.
type ImportOptions struct {
	// UpdateExisting updates the stored edge in place when the triple
	// already exists.
	UpdateExisting bool `json:"update_existing,omitempty"`

	// SkipDuplicates marks items whose triple already exists as SKIPPED.
	// Takes precedence over UpdateExisting.
	SkipDuplicates bool `json:"skip_duplicates,omitempty"`

	// VerifyAll auto-verifies newly created edges with the importer as
	// verifier.
	VerifyAll bool `json:"verify_all,omitempty"`

	// ImportedBy is recorded as the creator/verifier of imported edges.
	ImportedBy string `json:"imported_by,omitempty"`
}

// Import item outcomes.
const (
	ImportCreated = "CREATED"
	ImportUpdated = "UPDATED"
	ImportSkipped = "SKIPPED"
	ImportFailed  = "FAILED"
)

// ImportItemResult is the outcome of one import item.
type ImportItemResult struct {
	Index   int    `json:"index"`
	Outcome string `json:"outcome"`
	EdgeID  string `json:"edge_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ImportReport summarizes an Import run. Partial failure is expected and
// reported, never fatal to the batch.
type ImportReport struct {
	Created int                `json:"created"`
	Updated int                `json:"updated"`
	Skipped int                `json:"skipped"`
	Failed  int                `json:"failed"`
	Items   []ImportItemResult `json:"items"`
}

// ExportRecord is a relationship edge with operational audit fields
// stripped, suitable for serialization.
type ExportRecord struct {
	PersonID        string                   `json:"person_id"`
	RelatedPersonID string                   `json:"related_person_id"`
	Type            types.RelationshipType   `json:"relationship_type"`
	ReciprocalType  types.RelationshipType   `json:"reciprocal_relationship_type"`
	Status          types.RelationshipStatus `json:"relationship_status"`
	Certainty       types.CertaintyLevel     `json:"certainty_level"`
	IsBiological    bool                     `json:"is_biological"`
	StartDate       *time.Time               `json:"start_date,omitempty"`
	EndDate         *time.Time               `json:"end_date,omitempty"`
}

// ExportResult is the flat export list plus metadata.
type ExportResult struct {
	Records     []ExportRecord `json:"records"`
	RecordCount int            `json:"record_count"`
	ExportedAt  time.Time      `json:"exported_at"`
}

// ExportFilter narrows Export to a subset of the graph.
type ExportFilter struct {
	// PersonID restricts the export to edges where this person is the
	// subject. Empty exports nothing (exports are always person-scoped;
	// whole-graph dumps go through the store directly).
	PersonID string

	// Types restricts exported edge types.
	Types []types.RelationshipType

	// ActiveOnly restricts the export to ACTIVE edges.
	ActiveOnly bool
}

// Statistics is the read-side aggregation over the graph.
type Statistics struct {
	Total         int `json:"total"`
	Active        int `json:"active"`
	Dissolved     int `json:"dissolved"`
	Deceased      int `json:"deceased"`
	Biological    int `json:"biological"`
	NonBiological int `json:"non_biological"`
	Verified      int `json:"verified"`
	Unverified    int `json:"unverified"`

	ByType      map[types.RelationshipType]int `json:"by_type"`
	ByCertainty map[types.CertaintyLevel]int   `json:"by_certainty"`
}
