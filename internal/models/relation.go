package models

// Relation is a directed, optionally labeled edge between two links.
// A->B does not imply B->A.
type Relation struct {
	PrimaryLinkID string `db:"primary_link_id" json:"primary_link_id"`
	RelatedLinkID string `db:"related_link_id" json:"related_link_id"`
	Relationship  string `db:"relationship" json:"relationship,omitempty"`
}

// TableName returns the table name for Relation.
func (Relation) TableName() string {
	return "related_link"
}

// RelatedLink is the outward view of a relation: the related link's URL
// plus the edge label, as shown by relation traversal.
type RelatedLink struct {
	URL          string `json:"url"`
	Relationship string `json:"relationship,omitempty"`
}
