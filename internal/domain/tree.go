package domain

// NodeKind tells which upstream listing produced a tree node.
type NodeKind string

const (
	NodeKindQuickGroup NodeKind = "quickgroup"
	NodeKindCategory   NodeKind = "category"
	NodeKindUnit       NodeKind = "unit"
)

// TreeNode is the normalized shape shared by quick groups, categories and
// units. Link is set on nodes that lead to detail content.
type TreeNode struct {
	ID       string      `json:"id"`
	ParentID string      `json:"parent_id,omitempty"`
	Name     string      `json:"name"`
	Code     string      `json:"code,omitempty"`
	Kind     NodeKind    `json:"kind"`
	Link     bool        `json:"link"`
	ImageURL string      `json:"image_url,omitempty"`
	SSD      string      `json:"ssd,omitempty"`
	Children []*TreeNode `json:"children,omitempty"`
}

// Depth returns the number of levels in the tree rooted at nodes.
func Depth(nodes []*TreeNode) int {
	depth := 0
	for _, n := range nodes {
		if d := 1 + Depth(n.Children); d > depth {
			depth = d
		}
	}
	return depth
}
