package garden

import (
	"sort"
	"strings"
)

// TagNode is one level of the hierarchical tag navigation. A tag like
// "area/hobby" nests hobby under area; a note carrying that tag attaches
// to the hobby node only. Children and Files are sorted.
type TagNode struct {
	Tag      string
	Children []*TagNode
	Files    []string // note ids
}

type rawTagNode struct {
	tag      string
	children map[string]*rawTagNode
	files    map[string]struct{}
}

func newRawTagNode(tag string) *rawTagNode {
	return &rawTagNode{
		tag:      tag,
		children: make(map[string]*rawTagNode),
		files:    make(map[string]struct{}),
	}
}

func (n *rawTagNode) child(tag string) *rawTagNode {
	c, ok := n.children[tag]
	if !ok {
		c = newRawTagNode(tag)
		n.children[tag] = c
	}
	return c
}

func (n *rawTagNode) finish() *TagNode {
	out := &TagNode{Tag: n.tag}
	for id := range n.files {
		out.Files = append(out.Files, id)
	}
	sort.Strings(out.Files)
	for _, c := range n.children {
		out.Children = append(out.Children, c.finish())
	}
	sort.Slice(out.Children, func(i, j int) bool {
		return out.Children[i].Tag < out.Children[j].Tag
	})
	return out
}

// NewTagTree builds the tag navigation tree from a note batch. Pass the
// publish-filtered subset when the tree feeds a published surface.
func NewTagTree(notes []Note) *TagNode {
	root := newRawTagNode("#")
	for _, n := range notes {
		for _, tag := range n.Tags {
			cur := root
			inserted := false
			for _, part := range strings.Split(tag, "/") {
				if part == "" {
					continue
				}
				cur = cur.child(part)
				inserted = true
			}
			if inserted {
				cur.files[n.ID] = struct{}{}
			}
		}
	}
	return root.finish()
}
