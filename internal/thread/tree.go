package thread

import (
	"iter"

	"github.com/ButyrinIA/qotd/internal/models"
)

// Node is a comment paired with its depth in the tree.
type Node struct {
	Comment *models.Comment
	Depth   int
}

// TopLevel returns the comments without a parent, in their original order.
func TopLevel(comments []models.Comment) []models.Comment {
	result := make([]models.Comment, 0, len(comments))
	for _, c := range comments {
		if c.Parent == nil {
			result = append(result, c)
		}
	}
	return result
}

// RenderTree walks c and its replies in pre-order, c at depth 0. The
// sequence can be ranged over any number of times. The tree must be acyclic.
func RenderTree(c *models.Comment) iter.Seq2[*models.Comment, int] {
	return RenderTreeAt(c, 0)
}

func RenderTreeAt(c *models.Comment, depth int) iter.Seq2[*models.Comment, int] {
	return func(yield func(*models.Comment, int) bool) {
		walk(c, depth, yield)
	}
}

func walk(c *models.Comment, depth int, yield func(*models.Comment, int) bool) bool {
	if c == nil {
		return true
	}
	if !yield(c, depth) {
		return false
	}
	for i := range c.Comments {
		if !walk(&c.Comments[i], depth+1, yield) {
			return false
		}
	}
	return true
}

// Flatten renders every top-level comment of q into a single ordered list.
func Flatten(q *models.Question) []Node {
	var nodes []Node
	top := TopLevel(q.Comments)
	for i := range top {
		for c, depth := range RenderTree(&top[i]) {
			nodes = append(nodes, Node{Comment: c, Depth: depth})
		}
	}
	return nodes
}

// Count returns the number of comments in the forest, replies included.
func Count(comments []models.Comment) int {
	n := 0
	for i := range comments {
		for range RenderTree(&comments[i]) {
			n++
		}
	}
	return n
}

// InsertTopLevel returns a copy of q with c as its first comment and the
// comment count bumped. q is not modified.
func InsertTopLevel(q *models.Question, c models.Comment) *models.Question {
	out := q.Clone()
	comments := make([]models.Comment, 0, len(out.Comments)+1)
	comments = append(comments, c.Clone())
	out.Comments = append(comments, out.Comments...)
	out.NumComments++
	return out
}
