package thread

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ButyrinIA/qotd/internal/models"
)

func comment(id string, parent *string, replies ...models.Comment) models.Comment {
	return models.Comment{ID: id, Text: ptr(id), Parent: parent, Comments: replies}
}

func sampleQuestion() *models.Question {
	return &models.Question{
		ID:          "q1",
		URL:         "/questions/q1",
		NumComments: 5,
		NumLikes:    4,
		CreatedAt:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Comments: []models.Comment{
			comment("a", nil,
				comment("a1", ptr("a"),
					comment("a1x", ptr("a1")),
				),
				comment("a2", ptr("a")),
			),
			comment("b", nil),
		},
	}
}

func ids(nodes []Node) []string {
	var out []string
	for _, n := range nodes {
		out = append(out, n.Comment.ID)
	}
	return out
}

func TestTopLevel(t *testing.T) {
	tests := []struct {
		name     string
		comments []models.Comment
		want     []string
	}{
		{"empty", nil, nil},
		{"all top-level", []models.Comment{comment("a", nil), comment("b", nil)}, []string{"a", "b"}},
		{"mixed keeps order", []models.Comment{
			comment("r1", ptr("x")),
			comment("a", nil),
			comment("r2", ptr("a")),
			comment("b", nil),
			comment("c", nil),
		}, []string{"a", "b", "c"}},
		{"only replies", []models.Comment{comment("r1", ptr("x"))}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, c := range TopLevel(tt.comments) {
				assert.Nil(t, c.Parent)
				got = append(got, c.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderTree(t *testing.T) {
	q := sampleQuestion()

	t.Run("pre-order with depth", func(t *testing.T) {
		var got []Node
		for c, depth := range RenderTree(&q.Comments[0]) {
			got = append(got, Node{Comment: c, Depth: depth})
		}

		assert.Equal(t, []string{"a", "a1", "a1x", "a2"}, ids(got))
		assert.Equal(t, []int{0, 1, 2, 1}, []int{got[0].Depth, got[1].Depth, got[2].Depth, got[3].Depth})
	})

	t.Run("restartable", func(t *testing.T) {
		seq := RenderTree(&q.Comments[0])
		count := func() int {
			n := 0
			for range seq {
				n++
			}
			return n
		}
		assert.Equal(t, 4, count())
		assert.Equal(t, 4, count())
	})

	t.Run("stops early", func(t *testing.T) {
		var seen []string
		for c := range RenderTree(&q.Comments[0]) {
			seen = append(seen, c.ID)
			if c.ID == "a1" {
				break
			}
		}
		assert.Equal(t, []string{"a", "a1"}, seen)
	})

	t.Run("starting depth", func(t *testing.T) {
		var depths []int
		for _, d := range RenderTreeAt(&q.Comments[1], 3) {
			depths = append(depths, d)
		}
		assert.Equal(t, []int{3}, depths)
	})

	t.Run("nil comment", func(t *testing.T) {
		for range RenderTree(nil) {
			t.Fatal("nil comment must yield nothing")
		}
	})
}

func TestFlattenAndCount(t *testing.T) {
	q := sampleQuestion()

	nodes := Flatten(q)
	assert.Equal(t, []string{"a", "a1", "a1x", "a2", "b"}, ids(nodes))
	assert.Equal(t, 0, nodes[4].Depth)
	assert.Equal(t, 5, Count(q.Comments))
	assert.Equal(t, 0, Count(nil))
}

func TestInsertTopLevel(t *testing.T) {
	q := sampleQuestion()
	before := q.Clone()
	c := NewComment(ptr("hello"), nil, nil)

	result := InsertTopLevel(q, c)

	require.Len(t, result.Comments, 3)
	assert.Equal(t, c, result.Comments[0])
	assert.Equal(t, "a", result.Comments[1].ID)
	assert.Equal(t, q.NumComments+1, result.NumComments)
	assert.Equal(t, before, q, "input question must not be mutated")

	result.Comments[1].NumLikes = 42
	assert.Equal(t, 0, q.Comments[0].NumLikes)
}

func TestInsertTopLevelEmptyQuestion(t *testing.T) {
	q := &models.Question{ID: "q"}
	c := NewComment(ptr("first"), nil, nil)

	result := InsertTopLevel(q, c)

	assert.Equal(t, []models.Comment{c}, result.Comments)
	assert.Equal(t, 1, result.NumComments)
	assert.Nil(t, q.Comments)
	assert.Equal(t, 0, q.NumComments)
}
