package social

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"archnet/internal/models"
)

func comment(id string, parentID *string) models.Comment {
	return models.Comment{ID: id, ParentID: parentID, Content: "c-" + id}
}

func ptr(s string) *string { return &s }

func TestBuildThread(t *testing.T) {
	t.Run("empty input yields empty forest", func(t *testing.T) {
		assert.Empty(t, BuildThread(nil))
	})

	t.Run("top level only", func(t *testing.T) {
		thread := BuildThread([]models.Comment{
			comment("a", nil),
			comment("b", nil),
		})
		require.Len(t, thread, 2)
		assert.Equal(t, "a", thread[0].ID)
		assert.Equal(t, "b", thread[1].ID)
		assert.Empty(t, thread[0].Replies)
	})

	t.Run("replies attach to their parent", func(t *testing.T) {
		thread := BuildThread([]models.Comment{
			comment("a", nil),
			comment("b", nil),
			comment("r1", ptr("a")),
			comment("r2", ptr("b")),
			comment("r3", ptr("a")),
		})
		require.Len(t, thread, 2)
		require.Len(t, thread[0].Replies, 2)
		assert.Equal(t, "r1", thread[0].Replies[0].ID)
		assert.Equal(t, "r3", thread[0].Replies[1].ID)
		require.Len(t, thread[1].Replies, 1)
		assert.Equal(t, "r2", thread[1].Replies[0].ID)
	})

	t.Run("every attached reply references its immediate parent", func(t *testing.T) {
		thread := BuildThread([]models.Comment{
			comment("a", nil),
			comment("b", ptr("a")),
			comment("c", ptr("b")),
			comment("d", ptr("c")),
		})
		require.Len(t, thread, 1)

		var walk func(parent *models.Comment)
		walk = func(parent *models.Comment) {
			for _, reply := range parent.Replies {
				require.NotNil(t, reply.ParentID)
				assert.Equal(t, parent.ID, *reply.ParentID)
				walk(reply)
			}
		}
		assert.Nil(t, thread[0].ParentID)
		walk(thread[0])

		// Arbitrary depth survives.
		assert.Equal(t, 4, CountThread(thread))
	})

	t.Run("orphan replies are silently dropped", func(t *testing.T) {
		thread := BuildThread([]models.Comment{
			{ID: "c1", ParentID: nil},
			{ID: "c2", ParentID: ptr("c1")},
			{ID: "c3", ParentID: ptr("zzz")},
		})
		require.Len(t, thread, 1)
		assert.Equal(t, "c1", thread[0].ID)
		require.Len(t, thread[0].Replies, 1)
		assert.Equal(t, "c2", thread[0].Replies[0].ID)
		assert.Equal(t, 2, CountThread(thread))
	})

	t.Run("arrival order is preserved at every level", func(t *testing.T) {
		thread := BuildThread([]models.Comment{
			comment("p1", nil),
			comment("r-late", ptr("p1")),
			comment("p2", nil),
			comment("r-later", ptr("p1")),
		})
		require.Len(t, thread, 2)
		assert.Equal(t, []string{"p1", "p2"}, []string{thread[0].ID, thread[1].ID})
		require.Len(t, thread[0].Replies, 2)
		assert.Equal(t, "r-late", thread[0].Replies[0].ID)
		assert.Equal(t, "r-later", thread[0].Replies[1].ID)
	})
}
