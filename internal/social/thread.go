// internal/social/thread.go
package social

import "archnet/internal/models"

// BuildThread turns a flat, chronologically ordered comment list into a
// forest: top-level comments (nil ParentID) in arrival order, each carrying
// its replies, recursively. A reply whose parent is absent from its recursion
// level is dropped without error; deleting a parent comment orphans its
// replies upstream and the thread simply stops showing them.
func BuildThread(comments []models.Comment) []*models.Comment {
	var parents []*models.Comment
	repliesByParent := make(map[string][]models.Comment)

	for i := range comments {
		c := comments[i]
		if c.ParentID == nil {
			parents = append(parents, &c)
		} else {
			repliesByParent[*c.ParentID] = append(repliesByParent[*c.ParentID], c)
		}
	}

	for _, parent := range parents {
		parent.Replies = attach(parent.ID, repliesByParent)
	}
	return parents
}

// attach resolves the reply list for one parent id and recurses so arbitrary
// nesting depth round-trips even though the UI indents a single level.
func attach(parentID string, repliesByParent map[string][]models.Comment) []*models.Comment {
	group, ok := repliesByParent[parentID]
	if !ok {
		return nil
	}

	replies := make([]*models.Comment, 0, len(group))
	for i := range group {
		reply := group[i]
		reply.Replies = attach(reply.ID, repliesByParent)
		replies = append(replies, &reply)
	}
	return replies
}

// CountThread counts every comment reachable in a built thread.
func CountThread(thread []*models.Comment) int {
	total := 0
	for _, c := range thread {
		total += 1 + CountThread(c.Replies)
	}
	return total
}
