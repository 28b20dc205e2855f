package permissions

import (
	"testing"

	"github.com/tmcgann/errand-manager/internal/models"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestForErrand(t *testing.T) {
	errandAuthor := primitive.NewObjectID()
	projectAuthor := primitive.NewObjectID()
	member := primitive.NewObjectID()
	outsider := primitive.NewObjectID()

	project := &models.Project{
		ID:      primitive.NewObjectID(),
		Author:  projectAuthor,
		Members: []primitive.ObjectID{member, errandAuthor},
	}
	projectErrand := &models.Errand{
		ID:      primitive.NewObjectID(),
		Author:  errandAuthor,
		Project: &project.ID,
	}
	standalone := &models.Errand{
		ID:     primitive.NewObjectID(),
		Author: errandAuthor,
	}

	tests := []struct {
		name      string
		actor     primitive.ObjectID
		errand    *models.Errand
		parent    *models.Project
		canMutate bool
	}{
		{"errand author on project errand", errandAuthor, projectErrand, project, true},
		{"project author on project errand", projectAuthor, projectErrand, project, true},
		{"project member on project errand", member, projectErrand, project, true},
		{"outsider on project errand", outsider, projectErrand, project, false},
		{"author on standalone errand", errandAuthor, standalone, nil, true},
		{"outsider on standalone errand", outsider, standalone, nil, false},
		{"project author on dangling project ref", projectAuthor, projectErrand, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps := ForErrand(tt.actor, tt.errand, tt.parent)
			assert.True(t, caps.CanView)
			assert.Equal(t, tt.canMutate, caps.CanEdit)
			assert.Equal(t, tt.canMutate, caps.CanToggle)
			assert.Equal(t, tt.canMutate, caps.CanDelete)
		})
	}
}

func TestForProject(t *testing.T) {
	author := primitive.NewObjectID()
	member := primitive.NewObjectID()
	outsider := primitive.NewObjectID()

	project := &models.Project{
		ID:      primitive.NewObjectID(),
		Author:  author,
		Members: []primitive.ObjectID{member},
	}

	authorCaps := ForProject(author, project)
	assert.True(t, authorCaps.CanUpdate)
	assert.True(t, authorCaps.CanManageMembers)
	assert.True(t, authorCaps.CanDelete)
	assert.False(t, authorCaps.CanRemoveSelf)

	memberCaps := ForProject(member, project)
	assert.True(t, memberCaps.CanView)
	assert.False(t, memberCaps.CanUpdate)
	assert.False(t, memberCaps.CanManageMembers)
	assert.False(t, memberCaps.CanDelete)
	assert.True(t, memberCaps.CanRemoveSelf)

	outsiderCaps := ForProject(outsider, project)
	assert.True(t, outsiderCaps.CanView)
	assert.False(t, outsiderCaps.CanUpdate)
	assert.False(t, outsiderCaps.CanRemoveSelf)
}
