// Package permissions resolves what an authenticated actor may do to an
// errand or project. All route handlers go through these two functions so
// the ownership rules live in exactly one place.
package permissions

import (
	"github.com/tmcgann/errand-manager/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Capabilities is the permission set for an actor over an errand.
type Capabilities struct {
	CanView   bool
	CanEdit   bool
	CanToggle bool
	CanDelete bool
}

// ProjectCapabilities is the permission set for an actor over a project.
type ProjectCapabilities struct {
	CanView          bool
	CanUpdate        bool
	CanManageMembers bool
	CanDelete        bool
	CanRemoveSelf    bool
}

// ForErrand computes the actor's capabilities over an errand. The parent
// project, when the errand has one, must be passed in fully loaded; pass nil
// for standalone errands. An errand attached to a project is mutable by any
// project participant, not just its own author; a standalone errand only by
// its author.
func ForErrand(actor primitive.ObjectID, errand *models.Errand, parent *models.Project) Capabilities {
	isErrandAuthor := actor == errand.Author

	isProjectAuthor := false
	isProjectMember := false
	if parent != nil {
		isProjectAuthor = actor == parent.Author
		isProjectMember = parent.HasMember(actor)
	}

	canMutate := isErrandAuthor || isProjectAuthor || isProjectMember

	return Capabilities{
		CanView:   true,
		CanEdit:   canMutate,
		CanToggle: canMutate,
		CanDelete: canMutate,
	}
}

// ForProject computes the actor's capabilities over a project. Destructive
// and membership operations are author-only; removing oneself is open to any
// member.
func ForProject(actor primitive.ObjectID, project *models.Project) ProjectCapabilities {
	isAuthor := actor == project.Author

	return ProjectCapabilities{
		CanView:          true,
		CanUpdate:        isAuthor,
		CanManageMembers: isAuthor,
		CanDelete:        isAuthor,
		CanRemoveSelf:    project.HasMember(actor),
	}
}
