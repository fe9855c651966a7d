package collaborator

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EntityKind selects which collaborator table a merge operates on.
type EntityKind string

const (
	KindGoal      EntityKind = "goal"
	KindObjective EntityKind = "objective"
)

func (k EntityKind) table() string {
	if k == KindObjective {
		return "objective_collaborators"
	}
	return "goal_collaborators"
}

func (k EntityKind) fkColumn() string {
	if k == KindObjective {
		return "objective_id"
	}
	return "goal_id"
}

// row is the common shape of both collaborator tables.
type row struct {
	ID               uuid.UUID `gorm:"column:id"`
	EntityID         uuid.UUID `gorm:"column:entity_id"`
	UserID           uuid.UUID `gorm:"column:user_id"`
	CollaboratorType string    `gorm:"column:collaborator_type"`
	CreatedAt        time.Time `gorm:"column:created_at"`
}

// carried lists the collaborator roles that survive a merge. Merge-specific
// provenance roles are written by the merge executor itself, not copied.
var carried = map[string]bool{
	"Creator": true,
	"Linker":  true,
}

// Add inserts a single collaborator row on either entity table.
func Add(kind EntityKind, tx *gorm.DB, entityID, userID uuid.UUID, role string) error {
	return tx.Table(kind.table()).Create(map[string]interface{}{
		"id":                uuid.New(),
		kind.fkColumn():     entityID,
		"user_id":           userID,
		"collaborator_type": role,
	}).Error
}

// MergeCollaborators carries creator/linker provenance from the source
// entities of a merge onto the newly created entity. Rows from the chosen
// source (the entity whose text became canonical) win when the same role
// appears on several sources; duplicates per (user, role) collapse.
func MergeCollaborators(kind EntityKind, tx *gorm.DB, newEntityID uuid.UUID, sourceEntityIDs []uuid.UUID, chosenSourceID uuid.UUID) error {
	var rows []row
	err := tx.Table(kind.table()).
		Select("id, "+kind.fkColumn()+" AS entity_id, user_id, collaborator_type, created_at").
		Where(kind.fkColumn()+" IN ?", sourceEntityIDs).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return err
	}

	type roleKey struct {
		userID uuid.UUID
		role   string
	}
	picked := make(map[roleKey]row)
	for _, r := range rows {
		if !carried[r.CollaboratorType] {
			continue
		}
		key := roleKey{r.UserID, r.CollaboratorType}
		existing, ok := picked[key]
		if !ok || (r.EntityID == chosenSourceID && existing.EntityID != chosenSourceID) {
			picked[key] = r
		}
	}

	for key := range picked {
		err := tx.Table(kind.table()).Create(map[string]interface{}{
			"id":                uuid.New(),
			kind.fkColumn():     newEntityID,
			"user_id":           key.userID,
			"collaborator_type": key.role,
		}).Error
		if err != nil {
			return err
		}
	}
	return nil
}
