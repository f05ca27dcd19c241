// Package access implements the per-object grant table: default-deny,
// additive capabilities checked at every read and write path.
package access

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/hints"

	"github.com/continuum-journal/continuum/internal/models"
)

// Grant records capabilities for a subject on an object. It runs on the
// caller's handle so object creation and the self-grant share one
// transaction; re-granting an existing capability is a no-op.
func Grant(tx *gorm.DB, subjectID uuid.UUID, objectType string, objectID uuid.UUID, capabilities ...string) error {
	for _, capability := range capabilities {
		grant := models.Grant{
			SubjectID:  subjectID,
			ObjectType: objectType,
			ObjectID:   objectID,
			Capability: capability,
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&grant).Error; err != nil {
			return err
		}
	}
	return nil
}

// Revoke removes capabilities for a subject on an object. Removing a grant
// that does not exist is a no-op; there is no explicit deny.
func Revoke(tx *gorm.DB, subjectID uuid.UUID, objectType string, objectID uuid.UUID, capabilities ...string) error {
	return tx.
		Where("subject_id = ? AND object_type = ? AND object_id = ? AND capability IN ?",
			subjectID, objectType, objectID, capabilities).
		Delete(&models.Grant{}).Error
}

// Has reports whether the subject holds the capability on the object.
// Capabilities are independent: change does not imply view.
func Has(db *gorm.DB, subjectID uuid.UUID, objectType string, objectID uuid.UUID, capability string) (bool, error) {
	var count int64
	err := db.Model(&models.Grant{}).
		Where("subject_id = ? AND object_type = ? AND object_id = ? AND capability = ?",
			subjectID, objectType, objectID, capability).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Scope restricts a query to objects of objectType the subject holds the
// capability on, as a pre-query filter so listings never leak the existence
// of inaccessible objects.
func Scope(db *gorm.DB, subjectID uuid.UUID, objectType, capability string) *gorm.DB {
	sub := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.Grant{}).
		Select("object_id").
		Where("subject_id = ? AND object_type = ? AND capability = ?", subjectID, objectType, capability)
	if db.Dialector.Name() == "mysql" {
		sub = sub.Clauses(hints.UseIndex("idx_grants_lookup"))
	}
	return db.Where("id IN (?)", sub)
}

// RemoveObject drops every grant referencing the object, for any subject.
// Called after an object is deleted so stale grants cannot accumulate.
func RemoveObject(tx *gorm.DB, objectType string, objectID uuid.UUID) error {
	return tx.
		Where("object_type = ? AND object_id = ?", objectType, objectID).
		Delete(&models.Grant{}).Error
}
