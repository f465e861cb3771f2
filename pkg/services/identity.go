package services

import (
	"errors"
	"log"

	"PolyChat/models"

	"gorm.io/gorm"
)

// ResolveOrCreate maps an email to its account record, creating one on first
// contact. Concurrent first-contact is resolved by the unique index on email:
// the losing creator re-reads the row the winner inserted.
func ResolveOrCreate(db *gorm.DB, email string) (models.User, error) {
	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, err
	}

	user = models.User{Email: email, IsPremium: false, APICallsMade: 0}
	if cerr := db.Create(&user).Error; cerr != nil {
		// Lost a create race; the row must exist now.
		if ferr := db.Where("email = ?", email).First(&user).Error; ferr != nil {
			return models.User{}, cerr
		}
		return user, nil
	}
	log.Printf("[identity] new user created: %s", email)
	return user, nil
}
