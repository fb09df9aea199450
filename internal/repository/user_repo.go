package repository

import (
	"go-pos-ws/internal/model"

	"gorm.io/gorm"
)

type UserRepository interface {
	FindByID(id string) (*model.User, error)
	FindAll() ([]model.User, error)
	Create(user *model.User) error
	Update(user *model.User) error
	Delete(id string) error
	UpdatePassword(id string, hashedPassword string) error
	UpdateTokenVersion(id string, version string) error
	SeedDefaults(defaultPassword string) error
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db}
}

func (r *userRepo) FindByID(id string) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindAll() ([]model.User, error) {
	var users []model.User
	if err := r.db.Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepo) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *userRepo) Update(user *model.User) error {
	return r.db.Save(user).Error
}

func (r *userRepo) Delete(id string) error {
	return r.db.Delete(&model.User{}, "id = ?", id).Error
}

func (r *userRepo) UpdatePassword(id string, hashedPassword string) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).Update("password", hashedPassword).Error
}

func (r *userRepo) UpdateTokenVersion(id string, version string) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).Update("token_version", version).Error
}

// SeedDefaults creates the stall crew on first boot. Existing rows are left
// alone so operator edits survive restarts.
func (r *userRepo) SeedDefaults(defaultPassword string) error {
	for _, u := range model.DefaultUsers {
		var existing model.User
		err := r.db.First(&existing, "id = ?", u.ID).Error
		if err != gorm.ErrRecordNotFound {
			continue
		}
		seeded := u
		if err := seeded.SetPassword(defaultPassword); err != nil {
			return err
		}
		if err := r.db.Create(&seeded).Error; err != nil {
			return err
		}
	}
	return nil
}
