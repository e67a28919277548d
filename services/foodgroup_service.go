package services

import (
	"strings"

	"github.com/QuangMinh07/BE-NOM-sub000/entity"
)

// Food groups share the food repository and ownership rules.

type FoodGroupIn struct {
	StoreID   uint   `json:"storeId" binding:"required"`
	GroupName string `json:"groupName" binding:"required"`
}

type RenameGroupIn struct {
	GroupName string `json:"groupName" binding:"required"`
}

func (s *FoodService) CreateGroup(actor Actor, in *FoodGroupIn) (*entity.FoodGroup, error) {
	if err := s.requireOwner(actor, in.StoreID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.GroupName)
	if name == "" {
		return nil, invalid("groupName is required")
	}
	g := &entity.FoodGroup{StoreID: in.StoreID, GroupName: name}
	if err := s.Repo.CreateGroup(g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *FoodService) ListGroups(storeID uint) ([]entity.FoodGroup, error) {
	return s.Repo.ListGroups(storeID)
}

func (s *FoodService) ownedGroup(actor Actor, groupID uint) (*entity.FoodGroup, error) {
	g, err := s.Repo.FindGroup(groupID)
	if err != nil {
		return nil, dbErr(err, "food group")
	}
	if err := s.requireOwner(actor, g.StoreID); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *FoodService) RenameGroup(actor Actor, groupID uint, name string) (*entity.FoodGroup, error) {
	g, err := s.ownedGroup(actor, groupID)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("groupName is required")
	}
	if err := s.Repo.RenameGroup(g.ID, name); err != nil {
		return nil, err
	}
	g.GroupName = name
	return g, nil
}

// DeleteGroup removes the group; its foods stay on the menu ungrouped.
func (s *FoodService) DeleteGroup(actor Actor, groupID uint) error {
	g, err := s.ownedGroup(actor, groupID)
	if err != nil {
		return err
	}
	return s.Repo.DeleteGroup(g.ID)
}
