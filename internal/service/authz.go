package service

import (
	"go-social-api/internal/model"
)

func requireOwner(identity model.Identity, ownerID string) error {
	if identity.ID == "" || identity.ID != ownerID {
		return model.ErrForbidden
	}
	return nil
}

func requireSameProject(identity model.Identity, project string) error {
	if identity.Project == "" || identity.Project != project {
		return model.ErrForbidden
	}
	return nil
}
