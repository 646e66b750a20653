// util/validation_util.go

package util

import (
	"fmt"

	"github.com/claimguru/claimguard/authz"
	"github.com/claimguru/claimguard/model"
)

type ValidationUtil struct{}

func NewValidationUtil() *ValidationUtil {
	return &ValidationUtil{}
}

func (v *ValidationUtil) ValidateUser(user model.User) error {
	if user.Name == "" {
		return fmt.Errorf("user name cannot be empty")
	}
	if user.Email == "" {
		return fmt.Errorf("user email cannot be empty")
	}
	if !authz.ParseRole(user.Role).Valid() {
		return fmt.Errorf("unknown role %q", user.Role)
	}
	if user.OrganizationID == "" {
		return fmt.Errorf("user organization ID cannot be empty")
	}
	return nil
}

func (v *ValidationUtil) ValidateClaim(claim model.Claim) error {
	if claim.ClaimNumber == "" {
		return fmt.Errorf("claim number cannot be empty")
	}
	if claim.OrganizationID == "" {
		return fmt.Errorf("claim organization ID cannot be empty")
	}
	return nil
}

func (v *ValidationUtil) ValidateDocument(document model.Document) error {
	if document.ClaimID == "" {
		return fmt.Errorf("document claim ID cannot be empty")
	}
	if document.Name == "" {
		return fmt.Errorf("document name cannot be empty")
	}
	return nil
}

func (v *ValidationUtil) ValidateOrganization(organization model.Organization) error {
	if organization.ID == "" {
		return fmt.Errorf("organization ID cannot be empty")
	}
	if organization.Name == "" {
		return fmt.Errorf("organization name cannot be empty")
	}
	return nil
}
