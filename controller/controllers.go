// controller/controllers.go
package controller

import (
	"github.com/claimguru/claimguard/audit"
	"github.com/claimguru/claimguard/service"
)

type Controllers struct {
	Authz *AuthzController
	User  *UserController
	Claim *ClaimController
}

func InitializeControllers(services *service.Services, auditService audit.Service) *Controllers {
	return &Controllers{
		Authz: NewAuthzController(services.Authorization, auditService),
		User:  NewUserController(services.User),
		Claim: NewClaimController(services.Claim),
	}
}
