// service/services.go
package service

import (
	"github.com/claimguru/claimguard/authz"
	"github.com/claimguru/claimguard/dao"
	"github.com/claimguru/claimguard/util"
)

type Services struct {
	Authorization IAuthorizationService
	User          IUserService
	Claim         IClaimService
}

// InitializeServices wires the business services on top of the DAOs and
// the authorization engine.
func InitializeServices(
	userDAO *dao.UserDAO,
	claimDAO *dao.ClaimDAO,
	documentDAO *dao.DocumentDAO,
	resolver *authz.Resolver,
	evaluator *authz.Evaluator,
	validationUtil *util.ValidationUtil,
	notificationSvc *util.NotificationService,
	eventBus *util.EventBus,
) *Services {
	authorizationService := NewAuthorizationService(resolver, evaluator, userDAO, eventBus)
	return &Services{
		Authorization: authorizationService,
		User:          NewUserService(userDAO, resolver, validationUtil, notificationSvc, eventBus),
		Claim:         NewClaimService(claimDAO, documentDAO, authorizationService, validationUtil, notificationSvc),
	}
}
