package grpc

import (
	"github.com/dmitrijs2005/gophauth/internal/api"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

func toAPIAccount(a *models.Account) api.Account {
	v := a.View()
	return api.Account{
		ID:                    v.ID,
		UserName:              v.UserName,
		Email:                 v.Email,
		Enabled:               v.Enabled,
		PendingVerification:   v.PendingVerification,
		VerificationExpiresAt: v.VerificationExpires,
		Authorities:           v.Authorities,
		CreatedAt:             v.CreatedAt,
	}
}

func toAPIAccounts(list []*models.Account) []api.Account {
	out := make([]api.Account, 0, len(list))
	for _, a := range list {
		out = append(out, toAPIAccount(a))
	}
	return out
}
