package user

import (
	"context"

	"github.com/ViNit736/GFM-record-management-app-sub001/core"
)

type serviceMock struct {
	service
}

// NewServiceMock returns a Service whose mails are sent synchronously.
func NewServiceMock(repo Repository, mailSvc core.EmailService) Service {
	return &serviceMock{
		service: service{
			repo:    repo,
			mailSvc: mailSvc,
		},
	}
}

func (svc *serviceMock) RequestPasswordReset(ctx context.Context, email string) error {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	// run synchronously
	svc.sendPasswordResetMail(usr)
	return nil
}
