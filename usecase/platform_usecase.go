package usecase

import (
	"context"
	"fmt"
	"time"

	"newsroom/domain/apperror"
	"newsroom/domain/model"
	"newsroom/domain/repository"
)

type PlatformTokenInput struct {
	Platform    string
	AccessToken string
	AccountID   string
	AccountName string
	ExpiresAt   *time.Time
}

type IPlatformUsecase interface {
	SetToken(ctx context.Context, in PlatformTokenInput) (*model.PlatformToken, error)
}

type platformUsecase struct {
	tokens repository.IPlatformToken
}

func NewPlatformUsecase(tokens repository.IPlatformToken) IPlatformUsecase {
	return &platformUsecase{tokens: tokens}
}

func (u *platformUsecase) SetToken(ctx context.Context, in PlatformTokenInput) (*model.PlatformToken, error) {
	platform, ok := model.ParsePlatform(in.Platform)
	if !ok {
		return nil, apperror.Validation(fmt.Sprintf("unsupported platform %q", in.Platform))
	}
	if platform != model.PlatformX && in.AccountID == "" {
		return nil, apperror.Validation(fmt.Sprintf("%s requires an account id", platform))
	}
	tok := &model.PlatformToken{
		Platform:    platform,
		AccessToken: in.AccessToken,
		AccountID:   in.AccountID,
		ExpiresAt:   in.ExpiresAt,
	}
	if in.AccountName != "" {
		name := in.AccountName
		tok.AccountName = &name
	}
	if err := u.tokens.UpsertToken(ctx, tok); err != nil {
		return nil, err
	}
	return tok, nil
}
