package dto

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"newsroom/domain/model"
)

var errUnsupportedPlatform = errors.New("unsupported platform")

// knownPlatform accepts any spelling model.ParsePlatform understands.
func knownPlatform(value interface{}) error {
	s, _ := value.(string)
	if _, ok := model.ParsePlatform(s); !ok {
		return errUnsupportedPlatform
	}
	return nil
}

type DistributeRequest struct {
	Platforms   []string `json:"platforms"`
	AutoPublish bool     `json:"autoPublish"`
}

func (r DistributeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Platforms,
			validation.Required.Error("platforms is required"),
			validation.Each(validation.By(knownPlatform)),
		),
	)
}

type PlatformTokenRequest struct {
	AccessToken string     `json:"accessToken"`
	AccountID   string     `json:"accountId"`
	AccountName string     `json:"accountName"`
	ExpiresAt   *time.Time `json:"expiresAt"`
}

func (r PlatformTokenRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.AccessToken, validation.Required.Error("accessToken is required")),
		validation.Field(&r.AccountName, validation.RuneLength(0, 200)),
	)
}
