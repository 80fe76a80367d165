package params

import (
	"regexp"

	validator "gopkg.in/go-playground/validator.v9"
)

var (
	tonAddressRegexp = regexp.MustCompile(`^-?[0-9]+:[0-9a-fA-F]{64}$`)
	hexKeyRegexp     = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)
)

// NewValidator returns a validator with the harness specific tags:
//
//	tonaddr - raw address, "<workchain>:<64 hex digits>"
//	hexkey  - 32 bytes, hex encoded
func NewValidator() (*validator.Validate, error) {
	validate := validator.New()
	if err := validate.RegisterValidation("tonaddr", validateTonAddress); err != nil {
		return nil, err
	}
	if err := validate.RegisterValidation("hexkey", validateHexKey); err != nil {
		return nil, err
	}
	return validate, nil
}

func validateTonAddress(fl validator.FieldLevel) bool {
	return tonAddressRegexp.MatchString(fl.Field().String())
}

func validateHexKey(fl validator.FieldLevel) bool {
	return hexKeyRegexp.MatchString(fl.Field().String())
}
