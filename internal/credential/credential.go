package credential

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Credential is the result of a successful pairing: the username the bridge
// issued plus the address of the bridge that issued it.
type Credential struct {
	Username      string `json:"username" validate:"required"`
	BridgeAddress string `json:"bridge_address" validate:"required"`
}

// String returns a human-readable form that does not leak the full secret.
func (c *Credential) String() string {
	return fmt.Sprintf("%s@%s", Redact(c.Username), c.BridgeAddress)
}

// Validate checks that both fields are populated.
func (c *Credential) Validate() error {
	if err := validate().Struct(c); err != nil {
		return fmt.Errorf("invalid credential: %w", err)
	}
	return nil
}

// Redact keeps the first four characters of a secret.
func Redact(secret string) string {
	if len(secret) <= 4 {
		return "****"
	}
	return secret[:4] + "…"
}

var (
	validatorOnce sync.Once
	validatorInst *validator.Validate
)

func validate() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInst = validator.New(validator.WithRequiredStructEnabled())
	})
	return validatorInst
}
