package params

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/jsonc"
	validator "gopkg.in/go-playground/validator.v9"

	"github.com/ever-guild/debot-harness/browser"
	"github.com/ever-guild/debot-harness/logutils"
)

// Transports understood by the harness.
const (
	TransportMemory = "memory"
	TransportRPC    = "rpc"
)

// Where scenario lines are written.
const (
	OutputStdout = "stdout"
	OutputZap    = "zap"
	OutputBoth   = "both"
)

// Scenario names, in execution order.
const (
	ScenarioSingle   = "single"
	ScenarioRepeat   = "repeat"
	ScenarioParallel = "parallel"
	ScenarioSigning  = "signing"
)

// Defaults taken from the devnet test setup.
const (
	DefaultNetwork          = "devnet"
	DefaultProjectID        = "bf520b125fe24b96b4545f4358d2edba"
	DefaultTestDebotAddress = "0:2d2696edfe3d7c0d74e8900b2a43ac362de5a45db6fe6147177e2fcd2abfd3e2"
	DefaultSendDebotAddress = "0:af5acb55481ebd9c923c11462ea6ab068508a0e05aacd8a9c33bb5b0cabcc33c"
	DefaultWallet           = "0:2f9f742cd3ed63c39a31c077d5faada4e52ea365a4b4a9e1d6709e6cb0e9d927"
	DefaultRepeatCount      = 3
	DefaultParallelSessions = 3
)

// DefaultKeyPair is the devnet test key of the default wallet.
var DefaultKeyPair = browser.KeyPair{
	Public: "9f7fd3df9d72b133fe155c087928c4f9da423076cc20c9f5386614b462e49811",
	Secret: "607a90aedb5df02a0f712572f0b5aa5d9342e5f3f2c0794df43f4a2a9688aef3",
}

// ----------
// Config
// ----------

// Config stores everything a harness run needs.
type Config struct {
	// Network is a network name ("devnet", "net.ton.dev") or a url.
	Network string

	// ProjectID turns Network into an evercloud graphql endpoint.
	ProjectID string `validate:"omitempty,hexadecimal"`

	// Endpoint overrides the endpoint derived from Network and ProjectID.
	Endpoint string

	// TestDebotAddress is the DeBot driven by the invoke-test manifest.
	TestDebotAddress string `validate:"required,tonaddr"`

	// SendDebotAddress is the DeBot driven by the send manifest.
	SendDebotAddress string `validate:"required,tonaddr"`

	// Wallet is the user's default wallet address.
	Wallet string `validate:"required,tonaddr"`

	// KeyPair signs on behalf of Wallet.
	KeyPair browser.KeyPair `validate:"structonly"`

	// RepeatCount is how many times the repeat scenario runs one session.
	RepeatCount int `validate:"min=1"`

	// ParallelSessions is how many sessions the parallel scenario creates.
	ParallelSessions int `validate:"min=1"`

	// Scenarios to run; empty means all of them.
	Scenarios []string `validate:"dive,eq=single|eq=repeat|eq=parallel|eq=signing"`

	// TestManifestFile replaces the built-in invoke-test manifest.
	TestManifestFile string

	// SendManifestFile replaces the built-in send manifest.
	SendManifestFile string

	// CollaboratorLog calls InitLog on the browser before the first scenario.
	CollaboratorLog bool

	// Transport selects the browser implementation.
	Transport string `validate:"eq=memory|eq=rpc"`

	// RPCURL is the debot host address used by the rpc transport.
	RPCURL string

	// Output selects where scenario lines go: stdout, the log (and so
	// its rotated file), or both.
	Output string `validate:"eq=stdout|eq=zap|eq=both"`

	// MetricsPort exposes prometheus metrics when non-zero.
	MetricsPort int `validate:"min=0,max=65535"`

	// LogSettings configures the harness logger.
	LogSettings logutils.LogSettings `validate:"structonly"`
}

// NewConfig creates a configuration with the devnet defaults.
// Important: the returned config is not validated.
func NewConfig() *Config {
	return &Config{
		Network:          DefaultNetwork,
		ProjectID:        DefaultProjectID,
		TestDebotAddress: DefaultTestDebotAddress,
		SendDebotAddress: DefaultSendDebotAddress,
		Wallet:           DefaultWallet,
		KeyPair:          DefaultKeyPair,
		RepeatCount:      DefaultRepeatCount,
		ParallelSessions: DefaultParallelSessions,
		Transport:        TransportMemory,
		Output:           OutputStdout,
		LogSettings:      logutils.DefaultLogSettings(),
	}
}

// NewConfigFromJSON parses incoming JSON on top of the defaults and
// validates the result.
func NewConfigFromJSON(configJSON string) (*Config, error) {
	config := NewConfig()
	if err := loadConfigFromJSON([]byte(configJSON), config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadConfigFromFile reads a JSON config file (comments allowed) on top of
// the defaults. The result is not validated, so that flags can still
// override it.
func LoadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	config := NewConfig()
	if err := loadConfigFromJSON(data, config); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

func loadConfigFromJSON(configJSON []byte, config *Config) error {
	decoder := json.NewDecoder(strings.NewReader(string(jsonc.ToJSON(configJSON))))
	decoder.DisallowUnknownFields()
	// override default configuration with values by JSON input
	return decoder.Decode(config)
}

// Validate checks if Config fields have valid values.
//
// A single error for a field has the following format:
//
//	Key: 'Config.Wallet' Error:Field validation for 'Wallet' failed on the 'tonaddr' tag
func (c *Config) Validate() error {
	validate, err := NewValidator()
	if err != nil {
		return err
	}

	if err := validate.Struct(c); err != nil {
		return err
	}

	if err := c.validateChildStructs(validate); err != nil {
		return err
	}

	if c.Endpoint == "" && c.Network == "" {
		return fmt.Errorf("either Network or Endpoint must be set")
	}

	if c.Transport == TransportRPC && c.RPCURL == "" {
		return fmt.Errorf("Transport is %q, but RPCURL is empty", TransportRPC)
	}

	if _, err := c.KeyPair.PrivateKey(); err != nil {
		return fmt.Errorf("KeyPair is invalid: %v", err)
	}

	return nil
}

func (c *Config) validateChildStructs(validate *validator.Validate) error {
	if err := validate.Struct(c.KeyPair); err != nil {
		return err
	}
	return validate.Struct(c.LogSettings)
}

// EndpointURL is the first argument passed to create and run calls.
func (c *Config) EndpointURL() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	if c.ProjectID != "" {
		return fmt.Sprintf("https://%s.evercloud.dev/%s/graphql", c.Network, c.ProjectID)
	}
	return c.Network
}

// PubKey is the user's public key in the 0x-prefixed form DeBots expect.
func (c *Config) PubKey() string {
	return "0x" + c.KeyPair.Public
}

// ScenarioNames returns the configured scenarios, or all of them.
func (c *Config) ScenarioNames() []string {
	if len(c.Scenarios) == 0 {
		return []string{ScenarioSingle, ScenarioRepeat, ScenarioParallel, ScenarioSigning}
	}
	return append([]string{}, c.Scenarios...)
}
