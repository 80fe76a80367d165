package params

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	validator "gopkg.in/go-playground/validator.v9"
)

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

type ConfigTestSuite struct {
	suite.Suite
	validate *validator.Validate
}

func (s *ConfigTestSuite) SetupTest() {
	var err error
	s.validate, err = NewValidator()
	require.NoError(s.T(), err, "NewValidator should not return error")
}

func (s *ConfigTestSuite) TestDefaultsAreValid() {
	config := NewConfig()
	s.Require().NoError(config.Validate())
	s.Equal([]string{ScenarioSingle, ScenarioRepeat, ScenarioParallel, ScenarioSigning}, config.ScenarioNames())
	s.Equal("https://devnet.evercloud.dev/"+DefaultProjectID+"/graphql", config.EndpointURL())
	s.Equal("0x"+DefaultKeyPair.Public, config.PubKey())
}

func (s *ConfigTestSuite) TestTonAddressTag() {
	type holder struct {
		Addr string `validate:"tonaddr"`
	}

	s.T().Run("Valid basechain address", func(t *testing.T) {
		require.NoError(t, s.validate.Struct(holder{DefaultWallet}))
	})
	s.T().Run("Valid masterchain address", func(t *testing.T) {
		require.NoError(t, s.validate.Struct(holder{"-1:" + DefaultKeyPair.Public}))
	})
	s.T().Run("Missing workchain", func(t *testing.T) {
		require.Error(t, s.validate.Struct(holder{DefaultKeyPair.Public}))
	})
	s.T().Run("Short account id", func(t *testing.T) {
		require.Error(t, s.validate.Struct(holder{"0:abcd"}))
	})
}

func (s *ConfigTestSuite) TestHexKeyTag() {
	type holder struct {
		Key string `validate:"hexkey"`
	}

	s.NoError(s.validate.Struct(holder{DefaultKeyPair.Secret}))
	s.Error(s.validate.Struct(holder{"0x" + DefaultKeyPair.Secret[2:]}))
	s.Error(s.validate.Struct(holder{DefaultKeyPair.Secret + "00"}))
}

func (s *ConfigTestSuite) TestValidateRejects() {
	testCases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"bad wallet", func(c *Config) { c.Wallet = "wallet" }},
		{"zero repeat count", func(c *Config) { c.RepeatCount = 0 }},
		{"zero parallel sessions", func(c *Config) { c.ParallelSessions = 0 }},
		{"unknown scenario", func(c *Config) { c.Scenarios = []string{"single", "dance"} }},
		{"unknown transport", func(c *Config) { c.Transport = "carrier-pigeon" }},
		{"rpc without url", func(c *Config) { c.Transport = TransportRPC }},
		{"no network nor endpoint", func(c *Config) { c.Network = ""; c.Endpoint = "" }},
		{"mismatching keypair", func(c *Config) { c.KeyPair.Public = DefaultKeyPair.Secret }},
		{"bad log level", func(c *Config) { c.LogSettings.Level = "TRACE" }},
		{"metrics port out of range", func(c *Config) { c.MetricsPort = 70000 }},
		{"unknown output", func(c *Config) { c.Output = "printer" }},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			config := NewConfig()
			tc.mutate(config)
			s.Error(config.Validate())
		})
	}
}

func (s *ConfigTestSuite) TestNewConfigFromJSON() {
	config, err := NewConfigFromJSON(`{
		"Network": "net.ton.dev",
		"ProjectID": "",
		"RepeatCount": 5,
		"Scenarios": ["repeat"],
		"LogSettings": {"Enabled": true, "Level": "DEBUG"}
	}`)
	s.Require().NoError(err)
	s.Equal(5, config.RepeatCount)
	s.Equal(DefaultParallelSessions, config.ParallelSessions)
	s.Equal([]string{ScenarioRepeat}, config.ScenarioNames())
	s.Equal("net.ton.dev", config.EndpointURL())
	s.Equal("DEBUG", config.LogSettings.Level)

	_, err = NewConfigFromJSON(`{"Unknown": 1}`)
	s.Error(err)

	_, err = NewConfigFromJSON(`{"RepeatCount": 0}`)
	s.Error(err)
}

func (s *ConfigTestSuite) TestLoadConfigFromFileWithComments() {
	path := filepath.Join(s.T().TempDir(), "config.json")
	s.Require().NoError(os.WriteFile(path, []byte(`{
		// local node
		"Network": "localhost",
		"Endpoint": "http://127.0.0.1/",
		"Transport": "rpc", /* not validated yet */
	}`), 0600))

	config, err := LoadConfigFromFile(path)
	s.Require().NoError(err)
	s.Equal("http://127.0.0.1/", config.EndpointURL())
	s.Equal(TransportRPC, config.Transport)
	// RPCURL is missing, flags may still provide it
	s.Error(config.Validate())
	config.RPCURL = "ws://127.0.0.1:8645"
	s.NoError(config.Validate())

	_, err = LoadConfigFromFile(filepath.Join(s.T().TempDir(), "missing.json"))
	s.Error(err)
}
