package scenario

import (
	"github.com/ever-guild/debot-harness/browser"
	"github.com/ever-guild/debot-harness/manifest"
	"github.com/ever-guild/debot-harness/params"
)

// Settings is everything the runner passes to the browser.
type Settings struct {
	// Network is only printed.
	Network  string
	Endpoint string

	TestDebot string
	SendDebot string
	Wallet    string
	PubKey    string
	KeyPair   browser.KeyPair

	RepeatCount      int
	ParallelSessions int

	TestManifest *manifest.Manifest
	SendManifest *manifest.Manifest

	// Scenarios to run, by name. Empty runs all of them.
	Scenarios []string
	// InitLog turns on the browser's own log before the first scenario.
	InitLog bool
}

// SettingsFromConfig resolves a validated config into runner settings.
// Built-in manifests are patched with the configured addresses and key,
// manifest files are used as they are.
func SettingsFromConfig(c *params.Config) (Settings, error) {
	s := Settings{
		Network:          c.Network,
		Endpoint:         c.EndpointURL(),
		TestDebot:        c.TestDebotAddress,
		SendDebot:        c.SendDebotAddress,
		Wallet:           c.Wallet,
		PubKey:           c.PubKey(),
		KeyPair:          c.KeyPair,
		RepeatCount:      c.RepeatCount,
		ParallelSessions: c.ParallelSessions,
		Scenarios:        c.ScenarioNames(),
		InitLog:          c.CollaboratorLog,
	}

	var err error
	if c.TestManifestFile != "" {
		s.TestManifest, err = manifest.Load(c.TestManifestFile)
	} else {
		s.TestManifest, err = manifest.Default(c.TestDebotAddress, s.PubKey)
	}
	if err != nil {
		return Settings{}, err
	}

	if c.SendManifestFile != "" {
		s.SendManifest, err = manifest.Load(c.SendManifestFile)
	} else {
		s.SendManifest, err = manifest.Send(c.SendDebotAddress)
	}
	if err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s Settings) enabled(name string) bool {
	if len(s.Scenarios) == 0 {
		return true
	}
	for _, n := range s.Scenarios {
		if n == name {
			return true
		}
	}
	return false
}
