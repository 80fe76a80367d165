package params

// Version is the harness version. Release builds override it with
// -ldflags "-X github.com/ever-guild/debot-harness/params.Version=...".
var Version = "0.1.0"
