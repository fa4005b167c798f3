// Package config loads cidlogsrv's runtime configuration from, in
// increasing precedence: compiled-in defaults, a .env file (via
// github.com/joho/godotenv), a HuJSON config file (via
// github.com/tailscale/hujson, tolerating comments and trailing commas),
// and command-line flags (via github.com/spf13/pflag). Later sources
// override earlier ones field by field.
//
// Grounded on the HuJSON-config-plus-precedence-chain pattern of the
// now-removed root-level ticket-tracker config loader (defaults → global
// config → project config → CLI overrides); godotenv and pflag are
// sourced from the example pack's go.mod files (ClusterCockpit-cc-backend,
// calvinalkan-agent-task) and wired in here since the original pattern
// only used HuJSON.
package config
