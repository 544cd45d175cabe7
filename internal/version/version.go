package version

const (
	AppName        = "bottemplate"
	AppVersion     = "0.1.0"
	AppDescription = "A template for Discord bots: command dispatch, permissions, cooldowns, paginated replies and pluggable storage."
)
