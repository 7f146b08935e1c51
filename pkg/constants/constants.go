package constants

// Despite the package name these are vars, so that they can be updated at link time:
//
//	go build -ldflags "-X github.com/solidDoWant/quick-timer/pkg/constants.Version=v1.2.3"
var (
	ToolName = "quick-timer"
	Version  = "v0.1.0-dev"
)
