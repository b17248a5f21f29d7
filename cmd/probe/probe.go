package probe

import (
	"github.com/spf13/cobra"

	"github.com/SafeMPC/zklogin-service/internal/util/command"
)

const (
	verboseFlag string = "verbose"
)

// New 返回 probe 子命令分组
func New() *cobra.Command {
	return command.NewSubcommandGroup("probe",
		newLiveness(),
		newReadiness(),
	)
}
