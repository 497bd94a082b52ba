package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(recordsCmd)
}

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "List the account's records without exporting anything.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		ws := fetchWorkspace(cmd.Context(), cfg)
		renderRecordList(ws)
		fmt.Printf("共 %d 条记录\n", len(ws.records))
	},
}
