package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/gcingest/internal/format"
	"github.com/crimson-sun/gcingest/internal/model"
)

var collectorsShown = []model.CollectorType{
	model.CollectorSerial,
	model.CollectorParallel,
	model.CollectorCMS,
	model.CollectorG1,
}

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the log layout used for each VM version and collector",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), renderFormats(formatRows()))
		},
	}
}

// formatRows returns one row per VM version: the version followed by the
// layout for each entry of collectorsShown.
func formatRows() [][]string {
	byCollector := make([]map[model.VMVersion]format.LogType, len(collectorsShown))
	for i, c := range collectorsShown {
		byCollector[i] = format.Supported(c)
	}

	var rows [][]string
	for vm := model.HotSpot122; vm <= model.HotSpot19; vm++ {
		row := []string{vm.String()}
		for _, supported := range byCollector {
			lt, ok := supported[vm]
			if !ok {
				row = append(row, "-")
				continue
			}
			row = append(row, string(lt))
		}
		rows = append(rows, row)
	}
	return rows
}
