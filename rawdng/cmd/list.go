package cmd

import (
	"github.com/camtools/rawdng/glog"
	"github.com/camtools/rawdng/mcraw"
	"github.com/camtools/rawdng/render"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the frames of a container as DNG file entries",
	Long:  ``,
	Run:   listFrames,
}

func init() {
	RootCmd.AddCommand(listCmd)
}

func listFrames(cmd *cobra.Command, args []string) {
	if len(input) == 0 {
		glog.Warning.Printf("%s", missingInput)
		return
	}
	d, err := mcraw.Open(input)
	if err != nil {
		glog.Error.Printf("%v", err)
		return
	}
	defer d.Close()

	entries := render.Catalog(d)
	for _, entry := range entries {
		if fe, ok := entry.(render.FrameEntry); ok {
			glog.Info.Printf("%s  timestamp: %d", fe.Name(), fe.Timestamp)
		}
	}
	glog.Info.Printf("Total number of frames: %d", len(entries)-1)
}
