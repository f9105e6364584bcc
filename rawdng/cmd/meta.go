package cmd

import (
	"fmt"

	"github.com/camtools/rawdng/glog"
	"github.com/camtools/rawdng/mcraw"
	"github.com/spf13/cobra"
)

var (
	frameTS int64

	metaCmd = &cobra.Command{
		Use:   "meta",
		Short: "Print container metadata, or one frame's metadata with --timestamp",
		Long:  ``,
		Run:   printMeta,
	}
)

func init() {
	metaCmd.Flags().Int64VarP(&frameTS, "timestamp", "t", -1, "print the metadata of the frame with this timestamp")
	RootCmd.AddCommand(metaCmd)
}

func printMeta(cmd *cobra.Command, args []string) {
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

	if frameTS < 0 {
		fmt.Println(d.ContainerMetadata())
		return
	}
	metaJSON, err := d.FrameMetadata(frameTS)
	if err != nil {
		glog.Error.Printf("%v", err)
		return
	}
	fmt.Println(metaJSON)
}
