package cmd

import (
	"os"
	"path/filepath"

	"github.com/camtools/rawdng/glog"
	"github.com/camtools/rawdng/mcraw"
	"github.com/camtools/rawdng/render"
	"github.com/spf13/cobra"
)

var (
	odir      string
	frameIdx  int
	bigEndian bool
	capacity  int

	extractCmd = &cobra.Command{
		Use:   "extract",
		Short: "Encode container frames to .dng files in a directory",
		Long:  ``,
		Run:   extractFrames,
	}
)

func init() {
	extractCmd.Flags().StringVarP(&odir, "odir", "o", ".", "output directory for the .dng files")
	extractCmd.Flags().IntVarP(&frameIdx, "frame", "n", -1, "extract only the frame with this index")
	extractCmd.Flags().BoolVarP(&bigEndian, "big-endian", "B", false, "write big-endian DNG files")
	extractCmd.Flags().IntVarP(&capacity, "cache", "C", 0, "encoded frame cache capacity, 0 selects the default")
	RootCmd.AddCommand(extractCmd)
}

func extractFrames(cmd *cobra.Command, args []string) {
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

	meta, err := mcraw.ParseContainerMetadata(d.ContainerMetadata())
	if err != nil {
		glog.Error.Printf("%v", err)
		return
	}
	if err := os.MkdirAll(odir, 0755); err != nil {
		glog.Error.Printf("%v", err)
		return
	}

	enc := render.NewEncoder(meta, render.BigEndian(bigEndian))
	cache := render.NewCache(d, enc, capacity)

	var written int
	for _, entry := range render.Catalog(d) {
		fe, ok := entry.(render.FrameEntry)
		if !ok {
			continue
		}
		if frameIdx >= 0 && fe.Index != frameIdx {
			continue
		}
		buf, err := cache.Frame(fe.Timestamp)
		if err != nil {
			glog.Error.Printf("frame %d: %v", fe.Index, err)
			continue
		}
		path := filepath.Join(odir, fe.Name())
		if err := os.WriteFile(path, buf, 0644); err != nil {
			glog.Error.Printf("%v", err)
			return
		}
		glog.Info.Printf("%s  %d bytes", path, len(buf))
		written++
	}
	glog.Info.Printf("Total number of frames written: %d", written)
}
